package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sportdata-hub/internal/domain/scorecard"
	qb "github.com/riskibarqy/sportdata-hub/internal/platform/querybuilder"
)

type DismissalTypeRepository struct {
	db *sqlx.DB
}

func NewDismissalTypeRepository(db *sqlx.DB) *DismissalTypeRepository {
	return &DismissalTypeRepository{db: db}
}

func (r *DismissalTypeRepository) List(ctx context.Context) ([]scorecard.DismissalType, error) {
	query, args, err := qb.Select("public_id", "name", "kind").From("dismissal_types").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list dismissal types query: %w", err)
	}

	var rows []dismissalTypeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list dismissal types: %w", err)
	}
	out := make([]scorecard.DismissalType, 0, len(rows))
	for _, row := range rows {
		out = append(out, scorecard.DismissalType{
			ID:   row.PublicID,
			Name: row.Name,
			Kind: scorecard.DismissalKind(row.Kind),
		})
	}
	return out, nil
}

func (r *DismissalTypeRepository) GetByID(ctx context.Context, id string) (scorecard.DismissalType, bool, error) {
	query, args, err := qb.Select("public_id", "name", "kind").From("dismissal_types").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return scorecard.DismissalType{}, false, fmt.Errorf("build select dismissal type query: %w", err)
	}

	var row dismissalTypeTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return scorecard.DismissalType{}, false, nil
		}
		return scorecard.DismissalType{}, false, fmt.Errorf("select dismissal type id=%s: %w", id, err)
	}
	return scorecard.DismissalType{
		ID:   row.PublicID,
		Name: row.Name,
		Kind: scorecard.DismissalKind(row.Kind),
	}, true, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sportdata-hub/internal/domain/sport"
	"github.com/riskibarqy/sportdata-hub/internal/domain/tournament"
	qb "github.com/riskibarqy/sportdata-hub/internal/platform/querybuilder"
)

type TournamentRepository struct {
	db *sqlx.DB
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

func (r *TournamentRepository) Create(ctx context.Context, t tournament.Tournament) error {
	query, args, err := qb.InsertModel("tournaments", tournamentInsertModel{
		PublicID:  t.ID,
		Sport:     string(t.Sport),
		Name:      t.Name,
		Location:  t.Location,
		StartDate: t.StartDate.UTC(),
		EndDate:   t.EndDate.UTC(),
		Status:    string(t.Status),
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt.UTC(),
		UpdatedAt: t.UpdatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("build insert tournament query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert tournament id=%s: %w", t.ID, err)
	}
	return nil
}

func (r *TournamentRepository) GetByID(ctx context.Context, id string) (tournament.Tournament, bool, error) {
	query, args, err := qb.Select("*").From("tournaments").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("build select tournament query: %w", err)
	}

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("select tournament id=%s: %w", id, err)
	}
	return tournamentFromRow(row), true, nil
}

func (r *TournamentRepository) List(ctx context.Context, filter tournament.ListFilter) ([]tournament.Tournament, error) {
	conds := []qb.Condition{qb.IsNull("deleted_at")}
	if filter.Sport != "" {
		conds = append(conds, qb.Eq("sport", string(filter.Sport)))
	}
	if filter.CreatedBy != "" {
		conds = append(conds, qb.Eq("created_by", filter.CreatedBy))
	}
	if filter.Status != "" {
		conds = append(conds, qb.Eq("status", string(filter.Status)))
	}

	query, args, err := qb.Select("*").From("tournaments").
		Where(conds...).
		OrderBy("created_at DESC", "public_id").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tournaments query: %w", err)
	}

	var rows []tournamentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		out = append(out, tournamentFromRow(row))
	}
	return out, nil
}

func (r *TournamentRepository) Update(ctx context.Context, t tournament.Tournament) error {
	query, args, err := qb.Update("tournaments").
		Set("name", t.Name).
		Set("location", t.Location).
		Set("start_date", t.StartDate.UTC()).
		Set("end_date", t.EndDate.UTC()).
		Set("status", string(t.Status)).
		Set("updated_at", t.UpdatedAt.UTC()).
		Where(
			qb.Eq("public_id", t.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update tournament query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update tournament id=%s: %w", t.ID, err)
	}
	return nil
}

func (r *TournamentRepository) Delete(ctx context.Context, id string) error {
	query, args, err := qb.Update("tournaments").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete tournament query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("soft delete tournament id=%s: %w", id, err)
	}
	return nil
}

func tournamentFromRow(row tournamentTableModel) tournament.Tournament {
	return tournament.Tournament{
		ID:        row.PublicID,
		Sport:     sport.Sport(row.Sport),
		Name:      row.Name,
		Location:  row.Location,
		StartDate: row.StartDate.UTC(),
		EndDate:   row.EndDate.UTC(),
		Status:    tournament.Status(row.Status),
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

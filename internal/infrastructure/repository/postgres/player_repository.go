package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sportdata-hub/internal/domain/player"
	"github.com/riskibarqy/sportdata-hub/internal/domain/sport"
	qb "github.com/riskibarqy/sportdata-hub/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) error {
	query, args, err := qb.InsertModel("players", playerInsertModel{
		PublicID:     p.ID,
		Sport:        string(p.Sport),
		Name:         p.Name,
		Role:         p.Role,
		JerseyNumber: p.JerseyNumber,
		ImageURL:     p.ImageURL,
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt.UTC(),
		UpdatedAt:    p.UpdatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("build insert player query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert player id=%s: %w", p.ID, err)
	}
	return nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player id=%s: %w", id, err)
	}
	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, ids []string) ([]player.Player, error) {
	if len(ids) == 0 {
		return []player.Player{}, nil
	}
	return r.List(ctx, player.ListFilter{IDs: ids})
}

func (r *PlayerRepository) List(ctx context.Context, filter player.ListFilter) ([]player.Player, error) {
	conds := []qb.Condition{qb.IsNull("deleted_at")}
	if filter.Sport != "" {
		conds = append(conds, qb.Eq("sport", string(filter.Sport)))
	}
	if filter.CreatedBy != "" {
		conds = append(conds, qb.Eq("created_by", filter.CreatedBy))
	}
	if len(filter.IDs) > 0 {
		conds = append(conds, qb.In("public_id", anyStrings(filter.IDs)))
	}

	query, args, err := qb.Select("*").From("players").
		Where(conds...).
		OrderBy("created_at DESC", "public_id").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func (r *PlayerRepository) Update(ctx context.Context, p player.Player) error {
	query, args, err := qb.Update("players").
		Set("name", p.Name).
		Set("role", p.Role).
		Set("jersey_number", p.JerseyNumber).
		Set("image_url", p.ImageURL).
		Set("updated_at", p.UpdatedAt.UTC()).
		Where(
			qb.Eq("public_id", p.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update player query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update player id=%s: %w", p.ID, err)
	}
	return nil
}

func (r *PlayerRepository) Delete(ctx context.Context, id string) error {
	query, args, err := qb.Update("players").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete player query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("soft delete player id=%s: %w", id, err)
	}
	return nil
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:           row.PublicID,
		Sport:        sport.Sport(row.Sport),
		Name:         row.Name,
		Role:         row.Role,
		JerseyNumber: row.JerseyNumber,
		ImageURL:     row.ImageURL,
		CreatedBy:    row.CreatedBy,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
}

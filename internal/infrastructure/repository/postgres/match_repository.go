package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sportdata-hub/internal/domain/match"
	"github.com/riskibarqy/sportdata-hub/internal/domain/sport"
	qb "github.com/riskibarqy/sportdata-hub/internal/platform/querybuilder"
)

// MatchRepository stores matches and their scoring sheets. Sheet writes are
// guarded by the version column.
type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Create(ctx context.Context, m match.Match, sheet match.Sheet) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for match create: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	model, err := matchInsertFromDomain(m)
	if err != nil {
		return err
	}
	query, args, err := qb.InsertModel("matches", model)
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match id=%s: %w", m.ID, err)
	}
	if err := upsertSheet(ctx, tx, sheet); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match create tx: %w", err)
	}
	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("select match id=%s: %w", id, err)
	}
	m, err := matchFromRow(row)
	if err != nil {
		return match.Match{}, false, err
	}
	return m, true, nil
}

func (r *MatchRepository) List(ctx context.Context, filter match.ListFilter) ([]match.Match, error) {
	conds := []qb.Condition{qb.IsNull("deleted_at")}
	if filter.Sport != "" {
		conds = append(conds, qb.Eq("sport", string(filter.Sport)))
	}
	if filter.CreatedBy != "" {
		conds = append(conds, qb.Eq("created_by", filter.CreatedBy))
	}
	if filter.TournamentID != "" {
		conds = append(conds, qb.Eq("tournament_public_id", filter.TournamentID))
	}
	if filter.TeamID != "" {
		conds = append(conds, qb.Expr("(home_team_public_id = ? OR away_team_public_id = ?)", filter.TeamID, filter.TeamID))
	}
	if filter.Status != "" {
		conds = append(conds, qb.Eq("status", string(filter.Status)))
	}

	query, args, err := qb.Select("*").From("matches").
		Where(conds...).
		OrderBy("created_at DESC", "public_id").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		m, err := matchFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *MatchRepository) Update(ctx context.Context, m match.Match, sheet *match.Sheet) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for match update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	home, err := encodeRoster(m.HomeRoster)
	if err != nil {
		return fmt.Errorf("encode home roster match=%s: %w", m.ID, err)
	}
	away, err := encodeRoster(m.AwayRoster)
	if err != nil {
		return fmt.Errorf("encode away roster match=%s: %w", m.ID, err)
	}

	query, args, err := qb.Update("matches").
		Set("tournament_public_id", toNullString(m.TournamentID)).
		Set("home_team_public_id", m.HomeTeamID).
		Set("away_team_public_id", m.AwayTeamID).
		Set("venue", m.Venue).
		Set("scheduled_at", toNullTime(m.ScheduledAt)).
		Set("status", string(m.Status)).
		Set("result_note", m.ResultNote).
		Set("home_roster", home).
		Set("away_roster", away).
		Set("updated_at", m.UpdatedAt.UTC()).
		Where(
			qb.Eq("public_id", m.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update match id=%s: %w", m.ID, err)
	}
	if sheet != nil {
		if err := upsertSheet(ctx, tx, *sheet); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match update tx: %w", err)
	}
	return nil
}

func (r *MatchRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for match delete: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.Update("matches").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("soft delete match id=%s: %w", id, err)
	}

	query, args, err = qb.DeleteFrom("match_sheets").
		Where(qb.Eq("match_public_id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match sheet query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete match sheet match=%s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match delete tx: %w", err)
	}
	return nil
}

func (r *MatchRepository) ExistsForTeam(ctx context.Context, teamID string) (bool, error) {
	query, args, err := qb.Select("1").From("matches").
		Where(
			qb.IsNull("deleted_at"),
			qb.Expr("(home_team_public_id = ? OR away_team_public_id = ?)", teamID, teamID),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build match exists for team query: %w", err)
	}

	var found int
	if err := r.db.GetContext(ctx, &found, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("check matches for team=%s: %w", teamID, err)
	}
	return true, nil
}

func (r *MatchRepository) GetSheet(ctx context.Context, matchID string) (match.Sheet, bool, error) {
	query, args, err := qb.Select("*").From("match_sheets").
		Where(qb.Eq("match_public_id", matchID)).
		ToSQL()
	if err != nil {
		return match.Sheet{}, false, fmt.Errorf("build select match sheet query: %w", err)
	}

	var row matchSheetTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Sheet{}, false, nil
		}
		return match.Sheet{}, false, fmt.Errorf("select match sheet match=%s: %w", matchID, err)
	}
	return match.Sheet{
		MatchID:   row.MatchID,
		Sport:     sport.Sport(row.Sport),
		Document:  row.Document,
		Version:   row.Version,
		UpdatedAt: row.UpdatedAt.UTC(),
	}, true, nil
}

func (r *MatchRepository) SaveSheet(ctx context.Context, sheet match.Sheet, expectedVersion int64) error {
	query, args, err := qb.Update("match_sheets").
		Set("document", string(sheet.Document)).
		Set("version", sheet.Version).
		Set("updated_at", sheet.UpdatedAt.UTC()).
		Where(
			qb.Eq("match_public_id", sheet.MatchID),
			qb.Eq("version", expectedVersion),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build save match sheet query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save match sheet match=%s: %w", sheet.MatchID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read saved match sheet rows match=%s: %w", sheet.MatchID, err)
	}
	if affected == 0 {
		return match.ErrSheetVersionConflict
	}
	return nil
}

func upsertSheet(ctx context.Context, tx *sqlx.Tx, sheet match.Sheet) error {
	query, args, err := qb.UpsertModel("match_sheets", matchSheetInsertModel{
		MatchID:   sheet.MatchID,
		Sport:     string(sheet.Sport),
		Document:  string(sheet.Document),
		Version:   sheet.Version,
		UpdatedAt: sheet.UpdatedAt.UTC(),
	}, "match_public_id")
	if err != nil {
		return fmt.Errorf("build upsert match sheet query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert match sheet match=%s: %w", sheet.MatchID, err)
	}
	return nil
}

func matchInsertFromDomain(m match.Match) (matchInsertModel, error) {
	home, err := encodeRoster(m.HomeRoster)
	if err != nil {
		return matchInsertModel{}, fmt.Errorf("encode home roster match=%s: %w", m.ID, err)
	}
	away, err := encodeRoster(m.AwayRoster)
	if err != nil {
		return matchInsertModel{}, fmt.Errorf("encode away roster match=%s: %w", m.ID, err)
	}
	return matchInsertModel{
		PublicID:     m.ID,
		Sport:        string(m.Sport),
		TournamentID: toNullString(m.TournamentID),
		HomeTeamID:   m.HomeTeamID,
		AwayTeamID:   m.AwayTeamID,
		Venue:        m.Venue,
		ScheduledAt:  toNullTime(m.ScheduledAt),
		Status:       string(m.Status),
		ResultNote:   m.ResultNote,
		HomeRoster:   home,
		AwayRoster:   away,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}, nil
}

func matchFromRow(row matchTableModel) (match.Match, error) {
	home, err := decodeRoster(row.HomeRoster)
	if err != nil {
		return match.Match{}, fmt.Errorf("decode home roster match=%s: %w", row.PublicID, err)
	}
	away, err := decodeRoster(row.AwayRoster)
	if err != nil {
		return match.Match{}, fmt.Errorf("decode away roster match=%s: %w", row.PublicID, err)
	}
	return match.Match{
		ID:           row.PublicID,
		Sport:        sport.Sport(row.Sport),
		TournamentID: nullStringValue(row.TournamentID),
		HomeTeamID:   row.HomeTeamID,
		AwayTeamID:   row.AwayTeamID,
		Venue:        row.Venue,
		ScheduledAt:  nullTimeValue(row.ScheduledAt),
		Status:       match.Status(row.Status),
		ResultNote:   row.ResultNote,
		HomeRoster:   home,
		AwayRoster:   away,
		CreatedBy:    row.CreatedBy,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}, nil
}

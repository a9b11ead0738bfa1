package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sportdata-hub/internal/domain/sport"
	"github.com/riskibarqy/sportdata-hub/internal/domain/team"
	qb "github.com/riskibarqy/sportdata-hub/internal/platform/querybuilder"
)

// TeamRepository stores teams with their ordered squad in team_players.
type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(ctx context.Context, t team.Team) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for team create: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertModel("teams", teamInsertModel{
		PublicID:     t.ID,
		Sport:        string(t.Sport),
		Name:         t.Name,
		ShortName:    t.ShortName,
		LogoURL:      t.LogoURL,
		TournamentID: toNullString(t.TournamentID),
		CreatedBy:    t.CreatedBy,
		CreatedAt:    t.CreatedAt.UTC(),
		UpdatedAt:    t.UpdatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("build insert team query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert team id=%s: %w", t.ID, err)
	}
	if err := replaceSquad(ctx, tx, t.ID, t.PlayerIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team create tx: %w", err)
	}
	return nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team id=%s: %w", id, err)
	}

	squads, err := r.loadSquads(ctx, []string{row.PublicID})
	if err != nil {
		return team.Team{}, false, err
	}
	return teamFromRow(row, squads[row.PublicID]), true, nil
}

func (r *TeamRepository) List(ctx context.Context, filter team.ListFilter) ([]team.Team, error) {
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

	query, args, err := qb.Select("*").From("teams").
		Where(conds...).
		OrderBy("created_at DESC", "public_id").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.PublicID)
	}
	squads, err := r.loadSquads(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row, squads[row.PublicID]))
	}
	return out, nil
}

func (r *TeamRepository) Update(ctx context.Context, t team.Team) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for team update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.Update("teams").
		Set("name", t.Name).
		Set("short_name", t.ShortName).
		Set("logo_url", t.LogoURL).
		Set("tournament_public_id", toNullString(t.TournamentID)).
		Set("updated_at", t.UpdatedAt.UTC()).
		Where(
			qb.Eq("public_id", t.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update team id=%s: %w", t.ID, err)
	}
	if err := replaceSquad(ctx, tx, t.ID, t.PlayerIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team update tx: %w", err)
	}
	return nil
}

func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for team delete: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.Update("teams").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete team query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("soft delete team id=%s: %w", id, err)
	}
	if err := replaceSquad(ctx, tx, id, nil); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team delete tx: %w", err)
	}
	return nil
}

func (r *TeamRepository) loadSquads(ctx context.Context, teamIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(teamIDs))
	if len(teamIDs) == 0 {
		return out, nil
	}

	query, args, err := qb.Select("team_public_id", "player_public_id").From("team_players").
		Where(qb.In("team_public_id", anyStrings(teamIDs))).
		OrderBy("team_public_id", "position").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team players query: %w", err)
	}

	var rows []struct {
		TeamID   string `db:"team_public_id"`
		PlayerID string `db:"player_public_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team players: %w", err)
	}
	for _, row := range rows {
		out[row.TeamID] = append(out[row.TeamID], row.PlayerID)
	}
	return out, nil
}

func replaceSquad(ctx context.Context, tx *sqlx.Tx, teamID string, playerIDs []string) error {
	query, args, err := qb.DeleteFrom("team_players").
		Where(qb.Eq("team_public_id", teamID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear team players query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear team players team=%s: %w", teamID, err)
	}
	if len(playerIDs) == 0 {
		return nil
	}

	insert := qb.InsertInto("team_players").Columns("team_public_id", "player_public_id", "position")
	for i, playerID := range playerIDs {
		row := teamPlayerInsertModel{TeamID: teamID, PlayerID: playerID, Position: i}
		insert = insert.Values(row.TeamID, row.PlayerID, row.Position)
	}
	query, args, err = insert.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert team players query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("duplicate player in squad team=%s: %w", teamID, err)
		}
		return fmt.Errorf("insert team players team=%s: %w", teamID, err)
	}
	return nil
}

func teamFromRow(row teamTableModel, playerIDs []string) team.Team {
	if playerIDs == nil {
		playerIDs = []string{}
	}
	return team.Team{
		ID:           row.PublicID,
		Sport:        sport.Sport(row.Sport),
		Name:         row.Name,
		ShortName:    row.ShortName,
		LogoURL:      row.LogoURL,
		TournamentID: nullStringValue(row.TournamentID),
		PlayerIDs:    playerIDs,
		CreatedBy:    row.CreatedBy,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
}

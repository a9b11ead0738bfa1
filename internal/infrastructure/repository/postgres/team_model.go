package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	ID           int64          `db:"id"`
	PublicID     string         `db:"public_id"`
	Sport        string         `db:"sport"`
	Name         string         `db:"name"`
	ShortName    string         `db:"short_name"`
	LogoURL      string         `db:"logo_url"`
	TournamentID sql.NullString `db:"tournament_public_id"`
	CreatedBy    string         `db:"created_by"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	DeletedAt    *time.Time     `db:"deleted_at"`
}

type teamInsertModel struct {
	PublicID     string         `db:"public_id"`
	Sport        string         `db:"sport"`
	Name         string         `db:"name"`
	ShortName    string         `db:"short_name"`
	LogoURL      string         `db:"logo_url"`
	TournamentID sql.NullString `db:"tournament_public_id"`
	CreatedBy    string         `db:"created_by"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

type teamPlayerInsertModel struct {
	TeamID   string `db:"team_public_id"`
	PlayerID string `db:"player_public_id"`
	Position int    `db:"position"`
}

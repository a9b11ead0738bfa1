package postgres

import (
	"database/sql"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/sportdata-hub/internal/domain/match"
)

type matchTableModel struct {
	ID           int64          `db:"id"`
	PublicID     string         `db:"public_id"`
	Sport        string         `db:"sport"`
	TournamentID sql.NullString `db:"tournament_public_id"`
	HomeTeamID   string         `db:"home_team_public_id"`
	AwayTeamID   string         `db:"away_team_public_id"`
	Venue        string         `db:"venue"`
	ScheduledAt  sql.NullTime   `db:"scheduled_at"`
	Status       string         `db:"status"`
	ResultNote   string         `db:"result_note"`
	HomeRoster   []byte         `db:"home_roster"`
	AwayRoster   []byte         `db:"away_roster"`
	CreatedBy    string         `db:"created_by"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	DeletedAt    *time.Time     `db:"deleted_at"`
}

type matchInsertModel struct {
	PublicID     string         `db:"public_id"`
	Sport        string         `db:"sport"`
	TournamentID sql.NullString `db:"tournament_public_id"`
	HomeTeamID   string         `db:"home_team_public_id"`
	AwayTeamID   string         `db:"away_team_public_id"`
	Venue        string         `db:"venue"`
	ScheduledAt  sql.NullTime   `db:"scheduled_at"`
	Status       string         `db:"status"`
	ResultNote   string         `db:"result_note"`
	HomeRoster   string         `db:"home_roster"`
	AwayRoster   string         `db:"away_roster"`
	CreatedBy    string         `db:"created_by"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

type matchSheetTableModel struct {
	MatchID   string    `db:"match_public_id"`
	Sport     string    `db:"sport"`
	Document  []byte    `db:"document"`
	Version   int64     `db:"version"`
	UpdatedAt time.Time `db:"updated_at"`
}

type matchSheetInsertModel struct {
	MatchID   string    `db:"match_public_id"`
	Sport     string    `db:"sport"`
	Document  string    `db:"document"`
	Version   int64     `db:"version"`
	UpdatedAt time.Time `db:"updated_at"`
}

type rosterEntryModel struct {
	PlayerID  string `json:"playerId"`
	IsPlaying bool   `json:"isPlaying"`
}

func encodeRoster(entries []match.RosterEntry) (string, error) {
	rows := make([]rosterEntryModel, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, rosterEntryModel{PlayerID: e.PlayerID, IsPlaying: e.IsPlaying})
	}
	raw, err := sonic.MarshalString(rows)
	if err != nil {
		return "", err
	}
	return raw, nil
}

func decodeRoster(raw []byte) ([]match.RosterEntry, error) {
	if len(raw) == 0 {
		return []match.RosterEntry{}, nil
	}
	var rows []rosterEntryModel
	if err := sonic.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	out := make([]match.RosterEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, match.RosterEntry{PlayerID: r.PlayerID, IsPlaying: r.IsPlaying})
	}
	return out, nil
}

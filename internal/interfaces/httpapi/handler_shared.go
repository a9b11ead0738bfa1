package httpapi

import (
	"time"

	"github.com/riskibarqy/sportdata-hub/internal/domain/match"
	"github.com/riskibarqy/sportdata-hub/internal/domain/player"
	"github.com/riskibarqy/sportdata-hub/internal/domain/scorecard"
	"github.com/riskibarqy/sportdata-hub/internal/domain/team"
	"github.com/riskibarqy/sportdata-hub/internal/domain/tournament"
)

const dateLayout = "2006-01-02"

type createTournamentRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	Location  string `json:"location" validate:"omitempty,max=120"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
	Status    string `json:"status" validate:"omitempty"`
}

type updateTournamentRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=120"`
	Location  *string `json:"location" validate:"omitempty,max=120"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Status    *string `json:"status"`
}

type createTeamRequest struct {
	Name         string   `json:"name" validate:"required,max=100"`
	ShortName    string   `json:"shortName" validate:"omitempty,max=10"`
	LogoURL      string   `json:"logoUrl" validate:"omitempty,url"`
	TournamentID string   `json:"tournamentId"`
	PlayerIDs    []string `json:"playerIds" validate:"omitempty,dive,required"`
}

type updateTeamRequest struct {
	Name         *string   `json:"name" validate:"omitempty,max=100"`
	ShortName    *string   `json:"shortName" validate:"omitempty,max=10"`
	LogoURL      *string   `json:"logoUrl" validate:"omitempty,url"`
	TournamentID *string   `json:"tournamentId"`
	PlayerIDs    *[]string `json:"playerIds" validate:"omitempty,dive,required"`
}

type createPlayerRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Role         string `json:"role" validate:"omitempty,max=50"`
	JerseyNumber int    `json:"jerseyNumber"`
	ImageURL     string `json:"imageUrl" validate:"omitempty,url"`
}

type updatePlayerRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=100"`
	Role         *string `json:"role" validate:"omitempty,max=50"`
	JerseyNumber *int    `json:"jerseyNumber"`
	ImageURL     *string `json:"imageUrl" validate:"omitempty,url"`
}

type rosterEntryRequest struct {
	PlayerID  string `json:"playerId" validate:"required"`
	IsPlaying bool   `json:"isPlaying"`
}

type createMatchRequest struct {
	TournamentID string               `json:"tournamentId"`
	HomeTeamID   string               `json:"homeTeamId" validate:"required"`
	AwayTeamID   string               `json:"awayTeamId" validate:"required"`
	Venue        string               `json:"venue" validate:"omitempty,max=200"`
	ScheduledAt  string               `json:"scheduledAt"`
	HomeRoster   []rosterEntryRequest `json:"homeRoster" validate:"omitempty,dive"`
	AwayRoster   []rosterEntryRequest `json:"awayRoster" validate:"omitempty,dive"`
}

type updateMatchRequest struct {
	TournamentID *string               `json:"tournamentId"`
	Venue        *string               `json:"venue" validate:"omitempty,max=200"`
	ScheduledAt  *string               `json:"scheduledAt"`
	HomeRoster   *[]rosterEntryRequest `json:"homeRoster" validate:"omitempty,dive"`
	AwayRoster   *[]rosterEntryRequest `json:"awayRoster" validate:"omitempty,dive"`
}

type updateMatchStatusRequest struct {
	Status     string `json:"status" validate:"required"`
	ResultNote string `json:"resultNote" validate:"omitempty,max=300"`
}

type wicketRequest struct {
	PlayerOutID     string `json:"playerOutId" validate:"required"`
	FielderID       string `json:"fielderId"`
	DismissalTypeID string `json:"dismissalTypeId" validate:"required"`
}

type deliveryRequest struct {
	StrikerID    string         `json:"strikerId" validate:"required"`
	NonStrikerID string         `json:"nonStrikerId" validate:"required"`
	BowlerID     string         `json:"bowlerId" validate:"required"`
	Runs         int            `json:"runs" validate:"min=0,max=7"`
	Extra        string         `json:"extra" validate:"omitempty,oneof=wide no_ball bye leg_bye"`
	Boundary     bool           `json:"boundary"`
	Wicket       *wicketRequest `json:"wicket"`
}

type matchEventRequest struct {
	Type      string `json:"type" validate:"required"`
	PlayerID  string `json:"playerId" validate:"required"`
	Points    int    `json:"points" validate:"min=0,max=3"`
	Made      bool   `json:"made"`
	Offensive bool   `json:"offensive"`
}

type substitutionRequest struct {
	PlayerOutID string `json:"playerOutId" validate:"required"`
	PlayerInID  string `json:"playerInId" validate:"required"`
}

type tournamentDTO struct {
	ID        string `json:"id"`
	Sport     string `json:"sport"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Status    string `json:"status"`
	CreatedBy string `json:"createdBy"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type teamDTO struct {
	ID           string   `json:"id"`
	Sport        string   `json:"sport"`
	Name         string   `json:"name"`
	ShortName    string   `json:"shortName"`
	LogoURL      string   `json:"logoUrl"`
	TournamentID string   `json:"tournamentId,omitempty"`
	PlayerIDs    []string `json:"playerIds"`
	CreatedBy    string   `json:"createdBy"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    string   `json:"updatedAt"`
}

type playerDTO struct {
	ID           string `json:"id"`
	Sport        string `json:"sport"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	JerseyNumber int    `json:"jerseyNumber"`
	ImageURL     string `json:"imageUrl"`
	CreatedBy    string `json:"createdBy"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

type rosterEntryDTO struct {
	PlayerID  string `json:"playerId"`
	IsPlaying bool   `json:"isPlaying"`
}

type matchDTO struct {
	ID           string           `json:"id"`
	Sport        string           `json:"sport"`
	TournamentID string           `json:"tournamentId,omitempty"`
	HomeTeamID   string           `json:"homeTeamId"`
	AwayTeamID   string           `json:"awayTeamId"`
	Venue        string           `json:"venue"`
	ScheduledAt  string           `json:"scheduledAt,omitempty"`
	Status       string           `json:"status"`
	ResultNote   string           `json:"resultNote,omitempty"`
	HomeRoster   []rosterEntryDTO `json:"homeRoster"`
	AwayRoster   []rosterEntryDTO `json:"awayRoster"`
	CreatedBy    string           `json:"createdBy"`
	CreatedAt    string           `json:"createdAt"`
	UpdatedAt    string           `json:"updatedAt"`
}

type dismissalTypeDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func formatTimestamp(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

func tournamentToDTO(v tournament.Tournament) tournamentDTO {
	return tournamentDTO{
		ID:        v.ID,
		Sport:     v.Sport.String(),
		Name:      v.Name,
		Location:  v.Location,
		StartDate: v.StartDate.Format(dateLayout),
		EndDate:   v.EndDate.Format(dateLayout),
		Status:    string(v.Status),
		CreatedBy: v.CreatedBy,
		CreatedAt: formatTimestamp(v.CreatedAt),
		UpdatedAt: formatTimestamp(v.UpdatedAt),
	}
}

func teamToDTO(v team.Team) teamDTO {
	playerIDs := v.PlayerIDs
	if playerIDs == nil {
		playerIDs = []string{}
	}
	return teamDTO{
		ID:           v.ID,
		Sport:        v.Sport.String(),
		Name:         v.Name,
		ShortName:    v.ShortName,
		LogoURL:      v.LogoURL,
		TournamentID: v.TournamentID,
		PlayerIDs:    playerIDs,
		CreatedBy:    v.CreatedBy,
		CreatedAt:    formatTimestamp(v.CreatedAt),
		UpdatedAt:    formatTimestamp(v.UpdatedAt),
	}
}

func playerToDTO(v player.Player) playerDTO {
	return playerDTO{
		ID:           v.ID,
		Sport:        v.Sport.String(),
		Name:         v.Name,
		Role:         v.Role,
		JerseyNumber: v.JerseyNumber,
		ImageURL:     v.ImageURL,
		CreatedBy:    v.CreatedBy,
		CreatedAt:    formatTimestamp(v.CreatedAt),
		UpdatedAt:    formatTimestamp(v.UpdatedAt),
	}
}

func rosterToDTO(roster []match.RosterEntry) []rosterEntryDTO {
	out := make([]rosterEntryDTO, 0, len(roster))
	for _, e := range roster {
		out = append(out, rosterEntryDTO{PlayerID: e.PlayerID, IsPlaying: e.IsPlaying})
	}
	return out
}

func matchToDTO(v match.Match) matchDTO {
	return matchDTO{
		ID:           v.ID,
		Sport:        v.Sport.String(),
		TournamentID: v.TournamentID,
		HomeTeamID:   v.HomeTeamID,
		AwayTeamID:   v.AwayTeamID,
		Venue:        v.Venue,
		ScheduledAt:  formatTimestamp(v.ScheduledAt),
		Status:       string(v.Status),
		ResultNote:   v.ResultNote,
		HomeRoster:   rosterToDTO(v.HomeRoster),
		AwayRoster:   rosterToDTO(v.AwayRoster),
		CreatedBy:    v.CreatedBy,
		CreatedAt:    formatTimestamp(v.CreatedAt),
		UpdatedAt:    formatTimestamp(v.UpdatedAt),
	}
}

func rosterFromRequest(items []rosterEntryRequest) []match.RosterEntry {
	out := make([]match.RosterEntry, 0, len(items))
	for _, item := range items {
		out = append(out, match.RosterEntry{PlayerID: item.PlayerID, IsPlaying: item.IsPlaying})
	}
	return out
}

func dismissalTypeToDTO(v scorecard.DismissalType) dismissalTypeDTO {
	return dismissalTypeDTO{ID: v.ID, Name: v.Name, Kind: string(v.Kind)}
}

func mapSlice[T, D any](items []T, fn func(T) D) []D {
	out := make([]D, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

package team

import (
	"time"

	"github.com/riskibarqy/sportdata-hub/internal/domain/sport"
)

// Team is a user-authored squad. PlayerIDs is the full squad; match rosters
// pick their playing subset from it.
type Team struct {
	ID           string
	Sport        sport.Sport
	Name         string
	ShortName    string
	LogoURL      string
	TournamentID string
	PlayerIDs    []string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (t Team) HasPlayer(playerID string) bool {
	for _, id := range t.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

type ListFilter struct {
	Sport        sport.Sport
	CreatedBy    string
	TournamentID string
	Limit        int
	Offset       int
}

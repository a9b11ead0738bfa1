package scorecard

import (
	"math"

	"github.com/riskibarqy/sportdata-hub/internal/domain/match"
)

// Scorecard is the cricket match sheet. Players are keyed by player ID so a
// player resolves to exactly one entry.
type Scorecard struct {
	MatchID    string    `json:"matchId"`
	Home       *TeamCard `json:"home"`
	Away       *TeamCard `json:"away"`
	Deliveries int       `json:"deliveries"`
}

type TeamCard struct {
	TeamID      string                 `json:"teamId"`
	Runs        int                    `json:"runs"`
	Wickets     int                    `json:"wickets"`
	Overs       Overs                  `json:"overs"`
	Extras      Extras                 `json:"extras"`
	ExtrasTotal int                    `json:"extrasTotal"`
	RunRate     float64                `json:"runRate"`
	Players     map[string]*PlayerCard `json:"players"`
	// Order keeps roster order for rendering.
	Order []string `json:"order"`
}

// refreshTotals recomputes the derived team figures after a delivery.
func (t *TeamCard) refreshTotals() {
	t.ExtrasTotal = t.Extras.Total()
	t.RunRate = math.Round(RunRate(t.Runs, t.Overs)*100) / 100
}

type Extras struct {
	Wides   int `json:"wides"`
	NoBalls int `json:"noBalls"`
	Byes    int `json:"byes"`
	LegByes int `json:"legByes"`
}

func (e Extras) Total() int {
	return e.Wides + e.NoBalls + e.Byes + e.LegByes
}

type PlayerCard struct {
	PlayerID  string       `json:"playerId"`
	IsPlaying bool         `json:"isPlaying"`
	Batting   BattingLine  `json:"batting"`
	Bowling   BowlingLine  `json:"bowling"`
	Fielding  FieldingLine `json:"fielding"`
}

type BattingLine struct {
	Runs      int    `json:"runs"`
	Balls     int    `json:"balls"`
	Fours     int    `json:"fours"`
	Sixes     int    `json:"sixes"`
	IsOut     bool   `json:"isOut"`
	Retired   bool   `json:"retired"`
	Dismissal string `json:"dismissal,omitempty"`
	BowlerID  string `json:"bowlerId,omitempty"`
	FielderID string `json:"fielderId,omitempty"`
}

type BowlingLine struct {
	Overs        Overs `json:"overs"`
	RunsConceded int   `json:"runsConceded"`
	Wickets      int   `json:"wickets"`
	Wides        int   `json:"wides"`
	NoBalls      int   `json:"noBalls"`
}

type FieldingLine struct {
	Catches   int `json:"catches"`
	Stumpings int `json:"stumpings"`
	RunOuts   int `json:"runOuts"`
}

// New builds an empty scorecard from the match rosters.
func New(m match.Match) *Scorecard {
	return &Scorecard{
		MatchID: m.ID,
		Home:    newTeamCard(m.HomeTeamID, m.HomeRoster),
		Away:    newTeamCard(m.AwayTeamID, m.AwayRoster),
	}
}

func newTeamCard(teamID string, roster []match.RosterEntry) *TeamCard {
	card := &TeamCard{
		TeamID:  teamID,
		Players: make(map[string]*PlayerCard, len(roster)),
		Order:   make([]string, 0, len(roster)),
	}
	for _, entry := range roster {
		card.Players[entry.PlayerID] = &PlayerCard{PlayerID: entry.PlayerID, IsPlaying: entry.IsPlaying}
		card.Order = append(card.Order, entry.PlayerID)
	}
	return card
}

// TeamOf returns the team card holding playerID. A player listed by both
// teams is reported as an error rather than silently picking one.
func (s *Scorecard) TeamOf(playerID, field string) (*TeamCard, *PlayerCard, error) {
	var (
		team *TeamCard
		card *PlayerCard
	)
	for _, t := range []*TeamCard{s.Home, s.Away} {
		if t == nil {
			continue
		}
		if p, ok := t.Players[playerID]; ok {
			if team != nil {
				return nil, nil, match.NewRuleError(field, "Player %s appears in both teams", playerID)
			}
			team, card = t, p
		}
	}
	if team == nil {
		return nil, nil, match.NewRuleError(field, "Player %s is not part of this match", playerID)
	}
	return team, card, nil
}


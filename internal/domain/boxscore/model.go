package boxscore

import (
	"fmt"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/sportdata-hub/internal/domain/match"
	"github.com/riskibarqy/sportdata-hub/internal/domain/sport"
)

// BoxScore is the match sheet for basketball and football.
type BoxScore struct {
	MatchID string      `json:"matchId"`
	Sport   sport.Sport `json:"sport"`
	Home    *TeamBox    `json:"home"`
	Away    *TeamBox    `json:"away"`
	Events  int         `json:"events"`
}

type TeamBox struct {
	TeamID  string                 `json:"teamId"`
	Score   int                    `json:"score"`
	Fouls   int                    `json:"fouls"`
	Players map[string]*PlayerLine `json:"players"`
	Order   []string               `json:"order"`
}

type PlayerLine struct {
	PlayerID   string           `json:"playerId"`
	IsPlaying  bool             `json:"isPlaying"`
	SentOff    bool             `json:"sentOff"`
	Basketball *BasketballStats `json:"basketball,omitempty"`
	Football   *FootballStats   `json:"football,omitempty"`
}

type BasketballStats struct {
	Points              int `json:"points"`
	FieldGoalsMade      int `json:"fieldGoalsMade"`
	FieldGoalsAttempted int `json:"fieldGoalsAttempted"`
	ThreesMade          int `json:"threesMade"`
	ThreesAttempted     int `json:"threesAttempted"`
	FreeThrowsMade      int `json:"freeThrowsMade"`
	FreeThrowsAttempted int `json:"freeThrowsAttempted"`
	OffensiveRebounds   int `json:"offensiveRebounds"`
	DefensiveRebounds   int `json:"defensiveRebounds"`
	Assists             int `json:"assists"`
	Steals              int `json:"steals"`
	Blocks              int `json:"blocks"`
	Turnovers           int `json:"turnovers"`
	Fouls               int `json:"fouls"`
}

type FootballStats struct {
	Goals       int `json:"goals"`
	Assists     int `json:"assists"`
	Saves       int `json:"saves"`
	Fouls       int `json:"fouls"`
	YellowCards int `json:"yellowCards"`
	RedCards    int `json:"redCards"`
}

// New builds an empty box score from the match rosters.
func New(m match.Match) (*BoxScore, error) {
	if m.Sport != sport.Basketball && m.Sport != sport.Football {
		return nil, fmt.Errorf("box score does not support sport %q", m.Sport)
	}
	return &BoxScore{
		MatchID: m.ID,
		Sport:   m.Sport,
		Home:    newTeamBox(m.Sport, m.HomeTeamID, m.HomeRoster),
		Away:    newTeamBox(m.Sport, m.AwayTeamID, m.AwayRoster),
	}, nil
}

func newTeamBox(s sport.Sport, teamID string, roster []match.RosterEntry) *TeamBox {
	box := &TeamBox{
		TeamID:  teamID,
		Players: make(map[string]*PlayerLine, len(roster)),
		Order:   make([]string, 0, len(roster)),
	}
	for _, entry := range roster {
		line := &PlayerLine{PlayerID: entry.PlayerID, IsPlaying: entry.IsPlaying}
		if s == sport.Basketball {
			line.Basketball = &BasketballStats{}
		} else {
			line.Football = &FootballStats{}
		}
		box.Players[entry.PlayerID] = line
		box.Order = append(box.Order, entry.PlayerID)
	}
	return box
}

func (t *TeamBox) PlayingCount() int {
	n := 0
	for _, p := range t.Players {
		if p.IsPlaying {
			n++
		}
	}
	return n
}

// TeamOf returns the team box holding playerID, which must be listed by
// exactly one team.
func (b *BoxScore) TeamOf(playerID, field string) (*TeamBox, *PlayerLine, error) {
	var (
		team *TeamBox
		line *PlayerLine
	)
	for _, t := range []*TeamBox{b.Home, b.Away} {
		if t == nil {
			continue
		}
		if p, ok := t.Players[playerID]; ok {
			if team != nil {
				return nil, nil, match.NewRuleError(field, "Player %s appears in both teams", playerID)
			}
			team, line = t, p
		}
	}
	if team == nil {
		return nil, nil, match.NewRuleError(field, "Player %s is not part of this match", playerID)
	}
	return team, line, nil
}

func Decode(document []byte) (*BoxScore, error) {
	var b BoxScore
	if err := sonic.Unmarshal(document, &b); err != nil {
		return nil, fmt.Errorf("decode box score: %w", err)
	}
	if b.Home == nil || b.Away == nil {
		return nil, fmt.Errorf("decode box score: missing team box")
	}
	return &b, nil
}

func (b *BoxScore) Encode() ([]byte, error) {
	out, err := sonic.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encode box score: %w", err)
	}
	return out, nil
}

package boxscore

import (
	"github.com/riskibarqy/sportdata-hub/internal/domain/match"
	"github.com/riskibarqy/sportdata-hub/internal/domain/sport"
)

type EventType string

const (
	EventPoints     EventType = "points"
	EventRebound    EventType = "rebound"
	EventAssist     EventType = "assist"
	EventSteal      EventType = "steal"
	EventBlock      EventType = "block"
	EventTurnover   EventType = "turnover"
	EventFoul       EventType = "foul"
	EventGoal       EventType = "goal"
	EventSave       EventType = "save"
	EventYellowCard EventType = "yellow_card"
	EventRedCard    EventType = "red_card"
)

// Event is one statistic attributed to a single player.
type Event struct {
	Type      EventType
	PlayerID  string
	Points    int
	Made      bool
	Offensive bool
}

type eventRule struct {
	// AllowBench lets players off the court receive the event.
	AllowBench bool
	Apply      func(team *TeamBox, line *PlayerLine, ev Event) error
}

var basketballRules = map[EventType]eventRule{
	EventPoints: {Apply: func(team *TeamBox, line *PlayerLine, ev Event) error {
		st := line.Basketball
		switch ev.Points {
		case 1:
			st.FreeThrowsAttempted++
			if ev.Made {
				st.FreeThrowsMade++
			}
		case 2:
			st.FieldGoalsAttempted++
			if ev.Made {
				st.FieldGoalsMade++
			}
		case 3:
			st.FieldGoalsAttempted++
			st.ThreesAttempted++
			if ev.Made {
				st.FieldGoalsMade++
				st.ThreesMade++
			}
		default:
			return match.NewRuleError("points", "Points must be 1, 2 or 3")
		}
		if ev.Made {
			st.Points += ev.Points
			team.Score += ev.Points
		}
		return nil
	}},
	EventRebound: {Apply: func(_ *TeamBox, line *PlayerLine, ev Event) error {
		if ev.Offensive {
			line.Basketball.OffensiveRebounds++
		} else {
			line.Basketball.DefensiveRebounds++
		}
		return nil
	}},
	EventAssist: {Apply: func(_ *TeamBox, line *PlayerLine, _ Event) error {
		line.Basketball.Assists++
		return nil
	}},
	EventSteal: {Apply: func(_ *TeamBox, line *PlayerLine, _ Event) error {
		line.Basketball.Steals++
		return nil
	}},
	EventBlock: {Apply: func(_ *TeamBox, line *PlayerLine, _ Event) error {
		line.Basketball.Blocks++
		return nil
	}},
	EventTurnover: {Apply: func(_ *TeamBox, line *PlayerLine, _ Event) error {
		line.Basketball.Turnovers++
		return nil
	}},
	EventFoul: {Apply: func(team *TeamBox, line *PlayerLine, _ Event) error {
		line.Basketball.Fouls++
		team.Fouls++
		return nil
	}},
}

var footballRules = map[EventType]eventRule{
	EventGoal: {Apply: func(team *TeamBox, line *PlayerLine, _ Event) error {
		line.Football.Goals++
		team.Score++
		return nil
	}},
	EventAssist: {Apply: func(_ *TeamBox, line *PlayerLine, _ Event) error {
		line.Football.Assists++
		return nil
	}},
	EventSave: {Apply: func(_ *TeamBox, line *PlayerLine, _ Event) error {
		line.Football.Saves++
		return nil
	}},
	EventFoul: {Apply: func(team *TeamBox, line *PlayerLine, _ Event) error {
		line.Football.Fouls++
		team.Fouls++
		return nil
	}},
	EventYellowCard: {AllowBench: true, Apply: func(_ *TeamBox, line *PlayerLine, _ Event) error {
		line.Football.YellowCards++
		if line.Football.YellowCards >= 2 {
			sendOff(line)
		}
		return nil
	}},
	EventRedCard: {AllowBench: true, Apply: func(_ *TeamBox, line *PlayerLine, _ Event) error {
		sendOff(line)
		return nil
	}},
}

func sendOff(line *PlayerLine) {
	if !line.SentOff {
		line.Football.RedCards++
	}
	line.SentOff = true
	line.IsPlaying = false
}

func rulesFor(s sport.Sport) map[EventType]eventRule {
	switch s {
	case sport.Basketball:
		return basketballRules
	case sport.Football:
		return footballRules
	}
	return nil
}

// SupportsEvent reports whether t is recorded for sport s.
func SupportsEvent(s sport.Sport, t EventType) bool {
	_, ok := rulesFor(s)[t]
	return ok
}

// ApplyEvent records ev against the player it names. Nothing is modified
// when an error is returned.
func (b *BoxScore) ApplyEvent(ev Event) error {
	rule, ok := rulesFor(b.Sport)[ev.Type]
	if !ok {
		return match.NewRuleError("type", "Event %q is not supported for %s", ev.Type, b.Sport)
	}
	if ev.Type == EventPoints && (ev.Points < 1 || ev.Points > 3) {
		return match.NewRuleError("points", "Points must be 1, 2 or 3")
	}

	team, line, err := b.TeamOf(ev.PlayerID, "playerId")
	if err != nil {
		return err
	}
	if line.SentOff {
		return match.NewRuleError("playerId", "Player %s has been sent off", line.PlayerID)
	}
	if !rule.AllowBench && !line.IsPlaying {
		return match.NewRuleError("playerId", "Player %s is not currently playing", line.PlayerID)
	}
	if err := rule.Apply(team, line, ev); err != nil {
		return err
	}
	b.Events++
	return nil
}

// Substitute swaps an active player for a benched teammate and re-checks the
// playing cap for that team.
func (b *BoxScore) Substitute(outID, inID string) error {
	if outID == inID {
		return match.NewRuleError("playerInId", "Incoming and outgoing players must differ")
	}
	outTeam, outLine, err := b.TeamOf(outID, "playerOutId")
	if err != nil {
		return err
	}
	inTeam, inLine, err := b.TeamOf(inID, "playerInId")
	if err != nil {
		return err
	}
	if outTeam != inTeam {
		return match.NewRuleError("playerInId", "Players must belong to the same team")
	}
	if !outLine.IsPlaying {
		return match.NewRuleError("playerOutId", "Player %s is not currently playing", outID)
	}
	if inLine.IsPlaying {
		return match.NewRuleError("playerInId", "Player %s is already playing", inID)
	}
	if inLine.SentOff {
		return match.NewRuleError("playerInId", "Player %s has been sent off", inID)
	}

	outLine.IsPlaying = false
	inLine.IsPlaying = true
	if outTeam.PlayingCount() > b.Sport.PlayingCap() {
		outLine.IsPlaying = true
		inLine.IsPlaying = false
		return match.NewRuleError("playerInId", "%s", match.RosterCapMessage(b.Sport))
	}
	b.Events++
	return nil
}

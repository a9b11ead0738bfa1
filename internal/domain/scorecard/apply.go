package scorecard

import (
	"strings"

	"github.com/riskibarqy/sportdata-hub/internal/domain/match"
)

type Extra string

const (
	ExtraNone   Extra = ""
	ExtraWide   Extra = "wide"
	ExtraNoBall Extra = "no_ball"
	ExtraBye    Extra = "bye"
	ExtraLegBye Extra = "leg_bye"
)

const maxRunsPerDelivery = 7

// Delivery is one ball bowled. Runs are off the bat, or the byes / wides run
// when Extra says so.
type Delivery struct {
	StrikerID    string
	NonStrikerID string
	BowlerID     string
	Runs         int
	Extra        Extra
	Boundary     bool
	Wicket       *Wicket
}

type Wicket struct {
	PlayerOutID string
	FielderID   string
	Dismissal   DismissalType
}

func validExtra(e Extra) bool {
	switch e {
	case ExtraNone, ExtraWide, ExtraNoBall, ExtraBye, ExtraLegBye:
		return true
	}
	return false
}

// ApplyDelivery validates d against the scorecard and applies it in place.
// Nothing is modified when an error is returned.
func (s *Scorecard) ApplyDelivery(d Delivery) error {
	if d.Runs < 0 || d.Runs > maxRunsPerDelivery {
		return match.NewRuleError("runs", "Runs must be between 0 and %d", maxRunsPerDelivery)
	}
	if !validExtra(d.Extra) {
		return match.NewRuleError("extra", "Unsupported extra %q", d.Extra)
	}
	if d.Boundary && d.Runs != 4 && d.Runs != 6 {
		return match.NewRuleError("boundary", "A boundary must score 4 or 6 runs")
	}
	if d.StrikerID == d.NonStrikerID {
		return match.NewRuleError("nonStrikerId", "Striker and non-striker must be different players")
	}

	batting, striker, err := s.TeamOf(d.StrikerID, "strikerId")
	if err != nil {
		return err
	}
	nonStrikerTeam, nonStriker, err := s.TeamOf(d.NonStrikerID, "nonStrikerId")
	if err != nil {
		return err
	}
	if nonStrikerTeam != batting {
		return match.NewRuleError("nonStrikerId", "Striker and non-striker must belong to the same team")
	}
	bowlingTeam, bowler, err := s.TeamOf(d.BowlerID, "bowlerId")
	if err != nil {
		return err
	}
	if bowlingTeam == batting {
		return match.NewRuleError("bowlerId", "Bowler must belong to the fielding team")
	}

	for _, p := range []struct {
		card  *PlayerCard
		field string
	}{{striker, "strikerId"}, {nonStriker, "nonStrikerId"}, {bowler, "bowlerId"}} {
		if !p.card.IsPlaying {
			return match.NewRuleError(p.field, "Player %s is not in the playing eleven", p.card.PlayerID)
		}
	}
	if striker.Batting.IsOut {
		return match.NewRuleError("strikerId", "Striker %s is already out", striker.PlayerID)
	}
	if nonStriker.Batting.IsOut {
		return match.NewRuleError("nonStrikerId", "Non-striker %s is already out", nonStriker.PlayerID)
	}

	rule := NoWicketRule
	var (
		out     *PlayerCard
		fielder *PlayerCard
	)
	if d.Wicket != nil {
		var ok bool
		rule, ok = RuleFor(d.Wicket.Dismissal.Kind)
		if !ok {
			return match.NewRuleError("dismissalTypeId", "Unsupported dismissal type %q", d.Wicket.Dismissal.Name)
		}
		switch d.Wicket.PlayerOutID {
		case striker.PlayerID:
			out = striker
		case nonStriker.PlayerID:
			out = nonStriker
		default:
			return match.NewRuleError("playerOutId", "Dismissed player must be the striker or the non-striker")
		}

		name := d.Wicket.Dismissal.Name
		switch {
		case rule.BetweenBalls && (d.Runs != 0 || d.Extra != ExtraNone || d.Boundary):
			return match.NewRuleError("runs", "%s is recorded without a ball bowled, so it cannot carry runs or extras", name)
		case d.Extra == ExtraWide && !rule.OnWide:
			return match.NewRuleError("extra", "%s is not possible off a wide", name)
		case d.Extra == ExtraNoBall && !rule.OnNoBall:
			return match.NewRuleError("extra", "%s is not possible off a no ball", name)
		}

		fielderID := strings.TrimSpace(d.Wicket.FielderID)
		switch {
		case rule.RequiresFielder && fielderID == "":
			return match.NewRuleError("fielderId", "%s requires a fielder", d.Wicket.Dismissal.Name)
		case fielderID != "" && rule.Fielding == FieldingNone:
			return match.NewRuleError("fielderId", "%s does not take a fielder", d.Wicket.Dismissal.Name)
		case fielderID != "":
			fielderTeam, card, err := s.TeamOf(fielderID, "fielderId")
			if err != nil {
				return err
			}
			if fielderTeam != bowlingTeam {
				return match.NewRuleError("fielderId", "Fielder must belong to the fielding team")
			}
			fielder = card
		}
	}

	s.apply(d, rule, batting, striker, bowler, out, fielder)
	return nil
}

func (s *Scorecard) apply(d Delivery, rule Rule, batting *TeamCard, striker, bowler, out, fielder *PlayerCard) {
	offBat := d.Extra == ExtraNone || d.Extra == ExtraNoBall
	legal := d.Extra == ExtraNone || d.Extra == ExtraBye || d.Extra == ExtraLegBye

	batterRuns := 0
	if offBat && rule.CreditBatterRuns {
		batterRuns = d.Runs
	}

	extraRuns := 0
	switch d.Extra {
	case ExtraWide:
		extraRuns = 1 + d.Runs
		batting.Extras.Wides += extraRuns
		bowler.Bowling.Wides++
	case ExtraNoBall:
		extraRuns = 1
		batting.Extras.NoBalls++
		bowler.Bowling.NoBalls++
	case ExtraBye:
		extraRuns = d.Runs
		batting.Extras.Byes += d.Runs
	case ExtraLegBye:
		extraRuns = d.Runs
		batting.Extras.LegByes += d.Runs
	}

	striker.Batting.Runs += batterRuns
	if d.Boundary && batterRuns == 4 {
		striker.Batting.Fours++
	}
	if d.Boundary && batterRuns == 6 {
		striker.Batting.Sixes++
	}
	if d.Extra != ExtraWide && rule.CountBatterBall {
		striker.Batting.Balls++
	}
	if striker.Batting.Retired && rule.CountBatterBall {
		striker.Batting.Retired = false
	}

	batting.Runs += batterRuns + extraRuns
	switch d.Extra {
	case ExtraNone:
		bowler.Bowling.RunsConceded += batterRuns
	case ExtraWide, ExtraNoBall:
		bowler.Bowling.RunsConceded += batterRuns + extraRuns
	}

	if legal && rule.CountBowlerBall {
		bowler.Bowling.Overs = bowler.Bowling.Overs.AddBall()
		batting.Overs = batting.Overs.AddBall()
	}

	if d.Wicket != nil {
		out.Batting.Dismissal = d.Wicket.Dismissal.Name
		if rule.BatterOut {
			out.Batting.IsOut = true
		} else {
			out.Batting.Retired = true
		}
		if rule.CountTeamWicket {
			batting.Wickets++
		}
		if rule.CreditBowler {
			bowler.Bowling.Wickets++
			out.Batting.BowlerID = bowler.PlayerID
		}
		if fielder != nil {
			out.Batting.FielderID = fielder.PlayerID
			switch rule.Fielding {
			case FieldingCatch:
				fielder.Fielding.Catches++
			case FieldingStumping:
				fielder.Fielding.Stumpings++
			case FieldingRunOut:
				fielder.Fielding.RunOuts++
			}
		}
	}

	batting.refreshTotals()
	if !rule.BetweenBalls {
		s.Deliveries++
	}
}

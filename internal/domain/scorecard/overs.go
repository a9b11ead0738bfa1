package scorecard

import (
	"fmt"
	"strconv"
	"strings"
)

const BallsPerOver = 6

// Overs counts deliveries as completed overs plus balls of the current over,
// written "whole.balls". Balls never reaches BallsPerOver.
type Overs struct {
	Completed int
	Balls     int
}

// AddBall records one legal delivery, rolling six balls into a whole over.
func (o Overs) AddBall() Overs {
	o.Balls++
	if o.Balls >= BallsPerOver {
		o.Completed++
		o.Balls = 0
	}
	return o
}

func (o Overs) TotalBalls() int {
	return o.Completed*BallsPerOver + o.Balls
}

func (o Overs) String() string {
	return strconv.Itoa(o.Completed) + "." + strconv.Itoa(o.Balls)
}

func ParseOvers(raw string) (Overs, error) {
	raw = strings.Trim(strings.TrimSpace(raw), `"`)
	if raw == "" {
		return Overs{}, nil
	}
	whole, frac, hasFrac := strings.Cut(raw, ".")
	completed, err := strconv.Atoi(whole)
	if err != nil || completed < 0 {
		return Overs{}, fmt.Errorf("invalid overs %q", raw)
	}
	balls := 0
	if hasFrac {
		balls, err = strconv.Atoi(frac)
		if err != nil || len(frac) != 1 || balls < 0 || balls >= BallsPerOver {
			return Overs{}, fmt.Errorf("invalid overs %q", raw)
		}
	}
	return Overs{Completed: completed, Balls: balls}, nil
}

func (o Overs) MarshalJSON() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Overs) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Overs{}
		return nil
	}
	parsed, err := ParseOvers(string(data))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// RunRate is runs per six legal balls, zero before the first ball.
func RunRate(runs int, overs Overs) float64 {
	balls := overs.TotalBalls()
	if balls == 0 {
		return 0
	}
	return float64(runs) * BallsPerOver / float64(balls)
}

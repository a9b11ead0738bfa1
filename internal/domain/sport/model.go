package sport

import "strings"

// Sport identifies one custom-module discipline.
type Sport string

const (
	Cricket    Sport = "cricket"
	Basketball Sport = "basketball"
	Football   Sport = "football"
)

// All lists the sports with custom modules, in route registration order.
func All() []Sport {
	return []Sport{Cricket, Basketball, Football}
}

func Parse(raw string) (Sport, bool) {
	s := Sport(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case Cricket, Basketball, Football:
		return s, true
	}
	return "", false
}

// PlayingCap is the maximum number of players one side may have on the field.
func (s Sport) PlayingCap() int {
	switch s {
	case Basketball:
		return 5
	case Cricket, Football:
		return 11
	}
	return 0
}

// UsesScorecard reports whether matches of this sport carry a cricket
// scorecard instead of a box score.
func (s Sport) UsesScorecard() bool {
	return s == Cricket
}

func (s Sport) String() string { return string(s) }

package match

import (
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/sportdata-hub/internal/domain/sport"
)

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
	StatusAbandoned  Status = "abandoned"
	StatusDraw       Status = "draw"
)

var transitions = map[Status][]Status{
	StatusNotStarted: {StatusInProgress, StatusAbandoned},
	StatusInProgress: {StatusFinished, StatusAbandoned, StatusDraw},
}

func ValidStatus(s Status) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusFinished, StatusAbandoned, StatusDraw:
		return true
	}
	return false
}

// CanTransition reports whether a match may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusFinished || s == StatusAbandoned || s == StatusDraw
}

type RosterEntry struct {
	PlayerID  string
	IsPlaying bool
}

type Match struct {
	ID           string
	Sport        sport.Sport
	TournamentID string
	HomeTeamID   string
	AwayTeamID   string
	Venue        string
	ScheduledAt  time.Time
	Status       Status
	ResultNote   string
	HomeRoster   []RosterEntry
	AwayRoster   []RosterEntry
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func PlayingCount(roster []RosterEntry) int {
	n := 0
	for _, e := range roster {
		if e.IsPlaying {
			n++
		}
	}
	return n
}

// RosterCapMessage is the client-facing text for a roster over the playing cap.
func RosterCapMessage(s sport.Sport) string {
	return fmt.Sprintf("Each team can have a maximum of %d playing players", s.PlayingCap())
}

// Sheet is the stored scoring document of a match: a cricket scorecard or a
// box score, encoded as JSON. Version increases with every saved mutation.
type Sheet struct {
	MatchID   string
	Sport     sport.Sport
	Document  []byte
	Version   int64
	UpdatedAt time.Time
}

type ListFilter struct {
	Sport        sport.Sport
	CreatedBy    string
	TournamentID string
	TeamID       string
	Status       Status
	Limit        int
	Offset       int
}

var ErrSheetVersionConflict = errors.New("match sheet version conflict")

// RuleError is a scoring rule violation tied to one input field.
type RuleError struct {
	Field   string
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

func NewRuleError(field, format string, args ...any) *RuleError {
	return &RuleError{Field: field, Message: fmt.Sprintf(format, args...)}
}

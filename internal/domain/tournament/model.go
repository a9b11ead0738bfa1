package tournament

import (
	"time"

	"github.com/riskibarqy/sportdata-hub/internal/domain/sport"
)

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted:
		return true
	}
	return false
}

type Tournament struct {
	ID        string
	Sport     sport.Sport
	Name      string
	Location  string
	StartDate time.Time
	EndDate   time.Time
	Status    Status
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DatesOrdered reports whether the tournament ends on or after its start.
func (t Tournament) DatesOrdered() bool {
	return !t.EndDate.Before(t.StartDate)
}

type ListFilter struct {
	Sport     sport.Sport
	CreatedBy string
	Status    Status
	Limit     int
	Offset    int
}

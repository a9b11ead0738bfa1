package player

import (
	"time"

	"github.com/riskibarqy/sportdata-hub/internal/domain/sport"
)

type Player struct {
	ID           string
	Sport        sport.Sport
	Name         string
	Role         string
	JerseyNumber int
	ImageURL     string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ListFilter struct {
	Sport     sport.Sport
	CreatedBy string
	IDs       []string
	Limit     int
	Offset    int
}

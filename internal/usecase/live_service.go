package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/sportdata-hub/internal/domain/resource"
)

const (
	LiveActionLiveMatches = "liveMatches"
	LiveActionSportList   = "sportList"
	LiveActionLiveMatch   = "liveMatch"
	LiveActionScorecard   = "scorecard"
	LiveActionSquad       = "squad"
)

// ErrUnknownAction marks a websocket action with no handler.
var ErrUnknownAction = fmt.Errorf("%w: unknown action", ErrInvalidInput)

type LiveQuery struct {
	Action  string
	Sport   string
	EventID string
}

// LiveService maps websocket read actions onto the sports data resolver so
// they share cache entries with the REST routes.
type LiveService struct {
	data *SportDataService
}

func NewLiveService(data *SportDataService) *LiveService {
	return &LiveService{data: data}
}

// Handles reports whether action is a resolver-backed read.
func (s *LiveService) Handles(action string) bool {
	switch action {
	case LiveActionLiveMatches, LiveActionSportList, LiveActionLiveMatch, LiveActionScorecard, LiveActionSquad:
		return true
	}
	return false
}

func (s *LiveService) Query(ctx context.Context, q LiveQuery) (SportData, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LiveService.Query",
		attribute.String("live.action", q.Action))
	defer span.End()

	sportSlug := strings.TrimSpace(q.Sport)
	eventID := strings.TrimSpace(q.EventID)

	var query SportDataQuery
	switch q.Action {
	case LiveActionSportList:
		query = SportDataQuery{Kind: resource.KindSports}
	case LiveActionLiveMatches:
		if sportSlug == "" {
			return SportData{}, invalidField("sport", "sport is required")
		}
		query = SportDataQuery{Kind: resource.KindLiveEvents, Params: resource.Params{"sport": sportSlug}}
	case LiveActionLiveMatch, LiveActionScorecard, LiveActionSquad:
		if eventID == "" {
			return SportData{}, invalidField("eventId", "eventId is required")
		}
		kind := resource.KindEvent
		switch q.Action {
		case LiveActionScorecard:
			kind = resource.KindInnings
		case LiveActionSquad:
			kind = resource.KindLineups
		}
		query = SportDataQuery{Kind: kind, Params: resource.Params{"id": eventID}}
	default:
		return SportData{}, ErrUnknownAction
	}
	return s.data.Get(ctx, query)
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/sportdata-hub/internal/domain/boxscore"
	"github.com/riskibarqy/sportdata-hub/internal/domain/match"
	"github.com/riskibarqy/sportdata-hub/internal/domain/scorecard"
	"github.com/riskibarqy/sportdata-hub/internal/domain/sport"
	idgen "github.com/riskibarqy/sportdata-hub/internal/platform/id"
	"github.com/riskibarqy/sportdata-hub/internal/platform/logging"
)

const maxSheetWriteAttempts = 3

// MatchUpdatePublisher pushes a freshly saved sheet to live subscribers.
type MatchUpdatePublisher interface {
	PublishMatchUpdate(ctx context.Context, matchID string, sheet any)
}

type SheetObserver interface {
	ObserveSheetUpdate(sport, event string)
}

type WicketInput struct {
	PlayerOutID     string
	FielderID       string
	DismissalTypeID string
}

type RecordDeliveryInput struct {
	Actor        string
	MatchID      string
	StrikerID    string
	NonStrikerID string
	BowlerID     string
	Runs         int
	Extra        string
	Boundary     bool
	Wicket       *WicketInput
}

type RecordEventInput struct {
	Actor     string
	Sport     sport.Sport
	MatchID   string
	Type      string
	PlayerID  string
	Points    int
	Made      bool
	Offensive bool
}

type SubstitutionInput struct {
	Actor       string
	Sport       sport.Sport
	MatchID     string
	PlayerOutID string
	PlayerInID  string
}

type ScoringServiceConfig struct {
	Matches    match.Repository
	Dismissals scorecard.DismissalTypeRepository
	Locks      *MatchLocks
	Publisher  MatchUpdatePublisher
	Observer   SheetObserver
	Logger     *logging.Logger
}

// ScoringService applies live scoring mutations to match sheets.
type ScoringService struct {
	matches    match.Repository
	dismissals scorecard.DismissalTypeRepository
	locks      *MatchLocks
	publisher  MatchUpdatePublisher
	observer   SheetObserver
	logger     *logging.Logger
	now        func() time.Time
}

func NewScoringService(cfg ScoringServiceConfig) *ScoringService {
	locks := cfg.Locks
	if locks == nil {
		locks = NewMatchLocks()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoringService{
		matches:    cfg.Matches,
		dismissals: cfg.Dismissals,
		locks:      locks,
		publisher:  cfg.Publisher,
		observer:   cfg.Observer,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *ScoringService) loadMatch(ctx context.Context, sp sport.Sport, matchID string) (match.Match, error) {
	matchID = strings.TrimSpace(matchID)
	if !idgen.Valid(matchID) {
		return match.Match{}, invalidField("matchId", "matchId must be a valid id")
	}
	item, exists, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists || item.Sport != sp {
		return match.Match{}, fmt.Errorf("%w: match not found", ErrNotFound)
	}
	return item, nil
}

func (s *ScoringService) loadSheet(ctx context.Context, matchID string) (match.Sheet, error) {
	sheet, exists, err := s.matches.GetSheet(ctx, matchID)
	if err != nil {
		return match.Sheet{}, fmt.Errorf("get match sheet: %w", err)
	}
	if !exists {
		return match.Sheet{}, fmt.Errorf("%w: match sheet not found", ErrNotFound)
	}
	return sheet, nil
}

func (s *ScoringService) GetScorecard(ctx context.Context, matchID string) (*scorecard.Scorecard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.GetScorecard")
	defer span.End()

	item, err := s.loadMatch(ctx, sport.Cricket, matchID)
	if err != nil {
		return nil, err
	}
	sheet, err := s.loadSheet(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	card, err := scorecard.Decode(sheet.Document)
	if err != nil {
		return nil, fmt.Errorf("decode scorecard: %w", err)
	}
	return card, nil
}

func (s *ScoringService) GetBoxScore(ctx context.Context, sp sport.Sport, matchID string) (*boxscore.BoxScore, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.GetBoxScore")
	defer span.End()

	item, err := s.loadMatch(ctx, sp, matchID)
	if err != nil {
		return nil, err
	}
	sheet, err := s.loadSheet(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	box, err := boxscore.Decode(sheet.Document)
	if err != nil {
		return nil, fmt.Errorf("decode box score: %w", err)
	}
	return box, nil
}

// GetSheet returns the decoded scoring document of any custom match.
func (s *ScoringService) GetSheet(ctx context.Context, matchID string) (any, error) {
	matchID = strings.TrimSpace(matchID)
	if !idgen.Valid(matchID) {
		return nil, invalidField("matchId", "matchId must be a valid id")
	}
	sheet, err := s.loadSheet(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if sheet.Sport.UsesScorecard() {
		return scorecard.Decode(sheet.Document)
	}
	return boxscore.Decode(sheet.Document)
}

func (s *ScoringService) ListDismissalTypes(ctx context.Context) ([]scorecard.DismissalType, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ListDismissalTypes")
	defer span.End()

	items, err := s.dismissals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dismissal types: %w", err)
	}
	return items, nil
}

// mutate loads the sheet, applies fn and saves it, retrying when another
// writer bumped the version in between. fn must be side-effect free.
func (s *ScoringService) mutate(ctx context.Context, actor string, sp sport.Sport, matchID, event string, fn func(doc []byte) ([]byte, any, error)) (any, error) {
	actor, err := requireActor(actor)
	if err != nil {
		return nil, err
	}
	item, err := s.loadMatch(ctx, sp, matchID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(actor, item.CreatedBy, "match"); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(item.ID)
	defer unlock()

	var view any
	for attempt := 1; ; attempt++ {
		current, exists, err := s.matches.GetByID(ctx, item.ID)
		if err != nil {
			return nil, fmt.Errorf("get match: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: match not found", ErrNotFound)
		}
		if current.Status != match.StatusInProgress {
			return nil, invalidField("status", fmt.Sprintf("Scoring is only allowed while the match is in progress (current: %s)", current.Status))
		}

		sheet, err := s.loadSheet(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		doc, out, err := fn(sheet.Document)
		if err != nil {
			return nil, ruleViolation(err)
		}
		view = out

		next := sheet
		next.Document = doc
		next.Version = sheet.Version + 1
		next.UpdatedAt = s.now().UTC()
		err = s.matches.SaveSheet(ctx, next, sheet.Version)
		if err == nil {
			break
		}
		if !errors.Is(err, match.ErrSheetVersionConflict) || attempt >= maxSheetWriteAttempts {
			return nil, fmt.Errorf("save match sheet: %w", err)
		}
		s.logger.WarnContext(ctx, "match sheet version conflict, retrying", "match_id", item.ID, "attempt", attempt)
	}

	if s.observer != nil {
		s.observer.ObserveSheetUpdate(string(sp), event)
	}
	if s.publisher != nil {
		s.publisher.PublishMatchUpdate(ctx, item.ID, view)
	}
	return view, nil
}

func (s *ScoringService) RecordDelivery(ctx context.Context, input RecordDeliveryInput) (*scorecard.Scorecard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.RecordDelivery")
	defer span.End()

	delivery := scorecard.Delivery{
		StrikerID:    strings.TrimSpace(input.StrikerID),
		NonStrikerID: strings.TrimSpace(input.NonStrikerID),
		BowlerID:     strings.TrimSpace(input.BowlerID),
		Runs:         input.Runs,
		Extra:        scorecard.Extra(strings.TrimSpace(input.Extra)),
		Boundary:     input.Boundary,
	}

	var errs fieldErrors
	validateID(&errs, "strikerId", delivery.StrikerID, true)
	validateID(&errs, "nonStrikerId", delivery.NonStrikerID, true)
	validateID(&errs, "bowlerId", delivery.BowlerID, true)
	var wicketIn WicketInput
	if input.Wicket != nil {
		wicketIn = WicketInput{
			PlayerOutID:     strings.TrimSpace(input.Wicket.PlayerOutID),
			FielderID:       strings.TrimSpace(input.Wicket.FielderID),
			DismissalTypeID: strings.TrimSpace(input.Wicket.DismissalTypeID),
		}
		validateID(&errs, "wicket.playerOutId", wicketIn.PlayerOutID, true)
		validateID(&errs, "wicket.fielderId", wicketIn.FielderID, false)
		validateID(&errs, "wicket.dismissalTypeId", wicketIn.DismissalTypeID, true)
	}
	if err := errs.first(); err != nil {
		return nil, err
	}

	if input.Wicket != nil {
		dismissal, exists, err := s.dismissals.GetByID(ctx, wicketIn.DismissalTypeID)
		if err != nil {
			return nil, fmt.Errorf("get dismissal type: %w", err)
		}
		if !exists {
			return nil, invalidField("wicket.dismissalTypeId", fmt.Sprintf("Dismissal type %s not found", wicketIn.DismissalTypeID))
		}
		delivery.Wicket = &scorecard.Wicket{
			PlayerOutID: wicketIn.PlayerOutID,
			FielderID:   wicketIn.FielderID,
			Dismissal:   dismissal,
		}
	}

	out, err := s.mutate(ctx, input.Actor, sport.Cricket, input.MatchID, "delivery", func(doc []byte) ([]byte, any, error) {
		card, err := scorecard.Decode(doc)
		if err != nil {
			return nil, nil, fmt.Errorf("decode scorecard: %w", err)
		}
		if err := card.ApplyDelivery(delivery); err != nil {
			return nil, nil, err
		}
		encoded, err := card.Encode()
		if err != nil {
			return nil, nil, fmt.Errorf("encode scorecard: %w", err)
		}
		return encoded, card, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*scorecard.Scorecard), nil
}

func (s *ScoringService) RecordEvent(ctx context.Context, input RecordEventInput) (*boxscore.BoxScore, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.RecordEvent")
	defer span.End()

	ev := boxscore.Event{
		Type:      boxscore.EventType(strings.TrimSpace(input.Type)),
		PlayerID:  strings.TrimSpace(input.PlayerID),
		Points:    input.Points,
		Made:      input.Made,
		Offensive: input.Offensive,
	}
	var errs fieldErrors
	validateID(&errs, "playerId", ev.PlayerID, true)
	if ev.Type == "" {
		errs.add("type", "type is required")
	} else if !boxscore.SupportsEvent(input.Sport, ev.Type) {
		errs.add("type", fmt.Sprintf("Event %s is not supported for %s", ev.Type, input.Sport))
	}
	if err := errs.first(); err != nil {
		return nil, err
	}

	out, err := s.mutate(ctx, input.Actor, input.Sport, input.MatchID, string(ev.Type), func(doc []byte) ([]byte, any, error) {
		box, err := boxscore.Decode(doc)
		if err != nil {
			return nil, nil, fmt.Errorf("decode box score: %w", err)
		}
		if err := box.ApplyEvent(ev); err != nil {
			return nil, nil, err
		}
		encoded, err := box.Encode()
		if err != nil {
			return nil, nil, fmt.Errorf("encode box score: %w", err)
		}
		return encoded, box, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*boxscore.BoxScore), nil
}

func (s *ScoringService) Substitute(ctx context.Context, input SubstitutionInput) (*boxscore.BoxScore, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.Substitute")
	defer span.End()

	outID := strings.TrimSpace(input.PlayerOutID)
	inID := strings.TrimSpace(input.PlayerInID)
	var errs fieldErrors
	validateID(&errs, "playerOutId", outID, true)
	validateID(&errs, "playerInId", inID, true)
	if err := errs.first(); err != nil {
		return nil, err
	}

	out, err := s.mutate(ctx, input.Actor, input.Sport, input.MatchID, "substitution", func(doc []byte) ([]byte, any, error) {
		box, err := boxscore.Decode(doc)
		if err != nil {
			return nil, nil, fmt.Errorf("decode box score: %w", err)
		}
		if err := box.Substitute(outID, inID); err != nil {
			return nil, nil, err
		}
		encoded, err := box.Encode()
		if err != nil {
			return nil, nil, fmt.Errorf("encode box score: %w", err)
		}
		return encoded, box, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*boxscore.BoxScore), nil
}

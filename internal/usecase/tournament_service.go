package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/sportdata-hub/internal/domain/match"
	"github.com/riskibarqy/sportdata-hub/internal/domain/sport"
	"github.com/riskibarqy/sportdata-hub/internal/domain/tournament"
	idgen "github.com/riskibarqy/sportdata-hub/internal/platform/id"
)

type CreateTournamentInput struct {
	Actor     string
	Sport     sport.Sport
	Name      string
	Location  string
	StartDate string
	EndDate   string
	Status    string
}

// UpdateTournamentInput applies the non-nil fields.
type UpdateTournamentInput struct {
	Actor     string
	Sport     sport.Sport
	ID        string
	Name      *string
	Location  *string
	StartDate *string
	EndDate   *string
	Status    *string
}

type ListTournamentsInput struct {
	Sport     sport.Sport
	CreatedBy string
	Status    string
	Pagination
}

type TournamentService struct {
	tournaments tournament.Repository
	matches     match.Repository
	idGen       idgen.Generator
	now         func() time.Time
}

func NewTournamentService(tournaments tournament.Repository, matches match.Repository, idGen idgen.Generator) *TournamentService {
	return &TournamentService{
		tournaments: tournaments,
		matches:     matches,
		idGen:       idGen,
		now:         time.Now,
	}
}

func (s *TournamentService) Create(ctx context.Context, input CreateTournamentInput) (tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.Create")
	defer span.End()

	actor, err := requireActor(input.Actor)
	if err != nil {
		return tournament.Tournament{}, err
	}

	var errs fieldErrors
	name := strings.TrimSpace(input.Name)
	if name == "" {
		errs.add("name", "name is required")
	}
	start := parseDate(&errs, "startDate", input.StartDate)
	end := parseDate(&errs, "endDate", input.EndDate)
	status := tournament.Status(strings.TrimSpace(input.Status))
	if status == "" {
		status = tournament.StatusUpcoming
	}
	if !tournament.ValidStatus(status) {
		errs.add("status", "status must be one of upcoming, ongoing, completed")
	}
	if err := errs.first(); err != nil {
		return tournament.Tournament{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("generate tournament id: %w", err)
	}
	now := s.now().UTC()
	item := tournament.Tournament{
		ID:        id,
		Sport:     input.Sport,
		Name:      name,
		Location:  strings.TrimSpace(input.Location),
		StartDate: start,
		EndDate:   end,
		Status:    status,
		CreatedBy: actor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !item.DatesOrdered() {
		return tournament.Tournament{}, invalidField("endDate", "endDate must be on or after startDate")
	}

	if err := s.tournaments.Create(ctx, item); err != nil {
		return tournament.Tournament{}, fmt.Errorf("create tournament: %w", err)
	}
	return item, nil
}

func (s *TournamentService) Get(ctx context.Context, sp sport.Sport, id string) (tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.Get")
	defer span.End()

	id = strings.TrimSpace(id)
	if !idgen.Valid(id) {
		return tournament.Tournament{}, invalidField("id", "id must be a valid id")
	}
	item, exists, err := s.tournaments.GetByID(ctx, id)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("get tournament: %w", err)
	}
	if !exists || item.Sport != sp {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament not found", ErrNotFound)
	}
	return item, nil
}

func (s *TournamentService) List(ctx context.Context, input ListTournamentsInput) ([]tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.List")
	defer span.End()

	status := tournament.Status(strings.TrimSpace(input.Status))
	if status != "" && !tournament.ValidStatus(status) {
		return nil, invalidField("status", "status must be one of upcoming, ongoing, completed")
	}
	limit, offset := input.window()
	items, err := s.tournaments.List(ctx, tournament.ListFilter{
		Sport:     input.Sport,
		CreatedBy: strings.TrimSpace(input.CreatedBy),
		Status:    status,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	return items, nil
}

func (s *TournamentService) Update(ctx context.Context, input UpdateTournamentInput) (tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.Update")
	defer span.End()

	actor, err := requireActor(input.Actor)
	if err != nil {
		return tournament.Tournament{}, err
	}
	item, err := s.Get(ctx, input.Sport, input.ID)
	if err != nil {
		return tournament.Tournament{}, err
	}
	if err := requireOwner(actor, item.CreatedBy, "tournament"); err != nil {
		return tournament.Tournament{}, err
	}

	var errs fieldErrors
	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
		if item.Name == "" {
			errs.add("name", "name is required")
		}
	}
	if input.Location != nil {
		item.Location = strings.TrimSpace(*input.Location)
	}
	if input.StartDate != nil {
		item.StartDate = parseDate(&errs, "startDate", *input.StartDate)
	}
	if input.EndDate != nil {
		item.EndDate = parseDate(&errs, "endDate", *input.EndDate)
	}
	if input.Status != nil {
		item.Status = tournament.Status(strings.TrimSpace(*input.Status))
		if !tournament.ValidStatus(item.Status) {
			errs.add("status", "status must be one of upcoming, ongoing, completed")
		}
	}
	if err := errs.first(); err != nil {
		return tournament.Tournament{}, err
	}
	if !item.DatesOrdered() {
		return tournament.Tournament{}, invalidField("endDate", "endDate must be on or after startDate")
	}

	item.UpdatedAt = s.now().UTC()
	if err := s.tournaments.Update(ctx, item); err != nil {
		return tournament.Tournament{}, fmt.Errorf("update tournament: %w", err)
	}
	return item, nil
}

func (s *TournamentService) Delete(ctx context.Context, actor string, sp sport.Sport, id string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.Delete")
	defer span.End()

	actor, err := requireActor(actor)
	if err != nil {
		return err
	}
	item, err := s.Get(ctx, sp, id)
	if err != nil {
		return err
	}
	if err := requireOwner(actor, item.CreatedBy, "tournament"); err != nil {
		return err
	}

	scheduled, err := s.matches.List(ctx, match.ListFilter{TournamentID: item.ID, Limit: 1})
	if err != nil {
		return fmt.Errorf("check tournament matches: %w", err)
	}
	if len(scheduled) > 0 {
		return invalidField("id", "Tournament still has matches; delete them first")
	}

	if err := s.tournaments.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("delete tournament: %w", err)
	}
	return nil
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/sportdata-hub/internal/domain/player"
	"github.com/riskibarqy/sportdata-hub/internal/domain/sport"
	idgen "github.com/riskibarqy/sportdata-hub/internal/platform/id"
)

const maxJerseyNumber = 99

type CreatePlayerInput struct {
	Actor        string
	Sport        sport.Sport
	Name         string
	Role         string
	JerseyNumber int
	ImageURL     string
}

type UpdatePlayerInput struct {
	Actor        string
	Sport        sport.Sport
	ID           string
	Name         *string
	Role         *string
	JerseyNumber *int
	ImageURL     *string
}

type ListPlayersInput struct {
	Sport     sport.Sport
	CreatedBy string
	Pagination
}

type PlayerService struct {
	players player.Repository
	idGen   idgen.Generator
	now     func() time.Time
}

func NewPlayerService(players player.Repository, idGen idgen.Generator) *PlayerService {
	return &PlayerService{
		players: players,
		idGen:   idGen,
		now:     time.Now,
	}
}

func validateJersey(errs *fieldErrors, n int) {
	if n < 0 || n > maxJerseyNumber {
		errs.add("jerseyNumber", fmt.Sprintf("jerseyNumber must be between 0 and %d", maxJerseyNumber))
	}
}

func (s *PlayerService) Create(ctx context.Context, input CreatePlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Create")
	defer span.End()

	actor, err := requireActor(input.Actor)
	if err != nil {
		return player.Player{}, err
	}

	var errs fieldErrors
	name := strings.TrimSpace(input.Name)
	if name == "" {
		errs.add("name", "name is required")
	}
	validateJersey(&errs, input.JerseyNumber)
	if err := errs.first(); err != nil {
		return player.Player{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return player.Player{}, fmt.Errorf("generate player id: %w", err)
	}
	now := s.now().UTC()
	item := player.Player{
		ID:           id,
		Sport:        input.Sport,
		Name:         name,
		Role:         strings.TrimSpace(input.Role),
		JerseyNumber: input.JerseyNumber,
		ImageURL:     strings.TrimSpace(input.ImageURL),
		CreatedBy:    actor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.players.Create(ctx, item); err != nil {
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}
	return item, nil
}

func (s *PlayerService) Get(ctx context.Context, sp sport.Sport, id string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Get")
	defer span.End()

	id = strings.TrimSpace(id)
	if !idgen.Valid(id) {
		return player.Player{}, invalidField("id", "id must be a valid id")
	}
	item, exists, err := s.players.GetByID(ctx, id)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists || item.Sport != sp {
		return player.Player{}, fmt.Errorf("%w: player not found", ErrNotFound)
	}
	return item, nil
}

func (s *PlayerService) List(ctx context.Context, input ListPlayersInput) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.List")
	defer span.End()

	limit, offset := input.window()
	items, err := s.players.List(ctx, player.ListFilter{
		Sport:     input.Sport,
		CreatedBy: strings.TrimSpace(input.CreatedBy),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return items, nil
}

func (s *PlayerService) Update(ctx context.Context, input UpdatePlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Update")
	defer span.End()

	actor, err := requireActor(input.Actor)
	if err != nil {
		return player.Player{}, err
	}
	item, err := s.Get(ctx, input.Sport, input.ID)
	if err != nil {
		return player.Player{}, err
	}
	if err := requireOwner(actor, item.CreatedBy, "player"); err != nil {
		return player.Player{}, err
	}

	var errs fieldErrors
	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
		if item.Name == "" {
			errs.add("name", "name is required")
		}
	}
	if input.JerseyNumber != nil {
		item.JerseyNumber = *input.JerseyNumber
		validateJersey(&errs, item.JerseyNumber)
	}
	if err := errs.first(); err != nil {
		return player.Player{}, err
	}
	if input.Role != nil {
		item.Role = strings.TrimSpace(*input.Role)
	}
	if input.ImageURL != nil {
		item.ImageURL = strings.TrimSpace(*input.ImageURL)
	}

	item.UpdatedAt = s.now().UTC()
	if err := s.players.Update(ctx, item); err != nil {
		return player.Player{}, fmt.Errorf("update player: %w", err)
	}
	return item, nil
}

func (s *PlayerService) Delete(ctx context.Context, actor string, sp sport.Sport, id string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Delete")
	defer span.End()

	actor, err := requireActor(actor)
	if err != nil {
		return err
	}
	item, err := s.Get(ctx, sp, id)
	if err != nil {
		return err
	}
	if err := requireOwner(actor, item.CreatedBy, "player"); err != nil {
		return err
	}
	if err := s.players.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	return nil
}

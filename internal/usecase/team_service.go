package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/sportdata-hub/internal/domain/match"
	"github.com/riskibarqy/sportdata-hub/internal/domain/player"
	"github.com/riskibarqy/sportdata-hub/internal/domain/sport"
	"github.com/riskibarqy/sportdata-hub/internal/domain/team"
	"github.com/riskibarqy/sportdata-hub/internal/domain/tournament"
	idgen "github.com/riskibarqy/sportdata-hub/internal/platform/id"
)

type CreateTeamInput struct {
	Actor        string
	Sport        sport.Sport
	Name         string
	ShortName    string
	LogoURL      string
	TournamentID string
	PlayerIDs    []string
}

// UpdateTeamInput applies the non-nil fields. PlayerIDs replaces the squad.
type UpdateTeamInput struct {
	Actor        string
	Sport        sport.Sport
	ID           string
	Name         *string
	ShortName    *string
	LogoURL      *string
	TournamentID *string
	PlayerIDs    *[]string
}

type ListTeamsInput struct {
	Sport        sport.Sport
	CreatedBy    string
	TournamentID string
	Pagination
}

type TeamService struct {
	teams       team.Repository
	players     player.Repository
	tournaments tournament.Repository
	matches     match.Repository
	idGen       idgen.Generator
	now         func() time.Time
}

func NewTeamService(
	teams team.Repository,
	players player.Repository,
	tournaments tournament.Repository,
	matches match.Repository,
	idGen idgen.Generator,
) *TeamService {
	return &TeamService{
		teams:       teams,
		players:     players,
		tournaments: tournaments,
		matches:     matches,
		idGen:       idGen,
		now:         time.Now,
	}
}

func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// validateSquadReferences checks the tournament and every squad player exist
// and play sp.
func (s *TeamService) validateSquadReferences(ctx context.Context, sp sport.Sport, tournamentID string, playerIDs []string) error {
	var found map[string]player.Player
	var owningTournament tournament.Tournament

	checks := make([]referenceCheck, 0, 2)
	if tournamentID != "" {
		checks = append(checks, referenceCheck{
			field:   "tournamentId",
			message: fmt.Sprintf("Tournament %s not found", tournamentID),
			exists: func(ctx context.Context) (bool, error) {
				item, ok, err := s.tournaments.GetByID(ctx, tournamentID)
				owningTournament = item
				return ok, err
			},
		})
	}
	if len(playerIDs) > 0 {
		checks = append(checks, referenceCheck{
			field: "playerIds",
			exists: func(ctx context.Context) (bool, error) {
				items, err := s.players.GetByIDs(ctx, playerIDs)
				if err != nil {
					return false, err
				}
				found = make(map[string]player.Player, len(items))
				for _, p := range items {
					found[p.ID] = p
				}
				return true, nil
			},
		})
	}
	missing, err := checkReferences(ctx, checks)
	if err != nil {
		return err
	}
	for _, id := range playerIDs {
		if _, ok := found[id]; !ok {
			missing.add("playerIds", fmt.Sprintf("Player %s not found", id))
		}
	}
	if err := missing.joined(); err != nil {
		return err
	}

	var errs fieldErrors

	if tournamentID != "" {
		sportMismatch(&errs, "tournamentId", sp, owningTournament.Sport, "tournament")
	}
	for _, id := range playerIDs {
		if p := found[id]; p.Sport != sp {
			errs.add("playerIds", fmt.Sprintf("Player %s plays %s, not %s", id, p.Sport, sp))
		}
	}
	return errs.first()
}

func (s *TeamService) Create(ctx context.Context, input CreateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Create")
	defer span.End()

	actor, err := requireActor(input.Actor)
	if err != nil {
		return team.Team{}, err
	}

	var errs fieldErrors
	name := strings.TrimSpace(input.Name)
	if name == "" {
		errs.add("name", "name is required")
	}
	tournamentID := strings.TrimSpace(input.TournamentID)
	validateID(&errs, "tournamentId", tournamentID, false)
	playerIDs := normalizeIDs(input.PlayerIDs)
	for _, id := range playerIDs {
		if !idgen.Valid(id) {
			errs.add("playerIds", fmt.Sprintf("Player id %s is not a valid id", id))
		}
	}
	if err := errs.first(); err != nil {
		return team.Team{}, err
	}

	if err := s.validateSquadReferences(ctx, input.Sport, tournamentID, playerIDs); err != nil {
		return team.Team{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}
	now := s.now().UTC()
	item := team.Team{
		ID:           id,
		Sport:        input.Sport,
		Name:         name,
		ShortName:    strings.TrimSpace(input.ShortName),
		LogoURL:      strings.TrimSpace(input.LogoURL),
		TournamentID: tournamentID,
		PlayerIDs:    playerIDs,
		CreatedBy:    actor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.teams.Create(ctx, item); err != nil {
		return team.Team{}, fmt.Errorf("create team: %w", err)
	}
	return item, nil
}

func (s *TeamService) Get(ctx context.Context, sp sport.Sport, id string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Get")
	defer span.End()

	id = strings.TrimSpace(id)
	if !idgen.Valid(id) {
		return team.Team{}, invalidField("id", "id must be a valid id")
	}
	item, exists, err := s.teams.GetByID(ctx, id)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists || item.Sport != sp {
		return team.Team{}, fmt.Errorf("%w: team not found", ErrNotFound)
	}
	return item, nil
}

func (s *TeamService) List(ctx context.Context, input ListTeamsInput) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.List")
	defer span.End()

	tournamentID := strings.TrimSpace(input.TournamentID)
	if tournamentID != "" && !idgen.Valid(tournamentID) {
		return nil, invalidField("tournamentId", "tournamentId must be a valid id")
	}
	limit, offset := input.window()
	items, err := s.teams.List(ctx, team.ListFilter{
		Sport:        input.Sport,
		CreatedBy:    strings.TrimSpace(input.CreatedBy),
		TournamentID: tournamentID,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return items, nil
}

func (s *TeamService) Update(ctx context.Context, input UpdateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Update")
	defer span.End()

	actor, err := requireActor(input.Actor)
	if err != nil {
		return team.Team{}, err
	}
	item, err := s.Get(ctx, input.Sport, input.ID)
	if err != nil {
		return team.Team{}, err
	}

	var errs fieldErrors
	if input.TournamentID != nil {
		item.TournamentID = strings.TrimSpace(*input.TournamentID)
		validateID(&errs, "tournamentId", item.TournamentID, false)
	}
	if input.PlayerIDs != nil {
		item.PlayerIDs = normalizeIDs(*input.PlayerIDs)
		for _, id := range item.PlayerIDs {
			if !idgen.Valid(id) {
				errs.add("playerIds", fmt.Sprintf("Player id %s is not a valid id", id))
			}
		}
	}
	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
		if item.Name == "" {
			errs.add("name", "name is required")
		}
	}
	if err := errs.first(); err != nil {
		return team.Team{}, err
	}

	if input.TournamentID != nil || input.PlayerIDs != nil {
		if err := s.validateSquadReferences(ctx, item.Sport, item.TournamentID, item.PlayerIDs); err != nil {
			return team.Team{}, err
		}
	}
	if err := requireOwner(actor, item.CreatedBy, "team"); err != nil {
		return team.Team{}, err
	}

	if input.ShortName != nil {
		item.ShortName = strings.TrimSpace(*input.ShortName)
	}
	if input.LogoURL != nil {
		item.LogoURL = strings.TrimSpace(*input.LogoURL)
	}
	item.UpdatedAt = s.now().UTC()
	if err := s.teams.Update(ctx, item); err != nil {
		return team.Team{}, fmt.Errorf("update team: %w", err)
	}
	return item, nil
}

func (s *TeamService) Delete(ctx context.Context, actor string, sp sport.Sport, id string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Delete")
	defer span.End()

	actor, err := requireActor(actor)
	if err != nil {
		return err
	}
	item, err := s.Get(ctx, sp, id)
	if err != nil {
		return err
	}
	if err := requireOwner(actor, item.CreatedBy, "team"); err != nil {
		return err
	}

	used, err := s.matches.ExistsForTeam(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("check team matches: %w", err)
	}
	if used {
		return invalidField("id", "Team is used by existing matches; delete them first")
	}
	if err := s.teams.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	return nil
}

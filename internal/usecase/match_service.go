package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/sportdata-hub/internal/domain/boxscore"
	"github.com/riskibarqy/sportdata-hub/internal/domain/match"
	"github.com/riskibarqy/sportdata-hub/internal/domain/player"
	"github.com/riskibarqy/sportdata-hub/internal/domain/scorecard"
	"github.com/riskibarqy/sportdata-hub/internal/domain/sport"
	"github.com/riskibarqy/sportdata-hub/internal/domain/team"
	"github.com/riskibarqy/sportdata-hub/internal/domain/tournament"
	idgen "github.com/riskibarqy/sportdata-hub/internal/platform/id"
)

type CreateMatchInput struct {
	Actor        string
	Sport        sport.Sport
	TournamentID string
	HomeTeamID   string
	AwayTeamID   string
	Venue        string
	ScheduledAt  string
	HomeRoster   []match.RosterEntry
	AwayRoster   []match.RosterEntry
}

// UpdateMatchInput applies the non-nil fields. Rosters can only change
// before the match starts; the sheet is rebuilt when they do.
type UpdateMatchInput struct {
	Actor        string
	Sport        sport.Sport
	ID           string
	TournamentID *string
	Venue        *string
	ScheduledAt  *string
	HomeRoster   *[]match.RosterEntry
	AwayRoster   *[]match.RosterEntry
}

type UpdateMatchStatusInput struct {
	Actor      string
	Sport      sport.Sport
	ID         string
	Status     string
	ResultNote string
}

type ListMatchesInput struct {
	Sport        sport.Sport
	CreatedBy    string
	TournamentID string
	TeamID       string
	Status       string
	Pagination
}

type MatchService struct {
	matches     match.Repository
	teams       team.Repository
	players     player.Repository
	tournaments tournament.Repository
	locks       *MatchLocks
	idGen       idgen.Generator
	now         func() time.Time
}

func NewMatchService(
	matches match.Repository,
	teams team.Repository,
	players player.Repository,
	tournaments tournament.Repository,
	locks *MatchLocks,
	idGen idgen.Generator,
) *MatchService {
	if locks == nil {
		locks = NewMatchLocks()
	}
	return &MatchService{
		matches:     matches,
		teams:       teams,
		players:     players,
		tournaments: tournaments,
		locks:       locks,
		idGen:       idGen,
		now:         time.Now,
	}
}

// lineup is everything a match references, loaded for rule checks.
type lineup struct {
	tournament tournament.Tournament
	home       team.Team
	away       team.Team
	players    map[string]player.Player
}

func rosterPlayerIDs(rosters ...[]match.RosterEntry) []string {
	var ids []string
	for _, roster := range rosters {
		for _, entry := range roster {
			ids = append(ids, entry.PlayerID)
		}
	}
	return normalizeIDs(ids)
}

func normalizeRoster(roster []match.RosterEntry) []match.RosterEntry {
	out := make([]match.RosterEntry, 0, len(roster))
	for _, entry := range roster {
		entry.PlayerID = strings.TrimSpace(entry.PlayerID)
		out = append(out, entry)
	}
	return out
}

func validateMatchShape(errs *fieldErrors, m match.Match) {
	validateID(errs, "tournamentId", m.TournamentID, false)
	validateID(errs, "homeTeamId", m.HomeTeamID, true)
	validateID(errs, "awayTeamId", m.AwayTeamID, true)
	for _, side := range []struct {
		field  string
		roster []match.RosterEntry
	}{{"homeRoster", m.HomeRoster}, {"awayRoster", m.AwayRoster}} {
		for _, entry := range side.roster {
			if !idgen.Valid(entry.PlayerID) {
				errs.add(side.field, fmt.Sprintf("Player id %q is not a valid id", entry.PlayerID))
			}
		}
	}
}

func parseSchedule(errs *fieldErrors, raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		errs.add("scheduledAt", "scheduledAt must be an RFC3339 timestamp")
		return time.Time{}
	}
	return t.UTC()
}

// loadLineup checks that every referenced entity exists, concurrently.
// All missing references are reported together.
func (s *MatchService) loadLineup(ctx context.Context, m match.Match) (lineup, error) {
	var l lineup
	playerIDs := rosterPlayerIDs(m.HomeRoster, m.AwayRoster)

	checks := []referenceCheck{
		{
			field:   "homeTeamId",
			message: fmt.Sprintf("Home team %s not found", m.HomeTeamID),
			exists: func(ctx context.Context) (bool, error) {
				item, ok, err := s.teams.GetByID(ctx, m.HomeTeamID)
				l.home = item
				return ok, err
			},
		},
		{
			field:   "awayTeamId",
			message: fmt.Sprintf("Away team %s not found", m.AwayTeamID),
			exists: func(ctx context.Context) (bool, error) {
				item, ok, err := s.teams.GetByID(ctx, m.AwayTeamID)
				l.away = item
				return ok, err
			},
		},
	}
	if m.TournamentID != "" {
		checks = append([]referenceCheck{{
			field:   "tournamentId",
			message: fmt.Sprintf("Tournament %s not found", m.TournamentID),
			exists: func(ctx context.Context) (bool, error) {
				item, ok, err := s.tournaments.GetByID(ctx, m.TournamentID)
				l.tournament = item
				return ok, err
			},
		}}, checks...)
	}
	if len(playerIDs) > 0 {
		checks = append(checks, referenceCheck{
			field: "players",
			exists: func(ctx context.Context) (bool, error) {
				items, err := s.players.GetByIDs(ctx, playerIDs)
				if err != nil {
					return false, err
				}
				l.players = make(map[string]player.Player, len(items))
				for _, p := range items {
					l.players[p.ID] = p
				}
				return true, nil
			},
		})
	}

	missing, err := checkReferences(ctx, checks)
	if err != nil {
		return lineup{}, err
	}
	for _, id := range playerIDs {
		if _, ok := l.players[id]; !ok {
			missing.add("players", fmt.Sprintf("Player %s not found", id))
		}
	}
	if err := missing.joined(); err != nil {
		return lineup{}, err
	}
	return l, nil
}

// checkLineupRules enforces sport consistency, squad membership and the
// playing cap.
func checkLineupRules(m match.Match, l lineup) error {
	var errs fieldErrors
	if m.HomeTeamID == m.AwayTeamID {
		errs.add("awayTeamId", "Home and away teams must be different")
	}
	if m.TournamentID != "" {
		sportMismatch(&errs, "tournamentId", m.Sport, l.tournament.Sport, "tournament")
	}
	sportMismatch(&errs, "homeTeamId", m.Sport, l.home.Sport, "home team")
	sportMismatch(&errs, "awayTeamId", m.Sport, l.away.Sport, "away team")

	seen := make(map[string]string)
	for _, side := range []struct {
		field  string
		squad  team.Team
		roster []match.RosterEntry
	}{
		{"homeRoster", l.home, m.HomeRoster},
		{"awayRoster", l.away, m.AwayRoster},
	} {
		for _, entry := range side.roster {
			if other, dup := seen[entry.PlayerID]; dup {
				if other == side.field {
					errs.add(side.field, fmt.Sprintf("Player %s is listed twice", entry.PlayerID))
				} else {
					errs.add(side.field, fmt.Sprintf("Player %s cannot play for both teams", entry.PlayerID))
				}
				continue
			}
			seen[entry.PlayerID] = side.field
			if p := l.players[entry.PlayerID]; p.Sport != m.Sport {
				errs.add(side.field, fmt.Sprintf("Player %s plays %s, not %s", entry.PlayerID, p.Sport, m.Sport))
			}
			if !side.squad.HasPlayer(entry.PlayerID) {
				errs.add(side.field, fmt.Sprintf("Player %s is not in the %s squad", entry.PlayerID, side.squad.Name))
			}
		}
		if match.PlayingCount(side.roster) > m.Sport.PlayingCap() {
			errs.add(side.field, match.RosterCapMessage(m.Sport))
		}
	}
	return errs.first()
}

// buildSheet renders the empty scoring document for m.
func buildSheet(m match.Match, version int64, now time.Time) (match.Sheet, error) {
	var (
		doc []byte
		err error
	)
	if m.Sport.UsesScorecard() {
		doc, err = scorecard.New(m).Encode()
	} else {
		var box *boxscore.BoxScore
		box, err = boxscore.New(m)
		if err == nil {
			doc, err = box.Encode()
		}
	}
	if err != nil {
		return match.Sheet{}, fmt.Errorf("build match sheet: %w", err)
	}
	return match.Sheet{
		MatchID:   m.ID,
		Sport:     m.Sport,
		Document:  doc,
		Version:   version,
		UpdatedAt: now,
	}, nil
}

func (s *MatchService) Create(ctx context.Context, input CreateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Create")
	defer span.End()

	actor, err := requireActor(input.Actor)
	if err != nil {
		return match.Match{}, err
	}

	item := match.Match{
		Sport:        input.Sport,
		TournamentID: strings.TrimSpace(input.TournamentID),
		HomeTeamID:   strings.TrimSpace(input.HomeTeamID),
		AwayTeamID:   strings.TrimSpace(input.AwayTeamID),
		Venue:        strings.TrimSpace(input.Venue),
		Status:       match.StatusNotStarted,
		HomeRoster:   normalizeRoster(input.HomeRoster),
		AwayRoster:   normalizeRoster(input.AwayRoster),
		CreatedBy:    actor,
	}
	var errs fieldErrors
	validateMatchShape(&errs, item)
	item.ScheduledAt = parseSchedule(&errs, input.ScheduledAt)
	if err := errs.first(); err != nil {
		return match.Match{}, err
	}

	refs, err := s.loadLineup(ctx, item)
	if err != nil {
		return match.Match{}, err
	}
	if err := checkLineupRules(item, refs); err != nil {
		return match.Match{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}
	now := s.now().UTC()
	item.ID = id
	item.CreatedAt = now
	item.UpdatedAt = now

	sheet, err := buildSheet(item, 1, now)
	if err != nil {
		return match.Match{}, err
	}
	if err := s.matches.Create(ctx, item, sheet); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}
	return item, nil
}

func (s *MatchService) Get(ctx context.Context, sp sport.Sport, id string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	id = strings.TrimSpace(id)
	if !idgen.Valid(id) {
		return match.Match{}, invalidField("id", "id must be a valid id")
	}
	item, exists, err := s.matches.GetByID(ctx, id)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists || item.Sport != sp {
		return match.Match{}, fmt.Errorf("%w: match not found", ErrNotFound)
	}
	return item, nil
}

func (s *MatchService) List(ctx context.Context, input ListMatchesInput) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	var errs fieldErrors
	filter := match.ListFilter{
		Sport:        input.Sport,
		CreatedBy:    strings.TrimSpace(input.CreatedBy),
		TournamentID: strings.TrimSpace(input.TournamentID),
		TeamID:       strings.TrimSpace(input.TeamID),
		Status:       match.Status(strings.TrimSpace(input.Status)),
	}
	validateID(&errs, "tournamentId", filter.TournamentID, false)
	validateID(&errs, "teamId", filter.TeamID, false)
	if filter.Status != "" && !match.ValidStatus(filter.Status) {
		errs.add("status", fmt.Sprintf("Unknown match status %q", filter.Status))
	}
	if err := errs.first(); err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = input.window()

	items, err := s.matches.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return items, nil
}

func (s *MatchService) Update(ctx context.Context, input UpdateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Update")
	defer span.End()

	actor, err := requireActor(input.Actor)
	if err != nil {
		return match.Match{}, err
	}
	current, err := s.Get(ctx, input.Sport, input.ID)
	if err != nil {
		return match.Match{}, err
	}
	unlock := s.locks.Lock(current.ID)
	defer unlock()

	// Re-read under the lock so a concurrent status change is not lost.
	item, err := s.Get(ctx, input.Sport, current.ID)
	if err != nil {
		return match.Match{}, err
	}

	var errs fieldErrors
	if input.TournamentID != nil {
		item.TournamentID = strings.TrimSpace(*input.TournamentID)
	}
	if input.HomeRoster != nil {
		item.HomeRoster = normalizeRoster(*input.HomeRoster)
	}
	if input.AwayRoster != nil {
		item.AwayRoster = normalizeRoster(*input.AwayRoster)
	}
	validateMatchShape(&errs, item)
	if input.ScheduledAt != nil {
		item.ScheduledAt = parseSchedule(&errs, *input.ScheduledAt)
	}
	if err := errs.first(); err != nil {
		return match.Match{}, err
	}

	rostersChanged := input.HomeRoster != nil || input.AwayRoster != nil
	var refs lineup
	if rostersChanged || input.TournamentID != nil {
		refs, err = s.loadLineup(ctx, item)
		if err != nil {
			return match.Match{}, err
		}
	}
	if err := requireOwner(actor, item.CreatedBy, "match"); err != nil {
		return match.Match{}, err
	}
	if item.Status.Terminal() {
		return match.Match{}, invalidField("status", fmt.Sprintf("Match is %s and can no longer be edited", item.Status))
	}
	if rostersChanged && item.Status != match.StatusNotStarted {
		return match.Match{}, invalidField("status", "Rosters can only change before the match starts")
	}
	if rostersChanged || input.TournamentID != nil {
		if err := checkLineupRules(item, refs); err != nil {
			return match.Match{}, err
		}
	}
	if input.Venue != nil {
		item.Venue = strings.TrimSpace(*input.Venue)
	}

	now := s.now().UTC()
	item.UpdatedAt = now

	var sheet *match.Sheet
	if rostersChanged {
		stored, _, err := s.matches.GetSheet(ctx, item.ID)
		if err != nil {
			return match.Match{}, fmt.Errorf("load match sheet: %w", err)
		}
		rebuilt, err := buildSheet(item, stored.Version+1, now)
		if err != nil {
			return match.Match{}, err
		}
		sheet = &rebuilt
	}
	if err := s.matches.Update(ctx, item, sheet); err != nil {
		return match.Match{}, fmt.Errorf("update match: %w", err)
	}
	return item, nil
}

func (s *MatchService) UpdateStatus(ctx context.Context, input UpdateMatchStatusInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.UpdateStatus")
	defer span.End()

	actor, err := requireActor(input.Actor)
	if err != nil {
		return match.Match{}, err
	}
	next := match.Status(strings.TrimSpace(input.Status))
	if !match.ValidStatus(next) {
		return match.Match{}, invalidField("status", fmt.Sprintf("Unknown match status %q", next))
	}
	current, err := s.Get(ctx, input.Sport, input.ID)
	if err != nil {
		return match.Match{}, err
	}
	unlock := s.locks.Lock(current.ID)
	defer unlock()

	item, err := s.Get(ctx, input.Sport, current.ID)
	if err != nil {
		return match.Match{}, err
	}
	if err := requireOwner(actor, item.CreatedBy, "match"); err != nil {
		return match.Match{}, err
	}
	if !match.CanTransition(item.Status, next) {
		return match.Match{}, invalidField("status", fmt.Sprintf("Cannot change match status from %s to %s", item.Status, next))
	}

	item.Status = next
	if note := strings.TrimSpace(input.ResultNote); note != "" {
		item.ResultNote = note
	}
	item.UpdatedAt = s.now().UTC()
	if err := s.matches.Update(ctx, item, nil); err != nil {
		return match.Match{}, fmt.Errorf("update match status: %w", err)
	}
	return item, nil
}

// Delete removes the match and its scoring sheet together.
func (s *MatchService) Delete(ctx context.Context, actor string, sp sport.Sport, id string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Delete")
	defer span.End()

	actor, err := requireActor(actor)
	if err != nil {
		return err
	}
	item, err := s.Get(ctx, sp, id)
	if err != nil {
		return err
	}
	if err := requireOwner(actor, item.CreatedBy, "match"); err != nil {
		return err
	}

	unlock := s.locks.Lock(item.ID)
	defer unlock()
	if err := s.matches.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	return nil
}

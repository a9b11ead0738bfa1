package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/riskibarqy/sportdata-hub/internal/domain/match"
	"github.com/riskibarqy/sportdata-hub/internal/domain/sport"
	"github.com/riskibarqy/sportdata-hub/internal/domain/team"
	"github.com/riskibarqy/sportdata-hub/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/sportdata-hub/internal/platform/id"
)

const (
	ownerID    = "user-owner"
	intruderID = "user-intruder"
)

type publishedUpdate struct {
	matchID string
	sheet   any
}

type recordingPublisher struct {
	mu      sync.Mutex
	updates []publishedUpdate
}

func (p *recordingPublisher) PublishMatchUpdate(_ context.Context, matchID string, sheet any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, publishedUpdate{matchID: matchID, sheet: sheet})
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.updates)
}

type customFixture struct {
	tournaments *memory.TournamentRepository
	teams       *memory.TeamRepository
	players     *memory.PlayerRepository
	matches     *memory.MatchRepository
	publisher   *recordingPublisher

	tournamentSvc *TournamentService
	teamSvc       *TeamService
	playerSvc     *PlayerService
	matchSvc      *MatchService
	scoringSvc    *ScoringService
}

func newCustomFixture(t *testing.T) *customFixture {
	t.Helper()

	f := &customFixture{
		tournaments: memory.NewTournamentRepository(),
		teams:       memory.NewTeamRepository(),
		players:     memory.NewPlayerRepository(),
		matches:     memory.NewMatchRepository(),
		publisher:   &recordingPublisher{},
	}
	ids := idgen.NewUUIDGenerator()
	locks := NewMatchLocks()
	f.tournamentSvc = NewTournamentService(f.tournaments, f.matches, ids)
	f.teamSvc = NewTeamService(f.teams, f.players, f.tournaments, f.matches, ids)
	f.playerSvc = NewPlayerService(f.players, ids)
	f.matchSvc = NewMatchService(f.matches, f.teams, f.players, f.tournaments, locks, ids)
	f.scoringSvc = NewScoringService(ScoringServiceConfig{
		Matches:    f.matches,
		Dismissals: memory.NewDismissalTypeRepository(nil),
		Locks:      locks,
		Publisher:  f.publisher,
	})
	return f
}

func (f *customFixture) seedPlayers(t *testing.T, sp sport.Sport, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		p, err := f.playerSvc.Create(t.Context(), CreatePlayerInput{
			Actor:        ownerID,
			Sport:        sp,
			Name:         "Player",
			JerseyNumber: i + 1,
		})
		if err != nil {
			t.Fatalf("seed player: %v", err)
		}
		ids = append(ids, p.ID)
	}
	return ids
}

func (f *customFixture) seedTeam(t *testing.T, sp sport.Sport, name string, squad int) team.Team {
	t.Helper()
	item, err := f.teamSvc.Create(t.Context(), CreateTeamInput{
		Actor:     ownerID,
		Sport:     sp,
		Name:      name,
		PlayerIDs: f.seedPlayers(t, sp, squad),
	})
	if err != nil {
		t.Fatalf("seed team: %v", err)
	}
	return item
}

// rosterFrom marks the first playing squad members as on the field.
func rosterFrom(tm team.Team, playing int) []match.RosterEntry {
	out := make([]match.RosterEntry, 0, len(tm.PlayerIDs))
	for i, id := range tm.PlayerIDs {
		out = append(out, match.RosterEntry{PlayerID: id, IsPlaying: i < playing})
	}
	return out
}

// seedMatch creates a match with full playing sides and moves it to
// in_progress when started is set.
func (f *customFixture) seedMatch(t *testing.T, sp sport.Sport, started bool) (match.Match, team.Team, team.Team) {
	t.Helper()
	playing := sp.PlayingCap()
	home := f.seedTeam(t, sp, "Home", playing+2)
	away := f.seedTeam(t, sp, "Away", playing+2)

	m, err := f.matchSvc.Create(t.Context(), CreateMatchInput{
		Actor:      ownerID,
		Sport:      sp,
		HomeTeamID: home.ID,
		AwayTeamID: away.ID,
		HomeRoster: rosterFrom(home, playing),
		AwayRoster: rosterFrom(away, playing),
	})
	if err != nil {
		t.Fatalf("seed match: %v", err)
	}
	if started {
		m, err = f.matchSvc.UpdateStatus(t.Context(), UpdateMatchStatusInput{
			Actor: ownerID, Sport: sp, ID: m.ID, Status: string(match.StatusInProgress),
		})
		if err != nil {
			t.Fatalf("start match: %v", err)
		}
	}
	return m, home, away
}

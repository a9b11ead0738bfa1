package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/sportdata-hub/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	teams map[string]team.Team
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{teams: make(map[string]team.Team)}
}

func (r *TeamRepository) Create(_ context.Context, t team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.PlayerIDs = cloneStrings(t.PlayerIDs)
	r.teams[t.ID] = t
	return nil
}

func (r *TeamRepository) GetByID(_ context.Context, id string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.teams[id]
	if !ok {
		return team.Team{}, false, nil
	}
	t.PlayerIDs = cloneStrings(t.PlayerIDs)
	return t, true, nil
}

func (r *TeamRepository) List(_ context.Context, filter team.ListFilter) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.teams))
	for _, t := range r.teams {
		if filter.Sport != "" && t.Sport != filter.Sport {
			continue
		}
		if filter.CreatedBy != "" && t.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.TournamentID != "" && t.TournamentID != filter.TournamentID {
			continue
		}
		t.PlayerIDs = cloneStrings(t.PlayerIDs)
		out = append(out, t)
	}
	newestFirst(out,
		func(t team.Team) int64 { return t.CreatedAt.UnixNano() },
		func(t team.Team) string { return t.ID },
	)
	return page(out, filter.Limit, filter.Offset), nil
}

func (r *TeamRepository) Update(_ context.Context, t team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.PlayerIDs = cloneStrings(t.PlayerIDs)
	r.teams[t.ID] = t
	return nil
}

func (r *TeamRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.teams, id)
	return nil
}

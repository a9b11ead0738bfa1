package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/sportdata-hub/internal/domain/tournament"
)

type TournamentRepository struct {
	mu          sync.RWMutex
	tournaments map[string]tournament.Tournament
}

func NewTournamentRepository() *TournamentRepository {
	return &TournamentRepository{tournaments: make(map[string]tournament.Tournament)}
}

func (r *TournamentRepository) Create(_ context.Context, t tournament.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tournaments[t.ID] = t
	return nil
}

func (r *TournamentRepository) GetByID(_ context.Context, id string) (tournament.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tournaments[id]
	return t, ok, nil
}

func (r *TournamentRepository) List(_ context.Context, filter tournament.ListFilter) ([]tournament.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tournament.Tournament, 0, len(r.tournaments))
	for _, t := range r.tournaments {
		if filter.Sport != "" && t.Sport != filter.Sport {
			continue
		}
		if filter.CreatedBy != "" && t.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, t)
	}
	newestFirst(out,
		func(t tournament.Tournament) int64 { return t.CreatedAt.UnixNano() },
		func(t tournament.Tournament) string { return t.ID },
	)
	return page(out, filter.Limit, filter.Offset), nil
}

func (r *TournamentRepository) Update(_ context.Context, t tournament.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tournaments[t.ID] = t
	return nil
}

func (r *TournamentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tournaments, id)
	return nil
}

package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/sportdata-hub/internal/domain/match"
)

// MatchRepository keeps matches and their sheets under one lock so a match
// and its sheet are always written together.
type MatchRepository struct {
	mu      sync.RWMutex
	matches map[string]match.Match
	sheets  map[string]match.Sheet
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{
		matches: make(map[string]match.Match),
		sheets:  make(map[string]match.Sheet),
	}
}

func cloneMatch(m match.Match) match.Match {
	m.HomeRoster = append([]match.RosterEntry(nil), m.HomeRoster...)
	m.AwayRoster = append([]match.RosterEntry(nil), m.AwayRoster...)
	return m
}

func (r *MatchRepository) Create(_ context.Context, m match.Match, sheet match.Sheet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.matches[m.ID] = cloneMatch(m)
	sheet.Document = cloneBytes(sheet.Document)
	r.sheets[m.ID] = sheet
	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.matches[id]
	if !ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(m), true, nil
}

func (r *MatchRepository) List(_ context.Context, filter match.ListFilter) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.matches))
	for _, m := range r.matches {
		if filter.Sport != "" && m.Sport != filter.Sport {
			continue
		}
		if filter.CreatedBy != "" && m.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.TournamentID != "" && m.TournamentID != filter.TournamentID {
			continue
		}
		if filter.TeamID != "" && m.HomeTeamID != filter.TeamID && m.AwayTeamID != filter.TeamID {
			continue
		}
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		out = append(out, cloneMatch(m))
	}
	newestFirst(out,
		func(m match.Match) int64 { return m.CreatedAt.UnixNano() },
		func(m match.Match) string { return m.ID },
	)
	return page(out, filter.Limit, filter.Offset), nil
}

func (r *MatchRepository) Update(_ context.Context, m match.Match, sheet *match.Sheet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.matches[m.ID] = cloneMatch(m)
	if sheet != nil {
		stored := *sheet
		stored.Document = cloneBytes(stored.Document)
		r.sheets[m.ID] = stored
	}
	return nil
}

func (r *MatchRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.matches, id)
	delete(r.sheets, id)
	return nil
}

func (r *MatchRepository) ExistsForTeam(_ context.Context, teamID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.matches {
		if m.HomeTeamID == teamID || m.AwayTeamID == teamID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MatchRepository) GetSheet(_ context.Context, matchID string) (match.Sheet, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sheet, ok := r.sheets[matchID]
	if !ok {
		return match.Sheet{}, false, nil
	}
	sheet.Document = cloneBytes(sheet.Document)
	return sheet, true, nil
}

func (r *MatchRepository) SaveSheet(_ context.Context, sheet match.Sheet, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.sheets[sheet.MatchID]
	if !ok || current.Version != expectedVersion {
		return match.ErrSheetVersionConflict
	}
	sheet.Document = cloneBytes(sheet.Document)
	r.sheets[sheet.MatchID] = sheet
	return nil
}

package cache

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/sportdata-hub/internal/domain/scorecard"
	basecache "github.com/riskibarqy/sportdata-hub/internal/platform/cache"
	"golang.org/x/sync/singleflight"
)

const dismissalTypesKey = "ref:dismissal-types"

// DismissalTypeRepository serves the dismissal reference table from cache.
// The table only changes through migrations, so one entry holds all rows.
type DismissalTypeRepository struct {
	next   scorecard.DismissalTypeRepository
	cache  basecache.Cache
	flight singleflight.Group
	ttl    time.Duration
}

func NewDismissalTypeRepository(next scorecard.DismissalTypeRepository, cache basecache.Cache, ttl time.Duration) *DismissalTypeRepository {
	return &DismissalTypeRepository{next: next, cache: cache, ttl: ttl}
}

type cachedDismissalType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func (r *DismissalTypeRepository) List(ctx context.Context) ([]scorecard.DismissalType, error) {
	raw, err := basecache.GetOrLoad(ctx, r.cache, &r.flight, dismissalTypesKey, r.ttl, func(ctx context.Context) ([]byte, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]cachedDismissalType, 0, len(items))
		for _, item := range items {
			rows = append(rows, cachedDismissalType{ID: item.ID, Name: item.Name, Kind: string(item.Kind)})
		}
		return sonic.Marshal(rows)
	})
	if err != nil {
		return nil, err
	}

	var rows []cachedDismissalType
	if err := sonic.Unmarshal(raw, &rows); err != nil {
		r.cache.Delete(ctx, dismissalTypesKey)
		return r.next.List(ctx)
	}
	out := make([]scorecard.DismissalType, 0, len(rows))
	for _, row := range rows {
		out = append(out, scorecard.DismissalType{ID: row.ID, Name: row.Name, Kind: scorecard.DismissalKind(row.Kind)})
	}
	return out, nil
}

func (r *DismissalTypeRepository) GetByID(ctx context.Context, id string) (scorecard.DismissalType, bool, error) {
	items, err := r.List(ctx)
	if err != nil {
		return scorecard.DismissalType{}, false, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, true, nil
		}
	}
	return scorecard.DismissalType{}, false, nil
}

package memory

import (
	"context"

	"github.com/riskibarqy/sportdata-hub/internal/domain/scorecard"
)

// DismissalTypeRepository serves the fixed dismissal reference list.
type DismissalTypeRepository struct {
	items []scorecard.DismissalType
	byID  map[string]scorecard.DismissalType
}

func NewDismissalTypeRepository(items []scorecard.DismissalType) *DismissalTypeRepository {
	if items == nil {
		items = scorecard.DefaultDismissalTypes()
	}
	byID := make(map[string]scorecard.DismissalType, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return &DismissalTypeRepository{items: items, byID: byID}
}

func (r *DismissalTypeRepository) List(_ context.Context) ([]scorecard.DismissalType, error) {
	out := make([]scorecard.DismissalType, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *DismissalTypeRepository) GetByID(_ context.Context, id string) (scorecard.DismissalType, bool, error) {
	item, ok := r.byID[id]
	return item, ok, nil
}

package scorecard

import "context"

// DismissalTypeRepository reads the dismissal reference table.
type DismissalTypeRepository interface {
	List(ctx context.Context) ([]DismissalType, error)
	GetByID(ctx context.Context, id string) (DismissalType, bool, error)
}

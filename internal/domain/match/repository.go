package match

import "context"

type Repository interface {
	// Create stores the match together with its initial sheet, atomically.
	Create(ctx context.Context, m Match, sheet Sheet) error
	GetByID(ctx context.Context, id string) (Match, bool, error)
	List(ctx context.Context, filter ListFilter) ([]Match, error)
	// Update stores m and, when sheet is non-nil, replaces its sheet too.
	Update(ctx context.Context, m Match, sheet *Sheet) error
	// Delete removes the match and its sheet.
	Delete(ctx context.Context, id string) error
	// ExistsForTeam reports whether any match references the team.
	ExistsForTeam(ctx context.Context, teamID string) (bool, error)

	GetSheet(ctx context.Context, matchID string) (Sheet, bool, error)
	// SaveSheet writes sheet when the stored version still equals
	// expectedVersion, else it returns ErrSheetVersionConflict.
	SaveSheet(ctx context.Context, sheet Sheet, expectedVersion int64) error
}

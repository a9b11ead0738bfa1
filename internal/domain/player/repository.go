package player

import "context"

type Repository interface {
	Create(ctx context.Context, p Player) error
	GetByID(ctx context.Context, id string) (Player, bool, error)
	// GetByIDs returns the players that exist; missing ids are simply absent.
	GetByIDs(ctx context.Context, ids []string) ([]Player, error)
	List(ctx context.Context, filter ListFilter) ([]Player, error)
	Update(ctx context.Context, p Player) error
	Delete(ctx context.Context, id string) error
}

package tournament

import "context"

type Repository interface {
	Create(ctx context.Context, t Tournament) error
	GetByID(ctx context.Context, id string) (Tournament, bool, error)
	List(ctx context.Context, filter ListFilter) ([]Tournament, error)
	Update(ctx context.Context, t Tournament) error
	Delete(ctx context.Context, id string) error
}

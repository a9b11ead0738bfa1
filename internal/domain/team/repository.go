package team

import "context"

type Repository interface {
	Create(ctx context.Context, t Team) error
	GetByID(ctx context.Context, id string) (Team, bool, error)
	List(ctx context.Context, filter ListFilter) ([]Team, error)
	Update(ctx context.Context, t Team) error
	Delete(ctx context.Context, id string) error
}

package resource

import "context"

// Repository persists upstream payloads by (kind, natural key).
type Repository interface {
	Get(ctx context.Context, kind Kind, naturalKey string) (Record, bool, error)
	Upsert(ctx context.Context, record Record) error
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sportdata-hub/internal/domain/resource"
	qb "github.com/riskibarqy/sportdata-hub/internal/platform/querybuilder"
)

// ResourceRepository persists raw upstream payloads keyed by kind and
// natural key.
type ResourceRepository struct {
	db *sqlx.DB
}

func NewResourceRepository(db *sqlx.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

func (r *ResourceRepository) Get(ctx context.Context, kind resource.Kind, naturalKey string) (resource.Record, bool, error) {
	query, args, err := qb.Select("kind", "natural_key", "payload", "fetched_at").From("sport_resources").
		Where(
			qb.Eq("kind", string(kind)),
			qb.Eq("natural_key", naturalKey),
		).
		ToSQL()
	if err != nil {
		return resource.Record{}, false, fmt.Errorf("build select resource query: %w", err)
	}

	var row resourceTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return resource.Record{}, false, nil
		}
		return resource.Record{}, false, fmt.Errorf("select resource kind=%s key=%s: %w", kind, naturalKey, err)
	}

	return resource.Record{
		Kind:       resource.Kind(row.Kind),
		NaturalKey: row.NaturalKey,
		Payload:    row.Payload,
		FetchedAt:  row.FetchedAt.UTC(),
	}, true, nil
}

func (r *ResourceRepository) Upsert(ctx context.Context, record resource.Record) error {
	insertModel := resourceUpsertModel{
		Kind:       string(record.Kind),
		NaturalKey: record.NaturalKey,
		Payload:    string(record.Payload),
		FetchedAt:  record.FetchedAt.UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	query, args, err := qb.UpsertModel("sport_resources", insertModel, "kind", "natural_key")
	if err != nil {
		return fmt.Errorf("build upsert resource query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert resource kind=%s key=%s: %w", record.Kind, record.NaturalKey, err)
	}
	return nil
}

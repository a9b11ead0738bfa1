package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/sportdata-hub/internal/domain/resource"
)

type ResourceRepository struct {
	mu      sync.RWMutex
	records map[string]resource.Record
}

func NewResourceRepository() *ResourceRepository {
	return &ResourceRepository{records: make(map[string]resource.Record)}
}

func resourceKey(kind resource.Kind, naturalKey string) string {
	return string(kind) + "|" + naturalKey
}

func (r *ResourceRepository) Get(_ context.Context, kind resource.Kind, naturalKey string) (resource.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[resourceKey(kind, naturalKey)]
	if !ok {
		return resource.Record{}, false, nil
	}
	rec.Payload = cloneBytes(rec.Payload)
	return rec, true, nil
}

func (r *ResourceRepository) Upsert(_ context.Context, record resource.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record.Payload = cloneBytes(record.Payload)
	r.records[resourceKey(record.Kind, record.NaturalKey)] = record
	return nil
}

func (r *ResourceRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is the TTL key/value capability the resolver and repository
// decorators depend on. Values are opaque encoded payloads.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Name() string
}

// Clock lets tests drive expiry deterministically.
type Clock func() time.Time

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Store is the in-process Cache backend. A zero ttl on Set falls back to
// the store default; a zero default means entries never expire.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration
	now        Clock
	flight     singleflight.Group
}

type StoreOption func(*Store)

func WithClock(clock Clock) StoreOption {
	return func(s *Store) {
		if clock != nil {
			s.now = clock
		}
	}
}

func NewStore(defaultTTL time.Duration, opts ...StoreOption) *Store {
	s := &Store{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Name() string { return "memory" }

func (s *Store) Get(_ context.Context, key string) ([]byte, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && !e.expiresAt.After(s.now()) {
		s.mu.Lock()
		if current, still := s.entries[key]; still && current.expiresAt.Equal(e.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if key == "" {
		return
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	expiresAt := time.Time{}
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: expiresAt}
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len reports live and expired-but-unswept entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetOrLoad returns the cached value for key or runs loader once across
// concurrent callers and caches its result for ttl.
func GetOrLoad(ctx context.Context, c Cache, flight *singleflight.Group, key string, ttl time.Duration, loader func(context.Context) ([]byte, error)) ([]byte, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" || c == nil {
		return loader(ctx)
	}

	if value, ok := c.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := flight.Do(key, func() (any, error) {
		if cached, ok := c.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		c.Set(ctx, key, loaded, ttl)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value.([]byte), nil
}

// GetOrLoad is the Store-bound form of the package GetOrLoad.
func (s *Store) GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) ([]byte, error)) ([]byte, error) {
	return GetOrLoad(ctx, s, &s.flight, key, ttl, loader)
}

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) ([]byte, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return []byte("value"), nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", 0, loader)
			if err != nil {
				errCh <- err
				return
			}
			if string(v) != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresWithInjectedClock(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := NewStore(time.Hour, WithClock(func() time.Time { return now }))

	store.Set(context.Background(), "standings", []byte("a"), 10*time.Second)
	if _, ok := store.Get(context.Background(), "standings"); !ok {
		t.Fatalf("expected fresh entry")
	}

	now = now.Add(9 * time.Second)
	if _, ok := store.Get(context.Background(), "standings"); !ok {
		t.Fatalf("expected entry before deadline")
	}

	now = now.Add(time.Second)
	if _, ok := store.Get(context.Background(), "standings"); ok {
		t.Fatalf("expected entry to expire at deadline")
	}
	if store.Len() != 0 {
		t.Fatalf("expected expired entry to be swept, len=%d", store.Len())
	}
}

func TestStore_ZeroTTLUsesDefault(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := NewStore(time.Minute, WithClock(func() time.Time { return now }))
	store.Set(context.Background(), "k", []byte("v"), 0)

	now = now.Add(59 * time.Second)
	if _, ok := store.Get(context.Background(), "k"); !ok {
		t.Fatalf("expected entry inside default ttl")
	}
	now = now.Add(2 * time.Second)
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("expected entry past default ttl to expire")
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) ([]byte, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("boom")
		}
		return []byte("ok"), nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", 0, loader); err == nil {
		t.Fatalf("expected first load error")
	}
	v, err := store.GetOrLoad(context.Background(), "k", 0, loader)
	if err != nil || string(v) != "ok" {
		t.Fatalf("expected reload after error, got %q %v", v, err)
	}
}

func TestParseRedisURL(t *testing.T) {
	t.Parallel()

	opts, err := parseRedisURL("localhost:6379")
	if err != nil || opts.Addr != "localhost:6379" {
		t.Fatalf("unexpected plain addr parse: %+v %v", opts, err)
	}

	opts, err = parseRedisURL("redis://:secret@cache:6380/2")
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if opts.Addr != "cache:6380" || opts.Password != "secret" || opts.DB != 2 {
		t.Fatalf("unexpected options: %+v", opts)
	}

	if _, err := parseRedisURL(" "); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")

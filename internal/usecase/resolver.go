package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/riskibarqy/sportdata-hub/internal/domain/resource"
	"github.com/riskibarqy/sportdata-hub/internal/platform/cache"
	"github.com/riskibarqy/sportdata-hub/internal/platform/logging"
)

// UpstreamFetcher returns the raw JSON document at a sports API path.
// A missing upstream entity is reported with ErrUpstreamNotFound.
type UpstreamFetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

type ResolutionObserver interface {
	ObserveResolution(kind, tier string)
}

type Tier string

const (
	TierCache    Tier = "cache"
	TierStore    Tier = "store"
	TierUpstream Tier = "upstream"
	TierAbsent   Tier = "absent"
)

type ResolverConfig struct {
	Cache    cache.Cache
	Store    resource.Repository
	Upstream UpstreamFetcher
	TTLs     resource.TTLs
	Observer ResolutionObserver
	Logger   *logging.Logger
	Now      func() time.Time
	// MissTimeout bounds the shared store and upstream work of one miss.
	// It runs detached from the caller that started it, since other callers
	// may be waiting on the same key.
	MissTimeout time.Duration
}

const defaultMissTimeout = 30 * time.Second

// Resolver serves upstream resources from cache, then the persistent store,
// then the sports API, persisting and caching what it fetches.
type Resolver struct {
	cache    cache.Cache
	store    resource.Repository
	upstream UpstreamFetcher
	ttls     resource.TTLs
	observer ResolutionObserver
	logger   *logging.Logger
	now      func() time.Time
	timeout  time.Duration
	flight   singleflight.Group
}

func NewResolver(cfg ResolverConfig) *Resolver {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	ttls := cfg.TTLs
	if ttls == nil {
		ttls = resource.DefaultTTLs()
	}
	timeout := cfg.MissTimeout
	if timeout <= 0 {
		timeout = defaultMissTimeout
	}
	return &Resolver{
		cache:    cfg.Cache,
		store:    cfg.Store,
		upstream: cfg.Upstream,
		ttls:     ttls,
		observer: cfg.Observer,
		logger:   logger,
		now:      now,
		timeout:  timeout,
	}
}

type ResolveRequest struct {
	Kind   resource.Kind
	Params resource.Params
	// CacheKey defaults to the kind's public route rendered from Params.
	CacheKey string
}

type Resolution struct {
	Payload []byte
	Found   bool
	Tier    Tier
}

func (r *Resolver) Resolve(ctx context.Context, req ResolveRequest) (Resolution, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Resolver.Resolve",
		attribute.String("resource.kind", string(req.Kind)))
	defer span.End()

	desc, ok := resource.Lookup(req.Kind)
	if !ok {
		return Resolution{}, fmt.Errorf("%w: unknown resource kind %q", ErrInvalidInput, req.Kind)
	}

	key := req.CacheKey
	if key == "" {
		local, err := desc.LocalPath(req.Params)
		if err != nil {
			return Resolution{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		key = resource.CacheKey(local, nil)
	}

	if payload, hit := r.cache.Get(ctx, key); hit {
		r.observe(desc.Kind, TierCache)
		return Resolution{Payload: payload, Found: true, Tier: TierCache}, nil
	}

	// A caller that gives up stops waiting; the shared miss still completes
	// for everyone else joined on the key.
	ch := r.flight.DoChan(key, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()
		return r.resolveMiss(shared, desc, req.Params, key)
	})
	select {
	case <-ctx.Done():
		return Resolution{}, ctx.Err()
	case out := <-ch:
		if out.Err != nil {
			return Resolution{}, out.Err
		}
		res := out.Val.(Resolution)
		r.observe(desc.Kind, res.Tier)
		return res, nil
	}
}

func (r *Resolver) resolveMiss(ctx context.Context, desc resource.Descriptor, params resource.Params, key string) (Resolution, error) {
	if payload, hit := r.cache.Get(ctx, key); hit {
		return Resolution{Payload: payload, Found: true, Tier: TierCache}, nil
	}

	ttl := r.ttls.For(desc.Class)
	naturalKey, err := desc.NaturalKeyFor(params)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	stored, found, err := r.store.Get(ctx, desc.Kind, naturalKey)
	if err != nil {
		return Resolution{}, fmt.Errorf("load stored %s %s: %w", desc.Kind, naturalKey, err)
	}
	now := r.now()
	if found && desc.IsFresh(stored.FetchedAt, now) {
		r.cache.Set(ctx, key, stored.Payload, ttl)
		return Resolution{Payload: stored.Payload, Found: true, Tier: TierStore}, nil
	}

	path, err := desc.UpstreamPath(params)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	raw, err := r.upstream.Fetch(ctx, path)
	if err != nil {
		if errors.Is(err, ErrUpstreamNotFound) {
			r.logger.DebugContext(ctx, "upstream resource absent", "kind", desc.Kind, "natural_key", naturalKey)
			return Resolution{Found: false, Tier: TierAbsent}, nil
		}
		if found {
			r.logger.WarnContext(ctx, "upstream refresh failed, serving stored copy",
				"kind", desc.Kind,
				"natural_key", naturalKey,
				"fetched_at", stored.FetchedAt,
				"error", err,
			)
			r.cache.Set(ctx, key, stored.Payload, ttl)
			return Resolution{Payload: stored.Payload, Found: true, Tier: TierStore}, nil
		}
		return Resolution{}, fmt.Errorf("fetch %s from upstream: %w", desc.Kind, err)
	}

	payload := raw
	if desc.AccumulatePath != "" && found {
		payload, err = resource.Accumulate(desc.AccumulatePath, stored.Payload, raw)
		if err != nil {
			return Resolution{}, fmt.Errorf("accumulate %s: %w", desc.Kind, err)
		}
	}

	if err := r.store.Upsert(ctx, resource.Record{
		Kind:       desc.Kind,
		NaturalKey: naturalKey,
		Payload:    payload,
		FetchedAt:  now,
	}); err != nil {
		return Resolution{}, fmt.Errorf("persist %s %s: %w", desc.Kind, naturalKey, err)
	}

	r.cache.Set(ctx, key, payload, ttl)
	return Resolution{Payload: payload, Found: true, Tier: TierUpstream}, nil
}

func (r *Resolver) observe(kind resource.Kind, tier Tier) {
	if r.observer == nil {
		return
	}
	r.observer.ObserveResolution(string(kind), string(tier))
}

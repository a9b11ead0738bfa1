package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/riskibarqy/sportdata-hub/internal/platform/logging"
)

// RedisStore is the shared Cache backend used when several API instances
// must see the same cached upstream payloads.
type RedisStore struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
	logger     *logging.Logger
}

func NewRedisStore(redisURL, prefix string, defaultTTL time.Duration, logger *logging.Logger) (*RedisStore, error) {
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &RedisStore{
		client:     redis.NewClient(opts),
		prefix:     strings.TrimSuffix(strings.TrimSpace(prefix), ":"),
		defaultTTL: defaultTTL,
		logger:     logger,
	}, nil
}

func parseRedisURL(raw string) (*redis.Options, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("redis url is required")
	}
	if !strings.Contains(raw, "://") {
		return &redis.Options{Addr: raw}, nil
	}
	opts, err := redis.ParseURL(raw)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return opts, nil
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	if key == "" {
		return nil, false
	}
	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.WarnContext(ctx, "redis cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return value, true
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if key == "" {
		return
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	if err := s.client.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "redis cache set failed", "key", key, "error", err)
	}
}

func (s *RedisStore) Delete(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		s.logger.WarnContext(ctx, "redis cache delete failed", "key", key, "error", err)
	}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

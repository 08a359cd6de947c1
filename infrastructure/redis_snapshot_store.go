package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wagerbot/domain/entities"
	"wagerbot/domain/interfaces"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// NewRedisClient parses a redis:// URL and verifies the connection
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

// RedisSnapshotStore keeps the state document under a single key
type RedisSnapshotStore struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewRedisSnapshotStore creates a store for key. A zero ttl never expires.
func NewRedisSnapshotStore(rdb *redis.Client, key string, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{rdb: rdb, key: key, ttl: ttl}
}

func (s *RedisSnapshotStore) Backend() string {
	return "redis"
}

func (s *RedisSnapshotStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, entities.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", s.key, err)
	}
	return data, nil
}

func (s *RedisSnapshotStore) Save(ctx context.Context, document []byte) error {
	if err := s.rdb.Set(ctx, s.key, document, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", s.key, err)
	}
	return nil
}

// CachedSnapshotStore writes through to a primary store and keeps a redis
// copy for fast reads. Cache failures never fail an operation.
type CachedSnapshotStore struct {
	primary interfaces.SnapshotStore
	cache   *RedisSnapshotStore
}

// NewCachedSnapshotStore wraps primary with a redis cache
func NewCachedSnapshotStore(primary interfaces.SnapshotStore, cache *RedisSnapshotStore) *CachedSnapshotStore {
	return &CachedSnapshotStore{primary: primary, cache: cache}
}

func (s *CachedSnapshotStore) Backend() string {
	return s.primary.Backend() + "+redis"
}

// Load tries the cache first and falls back to the primary
func (s *CachedSnapshotStore) Load(ctx context.Context) ([]byte, error) {
	if data, err := s.cache.Load(ctx); err == nil {
		return data, nil
	}

	data, err := s.primary.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Save(ctx, data); err != nil {
		log.WithError(err).Warn("Failed to populate snapshot cache")
	}
	return data, nil
}

// Save writes to the primary, then refreshes the cache
func (s *CachedSnapshotStore) Save(ctx context.Context, document []byte) error {
	if err := s.primary.Save(ctx, document); err != nil {
		return err
	}
	if err := s.cache.Save(ctx, document); err != nil {
		log.WithError(err).Warn("Failed to refresh snapshot cache")
		s.cache.rdb.Del(ctx, s.cache.key)
	}
	return nil
}

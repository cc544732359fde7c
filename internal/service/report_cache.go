package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yourorg/rentledger/internal/infrastructure/redis"
	"github.com/yourorg/rentledger/internal/reliability/circuitbreaker"
	"github.com/yourorg/rentledger/pkg/cache"
)

// ReportCache stores rendered report payloads keyed by month. A cache
// failure is never an error: reports fall through to the store.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// MemoryReportCache caches reports in process memory. It is the
// default when no redis URL is configured.
type MemoryReportCache struct {
	cache *cache.Cache
}

// NewMemoryReportCache creates an in-process report cache.
func NewMemoryReportCache() *MemoryReportCache {
	return &MemoryReportCache{cache: cache.New()}
}

func (c *MemoryReportCache) Get(_ context.Context, key string) ([]byte, bool) {
	value, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	payload, ok := value.([]byte)
	return payload, ok
}

func (c *MemoryReportCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.cache.Set(key, value, ttl)
}

// RedisReportCache caches reports in redis behind a circuit breaker,
// so a struggling redis degrades to cache misses instead of adding
// latency to every report.
type RedisReportCache struct {
	client  *redis.Client
	breaker *circuitbreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewRedisReportCache creates a redis-backed report cache.
func NewRedisReportCache(client *redis.Client, logger *slog.Logger) *RedisReportCache {
	if logger == nil {
		logger = slog.Default()
	}
	breaker := circuitbreaker.NewCircuitBreaker(5, 2, 30*time.Second)
	breaker.SetStateChangeCallback(func(from, to circuitbreaker.State) {
		logger.Warn("report cache circuit state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})
	return &RedisReportCache{client: client, breaker: breaker, logger: logger}
}

func (c *RedisReportCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.breaker.AllowRequest() {
		return nil, false
	}
	value, err := c.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			c.breaker.RecordSuccess()
			return nil, false
		}
		c.breaker.RecordFailure()
		c.logger.Warn("report cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		return nil, false
	}
	c.breaker.RecordSuccess()
	return []byte(value), true
}

func (c *RedisReportCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if !c.breaker.AllowRequest() {
		return
	}
	if err := c.client.Set(ctx, key, value, ttl); err != nil {
		c.breaker.RecordFailure()
		c.logger.Warn("report cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	c.breaker.RecordSuccess()
}

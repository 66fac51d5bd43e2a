package cache

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	goCache "github.com/patrickmn/go-cache"
	"github.com/rentshop/billing/internal/config"
)

const (
	DefaultExpiration      = 30 * time.Minute
	DefaultCleanupInterval = 1 * time.Hour
)

// InMemoryCache is a process local Cache on go-cache. When caching is disabled
// in the configuration every read misses and writes are dropped.
type InMemoryCache struct {
	cache   *goCache.Cache
	enabled bool
}

func NewInMemoryCache(cfg *config.Configuration) Cache {
	expiration := cfg.Cache.TTL
	if expiration <= 0 {
		expiration = DefaultExpiration
	}
	return &InMemoryCache{
		cache:   goCache.New(expiration, DefaultCleanupInterval),
		enabled: cfg.Cache.Enabled,
	}
}

func (c *InMemoryCache) Get(ctx context.Context, key string) (interface{}, bool) {
	if !c.enabled {
		return nil, false
	}

	span := startSpan(ctx, "get", key)
	value, found := c.cache.Get(key)
	if span != nil {
		span.SetData("cache.hit", found)
		span.Status = sentry.SpanStatusOK
		span.Finish()
	}
	return value, found
}

func (c *InMemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if !c.enabled {
		return
	}
	if ttl <= 0 {
		ttl = goCache.DefaultExpiration
	}

	span := startSpan(ctx, "set", key)
	c.cache.Set(key, value, ttl)
	if span != nil {
		span.Finish()
	}
}

func (c *InMemoryCache) Delete(_ context.Context, key string) {
	c.cache.Delete(key)
}

func (c *InMemoryCache) Flush(_ context.Context) {
	c.cache.Flush()
}

// startSpan returns nil when no sentry hub travels with ctx
func startSpan(ctx context.Context, operation, key string) *sentry.Span {
	if sentry.GetHubFromContext(ctx) == nil {
		return nil
	}
	span := sentry.StartSpan(ctx, "cache.inmemory."+operation)
	span.Op = "cache." + operation
	span.Description = key
	span.SetData("cache.key", key)
	return span
}

package cache

import (
	"context"
	"strings"
	"time"
)

// Cache holds values for a bounded time and is safe for concurrent use.
// A zero ttl on Set uses the implementation's default expiration.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Flush(ctx context.Context)
}

// PrefixPlan namespaces plan entries, keyed by tenant and plan id
const PrefixPlan = "plan"

// Key joins prefix and parts with colons ex plan:tenant_1:plan_01J9
func Key(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), ":")
}

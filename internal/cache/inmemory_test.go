package cache

import (
	"context"
	"testing"
	"time"

	"github.com/rentshop/billing/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "plan:tenant_1:plan_1", Key(PrefixPlan, "tenant_1", "plan_1"))
	assert.Equal(t, "plan", Key(PrefixPlan))
}

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	cfg := config.GetDefaultConfig()
	cfg.Cache.Enabled = true
	c := NewInMemoryCache(cfg)

	c.Set(ctx, Key(PrefixPlan, "tenant", "plan_1"), "basic", 0)
	c.Set(ctx, Key(PrefixPlan, "tenant", "plan_2"), "pro", time.Minute)

	value, found := c.Get(ctx, "plan:tenant:plan_1")
	assert.True(t, found)
	assert.Equal(t, "basic", value)

	c.Delete(ctx, Key(PrefixPlan, "tenant", "plan_1"))
	_, found = c.Get(ctx, Key(PrefixPlan, "tenant", "plan_1"))
	assert.False(t, found)

	value, found = c.Get(ctx, Key(PrefixPlan, "tenant", "plan_2"))
	assert.True(t, found)
	assert.Equal(t, "pro", value)

	c.Flush(ctx)
	_, found = c.Get(ctx, Key(PrefixPlan, "tenant", "plan_2"))
	assert.False(t, found)
}

func TestInMemoryCache_Disabled(t *testing.T) {
	ctx := context.Background()
	cfg := config.GetDefaultConfig()
	cfg.Cache.Enabled = false
	c := NewInMemoryCache(cfg)

	c.Set(ctx, "key", "value", 0)
	_, found := c.Get(ctx, "key")
	assert.False(t, found)
}

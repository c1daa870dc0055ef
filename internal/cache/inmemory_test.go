package cache

import (
	"context"
	"testing"
	"time"

	"github.com/buzzhq/buzz/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(config.GetDefaultConfig())

	key := GenerateKey(PrefixCatalog, "tech-summit")
	assert.Equal(t, "catalog:v1:tech-summit", key)

	c.Set(ctx, key, "snapshot", time.Minute)
	v, ok := c.Get(ctx, key)
	assert.True(t, ok)
	assert.Equal(t, "snapshot", v)

	c.Set(ctx, GenerateKey(PrefixCatalog, "other"), "x", 0)
	c.Set(ctx, GenerateKey(PrefixDraft, "sess"), "y", 0)
	c.DeleteByPrefix(ctx, PrefixCatalog)

	_, ok = c.Get(ctx, key)
	assert.False(t, ok)
	_, ok = c.Get(ctx, GenerateKey(PrefixDraft, "sess"))
	assert.True(t, ok)

	c.Flush(ctx)
	_, ok = c.Get(ctx, GenerateKey(PrefixDraft, "sess"))
	assert.False(t, ok)
}

func TestInMemoryCache_Disabled(t *testing.T) {
	ctx := context.Background()
	cfg := config.GetDefaultConfig()
	cfg.Cache.Enabled = false
	c := NewInMemoryCache(cfg)

	c.Set(ctx, "k", "v", time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	c.ForceCacheSet(ctx, "k", "v", time.Minute)
	v, ok := c.ForceCacheGet(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	c.ForceCacheDelete(ctx, "k")
	_, ok = c.ForceCacheGet(ctx, "k")
	assert.False(t, ok)
}

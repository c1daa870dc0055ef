package draft

import (
	"context"
	"time"

	"github.com/buzzhq/buzz/internal/cache"
)

// MemoryStore keeps encoded drafts in the process cache. Drafts are written
// with the force variants so they survive when read caching is disabled.
type MemoryStore struct {
	cache *cache.InMemoryCache
	ttl   time.Duration
}

func NewMemoryStore(c *cache.InMemoryCache, ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: c, ttl: ttl}
}

func (s *MemoryStore) Load(ctx context.Context, key Key) (Draft, error) {
	if err := key.Validate(); err != nil {
		return Draft{}, err
	}
	v, ok := s.cache.ForceCacheGet(ctx, cache.GenerateKey(cache.PrefixDraft, key.String()))
	if !ok {
		return New(key.EventRoute), nil
	}
	raw, ok := v.([]byte)
	if !ok {
		return New(key.EventRoute), nil
	}
	return decode(key, raw)
}

func (s *MemoryStore) Save(ctx context.Context, key Key, d Draft) error {
	if err := key.Validate(); err != nil {
		return err
	}
	raw, err := encode(d)
	if err != nil {
		return err
	}
	s.cache.ForceCacheSet(ctx, cache.GenerateKey(cache.PrefixDraft, key.String()), raw, s.ttl)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	s.cache.ForceCacheDelete(ctx, cache.GenerateKey(cache.PrefixDraft, key.String()))
	return nil
}

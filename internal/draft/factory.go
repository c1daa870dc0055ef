package draft

import (
	"github.com/buzzhq/buzz/internal/cache"
	"github.com/buzzhq/buzz/internal/config"
	"github.com/buzzhq/buzz/internal/logger"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/redis/go-redis/v9"
)

// NewStore picks the configured backend. A redis store without a client
// falls back to memory.
func NewStore(cfg *config.Configuration, c *cache.InMemoryCache, client *redis.Client, log *logger.Logger) Store {
	if cfg.Draft.Store == types.DraftStoreRedis {
		if client != nil {
			log.Infow("using redis booking draft store", "address", cfg.Redis.Address)
			return NewRedisStore(client, cfg.Redis.KeyPrefix, cfg.Draft.TTL, log)
		}
		log.Warn("redis draft store configured without a redis client, using memory")
	}
	return NewMemoryStore(c, cfg.Draft.TTL)
}

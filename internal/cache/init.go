package cache

import (
	"github.com/buzzhq/buzz/internal/config"
	"github.com/buzzhq/buzz/internal/logger"
)

// Initialize builds the process cache and logs whether it is enabled
func Initialize(cfg *config.Configuration, log *logger.Logger) *InMemoryCache {
	log.Infow("initializing cache system", "enabled", cfg.Cache.Enabled, "catalog_ttl", cfg.Cache.CatalogTTL)
	return NewInMemoryCache(cfg)
}

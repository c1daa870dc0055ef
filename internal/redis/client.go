package redis

import (
	"context"
	"time"

	"github.com/buzzhq/buzz/internal/config"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/logger"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/redis/go-redis/v9"
)

// NewClient connects to redis when the draft store needs it. It returns a nil
// client when redis is not configured.
func NewClient(cfg *config.Configuration, log *logger.Logger) (*redis.Client, error) {
	if cfg.Draft.Store != types.DraftStoreRedis {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, ierr.WithError(err).
			WithHintf("Could not reach redis at %s", cfg.Redis.Address).
			Mark(ierr.ErrUnavailable)
	}

	log.Infow("connected to redis", "address", cfg.Redis.Address, "db", cfg.Redis.DB)
	return client, nil
}

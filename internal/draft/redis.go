package draft

import (
	"context"
	"errors"
	"time"

	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/logger"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps drafts in redis so any API instance can serve a session
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *logger.Logger
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration, logger *logger.Logger) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl, logger: logger}
}

func (s *RedisStore) redisKey(key Key) string {
	if s.prefix == "" {
		return key.String()
	}
	return s.prefix + ":" + key.String()
}

func (s *RedisStore) Load(ctx context.Context, key Key) (Draft, error) {
	if err := key.Validate(); err != nil {
		return Draft{}, err
	}

	raw, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(key.EventRoute), nil
	}
	if err != nil {
		return Draft{}, ierr.WithError(err).
			WithHint("Booking draft storage is unavailable").
			Mark(ierr.ErrDatabase)
	}

	d, err := decode(key, raw)
	if err != nil {
		// An unreadable draft is dropped rather than blocking the session
		s.logger.Warnw("discarding unreadable booking draft", "key", s.redisKey(key), "error", err)
		return New(key.EventRoute), nil
	}
	return d, nil
}

func (s *RedisStore) Save(ctx context.Context, key Key, d Draft) error {
	if err := key.Validate(); err != nil {
		return err
	}
	raw, err := encode(d)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.redisKey(key), raw, s.ttl).Err(); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to save booking draft").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to clear booking draft").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

package config

import (
	"time"

	"github.com/buzzhq/buzz/internal/types"
)

// EventConfig holds configuration for domain event publishing
type EventConfig struct {
	PubSub         types.PubSubType `mapstructure:"pubsub"`
	PublishRetries uint64           `mapstructure:"publish_retries"`

	// Consumer retry policy for subscribers on the message router
	MaxRetries      int           `mapstructure:"max_retries"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	Multiplier      float64       `mapstructure:"multiplier"`
}

// PricingConfig holds presentation defaults for the booking calculator
type PricingConfig struct {
	DefaultCurrency string `mapstructure:"default_currency" validate:"required,len=3"`
	DefaultLocale   string `mapstructure:"default_locale" validate:"required"`
}

// DraftConfig selects the booking draft store
type DraftConfig struct {
	Store types.DraftStoreType `mapstructure:"store"`
	TTL   time.Duration        `mapstructure:"ttl"`
}

type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	// KeyPrefix namespaces every key this service writes
	KeyPrefix string `mapstructure:"key_prefix"`
}

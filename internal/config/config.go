package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/buzzhq/buzz/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Pricing    PricingConfig    `mapstructure:"pricing" validate:"required"`
	Draft      DraftConfig      `mapstructure:"draft"`
	Event      EventConfig      `mapstructure:"event"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address        string  `validate:"required"`
	// QuoteRateLimit is requests per second allowed per client on the quote endpoint; 0 disables limiting
	QuoteRateLimit float64 `mapstructure:"quote_rate_limit"`
	QuoteBurst     int     `mapstructure:"quote_burst"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host                   string
	Port                   int
	User                   string
	Password               string
	DBName                 string
	SSLMode                string
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int `mapstructure:"conn_max_lifetime_minutes"`
}

type CacheConfig struct {
	Enabled    bool
	// CatalogTTL bounds how long a catalog snapshot is served before it is reloaded
	CatalogTTL time.Duration `mapstructure:"catalog_ttl"`
}

type SentryConfig struct {
	Enabled     bool
	DSN         string
	Environment string
	SampleRate  float64 `mapstructure:"sample_rate"`
}

func NewConfig() (*Configuration, error) {
	// .env is optional and only used for local development
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/buzz")

	v.SetEnvPrefix("BUZZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.catalog_ttl", 10*time.Minute)
	v.SetDefault("pricing.default_currency", types.DefaultCurrency)
	v.SetDefault("pricing.default_locale", types.DefaultLocale)
	v.SetDefault("draft.store", types.DraftStoreMemory)
	v.SetDefault("draft.ttl", 24*time.Hour)
	v.SetDefault("event.pubsub", types.MemoryPubSub)
	v.SetDefault("event.publish_retries", 3)
	v.SetDefault("event.max_retries", 3)
	v.SetDefault("event.initial_interval", time.Second)
	v.SetDefault("event.max_interval", 10*time.Second)
	v.SetDefault("event.multiplier", 2.0)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a configuration for scripts and tests that do not
// read config.yaml
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Cache:      CacheConfig{Enabled: true, CatalogTTL: 10 * time.Minute},
		Pricing: PricingConfig{
			DefaultCurrency: types.DefaultCurrency,
			DefaultLocale:   types.DefaultLocale,
		},
		Draft: DraftConfig{Store: types.DraftStoreMemory, TTL: 24 * time.Hour},
		Event: EventConfig{
			PubSub:          types.MemoryPubSub,
			PublishRetries:  3,
			MaxRetries:      3,
			InitialInterval: time.Second,
			MaxInterval:     10 * time.Second,
			Multiplier:      2.0,
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}

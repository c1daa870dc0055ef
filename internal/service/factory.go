package service

import (
	"github.com/buzzhq/buzz/internal/cache"
	"github.com/buzzhq/buzz/internal/config"
	"github.com/buzzhq/buzz/internal/domain/booking"
	"github.com/buzzhq/buzz/internal/domain/catalog"
	"github.com/buzzhq/buzz/internal/domain/coupon"
	"github.com/buzzhq/buzz/internal/domain/event"
	"github.com/buzzhq/buzz/internal/draft"
	"github.com/buzzhq/buzz/internal/logger"
	"github.com/buzzhq/buzz/internal/postgres"
	"github.com/buzzhq/buzz/internal/pricing"
	"github.com/buzzhq/buzz/internal/publisher"
	"github.com/buzzhq/buzz/internal/sentry"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Cache  cache.Cache
	Sentry *sentry.Service

	// Repositories
	EventRepo   event.Repository
	CatalogRepo catalog.Repository
	CouponRepo  coupon.Repository
	BookingRepo booking.Repository

	DraftStore draft.Store

	// Publishers
	EventPublisher publisher.EventPublisher

	// Pricing
	Calculator *pricing.Calculator
	Formatter  *pricing.Formatter
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	cache cache.Cache,
	sentry *sentry.Service,
	eventRepo event.Repository,
	catalogRepo catalog.Repository,
	couponRepo coupon.Repository,
	bookingRepo booking.Repository,
	draftStore draft.Store,
	eventPublisher publisher.EventPublisher,
	calculator *pricing.Calculator,
	formatter *pricing.Formatter,
) ServiceParams {
	return ServiceParams{
		Logger:         logger,
		Config:         config,
		DB:             db,
		Cache:          cache,
		Sentry:         sentry,
		EventRepo:      eventRepo,
		CatalogRepo:    catalogRepo,
		CouponRepo:     couponRepo,
		BookingRepo:    bookingRepo,
		DraftStore:     draftStore,
		EventPublisher: eventPublisher,
		Calculator:     calculator,
		Formatter:      formatter,
	}
}

// NewCalculator builds the shared breakdown calculator on the wall clock
func NewCalculator() *pricing.Calculator {
	return pricing.NewCalculator(nil)
}

// NewFormatter builds the shared currency formatter from pricing config
func NewFormatter(cfg *config.Configuration, logger *logger.Logger) *pricing.Formatter {
	return pricing.NewFormatter(cfg.Pricing.DefaultCurrency, cfg.Pricing.DefaultLocale, logger)
}

// locale falls back to the configured default
func (p ServiceParams) locale(requested string) string {
	if requested != "" {
		return requested
	}
	return p.Config.Pricing.DefaultLocale
}

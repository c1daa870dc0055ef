package testutil

import (
	"context"
	"time"

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
	"github.com/buzzhq/buzz/internal/types"
	"github.com/buzzhq/buzz/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	EventRepo   event.Repository
	CatalogRepo catalog.Repository
	CouponRepo  coupon.Repository
	BookingRepo booking.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	stores     Stores
	pubsub     *InMemoryPubSub
	publisher  publisher.EventPublisher
	db         postgres.IClient
	cache      *cache.InMemoryCache
	draftStore draft.Store
	calculator *pricing.Calculator
	formatter  *pricing.Formatter
	logger     *logger.Logger
	config     *config.Configuration
	now        time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelInfo
	s.config = cfg

	var err error
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.now = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	s.setupContext()
	s.setupStores()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		EventRepo:   NewInMemoryEventStore(),
		CatalogRepo: NewInMemoryCatalogStore(),
		CouponRepo:  NewInMemoryCouponStore(),
		BookingRepo: NewInMemoryBookingStore(),
	}

	s.db = NewMockPostgresClient(s.logger)
	s.cache = cache.NewInMemoryCache(s.config)
	s.draftStore = draft.NewMemoryStore(s.cache, s.config.Draft.TTL)
	s.calculator = pricing.NewCalculator(func() time.Time { return s.now })
	s.formatter = pricing.NewFormatter(s.config.Pricing.DefaultCurrency, s.config.Pricing.DefaultLocale, s.logger)

	s.pubsub = NewInMemoryPubSub()
	s.publisher = publisher.NewEventPublisher(s.pubsub, s.config, s.logger, nil)
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.EventRepo.(*InMemoryEventStore).Clear()
	s.stores.CatalogRepo.(*InMemoryCatalogStore).Clear()
	s.stores.CouponRepo.(*InMemoryCouponStore).Clear()
	s.stores.BookingRepo.(*InMemoryBookingStore).Clear()
	s.pubsub.ClearMessages()
	s.cache.Flush(context.Background())
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetPubSub returns the in-memory pubsub behind the publisher
func (s *BaseServiceTestSuite) GetPubSub() *InMemoryPubSub {
	return s.pubsub
}

// GetPublisher returns the test event publisher
func (s *BaseServiceTestSuite) GetPublisher() publisher.EventPublisher {
	return s.publisher
}

// GetDB returns the test database client
func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

func (s *BaseServiceTestSuite) GetCache() *cache.InMemoryCache {
	return s.cache
}

func (s *BaseServiceTestSuite) GetDraftStore() draft.Store {
	return s.draftStore
}

// GetCalculator returns a calculator on the suite clock
func (s *BaseServiceTestSuite) GetCalculator() *pricing.Calculator {
	return s.calculator
}

func (s *BaseServiceTestSuite) GetFormatter() *pricing.Formatter {
	return s.formatter
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the suite clock
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}

// SetNow moves the suite clock; the calculator follows it
func (s *BaseServiceTestSuite) SetNow(t time.Time) {
	s.now = t
}

// WithUser returns the test context bound to another user
func (s *BaseServiceTestSuite) WithUser(userID string) context.Context {
	return types.SetUserID(s.ctx, userID)
}

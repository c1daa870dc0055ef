package main

import (
	"context"
	"time"

	_ "github.com/buzzhq/buzz/docs/swagger"
	"github.com/buzzhq/buzz/internal/api"
	v1 "github.com/buzzhq/buzz/internal/api/v1"
	"github.com/buzzhq/buzz/internal/cache"
	"github.com/buzzhq/buzz/internal/config"
	"github.com/buzzhq/buzz/internal/draft"
	"github.com/buzzhq/buzz/internal/logger"
	"github.com/buzzhq/buzz/internal/postgres"
	"github.com/buzzhq/buzz/internal/publisher"
	pubsubMemory "github.com/buzzhq/buzz/internal/pubsub/memory"
	pubsubRouter "github.com/buzzhq/buzz/internal/pubsub/router"
	"github.com/buzzhq/buzz/internal/redis"
	"github.com/buzzhq/buzz/internal/repository"
	"github.com/buzzhq/buzz/internal/sentry"
	"github.com/buzzhq/buzz/internal/service"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/buzzhq/buzz/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// @title Buzz Booking API
// @version 1.0
// @description Event catalog, pricing and booking service
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// Initialize Fx application
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Monitoring
			sentry.NewSentryService,

			// Cache
			cache.Initialize,
			cache.NewCache,

			// Postgres
			provideDB,
			providePostgresClient,

			// Booking drafts
			redis.NewClient,
			draft.NewStore,

			// PubSub
			pubsubMemory.NewPubSub,
			pubsubRouter.NewRouter,

			// Event Publisher
			publisher.NewEventPublisher,

			// Repositories
			repository.NewEventRepository,
			repository.NewCatalogRepository,
			repository.NewCouponRepository,
			repository.NewBookingRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewCalculator,
			service.NewFormatter,
			service.NewServiceParams,

			service.NewCatalogService,
			service.NewEventService,
			service.NewQuoteService,
			service.NewCouponService,
			service.NewDraftService,
			service.NewBookingService,
			service.NewBookingEventHandler,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			sentry.RegisterHooks,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideDB(lc fx.Lifecycle, cfg *config.Configuration, log *logger.Logger) (*postgres.DB, error) {
	db, err := postgres.NewDB(cfg, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("closing postgres connection")
			db.Close()
			return nil
		},
	})
	return db, nil
}

func providePostgresClient(db *postgres.DB) postgres.IClient {
	return db
}

func provideHandlers(
	logger *logger.Logger,
	eventService service.EventService,
	catalogService service.CatalogService,
	quoteService service.QuoteService,
	couponService service.CouponService,
	draftService service.DraftService,
	bookingService service.BookingService,
) api.Handlers {
	return api.Handlers{
		Health:  v1.NewHealthHandler(logger),
		Events:  v1.NewEventsHandler(eventService, logger),
		Catalog: v1.NewCatalogHandler(catalogService, logger),
		Quote:   v1.NewQuoteHandler(quoteService, logger),
		Coupon:  v1.NewCouponHandler(couponService, logger),
		Draft:   v1.NewDraftHandler(draftService, logger),
		Booking: v1.NewBookingHandler(bookingService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	router *pubsubRouter.Router,
	bookingEventHandler service.BookingEventHandler,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
		startMessageRouter(lc, router, bookingEventHandler, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting API server...")
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}

func startMessageRouter(
	lc fx.Lifecycle,
	router *pubsubRouter.Router,
	bookingEventHandler service.BookingEventHandler,
	logger *logger.Logger,
) {
	// Register handlers before starting the router
	bookingEventHandler.RegisterHandler(router)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting message router")
			go func() {
				if err := router.Run(context.Background()); err != nil {
					logger.Errorw("message router failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping message router")
			return router.Close()
		},
	})
}

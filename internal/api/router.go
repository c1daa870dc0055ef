package api

import (
	v1 "github.com/buzzhq/buzz/internal/api/v1"
	"github.com/buzzhq/buzz/internal/config"
	"github.com/buzzhq/buzz/internal/logger"
	"github.com/buzzhq/buzz/internal/rest/middleware"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handlers struct {
	Health  *v1.HealthHandler
	Events  *v1.EventsHandler
	Catalog *v1.CatalogHandler
	Quote   *v1.QuoteHandler
	Coupon  *v1.CouponHandler
	Draft   *v1.DraftHandler
	Booking *v1.BookingHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.SentryMiddleware(cfg),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1Group := router.Group("/v1")
	v1Group.Use(middleware.SessionMiddleware)
	registerV1Routes(v1Group, handlers, cfg)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers, cfg *config.Configuration) {
	router.POST("/events", handlers.Events.CreateEvent)

	event := router.Group("/events/:route")
	{
		event.GET("/catalog", handlers.Catalog.GetCatalog)
		event.POST("/catalog/refresh", handlers.Catalog.RefreshCatalog)

		event.POST("/quote", middleware.RateLimitMiddleware(cfg), handlers.Quote.Quote)
		event.POST("/coupons/validate", handlers.Coupon.ValidateCoupon)

		event.GET("/draft", handlers.Draft.GetDraft)
		event.DELETE("/draft", handlers.Draft.ClearDraft)
		event.POST("/draft/events", handlers.Draft.ApplyEvent)

		event.POST("/bookings", handlers.Booking.CreateBooking)
	}

	coupons := router.Group("/coupons")
	{
		coupons.POST("", handlers.Coupon.CreateCoupon)
		coupons.GET("", handlers.Coupon.ListCoupons)
		coupons.GET("/:code", handlers.Coupon.GetCoupon)
	}

	router.GET("/bookings/:id", handlers.Booking.GetBooking)
}

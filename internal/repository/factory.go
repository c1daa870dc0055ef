package repository

import (
	"github.com/buzzhq/buzz/internal/domain/booking"
	"github.com/buzzhq/buzz/internal/domain/catalog"
	"github.com/buzzhq/buzz/internal/domain/coupon"
	"github.com/buzzhq/buzz/internal/domain/event"
	"github.com/buzzhq/buzz/internal/logger"
	"github.com/buzzhq/buzz/internal/postgres"
	postgresRepo "github.com/buzzhq/buzz/internal/repository/postgres"
)

func NewEventRepository(db *postgres.DB, logger *logger.Logger) event.Repository {
	return postgresRepo.NewEventRepository(db, logger)
}

func NewCatalogRepository(db *postgres.DB, logger *logger.Logger) catalog.Repository {
	return postgresRepo.NewCatalogRepository(db, logger)
}

func NewCouponRepository(db *postgres.DB, logger *logger.Logger) coupon.Repository {
	return postgresRepo.NewCouponRepository(db, logger)
}

func NewBookingRepository(db *postgres.DB, logger *logger.Logger) booking.Repository {
	return postgresRepo.NewBookingRepository(db, logger)
}

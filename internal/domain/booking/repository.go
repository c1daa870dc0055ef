package booking

import (
	"context"
)

// Repository defines the interface for booking data access
type Repository interface {
	// Create persists the booking with its attendees and add-ons
	Create(ctx context.Context, booking *Booking) error
	Get(ctx context.Context, id string) (*Booking, error)
	// CountByCouponAndUser counts confirmed bookings by userID that used couponID
	CountByCouponAndUser(ctx context.Context, couponID, userID string) (int, error)
}

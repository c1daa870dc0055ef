package coupon

import (
	"context"
)

// Repository defines the interface for coupon data access
type Repository interface {
	Create(ctx context.Context, coupon *Coupon) error
	Get(ctx context.Context, id string) (*Coupon, error)
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	List(ctx context.Context, eventID string) ([]*Coupon, error)
	// RecordUsage increments times_used by one and free_tickets_claimed by
	// freeTickets for a submitted booking
	RecordUsage(ctx context.Context, id string, freeTickets int) error
}

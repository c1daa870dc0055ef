package testutil

import (
	"context"

	"github.com/buzzhq/buzz/internal/domain/booking"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/types"
)

// InMemoryBookingStore implements booking.Repository
type InMemoryBookingStore struct {
	*InMemoryStore[*booking.Booking]
}

func NewInMemoryBookingStore() *InMemoryBookingStore {
	return &InMemoryBookingStore{
		InMemoryStore: NewInMemoryStore[*booking.Booking](),
	}
}

func (s *InMemoryBookingStore) Create(ctx context.Context, b *booking.Booking) error {
	if b == nil {
		return ierr.NewError("booking cannot be nil").Mark(ierr.ErrValidation)
	}
	c := *b
	return s.InMemoryStore.Create(ctx, b.ID, &c)
}

func (s *InMemoryBookingStore) Get(ctx context.Context, id string) (*booking.Booking, error) {
	b, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("Booking not found").Mark(ierr.ErrNotFound)
	}
	c := *b
	return &c, nil
}

func (s *InMemoryBookingStore) CountByCouponAndUser(ctx context.Context, couponID, userID string) (int, error) {
	return s.Count(ctx, func(_ context.Context, b *booking.Booking) bool {
		return b.CouponID == couponID && b.UserID == userID && b.Status == types.BookingStatusConfirmed
	}), nil
}

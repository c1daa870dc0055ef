package testutil

import (
	"context"
	"slices"

	"github.com/buzzhq/buzz/internal/domain/coupon"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/samber/lo"
)

// InMemoryCouponStore implements coupon.Repository
type InMemoryCouponStore struct {
	store *InMemoryStore[*coupon.Coupon]
}

func NewInMemoryCouponStore() *InMemoryCouponStore {
	return &InMemoryCouponStore{
		store: NewInMemoryStore[*coupon.Coupon](),
	}
}

func copyCoupon(c *coupon.Coupon) *coupon.Coupon {
	out := *c
	out.FreeAddOns = slices.Clone(c.FreeAddOns)
	return &out
}

func (s *InMemoryCouponStore) Create(ctx context.Context, c *coupon.Coupon) error {
	if c == nil {
		return ierr.NewError("coupon cannot be nil").Mark(ierr.ErrValidation)
	}
	if _, err := s.GetByCode(ctx, c.Code); err == nil {
		return ierr.NewErrorf("coupon code %s already exists", c.Code).
			WithHint("A coupon with this code already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	return s.store.Create(ctx, c.ID, copyCoupon(c))
}

func (s *InMemoryCouponStore) Get(ctx context.Context, id string) (*coupon.Coupon, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("Coupon not found").Mark(ierr.ErrNotFound)
	}
	return copyCoupon(c), nil
}

func (s *InMemoryCouponStore) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	found := s.store.List(ctx, func(_ context.Context, c *coupon.Coupon) bool { return c.Code == code }, nil)
	if len(found) == 0 {
		return nil, ierr.NewErrorf("coupon %s not found", code).
			WithHint("Coupon not found").
			Mark(ierr.ErrNotFound)
	}
	return copyCoupon(found[0]), nil
}

func (s *InMemoryCouponStore) List(ctx context.Context, eventID string) ([]*coupon.Coupon, error) {
	items := s.store.List(ctx, func(_ context.Context, c *coupon.Coupon) bool {
		return eventID == "" || c.EventID == eventID
	}, func(a, b *coupon.Coupon) bool { return a.CreatedAt.After(b.CreatedAt) })
	return lo.Map(items, func(c *coupon.Coupon, _ int) *coupon.Coupon { return copyCoupon(c) }), nil
}

func (s *InMemoryCouponStore) RecordUsage(ctx context.Context, id string, freeTickets int) error {
	return s.store.Mutate(ctx, id, func(c *coupon.Coupon) error {
		if c.MaxUsageCount > 0 && c.TimesUsed >= c.MaxUsageCount {
			return ierr.NewError("coupon usage limit reached").Mark(ierr.ErrUnavailable)
		}
		if c.Type == types.CouponTypeFreeTickets && c.FreeTicketsClaimed+freeTickets > c.FreeTicketCount {
			return ierr.NewError("free tickets exhausted").Mark(ierr.ErrUnavailable)
		}
		c.TimesUsed++
		c.FreeTicketsClaimed += freeTickets
		return nil
	})
}

func (s *InMemoryCouponStore) Clear() {
	s.store.Clear()
}

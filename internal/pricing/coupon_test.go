package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/buzzhq/buzz/internal/domain/coupon"
	"github.com/buzzhq/buzz/internal/domain/event"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponEvaluator_Check(t *testing.T) {
	yesterday := testNow.AddDate(0, 0, -1)
	tomorrow := testNow.AddDate(0, 0, 1)
	subtotal := dec("80")

	tests := []struct {
		name   string
		coupon func() *coupon.Coupon
		ctx    CouponContext
		want   types.CouponValidationErrorCode
	}{
		{
			name:   "valid unscoped discount",
			coupon: func() *coupon.Coupon { return discountCoupon(types.DiscountKindPercentage, "10") },
		},
		{
			name:   "nil coupon",
			coupon: func() *coupon.Coupon { return nil },
			want:   types.CouponValidationErrorCodeNotFound,
		},
		{
			name: "inactive",
			coupon: func() *coupon.Coupon {
				c := discountCoupon(types.DiscountKindPercentage, "10")
				c.IsActive = false
				return c
			},
			want: types.CouponValidationErrorCodeInactive,
		},
		{
			name: "inactive wins over expired",
			coupon: func() *coupon.Coupon {
				c := discountCoupon(types.DiscountKindPercentage, "10")
				c.IsActive = false
				c.ValidTill = &yesterday
				return c
			},
			want: types.CouponValidationErrorCodeInactive,
		},
		{
			name: "expired",
			coupon: func() *coupon.Coupon {
				c := discountCoupon(types.DiscountKindPercentage, "10")
				c.ValidTill = &yesterday
				return c
			},
			want: types.CouponValidationErrorCodeExpired,
		},
		{
			name: "valid till today is inclusive",
			coupon: func() *coupon.Coupon {
				c := discountCoupon(types.DiscountKindPercentage, "10")
				c.ValidTill = timePtr(time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC))
				return c
			},
		},
		{
			name: "not yet valid",
			coupon: func() *coupon.Coupon {
				c := discountCoupon(types.DiscountKindPercentage, "10")
				c.ValidFrom = &tomorrow
				return c
			},
			want: types.CouponValidationErrorCodeNotYetValid,
		},
		{
			name: "expired wins over wrong event",
			coupon: func() *coupon.Coupon {
				c := discountCoupon(types.DiscountKindPercentage, "10")
				c.ValidTill = &yesterday
				c.EventID = "evt_other"
				return c
			},
			want: types.CouponValidationErrorCodeExpired,
		},
		{
			name: "other event",
			coupon: func() *coupon.Coupon {
				c := discountCoupon(types.DiscountKindPercentage, "10")
				c.EventID = "evt_other"
				return c
			},
			want: types.CouponValidationErrorCodeNotApplicable,
		},
		{
			name: "other category",
			coupon: func() *coupon.Coupon {
				c := discountCoupon(types.DiscountKindPercentage, "10")
				c.EventCategoryID = "cat_meetup"
				return c
			},
			want: types.CouponValidationErrorCodeNotApplicable,
		},
		{
			name: "matching category",
			coupon: func() *coupon.Coupon {
				c := discountCoupon(types.DiscountKindPercentage, "10")
				c.EventCategoryID = "cat_conference"
				return c
			},
		},
		{
			name: "wrong event wins over usage limit",
			coupon: func() *coupon.Coupon {
				c := discountCoupon(types.DiscountKindPercentage, "10")
				c.EventID = "evt_other"
				c.MaxUsageCount = 1
				c.TimesUsed = 1
				return c
			},
			want: types.CouponValidationErrorCodeNotApplicable,
		},
		{
			name: "usage limit reached",
			coupon: func() *coupon.Coupon {
				c := discountCoupon(types.DiscountKindPercentage, "10")
				c.MaxUsageCount = 5
				c.TimesUsed = 5
				return c
			},
			want: types.CouponValidationErrorCodeUsageLimitReached,
		},
		{
			name: "zero max usage is unlimited",
			coupon: func() *coupon.Coupon {
				c := discountCoupon(types.DiscountKindPercentage, "10")
				c.TimesUsed = 1000
				return c
			},
		},
		{
			name: "free tickets all claimed",
			coupon: func() *coupon.Coupon {
				c := freeTicketsCoupon(2)
				c.FreeTicketsClaimed = 2
				return c
			},
			want: types.CouponValidationErrorCodeUsageLimitReached,
		},
		{
			name: "usage limit wins over per user limit",
			coupon: func() *coupon.Coupon {
				c := discountCoupon(types.DiscountKindPercentage, "10")
				c.MaxUsageCount = 1
				c.TimesUsed = 1
				c.MaxUsagePerUser = 1
				return c
			},
			ctx:  CouponContext{UserUsageCount: 1},
			want: types.CouponValidationErrorCodeUsageLimitReached,
		},
		{
			name: "per user limit reached",
			coupon: func() *coupon.Coupon {
				c := discountCoupon(types.DiscountKindPercentage, "10")
				c.MaxUsagePerUser = 2
				return c
			},
			ctx:  CouponContext{UserUsageCount: 2},
			want: types.CouponValidationErrorCodePerUserLimitReached,
		},
		{
			name: "per user limit wins over minimum order",
			coupon: func() *coupon.Coupon {
				c := discountCoupon(types.DiscountKindPercentage, "10")
				c.MaxUsagePerUser = 1
				c.MinOrderValue = decPtr("100")
				return c
			},
			ctx:  CouponContext{UserUsageCount: 1, Subtotal: &subtotal},
			want: types.CouponValidationErrorCodePerUserLimitReached,
		},
		{
			name: "below minimum order",
			coupon: func() *coupon.Coupon {
				c := discountCoupon(types.DiscountKindFlatAmount, "10")
				c.MinOrderValue = decPtr("100")
				return c
			},
			ctx:  CouponContext{Subtotal: &subtotal},
			want: types.CouponValidationErrorCodeBelowMinimumOrder,
		},
		{
			name: "minimum order skipped without subtotal",
			coupon: func() *coupon.Coupon {
				c := discountCoupon(types.DiscountKindFlatAmount, "10")
				c.MinOrderValue = decPtr("100")
				return c
			},
		},
		{
			name: "free tickets ignore minimum order",
			coupon: func() *coupon.Coupon {
				c := freeTicketsCoupon(1)
				c.MinOrderValue = decPtr("100")
				return c
			},
			ctx: CouponContext{Subtotal: &subtotal},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := tt.ctx
			ctx.Event = testEvent()

			err := NewCouponEvaluator(testNow).Check(tt.coupon(), ctx)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}

			var couponErr *CouponError
			require.True(t, errors.As(err, &couponErr), "expected coupon error, got %v", err)
			assert.Equal(t, tt.want, couponErr.Code)
			assert.NotEmpty(t, couponErr.Message)
		})
	}
}

func TestCouponEvaluator_CategoryCouponOnUncategorisedEvent(t *testing.T) {
	c := discountCoupon(types.DiscountKindPercentage, "10")
	c.EventCategoryID = "cat_conference"

	err := NewCouponEvaluator(testNow).Check(c, CouponContext{Event: &event.Event{ID: "evt_plain"}})
	assert.NoError(t, err)
}

func TestOrderDiscount(t *testing.T) {
	tests := []struct {
		name     string
		kind     types.DiscountKind
		value    string
		cap      string
		subtotal string
		want     string
	}{
		{name: "percentage", kind: types.DiscountKindPercentage, value: "20", subtotal: "1000", want: "200"},
		{name: "percentage capped", kind: types.DiscountKindPercentage, value: "50", cap: "30", subtotal: "100", want: "30"},
		{name: "percentage under cap", kind: types.DiscountKindPercentage, value: "10", cap: "30", subtotal: "100", want: "10"},
		{name: "percentage rounds half up", kind: types.DiscountKindPercentage, value: "12.5", subtotal: "0.3", want: "0.04"},
		{name: "flat", kind: types.DiscountKindFlatAmount, value: "300", subtotal: "500", want: "300"},
		{name: "flat above subtotal", kind: types.DiscountKindFlatAmount, value: "1000", subtotal: "500", want: "500"},
		{name: "hundred percent", kind: types.DiscountKindPercentage, value: "100", subtotal: "725.50", want: "725.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := discountCoupon(tt.kind, tt.value)
			if tt.cap != "" {
				c.MaxDiscountAmount = decPtr(tt.cap)
			}
			assertDecimal(t, tt.want, orderDiscount(c, dec(tt.subtotal)))
		})
	}
}

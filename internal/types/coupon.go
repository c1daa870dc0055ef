package types

import (
	"strings"

	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/samber/lo"
)

// CouponType decides whether a coupon grants free tickets or a money discount
type CouponType string

const (
	CouponTypeFreeTickets CouponType = "free_tickets"
	CouponTypeDiscount    CouponType = "discount"
)

func (t CouponType) String() string {
	return string(t)
}

func (t CouponType) Validate() error {
	allowed := []CouponType{
		CouponTypeFreeTickets,
		CouponTypeDiscount,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid coupon type").
			WithHint("Please provide a valid coupon type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"type":    t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DiscountKind applies to discount coupons only
type DiscountKind string

const (
	DiscountKindPercentage DiscountKind = "percentage"
	DiscountKindFlatAmount DiscountKind = "flat_amount"
)

func (k DiscountKind) String() string {
	return string(k)
}

func (k DiscountKind) Validate() error {
	allowed := []DiscountKind{
		DiscountKindPercentage,
		DiscountKindFlatAmount,
	}
	if !lo.Contains(allowed, k) {
		return ierr.NewError("invalid discount kind").
			WithHint("Discount kind must be percentage or flat_amount").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"kind":    k,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CouponScope is derived from which of event / event category a coupon names
type CouponScope string

const (
	CouponScopeSpecificEvent CouponScope = "specific_event"
	CouponScopeEventCategory CouponScope = "event_category"
	CouponScopeUnscoped      CouponScope = "unscoped"
)

// NormalizeCouponCode trims and upper-cases a code as entered by a user.
// Stored codes are always normalized so lookups are case insensitive.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

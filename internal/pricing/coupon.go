package pricing

import (
	"fmt"
	"time"

	"github.com/buzzhq/buzz/internal/domain/coupon"
	"github.com/buzzhq/buzz/internal/domain/event"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CouponError explains why a coupon was not applied. It never aborts a
// breakdown; the aggregator turns it into a zero discount plus a reason.
type CouponError struct {
	Code    types.CouponValidationErrorCode `json:"code"`
	Message string                          `json:"message"`
	Details map[string]interface{}          `json:"details,omitempty"`
}

func (e *CouponError) Error() string {
	return e.Message
}

func newCouponError(code types.CouponValidationErrorCode, msg string, details map[string]interface{}) *CouponError {
	return &CouponError{Code: code, Message: msg, Details: details}
}

// CouponContext is what a coupon is checked against
type CouponContext struct {
	Event          *event.Event
	// TicketTypeIDs are the ticket types on the booking; nil skips the
	// ticket type restriction of free-tickets coupons
	TicketTypeIDs  []string
	// Subtotal is the pre-discount total; nil skips the minimum order check
	Subtotal       *decimal.Decimal
	UserUsageCount int
}

// CouponEffect is the outcome of applying a valid coupon to resolved lines
type CouponEffect struct {
	Lines              []LineItem
	Discount           decimal.Decimal
	FreeTicketsApplied int
}

// CouponEvaluator validates coupons and computes their effect
type CouponEvaluator struct {
	now time.Time
}

func NewCouponEvaluator(now time.Time) *CouponEvaluator {
	return &CouponEvaluator{now: now}
}

// Check runs the validity checks in priority order and returns the first
// failure as a *CouponError
func (e *CouponEvaluator) Check(c *coupon.Coupon, cc CouponContext) error {
	if c == nil {
		return newCouponError(types.CouponValidationErrorCodeNotFound, "Coupon not found", nil)
	}

	// Priority 1: active flag
	if !c.IsActive {
		return newCouponError(types.CouponValidationErrorCodeInactive, "Coupon is not active", map[string]interface{}{
			"code": c.Code,
		})
	}

	// Priority 2: validity window
	if err := e.checkDates(c); err != nil {
		return err
	}

	// Priority 3: scope
	if err := checkScope(c, cc); err != nil {
		return err
	}

	// Priority 4: global usage
	if c.MaxUsageCount > 0 && c.TimesUsed >= c.MaxUsageCount {
		return newCouponError(types.CouponValidationErrorCodeUsageLimitReached, "Coupon usage limit reached", map[string]interface{}{
			"max_usage_count": c.MaxUsageCount,
			"times_used":      c.TimesUsed,
		})
	}
	if c.Type == types.CouponTypeFreeTickets && c.RemainingFreeTickets() == 0 {
		return newCouponError(types.CouponValidationErrorCodeUsageLimitReached, "All free tickets for this coupon have been claimed", map[string]interface{}{
			"free_ticket_count":    c.FreeTicketCount,
			"free_tickets_claimed": c.FreeTicketsClaimed,
		})
	}

	// Priority 5: per user usage
	if c.MaxUsagePerUser > 0 && cc.UserUsageCount >= c.MaxUsagePerUser {
		return newCouponError(types.CouponValidationErrorCodePerUserLimitReached, "You have already used this coupon the maximum number of times", map[string]interface{}{
			"max_usage_per_user": c.MaxUsagePerUser,
			"user_usage_count":   cc.UserUsageCount,
		})
	}

	// Priority 6: minimum order, discount coupons only
	if c.Type == types.CouponTypeDiscount && c.MinOrderValue != nil && cc.Subtotal != nil {
		if cc.Subtotal.LessThan(*c.MinOrderValue) {
			return newCouponError(types.CouponValidationErrorCodeBelowMinimumOrder,
				fmt.Sprintf("Minimum order value of %s required", c.MinOrderValue.StringFixed(2)),
				map[string]interface{}{
					"min_order_value": c.MinOrderValue.String(),
					"subtotal":        cc.Subtotal.String(),
				})
		}
	}

	return nil
}

// checkDates compares calendar dates in UTC; valid_till is inclusive
func (e *CouponEvaluator) checkDates(c *coupon.Coupon) error {
	today := dateOf(e.now)
	if c.ValidFrom != nil && today.Before(dateOf(*c.ValidFrom)) {
		return newCouponError(types.CouponValidationErrorCodeNotYetValid, "Coupon is not valid yet", map[string]interface{}{
			"valid_from": c.ValidFrom.Format(time.DateOnly),
		})
	}
	if c.ValidTill != nil && today.After(dateOf(*c.ValidTill)) {
		return newCouponError(types.CouponValidationErrorCodeExpired, "Coupon has expired", map[string]interface{}{
			"valid_till": c.ValidTill.Format(time.DateOnly),
		})
	}
	return nil
}

func checkScope(c *coupon.Coupon, cc CouponContext) error {
	ev := cc.Event
	switch c.Scope() {
	case types.CouponScopeSpecificEvent:
		if ev == nil || ev.ID != c.EventID {
			return newCouponError(types.CouponValidationErrorCodeNotApplicable, "Coupon is not valid for this event", nil)
		}
	case types.CouponScopeEventCategory:
		// events without a category accept category coupons
		if ev == nil || (ev.CategoryID != "" && ev.CategoryID != c.EventCategoryID) {
			return newCouponError(types.CouponValidationErrorCodeNotApplicable, "Coupon is not valid for this event category", nil)
		}
	}

	if c.Type == types.CouponTypeFreeTickets && c.TicketTypeID != "" && cc.TicketTypeIDs != nil {
		if !lo.Contains(cc.TicketTypeIDs, c.TicketTypeID) {
			return newCouponError(types.CouponValidationErrorCodeNotApplicable, "Coupon is not valid for the selected ticket type", map[string]interface{}{
				"ticket_type_id": c.TicketTypeID,
			})
		}
	}
	return nil
}

// Evaluate checks the coupon against the resolved lines and, when valid,
// returns a copy of the lines with the coupon applied
func (e *CouponEvaluator) Evaluate(c *coupon.Coupon, ev *event.Event, lines []LineItem, userUsageCount int) (*CouponEffect, error) {
	subtotal := sumUnitPrices(lines)
	ticketTypeIDs := lo.Uniq(lo.FilterMap(lines, func(l LineItem, _ int) (string, bool) {
		return l.RefID, l.Kind == types.LineItemKindTicket
	}))

	if err := e.Check(c, CouponContext{
		Event:          ev,
		TicketTypeIDs:  ticketTypeIDs,
		Subtotal:       &subtotal,
		UserUsageCount: userUsageCount,
	}); err != nil {
		return nil, err
	}

	adjusted := make([]LineItem, len(lines))
	copy(adjusted, lines)

	switch c.Type {
	case types.CouponTypeFreeTickets:
		return applyFreeTickets(c, adjusted), nil
	default:
		return &CouponEffect{
			Lines:    adjusted,
			Discount: orderDiscount(c, subtotal),
		}, nil
	}
}

// applyFreeTickets zeroes the first N eligible ticket lines in attendee
// order and every selected add-on the coupon lists as free
func applyFreeTickets(c *coupon.Coupon, lines []LineItem) *CouponEffect {
	remaining := c.RemainingFreeTickets()
	effect := &CouponEffect{Lines: lines, Discount: decimal.Zero}

	for i := range lines {
		l := &lines[i]
		switch l.Kind {
		case types.LineItemKindTicket:
			if remaining == 0 || (c.TicketTypeID != "" && l.RefID != c.TicketTypeID) {
				continue
			}
			remaining--
			effect.FreeTicketsApplied++
		case types.LineItemKindAddOn:
			if !c.IsFreeAddOn(l.RefID) {
				continue
			}
		}
		l.Discount = l.UnitPrice
		l.Amount = decimal.Zero
		l.Free = true
		effect.Discount = effect.Discount.Add(l.UnitPrice)
	}
	return effect
}

// orderDiscount computes an order level discount against subtotal. It is not
// apportioned to individual lines.
func orderDiscount(c *coupon.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch c.DiscountKind {
	case types.DiscountKindPercentage:
		discount = Percent(subtotal, c.DiscountValue)
		if c.MaxDiscountAmount != nil {
			discount = decimal.Min(discount, *c.MaxDiscountAmount)
		}
	case types.DiscountKindFlatAmount:
		discount = decimal.Min(c.DiscountValue, subtotal)
	}
	return Round2(decimal.Min(ClampZero(discount), subtotal))
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sumUnitPrices(lines []LineItem) decimal.Decimal {
	return lo.Reduce(lines, func(acc decimal.Decimal, l LineItem, _ int) decimal.Decimal {
		return acc.Add(l.UnitPrice)
	}, decimal.Zero)
}

package coupon

import (
	"time"

	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Coupon is either a free-tickets grant for one event or a money discount
type Coupon struct {
	ID              string           `json:"id" db:"id"`
	Code            string           `json:"code" db:"code"`
	Type            types.CouponType `json:"type" db:"type"`
	EventID         string           `json:"event_id,omitempty" db:"event_id"`
	EventCategoryID string           `json:"event_category_id,omitempty" db:"event_category_id"`
	// TicketTypeID restricts which tickets a free-tickets coupon can zero
	TicketTypeID    string           `json:"ticket_type_id,omitempty" db:"ticket_type_id"`

	DiscountKind      types.DiscountKind `json:"discount_kind,omitempty" db:"discount_kind"`
	DiscountValue     decimal.Decimal    `json:"discount_value" db:"discount_value"`
	MaxDiscountAmount *decimal.Decimal   `json:"max_discount_amount,omitempty" db:"max_discount_amount"`
	MinOrderValue     *decimal.Decimal   `json:"min_order_value,omitempty" db:"min_order_value"`

	ValidFrom *time.Time `json:"valid_from,omitempty" db:"valid_from"`
	ValidTill *time.Time `json:"valid_till,omitempty" db:"valid_till"`

	MaxUsageCount   int `json:"max_usage_count" db:"max_usage_count"`
	MaxUsagePerUser int `json:"max_usage_per_user" db:"max_usage_per_user"`
	TimesUsed       int `json:"times_used" db:"times_used"`

	FreeTicketCount    int      `json:"free_ticket_count" db:"free_ticket_count"`
	FreeTicketsClaimed int      `json:"free_tickets_claimed" db:"free_tickets_claimed"`
	FreeAddOns         []string `json:"free_add_ons,omitempty" db:"-"`

	IsActive bool `json:"is_active" db:"is_active"`
	types.BaseModel
}

// Scope derives where the coupon may be used from the ids it carries
func (c *Coupon) Scope() types.CouponScope {
	switch {
	case c.EventID != "":
		return types.CouponScopeSpecificEvent
	case c.EventCategoryID != "":
		return types.CouponScopeEventCategory
	default:
		return types.CouponScopeUnscoped
	}
}

// RemainingFreeTickets is the number of free tickets not yet claimed by
// submitted bookings
func (c *Coupon) RemainingFreeTickets() int {
	if c.Type != types.CouponTypeFreeTickets {
		return 0
	}
	return max(0, c.FreeTicketCount-c.FreeTicketsClaimed)
}

// IsFreeAddOn reports whether the coupon grants addOnID for free
func (c *Coupon) IsFreeAddOn(addOnID string) bool {
	return lo.Contains(c.FreeAddOns, addOnID)
}

// Validate enforces the rules a coupon must satisfy before it is stored
func (c *Coupon) Validate() error {
	if err := c.Type.Validate(); err != nil {
		return err
	}

	if c.EventID != "" && c.EventCategoryID != "" {
		return ierr.NewError("coupon has both event and event category").
			WithHint("Select either an event or a category, not both").
			Mark(ierr.ErrValidation)
	}

	switch c.Type {
	case types.CouponTypeDiscount:
		if err := c.DiscountKind.Validate(); err != nil {
			return err
		}
		if !c.DiscountValue.IsPositive() {
			return ierr.NewError("discount value must be positive").
				WithHint("Discount value must be greater than 0").
				WithReportableDetails(map[string]any{
					"discount_value": c.DiscountValue.String(),
				}).
				Mark(ierr.ErrValidation)
		}
		if c.DiscountKind == types.DiscountKindPercentage && c.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
			return ierr.NewError("percentage discount above 100").
				WithHint("Percentage discount cannot exceed 100%").
				WithReportableDetails(map[string]any{
					"discount_value": c.DiscountValue.String(),
				}).
				Mark(ierr.ErrValidation)
		}
	case types.CouponTypeFreeTickets:
		if c.EventID == "" {
			return ierr.NewError("free tickets coupon without event").
				WithHint("Event is required for a free tickets coupon").
				Mark(ierr.ErrValidation)
		}
		if c.FreeTicketCount <= 0 {
			return ierr.NewError("free ticket count must be positive").
				WithHint("Number of free tickets must be at least 1").
				Mark(ierr.ErrValidation)
		}
	}

	if c.MaxDiscountAmount != nil && c.MaxDiscountAmount.IsNegative() {
		return ierr.NewError("negative maximum discount").
			WithHint("Maximum discount amount cannot be negative").
			Mark(ierr.ErrValidation)
	}

	if c.MinOrderValue != nil && c.MinOrderValue.IsNegative() {
		return ierr.NewError("negative minimum order value").
			WithHint("Minimum order value cannot be negative").
			Mark(ierr.ErrValidation)
	}

	if c.ValidFrom != nil && c.ValidTill != nil && c.ValidTill.Before(*c.ValidFrom) {
		return ierr.NewError("coupon validity window is inverted").
			WithHint("Valid till must not be before valid from").
			Mark(ierr.ErrValidation)
	}

	if c.MaxUsageCount < 0 || c.MaxUsagePerUser < 0 {
		return ierr.NewError("negative usage limit").
			WithHint("Usage limits cannot be negative").
			Mark(ierr.ErrValidation)
	}

	return nil
}

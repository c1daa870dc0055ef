package dto

import (
	"context"
	"time"

	"github.com/buzzhq/buzz/internal/domain/coupon"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/pricing"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CreateCouponRequest represents the request to create a new coupon
type CreateCouponRequest struct {
	Type            types.CouponType `json:"type" validate:"required,oneof=free_tickets discount"`
	EventID         string           `json:"event_id,omitempty"`
	EventCategoryID string           `json:"event_category_id,omitempty"`
	TicketTypeID    string           `json:"ticket_type_id,omitempty"`

	DiscountKind      types.DiscountKind `json:"discount_kind,omitempty" validate:"omitempty,oneof=percentage flat_amount"`
	DiscountValue     decimal.Decimal    `json:"discount_value" swaggertype:"string"`
	MaxDiscountAmount *decimal.Decimal   `json:"max_discount_amount,omitempty" swaggertype:"string"`
	MinOrderValue     *decimal.Decimal   `json:"min_order_value,omitempty" swaggertype:"string"`

	ValidFrom *time.Time `json:"valid_from,omitempty"`
	ValidTill *time.Time `json:"valid_till,omitempty"`

	MaxUsageCount   int `json:"max_usage_count" validate:"gte=0"`
	MaxUsagePerUser int `json:"max_usage_per_user" validate:"gte=0"`

	FreeTicketCount int      `json:"free_ticket_count" validate:"gte=0"`
	FreeAddOns      []string `json:"free_add_ons,omitempty"`

	// Code is generated when empty
	Code     string `json:"code,omitempty" validate:"omitempty,alphanum,max=32"`
	// Inactive coupons are stored but never apply
	Inactive bool   `json:"inactive,omitempty"`
}

// Validate checks request level rules; the coupon itself is validated again
// by coupon.Validate after conversion
func (r *CreateCouponRequest) Validate() error {
	if r.Type == types.CouponTypeDiscount && r.DiscountKind == "" {
		return ierr.NewError("discount kind is required").
			WithHint("Please choose percentage or flat amount").
			Mark(ierr.ErrValidation)
	}

	if r.Type == types.CouponTypeFreeTickets && r.DiscountKind != "" {
		return ierr.NewError("discount kind set on free tickets coupon").
			WithHint("Free tickets coupons do not take a discount").
			Mark(ierr.ErrValidation)
	}

	if r.Type == types.CouponTypeDiscount && (r.FreeTicketCount > 0 || len(r.FreeAddOns) > 0) {
		return ierr.NewError("free grants set on discount coupon").
			WithHint("Free tickets and add-ons only apply to free tickets coupons").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// ToCoupon converts the request. code is the normalized code to store.
func (r *CreateCouponRequest) ToCoupon(ctx context.Context, code string) *coupon.Coupon {
	return &coupon.Coupon{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COUPON),
		Code:              code,
		Type:              r.Type,
		EventID:           r.EventID,
		EventCategoryID:   r.EventCategoryID,
		TicketTypeID:      r.TicketTypeID,
		DiscountKind:      r.DiscountKind,
		DiscountValue:     r.DiscountValue,
		MaxDiscountAmount: r.MaxDiscountAmount,
		MinOrderValue:     r.MinOrderValue,
		ValidFrom:         r.ValidFrom,
		ValidTill:         r.ValidTill,
		MaxUsageCount:     r.MaxUsageCount,
		MaxUsagePerUser:   r.MaxUsagePerUser,
		FreeTicketCount:   r.FreeTicketCount,
		FreeAddOns:        lo.Uniq(r.FreeAddOns),
		IsActive:          !r.Inactive,
		BaseModel:         types.GetDefaultBaseModel(ctx),
	}
}

// CouponResponse represents the response for coupon operations
type CouponResponse struct {
	*coupon.Coupon
	Scope                types.CouponScope `json:"scope"`
	RemainingFreeTickets int               `json:"remaining_free_tickets"`
}

func NewCouponResponse(c *coupon.Coupon) *CouponResponse {
	return &CouponResponse{
		Coupon:               c,
		Scope:                c.Scope(),
		RemainingFreeTickets: c.RemainingFreeTickets(),
	}
}

// DefaultListLimit is the page size when a list request sets no limit
const DefaultListLimit = 50

// ListCouponsRequest filters and pages the coupon list
type ListCouponsRequest struct {
	EventID string `form:"event_id" json:"event_id,omitempty"`
	Limit   int    `form:"limit" json:"limit,omitempty" validate:"omitempty,min=1,max=1000"`
	Offset  int    `form:"offset" json:"offset,omitempty" validate:"omitempty,min=0"`
}

func (r ListCouponsRequest) GetLimit() int {
	if r.Limit <= 0 {
		return DefaultListLimit
	}
	return r.Limit
}

// ListCouponsResponse represents the response for listing coupons
type ListCouponsResponse = types.ListResponse[*CouponResponse]

// ValidateCouponRequest checks a code against an event without pricing a
// booking. TicketTypeIDs narrows the check for ticket restricted coupons.
type ValidateCouponRequest struct {
	CouponCode    string   `json:"coupon_code" validate:"required"`
	TicketTypeIDs []string `json:"ticket_type_ids,omitempty"`
}

type ValidateCouponResponse struct {
	Valid            bool                 `json:"valid"`
	CouponType       types.CouponType     `json:"coupon_type,omitempty"`
	DiscountType     types.DiscountKind   `json:"discount_type,omitempty"`
	DiscountValue    *decimal.Decimal     `json:"discount_value,omitempty" swaggertype:"string"`
	// RemainingTickets is set for free tickets coupons
	RemainingTickets *int                 `json:"remaining_tickets,omitempty"`
	Error            *pricing.CouponError `json:"error,omitempty"`
}

// NewValidateCouponResponse describes c, or why it cannot be used when err is set
func NewValidateCouponResponse(c *coupon.Coupon, err *pricing.CouponError) *ValidateCouponResponse {
	if err != nil {
		return &ValidateCouponResponse{Valid: false, Error: err}
	}

	resp := &ValidateCouponResponse{
		Valid:      true,
		CouponType: c.Type,
	}
	switch c.Type {
	case types.CouponTypeFreeTickets:
		resp.RemainingTickets = lo.ToPtr(c.RemainingFreeTickets())
	case types.CouponTypeDiscount:
		resp.DiscountType = c.DiscountKind
		resp.DiscountValue = lo.ToPtr(c.DiscountValue)
	}
	return resp
}

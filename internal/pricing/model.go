package pricing

import (
	"github.com/buzzhq/buzz/internal/domain/catalog"
	"github.com/buzzhq/buzz/internal/domain/coupon"
	"github.com/buzzhq/buzz/internal/domain/event"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/shopspring/decimal"
)

// AddOnSelection is an attendee's choice for one add-on
type AddOnSelection struct {
	Selected bool   `json:"selected"`
	Option   string `json:"option,omitempty"`
}

// Attendee is one person on a booking draft
type Attendee struct {
	LocalID      int                       `json:"local_id"`
	FullName     string                    `json:"full_name"`
	Email        string                    `json:"email"`
	TicketTypeID string                    `json:"ticket_type_id"`
	AddOns       map[string]AddOnSelection `json:"add_ons,omitempty"`
	CustomFields map[string]string         `json:"custom_fields,omitempty"`
}

// LineItem is one priced component of a booking
type LineItem struct {
	AttendeeLocalID int                `json:"attendee_local_id"`
	Kind            types.LineItemKind `json:"kind"`
	RefID           string             `json:"ref_id"`
	Label           string             `json:"label"`
	Option          string             `json:"option,omitempty"`
	UnitPrice       decimal.Decimal    `json:"unit_price"`
	// Discount is the part of UnitPrice waived by a free grant
	Discount        decimal.Decimal    `json:"discount"`
	Amount          decimal.Decimal    `json:"amount"`
	Free            bool               `json:"free"`
}

// CouponResult reports what happened to the coupon entered for a booking
type CouponResult struct {
	Code               string                          `json:"code"`
	Type               types.CouponType                `json:"type,omitempty"`
	Applied            bool                            `json:"applied"`
	ErrorCode          types.CouponValidationErrorCode `json:"error_code,omitempty"`
	Reason             string                          `json:"reason,omitempty"`
	FreeTicketsApplied int                             `json:"free_tickets_applied"`
}

// Breakdown is the full priced result for a booking draft. It is rebuilt
// from scratch on every change and never mutated.
type Breakdown struct {
	LineItems     []LineItem      `json:"line_items"`
	// NetAmount is the sum of line unit prices before any coupon
	NetAmount     decimal.Decimal `json:"net_amount"`
	Discount      decimal.Decimal `json:"discount"`
	// Subtotal is NetAmount less Discount, clamped at zero
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxableBase   decimal.Decimal `json:"taxable_base"`
	TaxLabel      string          `json:"tax_label,omitempty"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
	TaxInclusive  bool            `json:"tax_inclusive"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	ShowTax       bool            `json:"show_tax"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	Coupon        *CouponResult   `json:"coupon,omitempty"`
}

// ShowDiscount reports whether a discount line should be rendered
func (b *Breakdown) ShowDiscount() bool {
	return b.Discount.IsPositive()
}

// FreeTicketsByType counts ticket lines zeroed by a coupon per ticket type
func (b *Breakdown) FreeTicketsByType() map[string]int {
	counts := make(map[string]int)
	for _, l := range b.LineItems {
		if l.Kind == types.LineItemKindTicket && l.Free {
			counts[l.RefID]++
		}
	}
	return counts
}

// BreakdownInput is everything the aggregator reads to price a booking
type BreakdownInput struct {
	Attendees      []Attendee
	Catalog        *catalog.Catalog
	TaxPolicy      event.TaxPolicy
	// CouponCode is what the user entered; Coupon is nil when the code did
	// not resolve to a stored coupon
	CouponCode     string
	Coupon         *coupon.Coupon
	UserUsageCount int
}

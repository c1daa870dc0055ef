package dto

import (
	"github.com/buzzhq/buzz/internal/pricing"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// QuoteRequest prices a set of attendees without touching any draft
type QuoteRequest struct {
	Attendees  []AttendeeRequest `json:"attendees" validate:"required,min=1,dive"`
	CouponCode string            `json:"coupon_code,omitempty"`
	Locale     string            `json:"locale,omitempty"`
}

type AttendeeRequest struct {
	FullName     string            `json:"full_name,omitempty"`
	Email        string            `json:"email,omitempty" validate:"omitempty,email"`
	TicketTypeID string            `json:"ticket_type_id" validate:"required"`
	AddOns       []AddOnRequest    `json:"add_ons,omitempty" validate:"omitempty,dive"`
	CustomFields map[string]string `json:"custom_fields,omitempty"`
}

type AddOnRequest struct {
	AddOnID string `json:"add_on_id" validate:"required"`
	Option  string `json:"option,omitempty"`
}

// ToAttendees numbers attendees from 1 in request order
func (r *QuoteRequest) ToAttendees() []pricing.Attendee {
	return lo.Map(r.Attendees, func(a AttendeeRequest, i int) pricing.Attendee {
		return pricing.Attendee{
			LocalID:      i + 1,
			FullName:     a.FullName,
			Email:        a.Email,
			TicketTypeID: a.TicketTypeID,
			AddOns: lo.SliceToMap(a.AddOns, func(s AddOnRequest) (string, pricing.AddOnSelection) {
				return s.AddOnID, pricing.AddOnSelection{Selected: true, Option: s.Option}
			}),
			CustomFields: a.CustomFields,
		}
	})
}

// BreakdownResponse is a breakdown with its display strings
type BreakdownResponse struct {
	LineItems     []*LineItemResponse        `json:"line_items"`
	NetAmount     decimal.Decimal            `json:"net_amount" swaggertype:"string"`
	Discount      decimal.Decimal            `json:"discount" swaggertype:"string"`
	ShowDiscount  bool                       `json:"show_discount"`
	Subtotal      decimal.Decimal            `json:"subtotal" swaggertype:"string"`
	TaxLabel      string                     `json:"tax_label,omitempty"`
	TaxPercentage decimal.Decimal            `json:"tax_percentage" swaggertype:"string"`
	TaxInclusive  bool                       `json:"tax_inclusive"`
	TaxAmount     decimal.Decimal            `json:"tax_amount" swaggertype:"string"`
	ShowTax       bool                       `json:"show_tax"`
	Total         decimal.Decimal            `json:"total" swaggertype:"string"`
	Currency      string                     `json:"currency"`
	Coupon        *pricing.CouponResult      `json:"coupon,omitempty"`
	Formatted     pricing.FormattedBreakdown `json:"formatted"`
}

type LineItemResponse struct {
	AttendeeID      int                `json:"attendee_id"`
	Kind            types.LineItemKind `json:"kind"`
	RefID           string             `json:"ref_id"`
	Label           string             `json:"label"`
	Option          string             `json:"option,omitempty"`
	UnitPrice       decimal.Decimal    `json:"unit_price" swaggertype:"string"`
	Amount          decimal.Decimal    `json:"amount" swaggertype:"string"`
	Free            bool               `json:"free"`
	FormattedAmount string             `json:"formatted_amount"`
}

func NewBreakdownResponse(b *pricing.Breakdown, f *pricing.Formatter, locale string) *BreakdownResponse {
	return &BreakdownResponse{
		LineItems: lo.Map(b.LineItems, func(l pricing.LineItem, _ int) *LineItemResponse {
			return &LineItemResponse{
				AttendeeID:      l.AttendeeLocalID,
				Kind:            l.Kind,
				RefID:           l.RefID,
				Label:           l.Label,
				Option:          l.Option,
				UnitPrice:       l.UnitPrice,
				Amount:          l.Amount,
				Free:            l.Free,
				FormattedAmount: f.FormatOrFree(l.Amount, b.Currency, locale),
			}
		}),
		NetAmount:     b.NetAmount,
		Discount:      b.Discount,
		ShowDiscount:  b.ShowDiscount(),
		Subtotal:      b.Subtotal,
		TaxLabel:      b.TaxLabel,
		TaxPercentage: b.TaxPercentage,
		TaxInclusive:  b.TaxInclusive,
		TaxAmount:     b.TaxAmount,
		ShowTax:       b.ShowTax,
		Total:         b.Total,
		Currency:      b.Currency,
		Coupon:        b.Coupon,
		Formatted:     f.FormatBreakdown(b, locale),
	}
}

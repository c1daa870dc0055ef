package booking

import (
	"github.com/buzzhq/buzz/internal/types"
	"github.com/shopspring/decimal"
)

// Booking is a submitted booking with server computed amounts
type Booking struct {
	ID         string              `json:"id" db:"id"`
	EventID    string              `json:"event_id" db:"event_id"`
	UserID     string              `json:"user_id,omitempty" db:"user_id"`
	CouponID   string              `json:"coupon_id,omitempty" db:"coupon_id"`
	CouponCode string              `json:"coupon_code,omitempty" db:"coupon_code"`
	Currency   string              `json:"currency" db:"currency"`
	Status     types.BookingStatus `json:"booking_status" db:"booking_status"`

	NetAmount      decimal.Decimal `json:"net_amount" db:"net_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	TaxLabel       string          `json:"tax_label,omitempty" db:"tax_label"`
	TaxPercentage  decimal.Decimal `json:"tax_percentage" db:"tax_percentage"`
	TaxInclusive   bool            `json:"tax_inclusive" db:"tax_inclusive"`
	TaxAmount      decimal.Decimal `json:"tax_amount" db:"tax_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount" db:"total_amount"`

	// FreeTicketsApplied is the number of ticket lines zeroed by a free-tickets coupon
	FreeTicketsApplied int `json:"free_tickets_applied" db:"free_tickets_applied"`

	GuestName  string `json:"guest_name,omitempty" db:"guest_name"`
	GuestEmail string `json:"guest_email,omitempty" db:"guest_email"`
	GuestPhone string `json:"guest_phone,omitempty" db:"guest_phone"`

	CustomFields map[string]string `json:"custom_fields,omitempty" db:"-"`
	Attendees    []*Attendee       `json:"attendees" db:"-"`
	types.BaseModel
}

// Attendee is one ticket holder on a booking
type Attendee struct {
	ID           string            `json:"id" db:"id"`
	BookingID    string            `json:"booking_id" db:"booking_id"`
	FullName     string            `json:"full_name" db:"full_name"`
	Email        string            `json:"email" db:"email"`
	TicketTypeID string            `json:"ticket_type_id" db:"ticket_type_id"`
	UnitPrice    decimal.Decimal   `json:"unit_price" db:"unit_price"`
	Amount       decimal.Decimal   `json:"amount" db:"amount"`
	AddOns       []*AttendeeAddOn  `json:"add_ons,omitempty" db:"-"`
	CustomFields map[string]string `json:"custom_fields,omitempty" db:"-"`
}

// AttendeeAddOn is a selected add-on priced at booking time
type AttendeeAddOn struct {
	AttendeeID string          `json:"attendee_id" db:"attendee_id"`
	AddOnID    string          `json:"add_on_id" db:"add_on_id"`
	Option     string          `json:"option,omitempty" db:"option_value"`
	UnitPrice  decimal.Decimal `json:"unit_price" db:"unit_price"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
}

// TicketCounts returns the number of attendees per ticket type
func (b *Booking) TicketCounts() map[string]int {
	counts := make(map[string]int)
	for _, a := range b.Attendees {
		counts[a.TicketTypeID]++
	}
	return counts
}

package dto

import (
	"time"

	"github.com/buzzhq/buzz/internal/domain/booking"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/shopspring/decimal"
)

// CreateBookingRequest submits the session draft. ExpectedTotal is the total
// the client displayed; the booking is rejected when the server computes a
// different amount.
type CreateBookingRequest struct {
	ExpectedTotal decimal.Decimal `json:"expected_total" swaggertype:"string"`
	Locale        string          `json:"locale,omitempty"`
}

type BookingResponse struct {
	ID                 string              `json:"id"`
	EventID            string              `json:"event_id"`
	Status             types.BookingStatus `json:"booking_status"`
	CouponCode         string              `json:"coupon_code,omitempty"`
	FreeTicketsApplied int                 `json:"free_tickets_applied"`
	Currency           string              `json:"currency"`
	NetAmount          decimal.Decimal     `json:"net_amount" swaggertype:"string"`
	DiscountAmount     decimal.Decimal     `json:"discount_amount" swaggertype:"string"`
	TaxAmount          decimal.Decimal     `json:"tax_amount" swaggertype:"string"`
	TotalAmount        decimal.Decimal     `json:"total_amount" swaggertype:"string"`
	FormattedTotal     string              `json:"formatted_total"`
	Attendees          []*booking.Attendee `json:"attendees"`
	CreatedAt          time.Time           `json:"created_at"`
}

func NewBookingResponse(b *booking.Booking, formattedTotal string) *BookingResponse {
	return &BookingResponse{
		ID:                 b.ID,
		EventID:            b.EventID,
		Status:             b.Status,
		CouponCode:         b.CouponCode,
		FreeTicketsApplied: b.FreeTicketsApplied,
		Currency:           b.Currency,
		NetAmount:          b.NetAmount,
		DiscountAmount:     b.DiscountAmount,
		TaxAmount:          b.TaxAmount,
		TotalAmount:        b.TotalAmount,
		FormattedTotal:     formattedTotal,
		Attendees:          b.Attendees,
		CreatedAt:          b.CreatedAt,
	}
}

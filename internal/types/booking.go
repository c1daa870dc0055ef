package types

import (
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/samber/lo"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// LineItemKind distinguishes the two priced components of a booking
type LineItemKind string

const (
	LineItemKindTicket LineItemKind = "ticket"
	LineItemKindAddOn  LineItemKind = "add_on"
)

// DraftEventType names a single user action on a booking draft
type DraftEventType string

const (
	DraftEventAddAttendee     DraftEventType = "add_attendee"
	DraftEventRemoveAttendee  DraftEventType = "remove_attendee"
	DraftEventUpdateAttendee  DraftEventType = "update_attendee"
	DraftEventSetTicketType   DraftEventType = "set_ticket_type"
	DraftEventToggleAddOn     DraftEventType = "toggle_add_on"
	DraftEventSetAddOnOption  DraftEventType = "set_add_on_option"
	DraftEventSetCustomField  DraftEventType = "set_custom_field"
	DraftEventSetBookingField DraftEventType = "set_booking_field"
	DraftEventApplyCoupon     DraftEventType = "apply_coupon"
	DraftEventRemoveCoupon    DraftEventType = "remove_coupon"
	DraftEventSetGuestDetails DraftEventType = "set_guest_details"
	DraftEventClear           DraftEventType = "clear"
)

func (t DraftEventType) Validate() error {
	allowed := []DraftEventType{
		DraftEventAddAttendee,
		DraftEventRemoveAttendee,
		DraftEventUpdateAttendee,
		DraftEventSetTicketType,
		DraftEventToggleAddOn,
		DraftEventSetAddOnOption,
		DraftEventSetCustomField,
		DraftEventSetBookingField,
		DraftEventApplyCoupon,
		DraftEventRemoveCoupon,
		DraftEventSetGuestDetails,
		DraftEventClear,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid draft event type").
			WithHint("Unknown booking draft action").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"type":    t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

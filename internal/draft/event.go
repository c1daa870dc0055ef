package draft

import (
	"strings"

	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/pricing"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/samber/lo"
)

// Event is one user action on a draft. Which fields are read depends on Type.
type Event struct {
	Type types.DraftEventType `json:"type" validate:"required"`

	AttendeeID   int               `json:"attendee_id,omitempty"`
	TicketTypeID string            `json:"ticket_type_id,omitempty"`
	FullName     string            `json:"full_name,omitempty"`
	Email        string            `json:"email,omitempty"`
	AddOnID      string            `json:"add_on_id,omitempty"`
	Selected     bool              `json:"selected,omitempty"`
	Option       string            `json:"option,omitempty"`
	Field        string            `json:"field,omitempty"`
	Value        string            `json:"value,omitempty"`
	CustomFields map[string]string `json:"custom_fields,omitempty"`
	CouponCode   string            `json:"coupon_code,omitempty"`
	GuestName    string            `json:"guest_name,omitempty"`
	GuestEmail   string            `json:"guest_email,omitempty"`
	GuestPhone   string            `json:"guest_phone,omitempty"`
}

// Apply folds ev into d and returns the new draft. d is never modified.
func Apply(d Draft, ev Event) (Draft, error) {
	if err := ev.Type.Validate(); err != nil {
		return d, err
	}

	next := d.clone()

	switch ev.Type {
	case types.DraftEventAddAttendee:
		if ev.TicketTypeID == "" {
			return d, missing(ev, "ticket_type_id")
		}
		next.AttendeeCounter++
		next.Attendees = append(next.Attendees, pricing.Attendee{
			LocalID:      next.AttendeeCounter,
			FullName:     strings.TrimSpace(ev.FullName),
			Email:        strings.TrimSpace(ev.Email),
			TicketTypeID: ev.TicketTypeID,
			AddOns:       map[string]pricing.AddOnSelection{},
			CustomFields: cloneFields(ev.CustomFields),
		})

	case types.DraftEventRemoveAttendee:
		idx, err := attendeeIndex(next, ev.AttendeeID)
		if err != nil {
			return d, err
		}
		next.Attendees = append(next.Attendees[:idx], next.Attendees[idx+1:]...)

	case types.DraftEventUpdateAttendee:
		idx, err := attendeeIndex(next, ev.AttendeeID)
		if err != nil {
			return d, err
		}
		next.Attendees[idx].FullName = strings.TrimSpace(ev.FullName)
		next.Attendees[idx].Email = strings.TrimSpace(ev.Email)

	case types.DraftEventSetTicketType:
		if ev.TicketTypeID == "" {
			return d, missing(ev, "ticket_type_id")
		}
		idx, err := attendeeIndex(next, ev.AttendeeID)
		if err != nil {
			return d, err
		}
		next.Attendees[idx].TicketTypeID = ev.TicketTypeID

	case types.DraftEventToggleAddOn:
		if ev.AddOnID == "" {
			return d, missing(ev, "add_on_id")
		}
		idx, err := attendeeIndex(next, ev.AttendeeID)
		if err != nil {
			return d, err
		}
		sel := next.Attendees[idx].AddOns[ev.AddOnID]
		sel.Selected = ev.Selected
		next.Attendees[idx].AddOns[ev.AddOnID] = sel

	case types.DraftEventSetAddOnOption:
		if ev.AddOnID == "" {
			return d, missing(ev, "add_on_id")
		}
		idx, err := attendeeIndex(next, ev.AttendeeID)
		if err != nil {
			return d, err
		}
		sel := next.Attendees[idx].AddOns[ev.AddOnID]
		sel.Option = ev.Option
		next.Attendees[idx].AddOns[ev.AddOnID] = sel

	case types.DraftEventSetCustomField:
		if ev.Field == "" {
			return d, missing(ev, "field")
		}
		idx, err := attendeeIndex(next, ev.AttendeeID)
		if err != nil {
			return d, err
		}
		next.Attendees[idx].CustomFields[ev.Field] = ev.Value

	case types.DraftEventSetBookingField:
		if ev.Field == "" {
			return d, missing(ev, "field")
		}
		next.BookingCustomFields[ev.Field] = ev.Value

	case types.DraftEventApplyCoupon:
		code := strings.TrimSpace(ev.CouponCode)
		if code == "" {
			return d, missing(ev, "coupon_code")
		}
		next.CouponCode = code

	case types.DraftEventRemoveCoupon:
		next.CouponCode = ""

	case types.DraftEventSetGuestDetails:
		next.GuestName = strings.TrimSpace(ev.GuestName)
		next.GuestEmail = strings.TrimSpace(ev.GuestEmail)
		next.GuestPhone = strings.TrimSpace(ev.GuestPhone)

	case types.DraftEventClear:
		next = New(d.EventRoute)
	}

	return next, nil
}

// ApplyAll folds events in order and stops at the first failure
func ApplyAll(d Draft, events ...Event) (Draft, error) {
	for _, ev := range events {
		next, err := Apply(d, ev)
		if err != nil {
			return d, err
		}
		d = next
	}
	return d, nil
}

func attendeeIndex(d Draft, localID int) (int, error) {
	_, idx, ok := lo.FindIndexOf(d.Attendees, func(a pricing.Attendee) bool { return a.LocalID == localID })
	if !ok {
		return -1, ierr.NewErrorf("attendee %d not found", localID).
			WithHint("Attendee is not part of this booking").
			WithReportableDetails(map[string]any{"attendee_id": localID}).
			Mark(ierr.ErrNotFound)
	}
	return idx, nil
}

func missing(ev Event, field string) error {
	return ierr.NewErrorf("%s requires %s", ev.Type, field).
		WithHintf("Missing %s", field).
		WithReportableDetails(map[string]any{
			"type":  ev.Type,
			"field": field,
		}).
		Mark(ierr.ErrValidation)
}

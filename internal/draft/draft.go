// Package draft holds the booking draft a client edits before submission.
// A Draft is an immutable value; every user action is an Event folded into a
// new Draft by Apply, and a Store persists the result per session and route.
package draft

import (
	"maps"

	"github.com/buzzhq/buzz/internal/pricing"
	"github.com/samber/lo"
)

// Draft is the editable state of one booking for one event route
type Draft struct {
	EventRoute          string             `json:"event_route"`
	Attendees           []pricing.Attendee `json:"attendees"`
	// AttendeeCounter is the last local id handed out. Ids are never reused
	// within a draft, even after an attendee is removed.
	AttendeeCounter     int                `json:"attendee_counter"`
	BookingCustomFields map[string]string  `json:"booking_custom_fields"`
	GuestName           string             `json:"guest_name,omitempty"`
	GuestEmail          string             `json:"guest_email,omitempty"`
	GuestPhone          string             `json:"guest_phone,omitempty"`
	CouponCode          string             `json:"coupon_code,omitempty"`
}

// New returns an empty draft for route
func New(route string) Draft {
	return Draft{
		EventRoute:          route,
		Attendees:           []pricing.Attendee{},
		BookingCustomFields: map[string]string{},
	}
}

// IsEmpty reports whether the draft carries anything worth restoring
func (d Draft) IsEmpty() bool {
	return len(d.Attendees) == 0 && len(d.BookingCustomFields) == 0
}

// Attendee returns the attendee with the given local id
func (d Draft) Attendee(localID int) (pricing.Attendee, bool) {
	return lo.Find(d.Attendees, func(a pricing.Attendee) bool { return a.LocalID == localID })
}

// clone deep copies every slice and map so the result shares nothing with d
func (d Draft) clone() Draft {
	out := d
	out.Attendees = make([]pricing.Attendee, len(d.Attendees))
	for i, a := range d.Attendees {
		out.Attendees[i] = cloneAttendee(a)
	}
	out.BookingCustomFields = cloneFields(d.BookingCustomFields)
	return out
}

func cloneAttendee(a pricing.Attendee) pricing.Attendee {
	out := a
	out.AddOns = make(map[string]pricing.AddOnSelection, len(a.AddOns))
	maps.Copy(out.AddOns, a.AddOns)
	out.CustomFields = cloneFields(a.CustomFields)
	return out
}

func cloneFields(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	maps.Copy(out, m)
	return out
}

// TicketTypeIDs returns the distinct ticket types on the draft in first-seen order
func (d Draft) TicketTypeIDs() []string {
	return lo.Uniq(lo.Map(d.Attendees, func(a pricing.Attendee, _ int) string { return a.TicketTypeID }))
}

// AttendeeIDs returns the local ids in attendee order
func (d Draft) AttendeeIDs() []int {
	return lo.Map(d.Attendees, func(a pricing.Attendee, _ int) int { return a.LocalID })
}

package catalog

import (
	"context"
)

// Repository defines the interface for ticket type, add-on and custom field
// data access
type Repository interface {
	CreateTicketType(ctx context.Context, ticketType *TicketType) error
	CreateAddOn(ctx context.Context, addOn *AddOn) error
	CreateCustomField(ctx context.Context, field *CustomField) error

	ListTicketTypes(ctx context.Context, eventID string) ([]*TicketType, error)
	ListAddOns(ctx context.Context, eventID string) ([]*AddOn, error)
	ListCustomFields(ctx context.Context, eventID string) ([]*CustomField, error)

	// IncrementSoldCount adds quantity to the sold counter of a ticket type.
	// The counter may pass max_available by at most overCapacity seats, which
	// is how free coupon tickets bypass the seat limit.
	IncrementSoldCount(ctx context.Context, ticketTypeID string, quantity, overCapacity int) error
}

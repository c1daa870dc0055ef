package pricing

import (
	"time"

	"github.com/buzzhq/buzz/internal/domain/catalog"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/shopspring/decimal"
)

// Resolver reads effective prices from a catalog snapshot at a fixed instant
type Resolver struct {
	catalog *catalog.Catalog
	now     time.Time
}

func NewResolver(c *catalog.Catalog, now time.Time) *Resolver {
	return &Resolver{catalog: c, now: now}
}

// ResolvePrice returns the unit price of a ticket type that can be sold now,
// including the remaining seat check
func (r *Resolver) ResolvePrice(ticketTypeID string) (decimal.Decimal, error) {
	t, err := r.ticketType(ticketTypeID)
	if err != nil {
		return decimal.Zero, err
	}
	if remaining, unlimited := t.Remaining(); !unlimited && remaining == 0 {
		return decimal.Zero, soldOut(t)
	}
	return t.Price, nil
}

// ResolveAddOnPrice returns the unit price of an enabled add-on
func (r *Resolver) ResolveAddOnPrice(addOnID string) (decimal.Decimal, error) {
	a, err := r.addOn(addOnID)
	if err != nil {
		return decimal.Zero, err
	}
	return a.Price, nil
}

// ticketType checks existence, sale window and currency but not seats.
// Seats are checked by the aggregator once coupon grants are known.
func (r *Resolver) ticketType(id string) (*catalog.TicketType, error) {
	t, ok := r.catalog.TicketType(id)
	if !ok {
		return nil, ierr.NewError("ticket type not found").
			WithHintf("Ticket type %s is not available for this event", id).
			WithReportableDetails(map[string]any{
				"ticket_type_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	if !t.IsOnSale(r.now) {
		return nil, ierr.NewError("ticket type not on sale").
			WithHintf("%s tickets are no longer available", t.Title).
			WithReportableDetails(map[string]any{
				"ticket_type_id": t.ID,
				"is_published":   t.IsPublished,
			}).
			Mark(ierr.ErrUnavailable)
	}

	if err := r.checkCurrency(t.Currency, "ticket_type_id", t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Resolver) addOn(id string) (*catalog.AddOn, error) {
	a, ok := r.catalog.AddOn(id)
	if !ok {
		return nil, addOnNotFound(id)
	}

	if !a.Enabled {
		return nil, ierr.NewError("add-on disabled").
			WithHintf("%s is no longer available", a.Title).
			WithReportableDetails(map[string]any{
				"add_on_id": a.ID,
			}).
			Mark(ierr.ErrUnavailable)
	}

	if err := r.checkCurrency(a.Currency, "add_on_id", a.ID); err != nil {
		return nil, err
	}
	return a, nil
}

// addOnSelection resolves a selected add-on and validates the chosen option
func (r *Resolver) addOnSelection(id string, sel AddOnSelection) (*catalog.AddOn, error) {
	a, err := r.addOn(id)
	if err != nil {
		return nil, err
	}

	if a.UserSelectsOption && !a.HasOption(sel.Option) {
		return nil, ierr.NewError("invalid add-on option").
			WithHintf("Please choose an option for %s", a.Title).
			WithReportableDetails(map[string]any{
				"add_on_id": a.ID,
				"option":    sel.Option,
				"options":   a.Options,
			}).
			Mark(ierr.ErrValidation)
	}
	return a, nil
}

func (r *Resolver) checkCurrency(code, key, id string) error {
	if r.catalog.Event == nil || code == "" {
		return nil
	}
	if !types.IsMatchingCurrency(code, r.catalog.Event.Currency) {
		return ierr.NewError("catalog item currency differs from event currency").
			WithHint("This item is priced in a different currency than the event").
			WithReportableDetails(map[string]any{
				key:              id,
				"currency":       code,
				"event_currency": r.catalog.Event.Currency,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func soldOut(t *catalog.TicketType) error {
	remaining, _ := t.Remaining()
	return ierr.NewError("ticket type sold out").
		WithHintf("%s tickets are sold out", t.Title).
		WithReportableDetails(map[string]any{
			"ticket_type_id": t.ID,
			"remaining":      remaining,
		}).
		Mark(ierr.ErrUnavailable)
}

func addOnNotFound(id string) error {
	return ierr.NewError("add-on not found").
		WithHintf("Add-on %s is not available for this event", id).
		WithReportableDetails(map[string]any{
			"add_on_id": id,
		}).
		Mark(ierr.ErrNotFound)
}

package pricing

import (
	"errors"
	"sort"
	"time"

	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Calculator builds booking breakdowns. It holds only a clock, so one value
// can be shared by every request.
type Calculator struct {
	now func() time.Time
}

// NewCalculator returns a calculator reading time from now, or time.Now when nil
func NewCalculator(now func() time.Time) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{now: now}
}

// Now is the calculator clock. Services use it so availability shown to a
// client matches what pricing sees.
func (c *Calculator) Now() time.Time {
	return c.now()
}

// BuildBreakdown prices the attendees against the catalog, applies the
// coupon and tax policy and returns the breakdown. Catalog and availability
// problems are returned as errors; coupon problems are reported on
// Breakdown.Coupon with a zero discount.
func (c *Calculator) BuildBreakdown(in BreakdownInput) (*Breakdown, error) {
	if in.Catalog == nil || in.Catalog.Event == nil {
		return nil, ierr.NewError("catalog is required").
			WithHint("Event pricing is not available").
			Mark(ierr.ErrValidation)
	}

	now := c.now()
	resolver := NewResolver(in.Catalog, now)

	lines, err := c.resolveLines(resolver, in.Attendees)
	if err != nil {
		return nil, err
	}
	netAmount := sumUnitPrices(lines)

	discount := decimal.Zero
	var couponResult *CouponResult
	if in.Coupon != nil || in.CouponCode != "" {
		couponResult = &CouponResult{Code: in.CouponCode}
		if in.Coupon != nil {
			couponResult.Code = in.Coupon.Code
			couponResult.Type = in.Coupon.Type
		}

		effect, err := NewCouponEvaluator(now).Evaluate(in.Coupon, in.Catalog.Event, lines, in.UserUsageCount)
		if err != nil {
			var couponErr *CouponError
			if !errors.As(err, &couponErr) {
				return nil, err
			}
			couponResult.ErrorCode = couponErr.Code
			couponResult.Reason = couponErr.Message
		} else {
			lines = effect.Lines
			discount = effect.Discount
			couponResult.Applied = true
			couponResult.FreeTicketsApplied = effect.FreeTicketsApplied
		}
	}

	if err := checkSeats(resolver, lines); err != nil {
		return nil, err
	}

	subtotal := ClampZero(netAmount.Sub(discount))
	tax := ApplyTaxPolicy(subtotal, in.TaxPolicy)

	b := &Breakdown{
		LineItems:     lines,
		NetAmount:     netAmount,
		Discount:      discount,
		Subtotal:      subtotal,
		TaxableBase:   tax.TaxableBase,
		TaxPercentage: decimal.Zero,
		TaxAmount:     tax.TaxAmount,
		ShowTax:       in.TaxPolicy.IsEffective(),
		Total:         tax.Total,
		Currency:      types.NormalizeCurrency(in.Catalog.Event.Currency),
		Coupon:        couponResult,
	}
	if b.ShowTax {
		b.TaxLabel = in.TaxPolicy.Label
		b.TaxPercentage = in.TaxPolicy.Percentage
		b.TaxInclusive = in.TaxPolicy.Inclusive
	}
	return b, nil
}

// resolveLines prices every attendee in list order. Add-ons follow catalog
// order so the result does not depend on map iteration.
func (c *Calculator) resolveLines(r *Resolver, attendees []Attendee) ([]LineItem, error) {
	lines := make([]LineItem, 0, len(attendees))
	seen := make(map[int]struct{}, len(attendees))

	for _, a := range attendees {
		if _, dup := seen[a.LocalID]; dup {
			return nil, ierr.NewError("duplicate attendee id").
				WithHint("Each attendee must be unique within a booking").
				WithReportableDetails(map[string]any{
					"local_id": a.LocalID,
				}).
				Mark(ierr.ErrValidation)
		}
		seen[a.LocalID] = struct{}{}

		if a.TicketTypeID == "" {
			return nil, ierr.NewError("attendee has no ticket type").
				WithHint("Please select a ticket type for every attendee").
				WithReportableDetails(map[string]any{
					"local_id": a.LocalID,
				}).
				Mark(ierr.ErrValidation)
		}

		t, err := r.ticketType(a.TicketTypeID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, newLine(a.LocalID, types.LineItemKindTicket, t.ID, t.Title, "", t.Price))

		selected := lo.Keys(lo.PickBy(a.AddOns, func(_ string, s AddOnSelection) bool { return s.Selected }))
		sort.Strings(selected)
		for _, id := range selected {
			if _, ok := r.catalog.AddOn(id); !ok {
				return nil, addOnNotFound(id)
			}
		}

		for _, catalogAddOn := range r.catalog.AddOns {
			sel, ok := a.AddOns[catalogAddOn.ID]
			if !ok || !sel.Selected {
				continue
			}
			addOn, err := r.addOnSelection(catalogAddOn.ID, sel)
			if err != nil {
				return nil, err
			}
			option := ""
			if addOn.UserSelectsOption {
				option = sel.Option
			}
			lines = append(lines, newLine(a.LocalID, types.LineItemKindAddOn, addOn.ID, addOn.Title, option, addOn.Price))
		}
	}
	return lines, nil
}

// checkSeats verifies demand per ticket type against remaining seats. Demand
// may exceed remaining seats only by the free tickets granted for that type.
func checkSeats(r *Resolver, lines []LineItem) error {
	demand := make(map[string]int)
	free := make(map[string]int)
	var order []string
	for _, l := range lines {
		if l.Kind != types.LineItemKindTicket {
			continue
		}
		if _, ok := demand[l.RefID]; !ok {
			order = append(order, l.RefID)
		}
		demand[l.RefID]++
		if l.Free {
			free[l.RefID]++
		}
	}

	for _, id := range order {
		t, _ := r.catalog.TicketType(id)
		remaining, unlimited := t.Remaining()
		if unlimited || demand[id] <= remaining+free[id] {
			continue
		}
		return ierr.NewError("not enough seats for ticket type").
			WithHintf("Only %d %s tickets are left", remaining, t.Title).
			WithReportableDetails(map[string]any{
				"ticket_type_id": id,
				"requested":      demand[id],
				"remaining":      remaining,
			}).
			Mark(ierr.ErrUnavailable)
	}
	return nil
}

func newLine(localID int, kind types.LineItemKind, refID, label, option string, price decimal.Decimal) LineItem {
	return LineItem{
		AttendeeLocalID: localID,
		Kind:            kind,
		RefID:           refID,
		Label:           label,
		Option:          option,
		UnitPrice:       price,
		Discount:        decimal.Zero,
		Amount:          price,
	}
}

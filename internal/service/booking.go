package service

import (
	"context"
	"maps"
	"strings"

	"github.com/buzzhq/buzz/internal/api/dto"
	"github.com/buzzhq/buzz/internal/domain/booking"
	"github.com/buzzhq/buzz/internal/domain/catalog"
	"github.com/buzzhq/buzz/internal/domain/coupon"
	"github.com/buzzhq/buzz/internal/draft"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/pricing"
	"github.com/buzzhq/buzz/internal/publisher"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/samber/lo"
)

// BookingService turns the session draft into a confirmed booking
type BookingService interface {
	Submit(ctx context.Context, route string, req dto.CreateBookingRequest) (*dto.BookingResponse, error)
	GetBooking(ctx context.Context, id string) (*dto.BookingResponse, error)
}

type bookingService struct {
	ServiceParams
	catalog CatalogService
}

func NewBookingService(params ServiceParams, catalogService CatalogService) BookingService {
	return &bookingService{
		ServiceParams: params,
		catalog:       catalogService,
	}
}

// Submit reprices the draft against a freshly loaded catalog and rejects the
// booking when the total differs from what the client showed. The booking,
// seat counters and coupon usage are written in one transaction; the draft
// is cleared only after that commit.
func (s *bookingService) Submit(ctx context.Context, route string, req dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	key, err := draftKey(ctx, route)
	if err != nil {
		return nil, err
	}

	c, err := s.catalog.RefreshCatalog(ctx, route)
	if err != nil {
		return nil, err
	}

	d, err := s.DraftStore.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := checkSubmission(ctx, c, d); err != nil {
		return nil, err
	}

	b, cp, err := s.price(ctx, c, d.Attendees, d.CouponCode)
	if err != nil {
		return nil, err
	}

	if !b.Total.Equal(req.ExpectedTotal) {
		s.Logger.Warnw("booking total mismatch",
			"event_route", route,
			"expected_total", req.ExpectedTotal.String(),
			"computed_total", b.Total.String(),
		)
		return nil, ierr.NewError("booking total does not match").
			WithHint("Prices have changed since you last checked. Please review your booking.").
			WithReportableDetails(map[string]any{
				"expected_total": req.ExpectedTotal.String(),
				"computed_total": b.Total.String(),
				"currency":       b.Currency,
			}).
			Mark(ierr.ErrPriceMismatch)
	}

	bk := newBooking(ctx, c, d, b, cp)

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.BookingRepo.Create(ctx, bk); err != nil {
			return err
		}
		counts := bk.TicketCounts()
		free := b.FreeTicketsByType()
		for _, t := range c.TicketTypes {
			if qty := counts[t.ID]; qty > 0 {
				if err := s.CatalogRepo.IncrementSoldCount(ctx, t.ID, qty, free[t.ID]); err != nil {
					return err
				}
			}
		}
		if bk.CouponID != "" {
			if err := s.CouponRepo.RecordUsage(ctx, bk.CouponID, bk.FreeTicketsApplied); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("booking confirmed",
		"booking_id", bk.ID,
		"event_id", bk.EventID,
		"attendees", len(bk.Attendees),
		"coupon_code", bk.CouponCode,
		"total", bk.TotalAmount.String(),
	)

	s.catalog.InvalidateCatalog(ctx, route)
	s.publishCreated(ctx, c, bk)

	if err := s.DraftStore.Delete(ctx, key); err != nil {
		s.Logger.Warnw("failed to clear booking draft",
			"booking_id", bk.ID,
			"event_route", route,
			"error", err,
		)
	}

	return dto.NewBookingResponse(bk, s.Formatter.FormatOrFree(bk.TotalAmount, bk.Currency, s.locale(req.Locale))), nil
}

func (s *bookingService) GetBooking(ctx context.Context, id string) (*dto.BookingResponse, error) {
	bk, err := s.BookingRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewBookingResponse(bk, s.Formatter.FormatOrFree(bk.TotalAmount, bk.Currency, s.locale(""))), nil
}

// publishCreated does not fail the submission: the booking is already
// committed when it runs
func (s *bookingService) publishCreated(ctx context.Context, c *catalog.Catalog, bk *booking.Booking) {
	err := s.EventPublisher.PublishBookingCreated(ctx, &publisher.BookingCreatedEvent{
		BookingID:          bk.ID,
		EventID:            bk.EventID,
		EventRoute:         c.Event.Route,
		UserID:             bk.UserID,
		CouponCode:         bk.CouponCode,
		FreeTicketsApplied: bk.FreeTicketsApplied,
		TicketCounts:       bk.TicketCounts(),
		Total:              bk.TotalAmount,
		Currency:           bk.Currency,
		CreatedAt:          bk.CreatedAt,
	})
	if err != nil {
		s.Logger.Errorw("failed to publish booking created event",
			"booking_id", bk.ID,
			"error", err,
		)
		s.Sentry.CaptureException(err)
	}
}

// checkSubmission enforces what must be filled in before a draft can be booked
func checkSubmission(ctx context.Context, c *catalog.Catalog, d draft.Draft) error {
	if len(d.Attendees) == 0 {
		return ierr.NewError("booking has no attendees").
			WithHint("Please add at least one attendee").
			Mark(ierr.ErrValidation)
	}

	for _, a := range d.Attendees {
		if a.FullName == "" || a.Email == "" {
			return ierr.NewErrorf("attendee %d is missing name or email", a.LocalID).
				WithHint("Please enter a name and email for every attendee").
				WithReportableDetails(map[string]any{
					"attendee_id": a.LocalID,
				}).
				Mark(ierr.ErrValidation)
		}
		if err := checkMandatory(c.FieldsFor(types.CustomFieldAppliesToTicket), a.CustomFields); err != nil {
			return err
		}
	}

	if err := checkMandatory(c.FieldsFor(types.CustomFieldAppliesToBooking), d.BookingCustomFields); err != nil {
		return err
	}

	if types.GetUserID(ctx) == "" && d.GuestEmail == "" {
		return ierr.NewError("guest email required").
			WithHint("Please enter your email to book as a guest").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func checkMandatory(fields []*catalog.CustomField, values map[string]string) error {
	for _, f := range fields {
		if !f.Mandatory || fieldValue(f, values) != "" {
			continue
		}
		return ierr.NewErrorf("mandatory field %s is empty", f.Name).
			WithHintf("%s is required", f.Label).
			WithReportableDetails(map[string]any{
				"field": f.Name,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// fieldValue returns the entered value or the field default
func fieldValue(f *catalog.CustomField, values map[string]string) string {
	if v := strings.TrimSpace(values[f.Name]); v != "" {
		return v
	}
	return f.Default()
}

// withDefaults fills unanswered fields with their defaults
func withDefaults(fields []*catalog.CustomField, values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	maps.Copy(out, values)
	for _, f := range fields {
		if v := fieldValue(f, values); v != "" {
			out[f.Name] = v
		}
	}
	return out
}

func newBooking(ctx context.Context, c *catalog.Catalog, d draft.Draft, b *pricing.Breakdown, cp *coupon.Coupon) *booking.Booking {
	bk := &booking.Booking{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_BOOKING),
		EventID:        c.Event.ID,
		UserID:         types.GetUserID(ctx),
		Currency:       b.Currency,
		Status:         types.BookingStatusConfirmed,
		NetAmount:      b.NetAmount,
		DiscountAmount: b.Discount,
		TaxLabel:       b.TaxLabel,
		TaxPercentage:  b.TaxPercentage,
		TaxInclusive:   b.TaxInclusive,
		TaxAmount:      b.TaxAmount,
		TotalAmount:    b.Total,
		GuestName:      d.GuestName,
		GuestEmail:     d.GuestEmail,
		GuestPhone:     d.GuestPhone,
		CustomFields:   withDefaults(c.FieldsFor(types.CustomFieldAppliesToBooking), d.BookingCustomFields),
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}

	if cp != nil && b.Coupon != nil && b.Coupon.Applied {
		bk.CouponID = cp.ID
		bk.CouponCode = cp.Code
		bk.FreeTicketsApplied = b.Coupon.FreeTicketsApplied
	}

	linesByAttendee := lo.GroupBy(b.LineItems, func(l pricing.LineItem) int { return l.AttendeeLocalID })
	ticketFields := c.FieldsFor(types.CustomFieldAppliesToTicket)

	bk.Attendees = lo.Map(d.Attendees, func(a pricing.Attendee, _ int) *booking.Attendee {
		att := &booking.Attendee{
			ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ATTENDEE),
			BookingID:    bk.ID,
			FullName:     a.FullName,
			Email:        a.Email,
			TicketTypeID: a.TicketTypeID,
			CustomFields: withDefaults(ticketFields, a.CustomFields),
		}
		for _, l := range linesByAttendee[a.LocalID] {
			switch l.Kind {
			case types.LineItemKindTicket:
				att.UnitPrice = l.UnitPrice
				att.Amount = l.Amount
			case types.LineItemKindAddOn:
				att.AddOns = append(att.AddOns, &booking.AttendeeAddOn{
					AttendeeID: att.ID,
					AddOnID:    l.RefID,
					Option:     l.Option,
					UnitPrice:  l.UnitPrice,
					Amount:     l.Amount,
				})
			}
		}
		return att
	})

	return bk
}

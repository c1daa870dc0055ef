package postgres

import (
	"context"

	"github.com/buzzhq/buzz/internal/domain/booking"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/logger"
	"github.com/buzzhq/buzz/internal/postgres"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/samber/lo"
)

type bookingRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewBookingRepository(db *postgres.DB, logger *logger.Logger) booking.Repository {
	return &bookingRepository{db: db, logger: logger}
}

type bookingRow struct {
	booking.Booking
	CustomFields []byte `db:"custom_fields"`
}

type attendeeRow struct {
	booking.Attendee
	CustomFields []byte `db:"custom_fields"`
}

const bookingColumns = `id, event_id, user_id, coupon_id, coupon_code, currency, booking_status,
	net_amount, discount_amount, tax_label, tax_percentage, tax_inclusive, tax_amount, total_amount,
	free_tickets_applied, guest_name, guest_email, guest_phone, custom_fields,
	status, created_at, updated_at, created_by, updated_by`

const attendeeColumns = `id, booking_id, full_name, email, ticket_type_id, unit_price, amount, custom_fields`

const attendeeAddOnColumns = `attendee_id, add_on_id, option_value, unit_price, amount`

func (r *bookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	span := StartRepositorySpan(ctx, "booking", "create", map[string]interface{}{
		"booking_id": b.ID,
		"event_id":   b.EventID,
		"attendees":  len(b.Attendees),
	})
	defer FinishSpan(span)

	r.logger.Debugw("creating booking",
		"booking_id", b.ID,
		"event_id", b.EventID,
		"attendees", len(b.Attendees),
		"total", b.TotalAmount.String(),
	)

	err := r.db.WithTx(ctx, func(ctx context.Context) error {
		q := r.db.GetQuerier(ctx)

		fields, err := encodeFields(b.CustomFields)
		if err != nil {
			return ierr.WithError(err).WithHint("Invalid booking custom fields").Mark(ierr.ErrValidation)
		}

		query := `INSERT INTO bookings (` + bookingColumns + `) VALUES (
			:id, :event_id, :user_id, :coupon_id, :coupon_code, :currency, :booking_status,
			:net_amount, :discount_amount, :tax_label, :tax_percentage, :tax_inclusive, :tax_amount, :total_amount,
			:free_tickets_applied, :guest_name, :guest_email, :guest_phone, :custom_fields,
			:status, :created_at, :updated_at, :created_by, :updated_by)`
		if _, err := q.NamedExecContext(ctx, query, bookingRow{Booking: *b, CustomFields: fields}); err != nil {
			return wrapWriteError(err, "booking", map[string]any{"booking_id": b.ID})
		}

		for _, a := range b.Attendees {
			fields, err := encodeFields(a.CustomFields)
			if err != nil {
				return ierr.WithError(err).WithHint("Invalid attendee custom fields").Mark(ierr.ErrValidation)
			}

			query := `INSERT INTO booking_attendees (` + attendeeColumns + `) VALUES (
				:id, :booking_id, :full_name, :email, :ticket_type_id, :unit_price, :amount, :custom_fields)`
			if _, err := q.NamedExecContext(ctx, query, attendeeRow{Attendee: *a, CustomFields: fields}); err != nil {
				return wrapWriteError(err, "attendee", map[string]any{"attendee_id": a.ID})
			}

			for _, addOn := range a.AddOns {
				query := `INSERT INTO booking_attendee_add_ons (` + attendeeAddOnColumns + `) VALUES (
					:attendee_id, :add_on_id, :option_value, :unit_price, :amount)`
				if _, err := q.NamedExecContext(ctx, query, addOn); err != nil {
					return wrapWriteError(err, "attendee add-on", map[string]any{
						"attendee_id": a.ID,
						"add_on_id":   addOn.AddOnID,
					})
				}
			}
		}
		return nil
	})
	if err != nil {
		SetSpanError(span, err)
		return err
	}

	SetSpanSuccess(span)
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id string) (*booking.Booking, error) {
	span := StartRepositorySpan(ctx, "booking", "get", map[string]interface{}{"booking_id": id})
	defer FinishSpan(span)

	q := r.db.GetQuerier(ctx)
	details := map[string]any{"booking_id": id}

	var row bookingRow
	if err := q.GetContext(ctx, &row, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id); err != nil {
		SetSpanError(span, err)
		return nil, wrapReadError(err, "Booking", details)
	}

	b := row.Booking
	fields, err := decodeFields(row.CustomFields)
	if err != nil {
		SetSpanError(span, err)
		return nil, wrapReadError(err, "booking custom fields", details)
	}
	b.CustomFields = fields

	var attendees []attendeeRow
	if err := q.SelectContext(ctx, &attendees,
		`SELECT `+attendeeColumns+` FROM booking_attendees WHERE booking_id = $1 ORDER BY id`, id,
	); err != nil {
		SetSpanError(span, err)
		return nil, wrapReadError(err, "booking attendees", details)
	}

	var addOns []*booking.AttendeeAddOn
	if err := q.SelectContext(ctx, &addOns,
		`SELECT a.attendee_id, a.add_on_id, a.option_value, a.unit_price, a.amount
		FROM booking_attendee_add_ons a
		JOIN booking_attendees t ON t.id = a.attendee_id
		WHERE t.booking_id = $1
		ORDER BY a.attendee_id, a.add_on_id`, id,
	); err != nil {
		SetSpanError(span, err)
		return nil, wrapReadError(err, "booking add-ons", details)
	}
	addOnsByAttendee := lo.GroupBy(addOns, func(a *booking.AttendeeAddOn) string { return a.AttendeeID })

	b.Attendees = make([]*booking.Attendee, 0, len(attendees))
	for _, row := range attendees {
		a := row.Attendee
		if a.CustomFields, err = decodeFields(row.CustomFields); err != nil {
			SetSpanError(span, err)
			return nil, wrapReadError(err, "attendee custom fields", details)
		}
		a.AddOns = addOnsByAttendee[a.ID]
		b.Attendees = append(b.Attendees, &a)
	}

	SetSpanSuccess(span)
	return &b, nil
}

func (r *bookingRepository) CountByCouponAndUser(ctx context.Context, couponID, userID string) (int, error) {
	span := StartRepositorySpan(ctx, "booking", "count_by_coupon_user", map[string]interface{}{
		"coupon_id": couponID,
		"user_id":   userID,
	})
	defer FinishSpan(span)

	var count int
	query := `SELECT COUNT(*) FROM bookings WHERE coupon_id = $1 AND user_id = $2 AND booking_status = $3`
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, couponID, userID, types.BookingStatusConfirmed); err != nil {
		SetSpanError(span, err)
		return 0, wrapReadError(err, "booking count", map[string]any{"coupon_id": couponID})
	}

	SetSpanSuccess(span)
	return count, nil
}

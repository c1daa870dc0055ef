package postgres

import (
	"context"
	"time"

	"github.com/buzzhq/buzz/internal/domain/catalog"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/logger"
	"github.com/buzzhq/buzz/internal/postgres"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/lib/pq"
	"github.com/samber/lo"
)

type catalogRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCatalogRepository(db *postgres.DB, logger *logger.Logger) catalog.Repository {
	return &catalogRepository{db: db, logger: logger}
}

const ticketTypeColumns = `id, event_id, title, price, currency, is_published, auto_unpublish_after,
	max_available, sold_count, status, created_at, updated_at, created_by, updated_by`

func (r *catalogRepository) CreateTicketType(ctx context.Context, t *catalog.TicketType) error {
	span := StartRepositorySpan(ctx, "ticket_type", "create", map[string]interface{}{
		"ticket_type_id": t.ID,
		"event_id":       t.EventID,
	})
	defer FinishSpan(span)

	query := `INSERT INTO ticket_types (` + ticketTypeColumns + `) VALUES (
		:id, :event_id, :title, :price, :currency, :is_published, :auto_unpublish_after,
		:max_available, :sold_count, :status, :created_at, :updated_at, :created_by, :updated_by)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, t); err != nil {
		SetSpanError(span, err)
		return wrapWriteError(err, "ticket type", map[string]any{"ticket_type_id": t.ID})
	}

	SetSpanSuccess(span)
	return nil
}

// addOnRow carries options as a postgres text array
type addOnRow struct {
	catalog.AddOn
	Options pq.StringArray `db:"options"`
}

const addOnColumns = `id, event_id, title, price, currency, enabled, user_selects_option, options,
	status, created_at, updated_at, created_by, updated_by`

func (r *catalogRepository) CreateAddOn(ctx context.Context, a *catalog.AddOn) error {
	span := StartRepositorySpan(ctx, "add_on", "create", map[string]interface{}{
		"add_on_id": a.ID,
		"event_id":  a.EventID,
	})
	defer FinishSpan(span)

	query := `INSERT INTO ticket_add_ons (` + addOnColumns + `) VALUES (
		:id, :event_id, :title, :price, :currency, :enabled, :user_selects_option, :options,
		:status, :created_at, :updated_at, :created_by, :updated_by)`

	row := addOnRow{AddOn: *a, Options: pq.StringArray(lo.Ternary(a.Options == nil, []string{}, a.Options))}
	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, row); err != nil {
		SetSpanError(span, err)
		return wrapWriteError(err, "add-on", map[string]any{"add_on_id": a.ID})
	}

	SetSpanSuccess(span)
	return nil
}

type customFieldRow struct {
	catalog.CustomField
	Options pq.StringArray `db:"options"`
}

const customFieldColumns = `id, event_id, name, label, field_type, applies_to, mandatory, placeholder,
	default_value, options, sort_order, enabled`

func (r *catalogRepository) CreateCustomField(ctx context.Context, f *catalog.CustomField) error {
	span := StartRepositorySpan(ctx, "custom_field", "create", map[string]interface{}{
		"custom_field_id": f.ID,
		"event_id":        f.EventID,
	})
	defer FinishSpan(span)

	query := `INSERT INTO custom_fields (` + customFieldColumns + `) VALUES (
		:id, :event_id, :name, :label, :field_type, :applies_to, :mandatory, :placeholder,
		:default_value, :options, :sort_order, :enabled)`

	row := customFieldRow{CustomField: *f, Options: pq.StringArray(lo.Ternary(f.Options == nil, []string{}, f.Options))}
	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, row); err != nil {
		SetSpanError(span, err)
		return wrapWriteError(err, "custom field", map[string]any{"name": f.Name})
	}

	SetSpanSuccess(span)
	return nil
}

func (r *catalogRepository) ListTicketTypes(ctx context.Context, eventID string) ([]*catalog.TicketType, error) {
	span := StartRepositorySpan(ctx, "ticket_type", "list", map[string]interface{}{"event_id": eventID})
	defer FinishSpan(span)

	var ticketTypes []*catalog.TicketType
	query := `SELECT ` + ticketTypeColumns + ` FROM ticket_types
		WHERE event_id = $1 AND status = $2 ORDER BY created_at, id`
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &ticketTypes, query, eventID, types.StatusPublished); err != nil {
		SetSpanError(span, err)
		return nil, wrapReadError(err, "ticket types", map[string]any{"event_id": eventID})
	}

	SetSpanSuccess(span)
	return ticketTypes, nil
}

func (r *catalogRepository) ListAddOns(ctx context.Context, eventID string) ([]*catalog.AddOn, error) {
	span := StartRepositorySpan(ctx, "add_on", "list", map[string]interface{}{"event_id": eventID})
	defer FinishSpan(span)

	var rows []addOnRow
	query := `SELECT ` + addOnColumns + ` FROM ticket_add_ons
		WHERE event_id = $1 AND status = $2 ORDER BY created_at, id`
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, eventID, types.StatusPublished); err != nil {
		SetSpanError(span, err)
		return nil, wrapReadError(err, "add-ons", map[string]any{"event_id": eventID})
	}

	SetSpanSuccess(span)
	return lo.Map(rows, func(row addOnRow, _ int) *catalog.AddOn {
		a := row.AddOn
		a.Options = []string(row.Options)
		return &a
	}), nil
}

func (r *catalogRepository) ListCustomFields(ctx context.Context, eventID string) ([]*catalog.CustomField, error) {
	span := StartRepositorySpan(ctx, "custom_field", "list", map[string]interface{}{"event_id": eventID})
	defer FinishSpan(span)

	var rows []customFieldRow
	query := `SELECT ` + customFieldColumns + ` FROM custom_fields
		WHERE event_id = $1 ORDER BY sort_order, name`
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, eventID); err != nil {
		SetSpanError(span, err)
		return nil, wrapReadError(err, "custom fields", map[string]any{"event_id": eventID})
	}

	SetSpanSuccess(span)
	return lo.Map(rows, func(row customFieldRow, _ int) *catalog.CustomField {
		f := row.CustomField
		f.Options = []string(row.Options)
		return &f
	}), nil
}

// IncrementSoldCount refuses to push a capped ticket type more than
// overCapacity seats past its limit so concurrent submissions cannot oversell
func (r *catalogRepository) IncrementSoldCount(ctx context.Context, ticketTypeID string, quantity, overCapacity int) error {
	span := StartRepositorySpan(ctx, "ticket_type", "increment_sold", map[string]interface{}{
		"ticket_type_id": ticketTypeID,
		"quantity":       quantity,
		"over_capacity":  overCapacity,
	})
	defer FinishSpan(span)

	query := `UPDATE ticket_types
		SET sold_count = sold_count + $1, updated_at = $2
		WHERE id = $3 AND (max_available = 0 OR sold_count + $1 <= max_available + $4)`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, quantity, time.Now().UTC(), ticketTypeID, overCapacity)
	if err != nil {
		SetSpanError(span, err)
		return wrapWriteError(err, "ticket type", map[string]any{"ticket_type_id": ticketTypeID})
	}

	affected, err := result.RowsAffected()
	if err != nil {
		SetSpanError(span, err)
		return wrapWriteError(err, "ticket type", map[string]any{"ticket_type_id": ticketTypeID})
	}
	if affected == 0 {
		return ierr.NewError("ticket type sold out").
			WithHint("Not enough tickets left for this ticket type").
			WithReportableDetails(map[string]any{
				"ticket_type_id": ticketTypeID,
				"quantity":       quantity,
			}).
			Mark(ierr.ErrUnavailable)
	}

	SetSpanSuccess(span)
	return nil
}

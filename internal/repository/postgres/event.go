package postgres

import (
	"context"

	"github.com/buzzhq/buzz/internal/domain/event"
	"github.com/buzzhq/buzz/internal/logger"
	"github.com/buzzhq/buzz/internal/postgres"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/shopspring/decimal"
)

type eventRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewEventRepository(db *postgres.DB, logger *logger.Logger) event.Repository {
	return &eventRepository{db: db, logger: logger}
}

// eventRow flattens the tax policy into columns
type eventRow struct {
	ID            string          `db:"id"`
	Route         string          `db:"route"`
	Title         string          `db:"title"`
	CategoryID    string          `db:"category_id"`
	Currency      string          `db:"currency"`
	ApplyTax      bool            `db:"apply_tax"`
	TaxLabel      string          `db:"tax_label"`
	TaxPercentage decimal.Decimal `db:"tax_percentage"`
	TaxInclusive  bool            `db:"tax_inclusive"`
	types.BaseModel
}

func (r eventRow) toDomain() *event.Event {
	return &event.Event{
		ID:         r.ID,
		Route:      r.Route,
		Title:      r.Title,
		CategoryID: r.CategoryID,
		Currency:   r.Currency,
		Tax: event.TaxPolicy{
			ApplyTax:   r.ApplyTax,
			Label:      r.TaxLabel,
			Percentage: r.TaxPercentage,
			Inclusive:  r.TaxInclusive,
		},
		BaseModel: r.BaseModel,
	}
}

func fromEvent(e *event.Event) eventRow {
	return eventRow{
		ID:            e.ID,
		Route:         e.Route,
		Title:         e.Title,
		CategoryID:    e.CategoryID,
		Currency:      e.Currency,
		ApplyTax:      e.Tax.ApplyTax,
		TaxLabel:      e.Tax.Label,
		TaxPercentage: e.Tax.Percentage,
		TaxInclusive:  e.Tax.Inclusive,
		BaseModel:     e.BaseModel,
	}
}

const eventColumns = `id, route, title, category_id, currency, apply_tax, tax_label, tax_percentage,
	tax_inclusive, status, created_at, updated_at, created_by, updated_by`

func (r *eventRepository) Create(ctx context.Context, e *event.Event) error {
	span := StartRepositorySpan(ctx, "event", "create", map[string]interface{}{
		"event_id": e.ID,
		"route":    e.Route,
	})
	defer FinishSpan(span)

	r.logger.Debugw("creating event", "event_id", e.ID, "route", e.Route)

	query := `INSERT INTO events (` + eventColumns + `) VALUES (
		:id, :route, :title, :category_id, :currency, :apply_tax, :tax_label, :tax_percentage,
		:tax_inclusive, :status, :created_at, :updated_at, :created_by, :updated_by)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, fromEvent(e)); err != nil {
		SetSpanError(span, err)
		return wrapWriteError(err, "event", map[string]any{"event_id": e.ID, "route": e.Route})
	}

	SetSpanSuccess(span)
	return nil
}

func (r *eventRepository) Get(ctx context.Context, id string) (*event.Event, error) {
	span := StartRepositorySpan(ctx, "event", "get", map[string]interface{}{"event_id": id})
	defer FinishSpan(span)

	var row eventRow
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 AND status = $2`
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &row, query, id, types.StatusPublished); err != nil {
		SetSpanError(span, err)
		return nil, wrapReadError(err, "Event", map[string]any{"event_id": id})
	}

	SetSpanSuccess(span)
	return row.toDomain(), nil
}

func (r *eventRepository) GetByRoute(ctx context.Context, route string) (*event.Event, error) {
	span := StartRepositorySpan(ctx, "event", "get_by_route", map[string]interface{}{"route": route})
	defer FinishSpan(span)

	var row eventRow
	query := `SELECT ` + eventColumns + ` FROM events WHERE route = $1 AND status = $2`
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &row, query, route, types.StatusPublished); err != nil {
		SetSpanError(span, err)
		return nil, wrapReadError(err, "Event", map[string]any{"route": route})
	}

	SetSpanSuccess(span)
	return row.toDomain(), nil
}

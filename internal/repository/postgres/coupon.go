package postgres

import (
	"context"
	"time"

	"github.com/buzzhq/buzz/internal/domain/coupon"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/logger"
	"github.com/buzzhq/buzz/internal/postgres"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/lib/pq"
	"github.com/samber/lo"
)

type couponRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCouponRepository(db *postgres.DB, logger *logger.Logger) coupon.Repository {
	return &couponRepository{db: db, logger: logger}
}

const couponColumns = `id, code, type, event_id, event_category_id, ticket_type_id, discount_kind,
	discount_value, max_discount_amount, min_order_value, valid_from, valid_till, max_usage_count,
	max_usage_per_user, times_used, free_ticket_count, free_tickets_claimed, is_active,
	status, created_at, updated_at, created_by, updated_by`

func (r *couponRepository) Create(ctx context.Context, c *coupon.Coupon) error {
	span := StartRepositorySpan(ctx, "coupon", "create", map[string]interface{}{
		"coupon_id": c.ID,
		"code":      c.Code,
	})
	defer FinishSpan(span)

	r.logger.Debugw("creating coupon", "coupon_id", c.ID, "code", c.Code, "type", c.Type)

	err := r.db.WithTx(ctx, func(ctx context.Context) error {
		q := r.db.GetQuerier(ctx)

		query := `INSERT INTO coupons (` + couponColumns + `) VALUES (
			:id, :code, :type, :event_id, :event_category_id, :ticket_type_id, :discount_kind,
			:discount_value, :max_discount_amount, :min_order_value, :valid_from, :valid_till, :max_usage_count,
			:max_usage_per_user, :times_used, :free_ticket_count, :free_tickets_claimed, :is_active,
			:status, :created_at, :updated_at, :created_by, :updated_by)`
		if _, err := q.NamedExecContext(ctx, query, c); err != nil {
			return wrapWriteError(err, "coupon", map[string]any{"code": c.Code})
		}

		for _, addOnID := range lo.Uniq(c.FreeAddOns) {
			if _, err := q.ExecContext(ctx,
				`INSERT INTO coupon_free_add_ons (coupon_id, add_on_id) VALUES ($1, $2)`,
				c.ID, addOnID,
			); err != nil {
				return wrapWriteError(err, "coupon free add-on", map[string]any{
					"coupon_id": c.ID,
					"add_on_id": addOnID,
				})
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

func (r *couponRepository) Get(ctx context.Context, id string) (*coupon.Coupon, error) {
	return r.getOne(ctx, "get", "id", id)
}

// GetByCode looks up a coupon by its code, case sensitive
func (r *couponRepository) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	return r.getOne(ctx, "get_by_code", "code", code)
}

func (r *couponRepository) getOne(ctx context.Context, op, column, value string) (*coupon.Coupon, error) {
	span := StartRepositorySpan(ctx, "coupon", op, map[string]interface{}{column: value})
	defer FinishSpan(span)

	q := r.db.GetQuerier(ctx)

	var c coupon.Coupon
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE ` + column + ` = $1 AND status = $2`
	if err := q.GetContext(ctx, &c, query, value, types.StatusPublished); err != nil {
		SetSpanError(span, err)
		return nil, wrapReadError(err, "Coupon", map[string]any{column: value})
	}

	if err := q.SelectContext(ctx, &c.FreeAddOns,
		`SELECT add_on_id FROM coupon_free_add_ons WHERE coupon_id = $1 ORDER BY add_on_id`, c.ID,
	); err != nil {
		SetSpanError(span, err)
		return nil, wrapReadError(err, "coupon free add-ons", map[string]any{"coupon_id": c.ID})
	}

	SetSpanSuccess(span)
	return &c, nil
}

// List returns coupons scoped to eventID, or every coupon when eventID is empty
func (r *couponRepository) List(ctx context.Context, eventID string) ([]*coupon.Coupon, error) {
	span := StartRepositorySpan(ctx, "coupon", "list", map[string]interface{}{"event_id": eventID})
	defer FinishSpan(span)

	q := r.db.GetQuerier(ctx)

	var coupons []*coupon.Coupon
	query := `SELECT ` + couponColumns + ` FROM coupons
		WHERE status = $1 AND ($2 = '' OR event_id = $2) ORDER BY created_at DESC`
	if err := q.SelectContext(ctx, &coupons, query, types.StatusPublished, eventID); err != nil {
		SetSpanError(span, err)
		return nil, wrapReadError(err, "coupons", map[string]any{"event_id": eventID})
	}
	if len(coupons) == 0 {
		SetSpanSuccess(span)
		return coupons, nil
	}

	var links []struct {
		CouponID string `db:"coupon_id"`
		AddOnID  string `db:"add_on_id"`
	}
	ids := lo.Map(coupons, func(c *coupon.Coupon, _ int) string { return c.ID })
	if err := q.SelectContext(ctx, &links,
		`SELECT coupon_id, add_on_id FROM coupon_free_add_ons WHERE coupon_id = ANY($1) ORDER BY add_on_id`,
		pq.Array(ids),
	); err != nil {
		SetSpanError(span, err)
		return nil, wrapReadError(err, "coupon free add-ons", map[string]any{"event_id": eventID})
	}

	byCoupon := lo.KeyBy(coupons, func(c *coupon.Coupon) string { return c.ID })
	for _, link := range links {
		if c, ok := byCoupon[link.CouponID]; ok {
			c.FreeAddOns = append(c.FreeAddOns, link.AddOnID)
		}
	}

	SetSpanSuccess(span)
	return coupons, nil
}

// RecordUsage guards both counters in the statement so concurrent bookings
// cannot overrun a usage limit or the free ticket pool
func (r *couponRepository) RecordUsage(ctx context.Context, id string, freeTickets int) error {
	span := StartRepositorySpan(ctx, "coupon", "record_usage", map[string]interface{}{
		"coupon_id":    id,
		"free_tickets": freeTickets,
	})
	defer FinishSpan(span)

	query := `UPDATE coupons
		SET times_used = times_used + 1,
			free_tickets_claimed = free_tickets_claimed + $1,
			updated_at = $2
		WHERE id = $3
			AND (max_usage_count = 0 OR times_used < max_usage_count)
			AND (type <> $4 OR free_tickets_claimed + $1 <= free_ticket_count)`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		freeTickets, time.Now().UTC(), id, types.CouponTypeFreeTickets,
	)
	if err != nil {
		SetSpanError(span, err)
		return wrapWriteError(err, "coupon", map[string]any{"coupon_id": id})
	}

	affected, err := result.RowsAffected()
	if err != nil {
		SetSpanError(span, err)
		return wrapWriteError(err, "coupon", map[string]any{"coupon_id": id})
	}
	if affected == 0 {
		return ierr.NewError("coupon usage limit reached").
			WithHint("This coupon has reached its usage limit").
			WithReportableDetails(map[string]any{"coupon_id": id}).
			Mark(ierr.ErrUnavailable)
	}

	SetSpanSuccess(span)
	return nil
}

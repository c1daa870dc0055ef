package service

import (
	"context"

	"github.com/buzzhq/buzz/internal/api/dto"
	"github.com/buzzhq/buzz/internal/domain/catalog"
	"github.com/buzzhq/buzz/internal/domain/coupon"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/pricing"
	"github.com/buzzhq/buzz/internal/sentry"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/buzzhq/buzz/internal/validator"
)

// QuoteService prices a booking without storing anything
type QuoteService interface {
	Quote(ctx context.Context, route string, req dto.QuoteRequest) (*dto.BreakdownResponse, error)
}

type quoteService struct {
	ServiceParams
	catalog CatalogService
}

func NewQuoteService(params ServiceParams, catalogService CatalogService) QuoteService {
	return &quoteService{
		ServiceParams: params,
		catalog:       catalogService,
	}
}

func (s *quoteService) Quote(ctx context.Context, route string, req dto.QuoteRequest) (*dto.BreakdownResponse, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	c, err := s.catalog.GetCatalog(ctx, route)
	if err != nil {
		return nil, err
	}

	b, _, err := s.price(ctx, c, req.ToAttendees(), req.CouponCode)
	if err != nil {
		return nil, err
	}
	return dto.NewBreakdownResponse(b, s.Formatter, s.locale(req.Locale)), nil
}

// price runs the calculator for attendees against c. The coupon is looked
// up by its normalized code; an unknown code is not an error and shows up
// as COUPON_NOT_FOUND on the breakdown. The resolved coupon is returned so
// a submission can record its usage.
func (p ServiceParams) price(ctx context.Context, c *catalog.Catalog, attendees []pricing.Attendee, couponCode string) (*pricing.Breakdown, *coupon.Coupon, error) {
	code := types.NormalizeCouponCode(couponCode)

	var cp *coupon.Coupon
	usage := 0
	if code != "" {
		found, err := p.CouponRepo.GetByCode(ctx, code)
		switch {
		case err == nil:
			cp = found
		case ierr.IsNotFound(err):
		default:
			return nil, nil, err
		}

		if cp != nil && cp.MaxUsagePerUser > 0 {
			if userID := types.GetUserID(ctx); userID != "" {
				usage, err = p.BookingRepo.CountByCouponAndUser(ctx, cp.ID, userID)
				if err != nil {
					return nil, nil, err
				}
			}
		}
	}

	span, _ := p.Sentry.StartPricingSpan(ctx, "pricing.breakdown", map[string]interface{}{
		"event_id":    c.Event.ID,
		"attendees":   len(attendees),
		"coupon_code": code,
	})
	b, err := p.Calculator.BuildBreakdown(pricing.BreakdownInput{
		Attendees:      attendees,
		Catalog:        c,
		TaxPolicy:      c.Event.Tax,
		CouponCode:     code,
		Coupon:         cp,
		UserUsageCount: usage,
	})
	sentry.FinishSpan(span, err)
	if err != nil {
		return nil, nil, err
	}

	if b.Coupon != nil && !b.Coupon.Applied {
		p.Logger.Debugw("coupon not applied",
			"event_id", c.Event.ID,
			"coupon_code", code,
			"error_code", b.Coupon.ErrorCode,
		)
	}
	return b, cp, nil
}

package service

import (
	"context"

	"github.com/buzzhq/buzz/internal/api/dto"
	"github.com/buzzhq/buzz/internal/domain/catalog"
	"github.com/buzzhq/buzz/internal/domain/coupon"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/pricing"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/buzzhq/buzz/internal/validator"
	"github.com/samber/lo"
)

// maxCodeAttempts bounds retries when a generated code is already taken
const maxCodeAttempts = 5

// CouponService defines the interface for coupon operations
type CouponService interface {
	CreateCoupon(ctx context.Context, req dto.CreateCouponRequest) (*dto.CouponResponse, error)
	GetCouponByCode(ctx context.Context, code string) (*dto.CouponResponse, error)
	ListCoupons(ctx context.Context, req dto.ListCouponsRequest) (*dto.ListCouponsResponse, error)
	// ValidateCoupon checks a code against an event without pricing a booking
	ValidateCoupon(ctx context.Context, route string, req dto.ValidateCouponRequest) (*dto.ValidateCouponResponse, error)
}

type couponService struct {
	ServiceParams
	catalog CatalogService
}

// NewCouponService creates a new coupon service
func NewCouponService(params ServiceParams, catalogService CatalogService) CouponService {
	return &couponService{
		ServiceParams: params,
		catalog:       catalogService,
	}
}

// CreateCoupon creates a new coupon
func (s *couponService) CreateCoupon(ctx context.Context, req dto.CreateCouponRequest) (*dto.CouponResponse, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	code := types.NormalizeCouponCode(req.Code)
	if code == "" {
		generated, err := s.generateCode(ctx)
		if err != nil {
			return nil, err
		}
		code = generated
	}

	c := req.ToCoupon(ctx, code)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.validateReferences(ctx, c); err != nil {
		return nil, err
	}

	if err := s.CouponRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.Logger.Infow("coupon created",
		"coupon_id", c.ID,
		"code", c.Code,
		"type", c.Type,
		"scope", c.Scope(),
	)
	return dto.NewCouponResponse(c), nil
}

// generateCode draws codes until one is unused
func (s *couponService) generateCode(ctx context.Context) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := types.GenerateShortIDWithPrefix("", types.CouponCodeLength)
		if code == "" {
			continue
		}
		_, err := s.CouponRepo.GetByCode(ctx, code)
		if ierr.IsNotFound(err) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", ierr.NewError("could not generate a unique coupon code").
		WithHint("Please try again or provide a code").
		Mark(ierr.ErrSystem)
}

// validateReferences checks that the event, ticket type and free add-ons a
// coupon names exist and belong together
func (s *couponService) validateReferences(ctx context.Context, c *coupon.Coupon) error {
	if c.EventID == "" {
		if c.TicketTypeID != "" || len(c.FreeAddOns) > 0 {
			return ierr.NewError("coupon references catalog items without an event").
				WithHint("Ticket type and free add-ons require an event").
				Mark(ierr.ErrValidation)
		}
		return nil
	}

	if _, err := s.EventRepo.Get(ctx, c.EventID); err != nil {
		return err
	}

	if c.TicketTypeID != "" {
		ticketTypes, err := s.CatalogRepo.ListTicketTypes(ctx, c.EventID)
		if err != nil {
			return err
		}
		if !lo.ContainsBy(ticketTypes, func(t *catalog.TicketType) bool { return t.ID == c.TicketTypeID }) {
			return ierr.NewError("ticket type not found for event").
				WithHint("The selected ticket type does not belong to this event").
				WithReportableDetails(map[string]any{
					"ticket_type_id": c.TicketTypeID,
					"event_id":       c.EventID,
				}).
				Mark(ierr.ErrValidation)
		}
	}

	if len(c.FreeAddOns) > 0 {
		addOns, err := s.CatalogRepo.ListAddOns(ctx, c.EventID)
		if err != nil {
			return err
		}
		ids := lo.Map(addOns, func(a *catalog.AddOn, _ int) string { return a.ID })
		if missing, _ := lo.Difference(c.FreeAddOns, ids); len(missing) > 0 {
			return ierr.NewError("free add-ons not found for event").
				WithHint("Some of the free add-ons do not belong to this event").
				WithReportableDetails(map[string]any{
					"add_on_ids": missing,
					"event_id":   c.EventID,
				}).
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}

func (s *couponService) GetCouponByCode(ctx context.Context, code string) (*dto.CouponResponse, error) {
	c, err := s.CouponRepo.GetByCode(ctx, types.NormalizeCouponCode(code))
	if err != nil {
		return nil, err
	}
	return dto.NewCouponResponse(c), nil
}

func (s *couponService) ListCoupons(ctx context.Context, req dto.ListCouponsRequest) (*dto.ListCouponsResponse, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	coupons, err := s.CouponRepo.List(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	limit := req.GetLimit()
	page := lo.Subset(coupons, req.Offset, uint(limit))
	items := lo.Map(page, func(c *coupon.Coupon, _ int) *dto.CouponResponse {
		return dto.NewCouponResponse(c)
	})
	resp := types.NewListResponse(items, len(coupons), limit, req.Offset)
	return &resp, nil
}

func (s *couponService) ValidateCoupon(ctx context.Context, route string, req dto.ValidateCouponRequest) (*dto.ValidateCouponResponse, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	c, err := s.catalog.GetCatalog(ctx, route)
	if err != nil {
		return nil, err
	}

	cp, err := s.CouponRepo.GetByCode(ctx, types.NormalizeCouponCode(req.CouponCode))
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}

	usage := 0
	if cp != nil && cp.MaxUsagePerUser > 0 {
		if userID := types.GetUserID(ctx); userID != "" {
			usage, err = s.BookingRepo.CountByCouponAndUser(ctx, cp.ID, userID)
			if err != nil {
				return nil, err
			}
		}
	}

	cc := pricing.CouponContext{
		Event:          c.Event,
		UserUsageCount: usage,
	}
	if len(req.TicketTypeIDs) > 0 {
		cc.TicketTypeIDs = req.TicketTypeIDs
	}

	checkErr := pricing.NewCouponEvaluator(s.Calculator.Now()).Check(cp, cc)
	if checkErr == nil {
		return dto.NewValidateCouponResponse(cp, nil), nil
	}

	var couponErr *pricing.CouponError
	if !ierr.As(checkErr, &couponErr) {
		return nil, checkErr
	}
	return dto.NewValidateCouponResponse(nil, couponErr), nil
}

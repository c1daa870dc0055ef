package service

import (
	"testing"
	"time"

	"github.com/buzzhq/buzz/internal/api/dto"
	"github.com/buzzhq/buzz/internal/domain/coupon"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/testutil"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type CouponServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  CouponService
	fixtures *summit
}

func TestCouponService(t *testing.T) {
	suite.Run(t, new(CouponServiceSuite))
}

func (s *CouponServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestParams(&s.BaseServiceTestSuite)
	s.service = NewCouponService(params, NewCatalogService(params))
	s.fixtures = seedSummit(s.T(), s.GetContext(), s.GetStores())
}

func (s *CouponServiceSuite) TestCreateCoupon_GeneratesCode() {
	resp, err := s.service.CreateCoupon(s.GetContext(), dto.CreateCouponRequest{
		Type:          types.CouponTypeDiscount,
		EventID:       s.fixtures.event.ID,
		DiscountKind:  types.DiscountKindFlatAmount,
		DiscountValue: dec("250"),
	})
	s.NoError(err)
	s.Len(resp.Code, types.CouponCodeLength)
	s.Equal(types.NormalizeCouponCode(resp.Code), resp.Code)
	s.True(resp.IsActive)
	s.Equal(types.CouponScopeSpecificEvent, resp.Scope)

	stored, err := s.GetStores().CouponRepo.GetByCode(s.GetContext(), resp.Code)
	s.NoError(err)
	s.Equal(resp.ID, stored.ID)
}

func (s *CouponServiceSuite) TestCreateCoupon_NormalizesCode() {
	resp, err := s.service.CreateCoupon(s.GetContext(), dto.CreateCouponRequest{
		Type:            types.CouponTypeFreeTickets,
		EventID:         s.fixtures.event.ID,
		TicketTypeID:    s.fixtures.vip.ID,
		FreeTicketCount: 3,
		FreeAddOns:      []string{s.fixtures.tshirt.ID, s.fixtures.tshirt.ID},
		Code:            "vipfree",
	})
	s.NoError(err)
	s.Equal("VIPFREE", resp.Code)
	s.Equal(3, resp.RemainingFreeTickets)
	s.Equal([]string{s.fixtures.tshirt.ID}, resp.FreeAddOns)

	got, err := s.service.GetCouponByCode(s.GetContext(), "VipFree")
	s.NoError(err)
	s.Equal(resp.ID, got.ID)
}

func (s *CouponServiceSuite) TestCreateCoupon_Duplicate() {
	_, err := s.service.CreateCoupon(s.GetContext(), dto.CreateCouponRequest{
		Type:          types.CouponTypeDiscount,
		DiscountKind:  types.DiscountKindPercentage,
		DiscountValue: dec("5"),
		Code:          "save10",
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *CouponServiceSuite) TestCreateCoupon_Invalid() {
	tests := []struct {
		name string
		req  dto.CreateCouponRequest
	}{
		{
			name: "unknown type",
			req:  dto.CreateCouponRequest{Type: "voucher"},
		},
		{
			name: "discount without kind",
			req:  dto.CreateCouponRequest{Type: types.CouponTypeDiscount, DiscountValue: dec("10")},
		},
		{
			name: "free tickets with kind",
			req:  dto.CreateCouponRequest{Type: types.CouponTypeFreeTickets, EventID: s.fixtures.event.ID, FreeTicketCount: 1, DiscountKind: types.DiscountKindPercentage},
		},
		{
			name: "discount with free grants",
			req:  dto.CreateCouponRequest{Type: types.CouponTypeDiscount, DiscountKind: types.DiscountKindPercentage, DiscountValue: dec("10"), FreeTicketCount: 1},
		},
		{
			name: "zero discount",
			req:  dto.CreateCouponRequest{Type: types.CouponTypeDiscount, DiscountKind: types.DiscountKindFlatAmount},
		},
		{
			name: "event and category",
			req:  dto.CreateCouponRequest{Type: types.CouponTypeDiscount, DiscountKind: types.DiscountKindFlatAmount, DiscountValue: dec("10"), EventID: s.fixtures.event.ID, EventCategoryID: "cat_conference"},
		},
		{
			name: "ticket type of another event",
			req:  dto.CreateCouponRequest{Type: types.CouponTypeFreeTickets, EventID: s.fixtures.event.ID, TicketTypeID: "tkt_elsewhere", FreeTicketCount: 1},
		},
		{
			name: "free add-on of another event",
			req:  dto.CreateCouponRequest{Type: types.CouponTypeFreeTickets, EventID: s.fixtures.event.ID, FreeTicketCount: 1, FreeAddOns: []string{"addon_elsewhere"}},
		},
		{
			name: "code with symbols",
			req:  dto.CreateCouponRequest{Type: types.CouponTypeDiscount, DiscountKind: types.DiscountKindFlatAmount, DiscountValue: dec("10"), Code: "SAVE-10"},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.CreateCoupon(s.GetContext(), tt.req)
			s.Error(err)
			s.True(ierr.IsValidation(err), "unexpected error: %v", err)
		})
	}
}

func (s *CouponServiceSuite) TestCreateCoupon_UnknownEvent() {
	_, err := s.service.CreateCoupon(s.GetContext(), dto.CreateCouponRequest{
		Type:            types.CouponTypeFreeTickets,
		EventID:         "evt_missing",
		FreeTicketCount: 1,
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *CouponServiceSuite) TestListCoupons() {
	other := &coupon.Coupon{
		ID:            "coupon_site",
		Code:          "WELCOME",
		Type:          types.CouponTypeDiscount,
		DiscountKind:  types.DiscountKindFlatAmount,
		DiscountValue: dec("50"),
		IsActive:      true,
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().CouponRepo.Create(s.GetContext(), other))

	all, err := s.service.ListCoupons(s.GetContext(), dto.ListCouponsRequest{})
	s.NoError(err)
	s.Len(all.Items, 3)
	s.Equal(3, all.Pagination.Total)
	s.Equal(dto.DefaultListLimit, all.Pagination.Limit)

	scoped, err := s.service.ListCoupons(s.GetContext(), dto.ListCouponsRequest{EventID: s.fixtures.event.ID})
	s.NoError(err)
	s.Len(scoped.Items, 2)
	codes := lo.Map(scoped.Items, func(c *dto.CouponResponse, _ int) string { return c.Code })
	s.ElementsMatch([]string{"SAVE10", "FREE1"}, codes)
}

func (s *CouponServiceSuite) TestListCoupons_Pages() {
	first, err := s.service.ListCoupons(s.GetContext(), dto.ListCouponsRequest{Limit: 1})
	s.NoError(err)
	s.Len(first.Items, 1)
	s.Equal(types.PaginationResponse{Total: 2, Limit: 1, Offset: 0}, first.Pagination)

	second, err := s.service.ListCoupons(s.GetContext(), dto.ListCouponsRequest{Limit: 1, Offset: 1})
	s.NoError(err)
	s.Len(second.Items, 1)
	s.Equal(1, second.Pagination.Offset)

	past, err := s.service.ListCoupons(s.GetContext(), dto.ListCouponsRequest{Offset: 5})
	s.NoError(err)
	s.Empty(past.Items)
	s.Equal(2, past.Pagination.Total)

	_, err = s.service.ListCoupons(s.GetContext(), dto.ListCouponsRequest{Limit: 5000})
	s.True(ierr.IsValidation(err))
}

func (s *CouponServiceSuite) TestValidateCoupon() {
	resp, err := s.service.ValidateCoupon(s.GetContext(), testRoute, dto.ValidateCouponRequest{CouponCode: "save10"})
	s.NoError(err)
	s.True(resp.Valid)
	s.Equal(types.CouponTypeDiscount, resp.CouponType)
	s.Equal(types.DiscountKindPercentage, resp.DiscountType)
	s.Require().NotNil(resp.DiscountValue)
	assertDecimal(s.T(), "10", *resp.DiscountValue)
	s.Nil(resp.RemainingTickets)

	resp, err = s.service.ValidateCoupon(s.GetContext(), testRoute, dto.ValidateCouponRequest{CouponCode: "FREE1"})
	s.NoError(err)
	s.True(resp.Valid)
	s.Require().NotNil(resp.RemainingTickets)
	s.Equal(1, *resp.RemainingTickets)
}

func (s *CouponServiceSuite) TestValidateCoupon_Rejections() {
	past := s.GetNow().Add(-24 * time.Hour)
	expired := &coupon.Coupon{
		ID:            "coupon_old",
		Code:          "OLDDEAL",
		Type:          types.CouponTypeDiscount,
		DiscountKind:  types.DiscountKindFlatAmount,
		DiscountValue: dec("50"),
		ValidTill:     &past,
		IsActive:      true,
	}
	paused := &coupon.Coupon{
		ID:            "coupon_paused",
		Code:          "PAUSED",
		Type:          types.CouponTypeDiscount,
		DiscountKind:  types.DiscountKindFlatAmount,
		DiscountValue: dec("50"),
	}
	elsewhere := &coupon.Coupon{
		ID:            "coupon_elsewhere",
		Code:          "ELSEWHERE",
		Type:          types.CouponTypeDiscount,
		EventID:       "evt_other",
		DiscountKind:  types.DiscountKindFlatAmount,
		DiscountValue: dec("50"),
		IsActive:      true,
	}
	for _, c := range []*coupon.Coupon{expired, paused, elsewhere} {
		s.NoError(s.GetStores().CouponRepo.Create(s.GetContext(), c))
	}

	tests := []struct {
		name string
		code string
		want types.CouponValidationErrorCode
	}{
		{name: "unknown", code: "NOPE", want: types.CouponValidationErrorCodeNotFound},
		{name: "inactive", code: "paused", want: types.CouponValidationErrorCodeInactive},
		{name: "expired", code: "OLDDEAL", want: types.CouponValidationErrorCodeExpired},
		{name: "other event", code: "ELSEWHERE", want: types.CouponValidationErrorCodeNotApplicable},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			resp, err := s.service.ValidateCoupon(s.GetContext(), testRoute, dto.ValidateCouponRequest{CouponCode: tt.code})
			s.NoError(err)
			s.False(resp.Valid)
			s.Require().NotNil(resp.Error)
			s.Equal(tt.want, resp.Error.Code)
		})
	}
}

func (s *CouponServiceSuite) TestValidateCoupon_RequiresCode() {
	_, err := s.service.ValidateCoupon(s.GetContext(), testRoute, dto.ValidateCouponRequest{})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

package service

import (
	"testing"

	"github.com/buzzhq/buzz/internal/api/dto"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/testutil"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/stretchr/testify/suite"
)

type QuoteServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  QuoteService
	fixtures *summit
}

func TestQuoteService(t *testing.T) {
	suite.Run(t, new(QuoteServiceSuite))
}

func (s *QuoteServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestParams(&s.BaseServiceTestSuite)
	s.service = NewQuoteService(params, NewCatalogService(params))
	s.fixtures = seedSummit(s.T(), s.GetContext(), s.GetStores())
}

func (s *QuoteServiceSuite) attendees(ticketTypeID string, n int) []dto.AttendeeRequest {
	out := make([]dto.AttendeeRequest, n)
	for i := range out {
		out[i] = dto.AttendeeRequest{TicketTypeID: ticketTypeID}
	}
	return out
}

func (s *QuoteServiceSuite) TestQuote() {
	resp, err := s.service.Quote(s.GetContext(), testRoute, dto.QuoteRequest{
		Attendees: s.attendees(s.fixtures.standard.ID, 2),
	})
	s.NoError(err)
	s.Len(resp.LineItems, 2)
	assertDecimal(s.T(), "1000", resp.NetAmount)
	assertDecimal(s.T(), "0", resp.Discount)
	s.False(resp.ShowDiscount)
	assertDecimal(s.T(), "1000", resp.Subtotal)
	assertDecimal(s.T(), "180", resp.TaxAmount)
	assertDecimal(s.T(), "1180", resp.Total)
	s.True(resp.ShowTax)
	s.Equal("GST", resp.TaxLabel)
	s.Equal("INR", resp.Currency)
	s.Nil(resp.Coupon)
	s.NotEmpty(resp.Formatted.Total)
}

func (s *QuoteServiceSuite) TestQuote_WithAddOns() {
	resp, err := s.service.Quote(s.GetContext(), testRoute, dto.QuoteRequest{
		Attendees: []dto.AttendeeRequest{{
			TicketTypeID: s.fixtures.standard.ID,
			AddOns: []dto.AddOnRequest{
				{AddOnID: s.fixtures.tshirt.ID, Option: "M"},
				{AddOnID: s.fixtures.lunch.ID},
			},
		}},
	})
	s.NoError(err)
	s.Len(resp.LineItems, 3)
	assertDecimal(s.T(), "1000", resp.NetAmount)
	assertDecimal(s.T(), "1180", resp.Total)
}

func (s *QuoteServiceSuite) TestQuote_DiscountCoupon() {
	resp, err := s.service.Quote(s.GetContext(), testRoute, dto.QuoteRequest{
		Attendees:  s.attendees(s.fixtures.standard.ID, 2),
		CouponCode: "SAVE10",
	})
	s.NoError(err)
	s.Require().NotNil(resp.Coupon)
	s.True(resp.Coupon.Applied)
	assertDecimal(s.T(), "100", resp.Discount)
	s.True(resp.ShowDiscount)
	assertDecimal(s.T(), "900", resp.Subtotal)
	assertDecimal(s.T(), "162", resp.TaxAmount)
	assertDecimal(s.T(), "1062", resp.Total)
}

func (s *QuoteServiceSuite) TestQuote_DiscountCapped() {
	resp, err := s.service.Quote(s.GetContext(), testRoute, dto.QuoteRequest{
		Attendees:  s.attendees(s.fixtures.vip.ID, 2),
		CouponCode: "SAVE10",
	})
	s.NoError(err)
	assertDecimal(s.T(), "3000", resp.NetAmount)
	assertDecimal(s.T(), "100", resp.Discount)
	assertDecimal(s.T(), "2900", resp.Subtotal)
}

func (s *QuoteServiceSuite) TestQuote_NormalizesCouponCode() {
	resp, err := s.service.Quote(s.GetContext(), testRoute, dto.QuoteRequest{
		Attendees:  s.attendees(s.fixtures.standard.ID, 1),
		CouponCode: "  save10 ",
	})
	s.NoError(err)
	s.Require().NotNil(resp.Coupon)
	s.True(resp.Coupon.Applied)
	s.Equal("SAVE10", resp.Coupon.Code)
	assertDecimal(s.T(), "50", resp.Discount)
}

func (s *QuoteServiceSuite) TestQuote_UnknownCouponDegrades() {
	resp, err := s.service.Quote(s.GetContext(), testRoute, dto.QuoteRequest{
		Attendees:  s.attendees(s.fixtures.standard.ID, 2),
		CouponCode: "NOPE1234",
	})
	s.NoError(err)
	s.Require().NotNil(resp.Coupon)
	s.False(resp.Coupon.Applied)
	s.Equal(types.CouponValidationErrorCodeNotFound, resp.Coupon.ErrorCode)
	assertDecimal(s.T(), "0", resp.Discount)
	assertDecimal(s.T(), "1180", resp.Total)
}

func (s *QuoteServiceSuite) TestQuote_FreeTicketsCoupon() {
	resp, err := s.service.Quote(s.GetContext(), testRoute, dto.QuoteRequest{
		Attendees: []dto.AttendeeRequest{
			{TicketTypeID: s.fixtures.standard.ID, AddOns: []dto.AddOnRequest{{AddOnID: s.fixtures.lunch.ID}}},
			{TicketTypeID: s.fixtures.standard.ID, AddOns: []dto.AddOnRequest{{AddOnID: s.fixtures.lunch.ID}}},
		},
		CouponCode: "FREE1",
	})
	s.NoError(err)
	s.Require().NotNil(resp.Coupon)
	s.True(resp.Coupon.Applied)
	s.Equal(1, resp.Coupon.FreeTicketsApplied)
	assertDecimal(s.T(), "1400", resp.NetAmount)
	assertDecimal(s.T(), "900", resp.Discount)
	assertDecimal(s.T(), "500", resp.Subtotal)
	assertDecimal(s.T(), "90", resp.TaxAmount)
	assertDecimal(s.T(), "590", resp.Total)
}

func (s *QuoteServiceSuite) TestQuote_PerUserLimit() {
	s.NoError(s.GetStores().BookingRepo.Create(s.GetContext(), newStoredBooking(s.fixtures, testutil.DefaultUserID, s.fixtures.save10)))

	resp, err := s.service.Quote(s.GetContext(), testRoute, dto.QuoteRequest{
		Attendees:  s.attendees(s.fixtures.standard.ID, 1),
		CouponCode: "SAVE10",
	})
	s.NoError(err)
	s.False(resp.Coupon.Applied)
	s.Equal(types.CouponValidationErrorCodePerUserLimitReached, resp.Coupon.ErrorCode)

	// another user is unaffected
	resp, err = s.service.Quote(s.WithUser("user_other"), testRoute, dto.QuoteRequest{
		Attendees:  s.attendees(s.fixtures.standard.ID, 1),
		CouponCode: "SAVE10",
	})
	s.NoError(err)
	s.True(resp.Coupon.Applied)
}

func (s *QuoteServiceSuite) TestQuote_Errors() {
	tests := []struct {
		name  string
		route string
		req   dto.QuoteRequest
		check func(error) bool
	}{
		{
			name:  "no attendees",
			route: testRoute,
			req:   dto.QuoteRequest{},
			check: ierr.IsValidation,
		},
		{
			name:  "missing ticket type",
			route: testRoute,
			req:   dto.QuoteRequest{Attendees: []dto.AttendeeRequest{{FullName: "Asha"}}},
			check: ierr.IsValidation,
		},
		{
			name:  "unknown event",
			route: "no-such-event",
			req:   dto.QuoteRequest{Attendees: s.attendees(s.fixtures.standard.ID, 1)},
			check: ierr.IsNotFound,
		},
		{
			name:  "more vip seats than remain",
			route: testRoute,
			req:   dto.QuoteRequest{Attendees: s.attendees(s.fixtures.vip.ID, 3)},
			check: ierr.IsUnavailable,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.Quote(s.GetContext(), tt.route, tt.req)
			s.Error(err)
			s.True(tt.check(err), "unexpected error: %v", err)
		})
	}
}

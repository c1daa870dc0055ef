package service

import (
	"context"
	"testing"

	"github.com/buzzhq/buzz/internal/api/dto"
	"github.com/buzzhq/buzz/internal/domain/coupon"
	"github.com/buzzhq/buzz/internal/draft"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/publisher"
	"github.com/buzzhq/buzz/internal/testutil"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/stretchr/testify/suite"
)

type BookingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  BookingService
	drafts   DraftService
	fixtures *summit
}

func TestBookingService(t *testing.T) {
	suite.Run(t, new(BookingServiceSuite))
}

func (s *BookingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestParams(&s.BaseServiceTestSuite)
	catalogService := NewCatalogService(params)
	s.service = NewBookingService(params, catalogService)
	s.drafts = NewDraftService(params, catalogService)
	s.fixtures = seedSummit(s.T(), s.GetContext(), s.GetStores())
}

// prepare builds a submittable draft through the draft service
func (s *BookingServiceSuite) prepare(events ...draft.Event) *dto.DraftResponse {
	var resp *dto.DraftResponse
	for _, ev := range events {
		var err error
		resp, err = s.drafts.ApplyEvent(s.GetContext(), testRoute, dto.DraftEventRequest{Event: ev})
		s.Require().NoError(err, "applying %s", ev.Type)
	}
	return resp
}

func addAttendee(ticketTypeID, name, email string) draft.Event {
	return draft.Event{Type: types.DraftEventAddAttendee, TicketTypeID: ticketTypeID, FullName: name, Email: email}
}

func company(value string) draft.Event {
	return draft.Event{Type: types.DraftEventSetBookingField, Field: "company", Value: value}
}

func (s *BookingServiceSuite) catalogStore() *testutil.InMemoryCatalogStore {
	return s.GetStores().CatalogRepo.(*testutil.InMemoryCatalogStore)
}

func (s *BookingServiceSuite) TestSubmit() {
	s.prepare(
		addAttendee(s.fixtures.standard.ID, "Asha Rao", "asha@example.com"),
		addAttendee(s.fixtures.standard.ID, "Ravi Kumar", "ravi@example.com"),
		draft.Event{Type: types.DraftEventSetCustomField, AttendeeID: 2, Field: "dietary", Value: "Non-Veg"},
		company("Acme"),
	)

	resp, err := s.service.Submit(s.GetContext(), testRoute, dto.CreateBookingRequest{ExpectedTotal: dec("1180")})
	s.Require().NoError(err)
	s.Equal(types.BookingStatusConfirmed, resp.Status)
	s.Equal(s.fixtures.event.ID, resp.EventID)
	assertDecimal(s.T(), "1000", resp.NetAmount)
	assertDecimal(s.T(), "180", resp.TaxAmount)
	assertDecimal(s.T(), "1180", resp.TotalAmount)
	s.NotEmpty(resp.FormattedTotal)
	s.Empty(resp.CouponCode)

	s.Require().Len(resp.Attendees, 2)
	s.Equal("Asha Rao", resp.Attendees[0].FullName)
	assertDecimal(s.T(), "500", resp.Attendees[0].Amount)
	// unanswered select fields take their default
	s.Equal("Veg", resp.Attendees[0].CustomFields["dietary"])
	s.Equal("Non-Veg", resp.Attendees[1].CustomFields["dietary"])

	fetched, err := s.service.GetBooking(s.GetContext(), resp.ID)
	s.NoError(err)
	assertDecimal(s.T(), "1180", fetched.TotalAmount)

	stored, err := s.GetStores().BookingRepo.Get(s.GetContext(), resp.ID)
	s.NoError(err)
	s.Equal(testutil.DefaultUserID, stored.UserID)
	s.Equal("Acme", stored.CustomFields["company"])

	s.Equal(2, s.catalogStore().SoldCount(s.GetContext(), s.fixtures.standard.ID))

	_, cached := s.GetCache().Get(s.GetContext(), catalogKey(testRoute))
	s.False(cached)

	d, err := s.drafts.GetDraft(s.GetContext(), testRoute, "")
	s.NoError(err)
	s.Empty(d.Draft.Attendees)

	msgs := s.GetPubSub().GetMessages(types.TopicBookingCreated)
	s.Require().Len(msgs, 1)
	event, err := publisher.DecodeBookingCreated(msgs[0])
	s.NoError(err)
	s.Equal(resp.ID, event.BookingID)
	s.Equal(testRoute, event.EventRoute)
	s.Equal(map[string]int{s.fixtures.standard.ID: 2}, event.TicketCounts)
}

func (s *BookingServiceSuite) TestSubmit_PriceMismatch() {
	s.prepare(
		addAttendee(s.fixtures.standard.ID, "Asha Rao", "asha@example.com"),
		company("Acme"),
	)

	// the client shows the pre-tax amount
	_, err := s.service.Submit(s.GetContext(), testRoute, dto.CreateBookingRequest{ExpectedTotal: dec("500")})
	s.Error(err)
	s.True(ierr.IsPriceMismatch(err))

	details := ierr.SafeDetails(err)
	s.Equal("500", details["expected_total"])
	s.Equal("590", details["computed_total"])

	s.Equal(0, s.catalogStore().SoldCount(s.GetContext(), s.fixtures.standard.ID))
	s.Empty(s.GetPubSub().GetMessages(types.TopicBookingCreated))

	d, err := s.drafts.GetDraft(s.GetContext(), testRoute, "")
	s.NoError(err)
	s.Len(d.Draft.Attendees, 1)
}

func (s *BookingServiceSuite) TestSubmit_FreeTicketsCoupon() {
	s.prepare(
		addAttendee(s.fixtures.standard.ID, "Asha Rao", "asha@example.com"),
		addAttendee(s.fixtures.standard.ID, "Ravi Kumar", "ravi@example.com"),
		draft.Event{Type: types.DraftEventToggleAddOn, AttendeeID: 1, AddOnID: s.fixtures.lunch.ID, Selected: true},
		draft.Event{Type: types.DraftEventToggleAddOn, AttendeeID: 2, AddOnID: s.fixtures.lunch.ID, Selected: true},
		draft.Event{Type: types.DraftEventApplyCoupon, CouponCode: "free1"},
		company("Acme"),
	)

	resp, err := s.service.Submit(s.GetContext(), testRoute, dto.CreateBookingRequest{ExpectedTotal: dec("590")})
	s.Require().NoError(err)
	s.Equal("FREE1", resp.CouponCode)
	s.Equal(1, resp.FreeTicketsApplied)
	assertDecimal(s.T(), "900", resp.DiscountAmount)
	assertDecimal(s.T(), "590", resp.TotalAmount)
	assertDecimal(s.T(), "0", resp.Attendees[0].Amount)
	assertDecimal(s.T(), "500", resp.Attendees[1].Amount)

	c, err := s.GetStores().CouponRepo.Get(s.GetContext(), s.fixtures.free1.ID)
	s.NoError(err)
	s.Equal(1, c.TimesUsed)
	s.Equal(1, c.FreeTicketsClaimed)
	s.Equal(0, c.RemainingFreeTickets())
}

func (s *BookingServiceSuite) TestSubmit_FreeTicketPassesSeatLimit() {
	vipFree := &coupon.Coupon{
		ID:              "coupon_vipfree",
		Code:            "VIPFREE",
		Type:            types.CouponTypeFreeTickets,
		EventID:         s.fixtures.event.ID,
		TicketTypeID:    s.fixtures.vip.ID,
		FreeTicketCount: 1,
		IsActive:        true,
	}
	s.NoError(s.GetStores().CouponRepo.Create(s.GetContext(), vipFree))

	s.prepare(
		draft.Event{Type: types.DraftEventApplyCoupon, CouponCode: "VIPFREE"},
		addAttendee(s.fixtures.vip.ID, "Asha Rao", "asha@example.com"),
		addAttendee(s.fixtures.vip.ID, "Ravi Kumar", "ravi@example.com"),
		addAttendee(s.fixtures.vip.ID, "Meera Iyer", "meera@example.com"),
		company("Acme"),
	)

	resp, err := s.service.Submit(s.GetContext(), testRoute, dto.CreateBookingRequest{ExpectedTotal: dec("3540")})
	s.Require().NoError(err)
	s.Equal(1, resp.FreeTicketsApplied)
	s.Equal(3, s.catalogStore().SoldCount(s.GetContext(), s.fixtures.vip.ID))
}

func (s *BookingServiceSuite) TestSubmit_PerUserCouponRecordedOnce() {
	s.prepare(
		addAttendee(s.fixtures.standard.ID, "Asha Rao", "asha@example.com"),
		draft.Event{Type: types.DraftEventApplyCoupon, CouponCode: "SAVE10"},
		company("Acme"),
	)
	_, err := s.service.Submit(s.GetContext(), testRoute, dto.CreateBookingRequest{ExpectedTotal: dec("531")})
	s.Require().NoError(err)

	// the same user cannot use SAVE10 again, so the second booking is full price
	resp := s.prepare(
		addAttendee(s.fixtures.standard.ID, "Asha Rao", "asha@example.com"),
		draft.Event{Type: types.DraftEventApplyCoupon, CouponCode: "SAVE10"},
		company("Acme"),
	)
	s.False(resp.Breakdown.Coupon.Applied)
	s.Equal(types.CouponValidationErrorCodePerUserLimitReached, resp.Breakdown.Coupon.ErrorCode)

	second, err := s.service.Submit(s.GetContext(), testRoute, dto.CreateBookingRequest{ExpectedTotal: dec("590")})
	s.Require().NoError(err)
	s.Empty(second.CouponCode)

	c, err := s.GetStores().CouponRepo.Get(s.GetContext(), s.fixtures.save10.ID)
	s.NoError(err)
	s.Equal(1, c.TimesUsed)
}

func (s *BookingServiceSuite) TestSubmit_Incomplete() {
	tests := []struct {
		name   string
		ctx    func() context.Context
		events []draft.Event
	}{
		{
			name:   "no attendees",
			events: []draft.Event{company("Acme")},
		},
		{
			name:   "attendee without email",
			events: []draft.Event{addAttendee(s.fixtures.standard.ID, "Asha Rao", ""), company("Acme")},
		},
		{
			name:   "mandatory booking field",
			events: []draft.Event{addAttendee(s.fixtures.standard.ID, "Asha Rao", "asha@example.com")},
		},
		{
			name:   "guest without email",
			ctx:    func() context.Context { return s.WithUser("") },
			events: []draft.Event{addAttendee(s.fixtures.standard.ID, "Asha Rao", "asha@example.com"), company("Acme")},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.NoError(s.drafts.ClearDraft(s.GetContext(), testRoute))
			s.prepare(tt.events...)

			ctx := s.GetContext()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}
			_, err := s.service.Submit(ctx, testRoute, dto.CreateBookingRequest{ExpectedTotal: dec("590")})
			s.Error(err)
			s.True(ierr.IsValidation(err), "unexpected error: %v", err)
		})
	}

	s.Empty(s.GetPubSub().GetMessages(types.TopicBookingCreated))
}

func (s *BookingServiceSuite) TestSubmit_GuestBooking() {
	ctx := s.WithUser("")
	s.prepare(
		addAttendee(s.fixtures.standard.ID, "Asha Rao", "asha@example.com"),
		company("Acme"),
		draft.Event{Type: types.DraftEventSetGuestDetails, GuestName: "Asha Rao", GuestEmail: "asha@example.com"},
	)

	resp, err := s.service.Submit(ctx, testRoute, dto.CreateBookingRequest{ExpectedTotal: dec("590")})
	s.Require().NoError(err)

	stored, err := s.GetStores().BookingRepo.Get(ctx, resp.ID)
	s.NoError(err)
	s.Empty(stored.UserID)
	s.Equal("asha@example.com", stored.GuestEmail)
	s.Equal("Acme", stored.CustomFields["company"])
}

func (s *BookingServiceSuite) TestSubmit_PublishFailureKeepsBooking() {
	s.prepare(
		addAttendee(s.fixtures.standard.ID, "Asha Rao", "asha@example.com"),
		company("Acme"),
	)
	s.GetPubSub().FailNext(int(s.GetConfig().Event.PublishRetries) + 1)

	resp, err := s.service.Submit(s.GetContext(), testRoute, dto.CreateBookingRequest{ExpectedTotal: dec("590")})
	s.Require().NoError(err)
	s.Empty(s.GetPubSub().GetMessages(types.TopicBookingCreated))

	_, err = s.GetStores().BookingRepo.Get(s.GetContext(), resp.ID)
	s.NoError(err)
}

func (s *BookingServiceSuite) TestGetBooking_NotFound() {
	_, err := s.service.GetBooking(s.GetContext(), "bkg_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

package service

import (
	"context"
	"testing"

	"github.com/buzzhq/buzz/internal/api/dto"
	"github.com/buzzhq/buzz/internal/draft"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/testutil"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/stretchr/testify/suite"
)

type DraftServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  DraftService
	catalog  CatalogService
	fixtures *summit
}

func TestDraftService(t *testing.T) {
	suite.Run(t, new(DraftServiceSuite))
}

func (s *DraftServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestParams(&s.BaseServiceTestSuite)
	s.catalog = NewCatalogService(params)
	s.service = NewDraftService(params, s.catalog)
	s.fixtures = seedSummit(s.T(), s.GetContext(), s.GetStores())
}

func (s *DraftServiceSuite) apply(ev draft.Event) (*dto.DraftResponse, error) {
	return s.service.ApplyEvent(s.GetContext(), testRoute, dto.DraftEventRequest{Event: ev})
}

func (s *DraftServiceSuite) mustApply(ev draft.Event) *dto.DraftResponse {
	resp, err := s.apply(ev)
	s.Require().NoError(err)
	return resp
}

func (s *DraftServiceSuite) TestGetDraft_Empty() {
	resp, err := s.service.GetDraft(s.GetContext(), testRoute, "")
	s.NoError(err)
	s.Empty(resp.Draft.Attendees)
	s.Equal(testRoute, resp.Draft.EventRoute)
	s.Nil(resp.Breakdown)
	s.Empty(resp.PricingError)
}

func (s *DraftServiceSuite) TestApplyEvent_Reprices() {
	resp := s.mustApply(draft.Event{Type: types.DraftEventAddAttendee, TicketTypeID: s.fixtures.standard.ID, FullName: " Asha Rao "})
	s.Len(resp.Draft.Attendees, 1)
	s.Equal("Asha Rao", resp.Draft.Attendees[0].FullName)
	s.Require().NotNil(resp.Breakdown)
	assertDecimal(s.T(), "590", resp.Breakdown.Total)

	resp = s.mustApply(draft.Event{Type: types.DraftEventToggleAddOn, AttendeeID: 1, AddOnID: s.fixtures.lunch.ID, Selected: true})
	assertDecimal(s.T(), "700", resp.Breakdown.NetAmount)
	assertDecimal(s.T(), "826", resp.Breakdown.Total)

	resp = s.mustApply(draft.Event{Type: types.DraftEventApplyCoupon, CouponCode: "save10"})
	s.Require().NotNil(resp.Breakdown.Coupon)
	s.True(resp.Breakdown.Coupon.Applied)
	assertDecimal(s.T(), "70", resp.Breakdown.Discount)

	stored, err := s.service.GetDraft(s.GetContext(), testRoute, "")
	s.NoError(err)
	s.Len(stored.Draft.Attendees, 1)
	s.Equal("save10", stored.Draft.CouponCode)
	assertDecimal(s.T(), "743.4", stored.Breakdown.Total)
}

func (s *DraftServiceSuite) TestApplyEvent_CustomFields() {
	s.mustApply(draft.Event{Type: types.DraftEventAddAttendee, TicketTypeID: s.fixtures.standard.ID})

	resp := s.mustApply(draft.Event{Type: types.DraftEventSetCustomField, AttendeeID: 1, Field: "dietary", Value: "Non-Veg"})
	s.Equal("Non-Veg", resp.Draft.Attendees[0].CustomFields["dietary"])

	resp = s.mustApply(draft.Event{Type: types.DraftEventSetBookingField, Field: "company", Value: "Acme"})
	s.Equal("Acme", resp.Draft.BookingCustomFields["company"])

	tests := []struct {
		name string
		ev   draft.Event
	}{
		{name: "unknown ticket field", ev: draft.Event{Type: types.DraftEventSetCustomField, AttendeeID: 1, Field: "shoe_size", Value: "9"}},
		{name: "booking field as ticket field", ev: draft.Event{Type: types.DraftEventSetCustomField, AttendeeID: 1, Field: "company", Value: "Acme"}},
		{name: "unknown booking field", ev: draft.Event{Type: types.DraftEventSetBookingField, Field: "dietary", Value: "Veg"}},
		{name: "invalid select option", ev: draft.Event{Type: types.DraftEventSetCustomField, AttendeeID: 1, Field: "dietary", Value: "Vegan"}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.apply(tt.ev)
			s.Error(err)
			s.True(ierr.IsValidation(err), "unexpected error: %v", err)
		})
	}

	stored, err := s.service.GetDraft(s.GetContext(), testRoute, "")
	s.NoError(err)
	s.Equal("Non-Veg", stored.Draft.Attendees[0].CustomFields["dietary"])
}

func (s *DraftServiceSuite) TestApplyEvent_RejectedEventIsNotStored() {
	vip := draft.Event{Type: types.DraftEventAddAttendee, TicketTypeID: s.fixtures.vip.ID}
	s.mustApply(vip)
	s.mustApply(vip)

	_, err := s.apply(vip)
	s.Error(err)
	s.True(ierr.IsUnavailable(err))

	stored, err := s.service.GetDraft(s.GetContext(), testRoute, "")
	s.NoError(err)
	s.Len(stored.Draft.Attendees, 2)
	s.Equal(2, stored.Draft.AttendeeCounter)
	assertDecimal(s.T(), "3540", stored.Breakdown.Total)
}

func (s *DraftServiceSuite) TestApplyEvent_UnknownAttendee() {
	_, err := s.apply(draft.Event{Type: types.DraftEventToggleAddOn, AttendeeID: 7, AddOnID: s.fixtures.lunch.ID, Selected: true})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *DraftServiceSuite) TestGetDraft_NoLongerPrices() {
	s.mustApply(draft.Event{Type: types.DraftEventAddAttendee, TicketTypeID: s.fixtures.vip.ID})

	// the last VIP seats sell elsewhere
	s.NoError(s.GetStores().CatalogRepo.IncrementSoldCount(s.GetContext(), s.fixtures.vip.ID, 2, 0))
	_, err := s.catalog.RefreshCatalog(s.GetContext(), testRoute)
	s.NoError(err)

	resp, err := s.service.GetDraft(s.GetContext(), testRoute, "")
	s.NoError(err)
	s.Len(resp.Draft.Attendees, 1)
	s.Nil(resp.Breakdown)
	s.NotEmpty(resp.PricingError)
}

func (s *DraftServiceSuite) TestClearDraft() {
	s.mustApply(draft.Event{Type: types.DraftEventAddAttendee, TicketTypeID: s.fixtures.standard.ID})
	s.NoError(s.service.ClearDraft(s.GetContext(), testRoute))

	resp, err := s.service.GetDraft(s.GetContext(), testRoute, "")
	s.NoError(err)
	s.Empty(resp.Draft.Attendees)
	s.Nil(resp.Breakdown)
}

func (s *DraftServiceSuite) TestDraftsAreScopedBySession() {
	s.mustApply(draft.Event{Type: types.DraftEventAddAttendee, TicketTypeID: s.fixtures.standard.ID})

	other := context.WithValue(s.GetContext(), types.CtxSessionID, "sess_other")
	resp, err := s.service.GetDraft(other, testRoute, "")
	s.NoError(err)
	s.Empty(resp.Draft.Attendees)
}

func (s *DraftServiceSuite) TestMissingSession() {
	ctx := context.WithValue(s.GetContext(), types.CtxSessionID, "")

	_, err := s.service.GetDraft(ctx, testRoute, "")
	s.Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.service.ApplyEvent(ctx, testRoute, dto.DraftEventRequest{Event: draft.Event{Type: types.DraftEventClear}})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

package service

import (
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/buzzhq/buzz/internal/domain/catalog"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/publisher"
	"github.com/buzzhq/buzz/internal/testutil"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/stretchr/testify/suite"
)

type BookingEventHandlerSuite struct {
	testutil.BaseServiceTestSuite
	handler  *bookingEventHandler
	fixtures *summit
}

func TestBookingEventHandler(t *testing.T) {
	suite.Run(t, new(BookingEventHandlerSuite))
}

func (s *BookingEventHandlerSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestParams(&s.BaseServiceTestSuite)
	s.handler = NewBookingEventHandler(params, s.GetPubSub(), NewCatalogService(params)).(*bookingEventHandler)
	s.fixtures = seedSummit(s.T(), s.GetContext(), s.GetStores())
}

func (s *BookingEventHandlerSuite) TestProcessMessage_WarmsCatalog() {
	s.NoError(s.GetPublisher().PublishBookingCreated(s.GetContext(), &publisher.BookingCreatedEvent{
		BookingID:    "bkg_1",
		EventID:      s.fixtures.event.ID,
		EventRoute:   testRoute,
		TicketCounts: map[string]int{s.fixtures.standard.ID: 1},
		Total:        dec("590"),
		Currency:     "INR",
	}))
	msgs := s.GetPubSub().GetMessages(types.TopicBookingCreated)
	s.Require().Len(msgs, 1)

	s.NoError(s.handler.processMessage(msgs[0]))

	v, ok := s.GetCache().Get(s.GetContext(), catalogKey(testRoute))
	s.Require().True(ok)
	c, ok := v.(*catalog.Catalog)
	s.Require().True(ok)
	s.Equal(s.fixtures.event.ID, c.Event.ID)
}

func (s *BookingEventHandlerSuite) TestProcessMessage_Malformed() {
	err := s.handler.processMessage(message.NewMessage(watermill.NewUUID(), []byte("not json")))
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *BookingEventHandlerSuite) TestProcessMessage_UnknownEvent() {
	payload := []byte(`{"booking_id":"bkg_1","event_route":"gone"}`)
	err := s.handler.processMessage(message.NewMessage(watermill.NewUUID(), payload))
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

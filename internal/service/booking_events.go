package service

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/buzzhq/buzz/internal/publisher"
	"github.com/buzzhq/buzz/internal/pubsub"
	pubsubRouter "github.com/buzzhq/buzz/internal/pubsub/router"
	"github.com/buzzhq/buzz/internal/types"
)

// BookingEventHandler consumes booking.created and reloads the catalog of the
// booked event so the next reader sees updated seat counts without paying
// for the load
type BookingEventHandler interface {
	RegisterHandler(router *pubsubRouter.Router)
}

type bookingEventHandler struct {
	ServiceParams
	pubSub  pubsub.PubSub
	catalog CatalogService
}

func NewBookingEventHandler(params ServiceParams, pubSub pubsub.PubSub, catalogService CatalogService) BookingEventHandler {
	return &bookingEventHandler{
		ServiceParams: params,
		pubSub:        pubSub,
		catalog:       catalogService,
	}
}

func (h *bookingEventHandler) RegisterHandler(router *pubsubRouter.Router) {
	router.AddNoPublishHandler(
		"booking_created_catalog_refresh",
		types.TopicBookingCreated,
		h.pubSub,
		h.processMessage,
	)

	h.Logger.Infow("registered booking event handler",
		"topic", types.TopicBookingCreated,
	)
}

func (h *bookingEventHandler) processMessage(msg *message.Message) error {
	event, err := publisher.DecodeBookingCreated(msg)
	if err != nil {
		return err
	}

	ctx := msg.Context()
	if _, err := h.catalog.RefreshCatalog(ctx, event.EventRoute); err != nil {
		return err
	}

	h.Logger.Debugw("catalog refreshed after booking",
		"booking_id", event.BookingID,
		"event_route", event.EventRoute,
	)
	return nil
}

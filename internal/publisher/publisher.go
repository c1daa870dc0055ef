package publisher

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/buzzhq/buzz/internal/config"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/logger"
	"github.com/buzzhq/buzz/internal/pubsub"
	"github.com/buzzhq/buzz/internal/sentry"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/cenkalti/backoff/v4"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BookingCreatedEvent is published after a booking is committed
type BookingCreatedEvent struct {
	BookingID          string          `json:"booking_id"`
	EventID            string          `json:"event_id"`
	EventRoute         string          `json:"event_route"`
	UserID             string          `json:"user_id,omitempty"`
	CouponCode         string          `json:"coupon_code,omitempty"`
	FreeTicketsApplied int             `json:"free_tickets_applied"`
	TicketCounts       map[string]int  `json:"ticket_counts"`
	Total              decimal.Decimal `json:"total"`
	Currency           string          `json:"currency"`
	CreatedAt          time.Time       `json:"created_at"`
}

// EventPublisher publishes booking domain events
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, event *BookingCreatedEvent) error
}

type eventPublisher struct {
	pubsub pubsub.Publisher
	config *config.EventConfig
	logger *logger.Logger
	sentry *sentry.Service
}

func NewEventPublisher(
	pubsub pubsub.PubSub,
	cfg *config.Configuration,
	logger *logger.Logger,
	sentry *sentry.Service,
) EventPublisher {
	return &eventPublisher{
		pubsub: pubsub,
		config: &cfg.Event,
		logger: logger,
		sentry: sentry,
	}
}

func (p *eventPublisher) PublishBookingCreated(ctx context.Context, event *BookingCreatedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode booking event").
			Mark(ierr.ErrSystem)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("booking_id", event.BookingID)
	msg.Metadata.Set("event_id", event.EventID)
	if requestID := types.GetRequestID(ctx); requestID != "" {
		msg.Metadata.Set(types.HeaderRequestID, requestID)
	}

	span, ctx := p.sentry.StartPublishSpan(ctx, types.TopicBookingCreated)

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), p.config.PublishRetries),
		ctx,
	)
	err = backoff.RetryNotify(func() error {
		return p.pubsub.Publish(ctx, types.TopicBookingCreated, msg)
	}, policy, func(err error, next time.Duration) {
		p.logger.Warnw("retrying booking event publish",
			"booking_id", event.BookingID,
			"error", err,
			"next_attempt_in", next,
		)
	})
	sentry.FinishSpan(span, err)

	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to publish booking event").
			WithReportableDetails(map[string]any{
				"booking_id": event.BookingID,
				"topic":      types.TopicBookingCreated,
			}).
			Mark(ierr.ErrSystem)
	}

	p.logger.Debugw("published booking event",
		"booking_id", event.BookingID,
		"message_uuid", msg.UUID,
	)
	return nil
}

// DecodeBookingCreated parses a booking.created message payload
func DecodeBookingCreated(msg *message.Message) (*BookingCreatedEvent, error) {
	var event BookingCreatedEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Malformed booking event payload").
			Mark(ierr.ErrValidation)
	}
	return &event, nil
}

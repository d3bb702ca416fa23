package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/havenstay/service-rental/internal/platform/kafka"
)

// EventSource is the CloudEvent source of everything this service publishes.
const EventSource = "service-rental"

// Topics and event types.
const (
	TopicBookingEvents = "booking.events"
	TopicReviewEvents  = "review.events"

	BookingConfirmed = "booking.confirmed"
	ReviewCreated    = "review.created"
)

// BookingConfirmedEvent is published after a booking is stored.
type BookingConfirmedEvent struct {
	BookingID    uuid.UUID `json:"bookingId"`
	ListingID    uuid.UUID `json:"listingId"`
	ListingTitle string    `json:"listingTitle"`
	HostID       uuid.UUID `json:"hostId"`
	GuestID      uuid.UUID `json:"guestId"`
	CheckIn      time.Time `json:"checkIn"`
	CheckOut     time.Time `json:"checkOut"`
	Nights       int       `json:"nights"`
	Guests       int       `json:"guests"`
	TotalPrice   float64   `json:"totalPrice"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// ReviewCreatedEvent is published after a review is stored.
type ReviewCreatedEvent struct {
	ReviewID   uuid.UUID `json:"reviewId"`
	ListingID  uuid.UUID `json:"listingId"`
	HostID     uuid.UUID `json:"hostId"`
	AuthorID   uuid.UUID `json:"authorId"`
	Rating     int       `json:"rating"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventPublisher sends CloudEvents to the message bus.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, evt kafka.CloudEvent) error
}

// DiscardPublisher drops every event. It stands in when no broker is
// configured.
type DiscardPublisher struct{}

// PublishEvent implements EventPublisher.
func (DiscardPublisher) PublishEvent(context.Context, string, string, kafka.CloudEvent) error {
	return nil
}

// publishEvent wraps data in a CloudEvent and publishes it. Failures are
// logged and never fail the calling use case.
func publishEvent(ctx context.Context, publisher EventPublisher, logger *zap.Logger, topic, eventType, key string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent(EventSource, eventType, data)
	if err != nil {
		logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := publisher.PublishEvent(ctx, topic, key, cloudEvent); err != nil {
		logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

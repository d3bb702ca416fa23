package events

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/havenstay/service-rental/internal/application"
	userDomain "github.com/havenstay/service-rental/internal/domain/user"
	"github.com/havenstay/service-rental/internal/platform/apperror"
	"github.com/havenstay/service-rental/internal/platform/kafka"
)

// BookingEventConsumer listens to booking events and notifies hosts of new
// stays on their listings.
type BookingEventConsumer struct {
	consumer *kafka.Consumer
	users    userDomain.UserRepository
	logger   *zap.Logger
}

// NewBookingEventConsumer creates a new BookingEventConsumer.
func NewBookingEventConsumer(
	brokers []string,
	groupID string,
	users userDomain.UserRepository,
	logger *zap.Logger,
) *BookingEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, application.TopicBookingEvents, logger)
	return &BookingEventConsumer{
		consumer: consumer,
		users:    users,
		logger:   logger,
	}
}

// Start begins consuming booking events. This blocks until the context is cancelled.
func (c *BookingEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *BookingEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *BookingEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from booking topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case application.BookingConfirmed:
		return c.handleBookingConfirmed(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled booking event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *BookingEventConsumer) handleBookingConfirmed(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt application.BookingConfirmedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse BookingConfirmedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	host, err := c.users.FindByID(ctx, evt.HostID)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			c.logger.Warn("host of booked listing no longer exists",
				zap.String("booking_id", evt.BookingID.String()),
				zap.String("host_id", evt.HostID.String()),
			)
			return nil
		}
		return err
	}

	c.logger.Info("notifying host of new booking",
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("listing_title", evt.ListingTitle),
		zap.String("host_email", host.Email()),
		zap.String("check_in", evt.CheckIn.Format("2006-01-02")),
		zap.String("check_out", evt.CheckOut.Format("2006-01-02")),
		zap.Int("nights", evt.Nights),
		zap.Float64("total_price", evt.TotalPrice),
	)
	return nil
}

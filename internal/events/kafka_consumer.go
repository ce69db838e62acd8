package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/group/ticketmachine/internal/domain/ticket"
)

// TicketEventConsumer appends published ticket purchases to the ticket history store.
type TicketEventConsumer struct {
	consumer *Consumer
	store    ticket.History
	logger   *zap.Logger
}

// NewTicketEventConsumer creates a consumer for the ticket topic.
func NewTicketEventConsumer(
	brokers []string,
	groupID string,
	topic string,
	store ticket.History,
	logger *zap.Logger,
) *TicketEventConsumer {
	return &TicketEventConsumer{
		consumer: NewConsumer(brokers, groupID, topic, logger),
		store:    store,
		logger:   logger,
	}
}

// Start begins consuming ticket events. It blocks until the context is cancelled.
func (c *TicketEventConsumer) Start(ctx context.Context) error {
	restart := backoff.WithContext(c.consumer.newBackOff(), ctx)
	for {
		err := c.consumer.Consume(ctx, c.handleMessage)
		if err == nil || ctx.Err() != nil {
			return nil
		}

		wait := restart.NextBackOff()
		if wait == backoff.Stop {
			return err
		}
		c.logger.Error("ticket event consumer stopped, restarting",
			zap.Duration("retry_in", wait),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}

// handleMessage routes incoming Kafka messages to the appropriate handler.
func (c *TicketEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from ticket topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return fmt.Errorf("%w: %v", ErrSkipMessage, err)
	}

	c.logger.Debug("received ticket event",
		zap.String("type", cloudEvent.Type),
		zap.String("id", cloudEvent.ID),
	)

	switch {
	case strings.EqualFold(cloudEvent.Type, TicketPurchased):
		return c.handleTicketPurchased(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled ticket event type", zap.String("type", cloudEvent.Type))
		return nil
	}
}

func (c *TicketEventConsumer) handleTicketPurchased(ctx context.Context, ce CloudEvent) error {
	var event TicketPurchasedEvent
	if err := ce.ParseData(&event); err != nil {
		c.logger.Error("failed to parse TicketPurchasedEvent data", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSkipMessage, err)
	}
	return c.store.Record(ctx, event.ToPurchase())
}

// Close closes the underlying Kafka consumer.
func (c *TicketEventConsumer) Close() error {
	return c.consumer.Close()
}

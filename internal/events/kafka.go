package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer publishes CloudEvents to Kafka.
type Producer struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

// NewProducer creates a producer; the topic is chosen per message.
func NewProducer(brokers []string, logger *zap.Logger) *Producer {
	return &Producer{
		writer: &kafkago.Writer{
			Addr:                   kafkago.TCP(brokers...),
			Balancer:               &kafkago.Hash{},
			RequiredAcks:           kafkago.RequireAll,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
		logger: logger,
	}
}

// PublishEvent writes ce to topic, keyed by its subject so related events stay ordered.
func (p *Producer) PublishEvent(ctx context.Context, topic string, ce CloudEvent) error {
	value, err := json.Marshal(ce)
	if err != nil {
		return fmt.Errorf("marshal cloud event: %w", err)
	}
	key := ce.Subject
	if key == "" {
		key = ce.ID
	}
	if err := p.writer.WriteMessages(ctx, kafkago.Message{Topic: topic, Key: []byte(key), Value: value}); err != nil {
		return fmt.Errorf("publish %s to %s: %w", ce.Type, topic, err)
	}
	p.logger.Debug("event published", zap.String("topic", topic), zap.String("type", ce.Type), zap.String("id", ce.ID))
	return nil
}

// Close flushes and closes the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

// ErrSkipMessage tells the consumer to commit a message it cannot process.
var ErrSkipMessage = errors.New("skip message")

// Consumer reads one topic as part of a consumer group.
type Consumer struct {
	reader *kafkago.Reader
	logger *zap.Logger

	// Handler retry schedule. A zero maxElapsed retries until ctx is done.
	retryInitial time.Duration
	retryMax     time.Duration
	maxElapsed   time.Duration
}

// NewConsumer creates a consumer for topic in groupID.
func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:  brokers,
			GroupID:  groupID,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		logger:       logger,
		retryInitial: 200 * time.Millisecond,
		retryMax:     30 * time.Second,
	}
}

func (c *Consumer) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInitial
	b.MaxInterval = c.retryMax
	b.MaxElapsedTime = c.maxElapsed
	b.Reset()
	return b
}

// Consume hands each message to handle and commits it once handled. Messages the
// handler rejects with ErrSkipMessage are committed too. Any other handler error
// is retried with exponential backoff; the message is not committed until it
// succeeds. Consume blocks until ctx is cancelled or the broker fails.
func (c *Consumer) Consume(ctx context.Context, handle func(context.Context, kafkago.Message) error) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		if err := c.handleWithRetry(ctx, msg, handle); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !errors.Is(err, ErrSkipMessage) {
				return fmt.Errorf("handle message at offset %d: %w", msg.Offset, err)
			}
			c.logger.Warn("skipping unprocessable message",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("commit message: %w", err)
		}
	}
}

// handleWithRetry runs handle until it succeeds, reports ErrSkipMessage, or the
// retry schedule or ctx runs out.
func (c *Consumer) handleWithRetry(ctx context.Context, msg kafkago.Message, handle func(context.Context, kafkago.Message) error) error {
	op := func() error {
		err := handle(ctx, msg)
		if errors.Is(err, ErrSkipMessage) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("message handler failed, retrying",
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
			zap.Duration("retry_in", wait),
			zap.Error(err),
		)
	}
	return backoff.RetryNotify(op, backoff.WithContext(c.newBackOff(), ctx), notify)
}

// Close closes the reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"

	"event-explorer/internal/logger"
	"event-explorer/internal/models"
)

// MessageReader is the subset of *kafka.Reader the consumer uses.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Handler receives the decoded payload of each message. Exactly one of the
// pointers is set.
type Handler func(booking *models.BookingConfirmedEvent, favorites *models.FavoritesChangedEvent)

type Consumer struct {
	Reader MessageReader
	Topics Topics
	Logger *logger.Logger
}

// NewConsumer creates a new Kafka consumer for the booking and favorites topics
func NewConsumer(brokers []string, topics Topics, groupID string, log *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupTopics: topics.All(),
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6, // 10MB
	})
	return &Consumer{Reader: reader, Topics: topics, Logger: log}
}

// Run reads until ctx is done. Undecodable messages are logged and skipped.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	c.Logger.Info("KAFKA", "🔄 Kafka consumer started")

	for {
		msg, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("kafka: read message: %w", err)
		}

		if err := c.dispatch(msg, handle); err != nil {
			c.Logger.Warn("KAFKA", fmt.Sprintf("⚠️ Skipping message on %s at offset %d: %v", msg.Topic, msg.Offset, err))
		}
	}
}

func (c *Consumer) dispatch(msg kafka.Message, handle Handler) error {
	switch msg.Topic {
	case c.Topics.Bookings:
		var evt models.BookingConfirmedEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			return err
		}
		handle(&evt, nil)
	case c.Topics.Favorites:
		var evt models.FavoritesChangedEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			return err
		}
		handle(nil, &evt)
	default:
		return fmt.Errorf("unexpected topic %q", msg.Topic)
	}
	return nil
}

// Close gracefully shuts down the Kafka reader
func (c *Consumer) Close() error {
	return c.Reader.Close()
}

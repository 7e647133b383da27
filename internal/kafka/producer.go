package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"event-explorer/internal/logger"
	"event-explorer/internal/models"
)

type Topics struct {
	Bookings  string
	Favorites string
}

func (t Topics) All() []string {
	return []string{t.Bookings, t.Favorites}
}

// MessageWriter is the subset of *kafka.Writer the producer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes booking and favorites events. It satisfies both
// booking.Publisher and favorites.Publisher.
type Producer struct {
	Writer MessageWriter
	Topics Topics
	Logger *logger.Logger
}

// batchTimeout bounds how long a synchronous write waits to fill a batch.
const batchTimeout = 10 * time.Millisecond

func NewProducer(brokers []string, topics Topics, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           batchTimeout,
		AllowAutoTopicCreation: true,
	}
	return &Producer{Writer: writer, Topics: topics, Logger: log}
}

// Publish writes one message to topic.
func (p *Producer) Publish(ctx context.Context, topic, key string, value []byte) error {
	err := p.Writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	p.Logger.LogKafka("PUBLISH", topic, string(value))
	return nil
}

// PublishBookingConfirmed streams the booking confirmation to Kafka
func (p *Producer) PublishBookingConfirmed(ctx context.Context, evt models.BookingConfirmedEvent) error {
	msgBytes, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.Publish(ctx, p.Topics.Bookings, strconv.FormatInt(evt.BookingID, 10), msgBytes)
}

// PublishFavoritesChanged streams a committed favorites mutation to Kafka
func (p *Producer) PublishFavoritesChanged(ctx context.Context, evt models.FavoritesChangedEvent) error {
	msgBytes, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.Publish(ctx, p.Topics.Favorites, strconv.Itoa(evt.EventID), msgBytes)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

// Command booking-events tails the booking and favorites topics and logs
// every event it reads. It stops on SIGINT or SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"event-explorer/internal/config"
	"event-explorer/internal/kafka"
	"event-explorer/internal/logger"
	"event-explorer/internal/models"
)

func main() {
	_ = godotenv.Load() // Loads .env file if present
	cfg := config.Load()

	log, err := logger.NewLogger(logger.Options{
		Dir:     cfg.Log.Dir,
		Service: "booking-events",
		Level:   logger.ParseLevel(cfg.Log.Level),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	topics := kafka.Topics{Bookings: cfg.Kafka.BookingTopic, Favorites: cfg.Kafka.FavoritesTopic}
	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, topics, cfg.Kafka.GroupID, log)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("APP", fmt.Sprintf("Tailing %v on %v as %s", topics.All(), cfg.Kafka.Brokers, cfg.Kafka.GroupID))
	err = consumer.Run(ctx, func(b *models.BookingConfirmedEvent, f *models.FavoritesChangedEvent) {
		switch {
		case b != nil:
			log.LogBooking("RECEIVED", b.BookingID, fmt.Sprintf("event %d, %d x %s at %s",
				b.EventID, b.TicketQuantity, b.TicketType, b.BookedAt.Format("2006-01-02 15:04:05")))
		case f != nil:
			log.LogFavorite(f.Action, f.EventID, fmt.Sprintf("favorites now %v", f.Favorites))
		}
	})
	if err != nil {
		log.Error("KAFKA", fmt.Sprintf("Consumer stopped: %v", err))
		os.Exit(1)
	}
	log.Info("APP", "✅ booking-events shutdown complete")
}

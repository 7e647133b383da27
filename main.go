package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"event-explorer/internal/api"
	"event-explorer/internal/booking"
	"event-explorer/internal/catalog"
	"event-explorer/internal/config"
	"event-explorer/internal/favorites"
	"event-explorer/internal/kafka"
	"event-explorer/internal/kvstore"
	"event-explorer/internal/logger"
	"event-explorer/internal/profile"
	"event-explorer/internal/sse"
)

// App owns every long-lived component. It is built once by newApp and torn
// down once by Close.
type App struct {
	Config    *config.Config
	Logger    *logger.Logger
	KV        kvstore.Store
	Catalog   *catalog.Store
	Favorites *favorites.Ledger
	Profile   *profile.Store
	Issuer    *booking.Issuer
	Producer  *kafka.Producer
	Stream    *sse.Emitter
	Server    *http.Server
}

func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: log}

	client := &http.Client{Timeout: cfg.Catalog.FetchTimeout}
	var fetcher *catalog.Fetcher
	if cfg.Catalog.RemoteURL != "" {
		fetcher = catalog.NewFetcher(client, cfg.Catalog.RemoteURL, log)
	}
	cat, err := catalog.Load(ctx, fetcher, log)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	app.Catalog = cat

	kv, err := kvstore.Open(ctx, cfg.KV, log)
	if err != nil {
		return nil, fmt.Errorf("open key-value store: %w", err)
	}
	app.KV = kv

	app.Stream = sse.NewEmitter()
	favOpts := []favorites.Option{favorites.WithPublisher(app.Stream)}
	issuerOpts := []booking.Option{
		booking.WithDelay(cfg.Booking.Delay),
		booking.WithServiceFee(cfg.Booking.ServiceFee),
		booking.WithLogger(log),
		booking.WithPublisher(app.Stream),
	}
	if cfg.Kafka.Enabled {
		topics := kafka.Topics{Bookings: cfg.Kafka.BookingTopic, Favorites: cfg.Kafka.FavoritesTopic}
		log.Info("KAFKA", fmt.Sprintf("Using Kafka brokers: %v", cfg.Kafka.Brokers))
		if err := kafka.EnsureTopicsExist(ctx, cfg.Kafka.Brokers, topics.All(), log); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			log.Info("KAFKA", "Required topics ensured successfully")
		}
		app.Producer = kafka.NewProducer(cfg.Kafka.Brokers, topics, log)
		favOpts = append(favOpts, favorites.WithPublisher(app.Producer))
		issuerOpts = append(issuerOpts, booking.WithPublisher(app.Producer))
		log.Info("KAFKA", "Kafka producer initialized successfully")
	} else {
		log.Info("KAFKA", "Kafka disabled, booking and favorites events go to the SSE stream only")
	}

	favs, err := favorites.Open(ctx, kv, log, favOpts...)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("open favorites: %w", err)
	}
	app.Favorites = favs

	prof, err := profile.Open(ctx, kv, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("open profile: %w", err)
	}
	app.Profile = prof

	app.Issuer = booking.NewIssuer(cat, issuerOpts...)

	qr := booking.NewQRGenerator(cfg.Booking.QRSize)
	handler := &api.Handler{
		Catalog:   cat,
		Favorites: favs,
		Profile:   prof,
		Issuer:    app.Issuer,
		QR:        qr,
		PDF:       booking.NewTicketPDFGenerator(qr),
		Stream:    app.Stream,
		Logger:    log,
		Options: api.Options{
			BookingTimeout: cfg.Booking.Timeout,
			SearchDelay:    cfg.Search.Delay,
			BookingRate:    cfg.Booking.RatePerMinute,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		},
	}

	app.Server = &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

// Close releases the producer and the key-value store.
func (a *App) Close() {
	if a.Producer != nil {
		if err := a.Producer.Close(); err != nil {
			a.Logger.Error("KAFKA", fmt.Sprintf("Failed to close producer: %v", err))
		}
	}
	if a.KV != nil {
		if err := a.KV.Close(); err != nil {
			a.Logger.Error("KVSTORE", fmt.Sprintf("Failed to close store: %v", err))
		}
	}
}

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	log, err := logger.NewLogger(logger.Options{
		Dir:     cfg.Log.Dir,
		Service: "event-explorer",
		Level:   logger.ParseLevel(cfg.Log.Level),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("APP", "Starting Event Explorer initialization")
	if envErr != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	ctx := context.Background()
	app, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Fatal("APP", fmt.Sprintf("Initialization failed: %v", err))
	}
	defer app.Close()

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 Event Explorer running on %s", cfg.Server.Port))
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "✅ Event Explorer shutdown complete")
	}
}

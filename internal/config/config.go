package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	KV      KVConfig
	Booking BookingConfig
	Search  SearchConfig
	Kafka   KafkaConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

type CatalogConfig struct {
	// RemoteURL is fetched once at startup; empty means bundled sample data only.
	RemoteURL    string
	FetchTimeout time.Duration
}

type KVConfig struct {
	Backend     string // memory, redis, sqlite, postgres
	RedisAddr   string
	RedisDB     int
	KeyPrefix   string
	SQLiteDSN   string
	PostgresDSN string
}

type BookingConfig struct {
	Delay         time.Duration
	Timeout       time.Duration
	RatePerMinute int
	QRSize        int
	ServiceFee    float64
}

type SearchConfig struct {
	Delay time.Duration
}

type KafkaConfig struct {
	Enabled        bool
	Brokers        []string
	BookingTopic   string
	FavoritesTopic string
	GroupID        string
}

type LogConfig struct {
	Level string
	Dir   string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", ":8080"),
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
			AllowedOrigins:  getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Catalog: CatalogConfig{
			RemoteURL:    getEnv("CATALOG_URL", ""),
			FetchTimeout: getEnvDuration("CATALOG_FETCH_TIMEOUT", 10*time.Second),
		},
		KV: KVConfig{
			Backend:     strings.ToLower(getEnv("KV_BACKEND", "memory")),
			RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
			RedisDB:     getEnvInt("REDIS_DB", 0),
			KeyPrefix:   getEnv("KV_KEY_PREFIX", "event-explorer:"),
			SQLiteDSN:   getEnv("SQLITE_DSN", "file:event-explorer.db?cache=shared"),
			PostgresDSN: getEnv("POSTGRES_DSN", ""),
		},
		Booking: BookingConfig{
			Delay:         getEnvDuration("BOOKING_DELAY", 1500*time.Millisecond),
			Timeout:       getEnvDuration("BOOKING_TIMEOUT", 10*time.Second),
			RatePerMinute: getEnvInt("BOOKING_RATE_PER_MINUTE", 30),
			QRSize:        getEnvInt("BOOKING_QR_SIZE", 256),
			ServiceFee:    getEnvFloat("BOOKING_SERVICE_FEE", 5),
		},
		Search: SearchConfig{
			Delay: getEnvDuration("SEARCH_DELAY", 0),
		},
		Kafka: KafkaConfig{
			Enabled:        getEnvBool("KAFKA_ENABLED", false),
			Brokers:        getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			BookingTopic:   getEnv("KAFKA_TOPIC_BOOKINGS", "explorer.booking.confirmed"),
			FavoritesTopic: getEnv("KAFKA_TOPIC_FAVORITES", "explorer.favorites.changed"),
			GroupID:        getEnv("KAFKA_GROUP_ID", "event-explorer-events"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			Dir:   getEnv("LOG_DIR", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("750ms") or a bare number of milliseconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

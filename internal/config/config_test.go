package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.KV.Backend)
	assert.Equal(t, 1500*time.Millisecond, cfg.Booking.Delay)
	assert.Equal(t, 5.0, cfg.Booking.ServiceFee)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Empty(t, cfg.Catalog.RemoteURL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("KV_BACKEND", "Redis")
	t.Setenv("BOOKING_DELAY", "250")
	t.Setenv("SEARCH_DELAY", "800ms")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.Equal(t, "redis", cfg.KV.Backend)
	assert.Equal(t, 250*time.Millisecond, cfg.Booking.Delay)
	assert.Equal(t, 800*time.Millisecond, cfg.Search.Delay)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 0, cfg.KV.RedisDB)
}

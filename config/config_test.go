package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, ":8080", cfg.Server.HTTPPort)
	assert.Equal(t, 3, cfg.Postgres.WriteRetries)
	assert.Equal(t, 16, cfg.Taxonomy.MaxDepth)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Nil(t, cfg.I18n.ExtraCatalogs)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", ":9090")
	t.Setenv("DB_WRITE_RETRIES", "5")
	t.Setenv("DB_RETRY_BACKOFF_MS", "not-a-number")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("REDIS_ENABLED", "false")

	cfg := LoadEnv()

	assert.Equal(t, ":9090", cfg.Server.HTTPPort)
	assert.Equal(t, 5, cfg.Postgres.WriteRetries)
	assert.Equal(t, 100, cfg.Postgres.RetryBackoffMS)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Redis.Enabled)
}

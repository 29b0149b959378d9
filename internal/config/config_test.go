package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"
user = "scheduling"
password = "secret"
dbname = "scheduling"

[catalog_service]
url = "http://catalog:8080"

[kafka]
enabled = true
brokers = ["kafka:9092"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 3, cfg.CatalogService.RetryMaxAttempts)
	assert.Equal(t, 15, cfg.Booking.PaymentWindowMinutes)
	assert.Equal(t, "scheduling.bookings", cfg.Kafka.Topic)
	assert.Equal(t, []string{"kafka:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t,
		"host=localhost port=5432 user=scheduling password=secret dbname=scheduling sslmode=disable",
		cfg.Database.DSN())
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 70000

[redis]
enabled = true
`)

	_, err := Load(path)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "server.http_port")
	assert.Contains(t, err.Error(), "database.host")
	assert.Contains(t, err.Error(), "redis.addr")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

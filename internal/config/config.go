package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	CatalogService CatalogServiceConfig `toml:"catalog_service"`
	Redis          RedisConfig          `toml:"redis"`
	Kafka          KafkaConfig          `toml:"kafka"`
	Booking        BookingConfig        `toml:"booking"`
	RateLimit      RateLimitConfig      `toml:"rate_limit"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

type CatalogServiceConfig struct {
	URL                    string `toml:"url"`
	Timeout                int    `toml:"timeout"` // секунды
	RetryMaxAttempts       int    `toml:"retry_max_attempts"`
	RetryInitialIntervalMs int    `toml:"retry_initial_interval_ms"`
}

type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	LockTTLMs  int    `toml:"lock_ttl_ms"`
	LockWaitMs int    `toml:"lock_wait_ms"`
}

type KafkaConfig struct {
	Enabled bool     `toml:"enabled"`
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

type BookingConfig struct {
	PaymentWindowMinutes       int `toml:"payment_window_minutes"`
	AdvanceBookingDays         int `toml:"advance_booking_days"` // 0 = без ограничения
	MinBookingNoticeMinutes    int `toml:"min_booking_notice_minutes"`
	ExpirySweepIntervalSeconds int `toml:"expiry_sweep_interval_seconds"`
	TxMaxAttempts              int `toml:"tx_max_attempts"`
}

type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`
	Burst   int     `toml:"burst"`
}

// Load читает TOML-файл, подставляет значения по умолчанию и валидирует результат
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 15)
	setDefault(&c.Server.WriteTimeout, 15)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 10)

	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "scheduling-service"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	setDefault(&c.CatalogService.Timeout, 5)
	setDefault(&c.CatalogService.RetryMaxAttempts, 3)
	setDefault(&c.CatalogService.RetryInitialIntervalMs, 100)

	setDefault(&c.Redis.LockTTLMs, 5000)
	setDefault(&c.Redis.LockWaitMs, 3000)

	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "scheduling.bookings"
	}

	setDefault(&c.Booking.PaymentWindowMinutes, 15)
	setDefault(&c.Booking.ExpirySweepIntervalSeconds, 60)
	setDefault(&c.Booking.TxMaxAttempts, 3)

	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 10
	}
	setDefault(&c.RateLimit.Burst, 20)
}

// Validate проверяет значения, которые нельзя исправить значениями по умолчанию
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, "server.http_port must be in range 1-65535")
	}
	if c.Database.Host == "" {
		problems = append(problems, "database.host is required")
	}
	if c.Database.DBName == "" {
		problems = append(problems, "database.dbname is required")
	}
	if c.CatalogService.URL == "" {
		problems = append(problems, "catalog_service.url is required")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		problems = append(problems, "redis.addr is required when redis is enabled")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		problems = append(problems, "kafka.brokers is required when kafka is enabled")
	}
	if c.Booking.AdvanceBookingDays < 0 || c.Booking.AdvanceBookingDays > 365 {
		problems = append(problems, "booking.advance_booking_days must be in range 0-365")
	}
	if c.Booking.MinBookingNoticeMinutes < 0 {
		problems = append(problems, "booking.min_booking_notice_minutes must not be negative")
	}
	if c.Booking.PaymentWindowMinutes < 0 {
		problems = append(problems, "booking.payment_window_minutes must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func setDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

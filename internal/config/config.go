package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	Queue     QueueConfig
	API       APIConfig
	Worker    WorkerConfig
	Dashboard DashboardConfig
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            int           `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"customer_dashboard"`
	Password        string        `envconfig:"DB_PASSWORD" default:"customer_dashboard"`
	DBName          string        `envconfig:"DB_NAME" default:"customer_dashboard"`
	SSLMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
}

// QueueConfig holds queue configuration (Redis)
type QueueConfig struct {
	RedisURL  string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	QueueName string `envconfig:"QUEUE_NAME" default:"customer_activity"`
}

// APIConfig holds API server configuration
type APIConfig struct {
	Port          int           `envconfig:"API_PORT" default:"8080"`
	RateLimit     int           `envconfig:"API_RATE_LIMIT" default:"100"`
	RateWindow    time.Duration `envconfig:"API_RATE_WINDOW" default:"1m"`
	Production    bool          `envconfig:"API_PRODUCTION" default:"false"`
	ReadTimeout   time.Duration `envconfig:"API_READ_TIMEOUT" default:"15s"`
	WriteTimeout  time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"15s"`
	ShutdownGrace time.Duration `envconfig:"API_SHUTDOWN_GRACE" default:"30s"`
}

// WorkerConfig holds worker configuration
type WorkerConfig struct {
	Concurrency int `envconfig:"WORKER_CONCURRENCY" default:"5"`
}

// DashboardConfig holds the staff dashboard client configuration
type DashboardConfig struct {
	APIURL  string        `envconfig:"DASHBOARD_API_URL" default:"http://localhost:8080"`
	Timeout time.Duration `envconfig:"DASHBOARD_TIMEOUT" default:"10s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.API.Port < 1 || cfg.API.Port > 65535 {
		return nil, fmt.Errorf("invalid API_PORT: %d", cfg.API.Port)
	}
	if cfg.Worker.Concurrency < 1 {
		return nil, fmt.Errorf("invalid WORKER_CONCURRENCY: %d", cfg.Worker.Concurrency)
	}
	if cfg.Dashboard.APIURL == "" {
		return nil, fmt.Errorf("DASHBOARD_API_URL must be provided")
	}

	return &cfg, nil
}

// DSN returns the database connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

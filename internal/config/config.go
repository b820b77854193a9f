package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config holds the application configuration
type Config struct {
	Server ServerConfig
	Redis  RedisConfig
	Push   PushConfig
	Lease  LeaseConfig
	Log    LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisConfig holds the store connection settings
type RedisConfig struct {
	URL          string
	PoolSize     int
	MaxTxRetries int
}

// PushConfig holds push delivery settings
type PushConfig struct {
	Enabled     bool
	Workers     int
	HTTPTimeout time.Duration
	UserAgent   string
}

// LeaseConfig controls the expired reservation sweeper
type LeaseConfig struct {
	SweepInterval time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", DefaultServerHost),
			Port:         getEnvAsInt("SERVER_PORT", DefaultServerPort),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", DefaultReadTimeout),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", DefaultWriteTimeout),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", DefaultIdleTimeout),
		},
		Redis: RedisConfig{
			URL:          getEnv("REDIS_URL", DefaultRedisURL),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", DefaultRedisPoolSize),
			MaxTxRetries: getEnvAsInt("REDIS_MAX_TX_RETRIES", DefaultRedisMaxTxRetries),
		},
		Push: PushConfig{
			Enabled:     getEnvAsBool("PUSH_ENABLED", DefaultPushEnabled),
			Workers:     getEnvAsInt("PUSH_WORKERS", DefaultPushWorkers),
			HTTPTimeout: getEnvAsDuration("PUSH_HTTP_TIMEOUT", DefaultPushHTTPTimeout),
			UserAgent:   getEnv("PUSH_USER_AGENT", DefaultPushUserAgent),
		},
		Lease: LeaseConfig{
			SweepInterval: getEnvAsDuration("LEASE_SWEEP_INTERVAL", DefaultLeaseSweepInterval),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", DefaultLogLevel),
			Format: getEnv("LOG_FORMAT", DefaultLogFormat),
		},
	}

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration gets an environment variable as duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the configuration
func (c *Config) Validate() error {
	return validation.Errors{
		"server": validation.ValidateStruct(&c.Server,
			validation.Field(&c.Server.Port, validation.Required, validation.Min(1), validation.Max(65535)),
			validation.Field(&c.Server.ReadTimeout, validation.Min(time.Duration(0))),
			validation.Field(&c.Server.WriteTimeout, validation.Min(time.Duration(0))),
		),
		"redis": validation.ValidateStruct(&c.Redis,
			validation.Field(&c.Redis.URL, validation.Required),
			validation.Field(&c.Redis.PoolSize, validation.Min(0)),
			validation.Field(&c.Redis.MaxTxRetries, validation.Min(0)),
		),
		"push": validation.ValidateStruct(&c.Push,
			validation.Field(&c.Push.Workers, validation.Required, validation.Min(1)),
			validation.Field(&c.Push.HTTPTimeout, validation.Required, validation.Min(time.Duration(1))),
		),
		"lease": validation.ValidateStruct(&c.Lease,
			validation.Field(&c.Lease.SweepInterval, validation.Min(time.Duration(0))),
		),
		"log": validation.ValidateStruct(&c.Log,
			validation.Field(&c.Log.Level, validation.In("debug", "info", "warn", "error")),
			validation.Field(&c.Log.Format, validation.In("json", "text")),
		),
	}.Filter()
}

// SlogLevel converts the configured level name to a slog level
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger writing to stdout
func (l LogConfig) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if strings.ToLower(l.Format) == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

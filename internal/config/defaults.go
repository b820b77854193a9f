package config

import "time"

// Default configuration values for all services
const (
	// HTTP API defaults
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Redis defaults
	DefaultRedisURL          = "redis://localhost:6379/0"
	DefaultRedisPoolSize     = 20
	DefaultRedisMaxTxRetries = 10

	// Push engine defaults
	DefaultPushEnabled     = true
	DefaultPushWorkers     = 16
	DefaultPushHTTPTimeout = 30 * time.Second
	DefaultPushUserAgent   = "rusted-iron-pusher/1.0"

	// Lease sweeper is disabled unless an interval is set
	DefaultLeaseSweepInterval = time.Duration(0)

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Package config provides configuration loading and validation for the service.
// Configuration is loaded from YAML files with environment variable overrides
// using a layered system: defaults -> base.yaml -> {profile}.yaml -> env vars.
package config

import "time"

// Store backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
	BackendRemote   = "remote"
)

// Config holds all configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Client    ClientConfig    `koanf:"client"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Store     StoreConfig     `koanf:"store"`
	Actions   ActionsConfig   `koanf:"actions"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
	CORS         CORSConfig    `koanf:"cors"`
}

// CORSConfig controls cross-origin access for the browser front-end.
// An empty AllowedOrigins list disables the CORS middleware.
type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ClientConfig holds settings for the HTTP client used by the remote backend.
type ClientConfig struct {
	BaseURL        string               `koanf:"base_url"`
	Timeout        time.Duration        `koanf:"timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RetryConfig holds retry policy settings with exponential backoff.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RateLimitConfig holds client-side rate limiting. Zero RequestsPerSecond
// disables the limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend  string         `koanf:"backend"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	Postgres PostgresConfig `koanf:"postgres"`
	DynamoDB DynamoDBConfig `koanf:"dynamodb"`
	Cache    CacheConfig    `koanf:"cache"`
}

// SQLiteConfig holds the database file location.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// PostgresConfig holds the connection string and pool sizing.
type PostgresConfig struct {
	DSN             string        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// DynamoDBConfig holds the table and AWS client settings. Endpoint and the
// static keys are only needed for local emulators.
type DynamoDBConfig struct {
	Table           string `koanf:"table"`
	Region          string `koanf:"region"`
	Endpoint        string `koanf:"endpoint"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
}

// CacheConfig controls the Redis read-through cache in front of the backend.
type CacheConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
	Prefix   string        `koanf:"prefix"`
}

// ActionsConfig tunes the entity action layer.
type ActionsConfig struct {
	// Timeout bounds a single action. Zero means no action-level deadline.
	Timeout        time.Duration `koanf:"timeout"`
	ImportWorkers  int           `koanf:"import_workers"`
	ImportMaxBatch int           `koanf:"import_max_batch"`
}

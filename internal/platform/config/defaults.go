package config

const (
	defaultServerPort = 8080

	defaultRetryMaxAttempts = 3
	defaultRetryMultiplier  = 2.0

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1

	defaultCORSMaxAge = 300

	defaultPostgresMaxOpenConns = 10
	defaultPostgresMaxIdleConns = 5

	defaultImportWorkers  = 8
	defaultImportMaxBatch = 500
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":                   "0.0.0.0",
		"server.port":                   defaultServerPort,
		"server.read_timeout":           "5s",
		"server.write_timeout":          "10s",
		"server.idle_timeout":           "120s",
		"server.cors.allowed_methods":   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		"server.cors.allowed_headers":   []string{"Accept", "Content-Type", "X-Request-ID", "X-Correlation-ID"},
		"server.cors.allow_credentials": false,
		"server.cors.max_age":           defaultCORSMaxAge,

		"log.level":  "info",
		"log.format": "json",

		"client.base_url":                        "http://localhost:8081",
		"client.timeout":                         "30s",
		"client.retry.max_attempts":              defaultRetryMaxAttempts,
		"client.retry.initial_interval":          "100ms",
		"client.retry.max_interval":              "10s",
		"client.retry.multiplier":                defaultRetryMultiplier,
		"client.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"client.circuit_breaker.timeout":         "30s",
		"client.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"client.rate_limit.requests_per_second":  0,
		"client.rate_limit.burst_size":           0,

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "users-api",

		"store.backend":                    BackendMemory,
		"store.sqlite.path":                "data/users.db",
		"store.postgres.dsn":               "",
		"store.postgres.max_open_conns":    defaultPostgresMaxOpenConns,
		"store.postgres.max_idle_conns":    defaultPostgresMaxIdleConns,
		"store.postgres.conn_max_lifetime": "30m",
		"store.dynamodb.table":             "users",
		"store.dynamodb.region":            "us-east-1",
		"store.dynamodb.endpoint":          "",
		"store.cache.enabled":              false,
		"store.cache.addr":                 "localhost:6379",
		"store.cache.db":                   0,
		"store.cache.ttl":                  "5m",
		"store.cache.prefix":               "users:",

		"actions.timeout":          "10s",
		"actions.import_workers":   defaultImportWorkers,
		"actions.import_max_batch": defaultImportMaxBatch,
	}
}

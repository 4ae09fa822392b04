package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
)

// problems accumulates validation failures for one section.
type problems []error

func (p *problems) check(ok bool, format string, args ...any) {
	if !ok {
		*p = append(*p, fmt.Errorf(format, args...))
	}
}

func (p problems) join() error {
	return errors.Join(p...)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Client.validate(),
		c.Telemetry.validate(),
		c.Store.validate(),
		c.Actions.validate(),
	)
}

func (s *ServerConfig) validate() error {
	var p problems
	p.check(s.Port >= 1 && s.Port <= 65535, "server.port must be between 1 and 65535, got %d", s.Port)
	p.check(s.ReadTimeout > 0, "server.read_timeout must be positive")
	p.check(s.WriteTimeout > 0, "server.write_timeout must be positive")
	p.check(!s.CORS.AllowCredentials || !slices.Contains(s.CORS.AllowedOrigins, "*"),
		"server.cors.allow_credentials cannot be combined with the * origin")
	p.check(s.CORS.MaxAge >= 0, "server.cors.max_age must not be negative, got %d", s.CORS.MaxAge)
	return p.join()
}

func (l *LogConfig) validate() error {
	var p problems
	p.check(slices.Contains([]string{"debug", "info", "warn", "error"}, l.Level),
		"log.level must be one of: debug, info, warn, error; got %q", l.Level)
	p.check(l.Format == "json" || l.Format == "text",
		"log.format must be one of: json, text; got %q", l.Format)
	return p.join()
}

func (cl *ClientConfig) validate() error {
	var p problems
	u, err := url.Parse(cl.BaseURL)
	p.check(err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "",
		"client.base_url must be an absolute http(s) URL, got %q", cl.BaseURL)
	p.check(cl.Timeout > 0, "client.timeout must be positive")
	p.check(cl.Retry.MaxAttempts >= 1, "client.retry.max_attempts must be >= 1, got %d", cl.Retry.MaxAttempts)
	p.check(cl.Retry.Multiplier > 0, "client.retry.multiplier must be positive, got %g", cl.Retry.Multiplier)
	p.check(cl.CircuitBreaker.MaxFailures >= 1,
		"client.circuit_breaker.max_failures must be >= 1, got %d", cl.CircuitBreaker.MaxFailures)

	rl := cl.RateLimit
	p.check(rl.RequestsPerSecond >= 0,
		"client.rate_limit.requests_per_second must not be negative, got %g", rl.RequestsPerSecond)
	p.check(rl.RequestsPerSecond == 0 || rl.BurstSize >= 1,
		"client.rate_limit.burst_size must be >= 1 when rate limiting, got %d", rl.BurstSize)
	return p.join()
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}
	var p problems
	p.check(t.Exporter == "stdout" || t.Exporter == "otlp",
		"telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter)
	p.check(t.Exporter != "otlp" || t.Endpoint != "",
		"telemetry.endpoint must not be empty when exporter is otlp")
	return p.join()
}

func (s *StoreConfig) validate() error {
	var p problems
	switch s.Backend {
	case BackendMemory, BackendRemote:
	case BackendSQLite:
		p.check(s.SQLite.Path != "", "store.sqlite.path must not be empty when backend is sqlite")
	case BackendPostgres:
		p.check(s.Postgres.DSN != "", "store.postgres.dsn must not be empty when backend is postgres")
	case BackendDynamoDB:
		p.check(s.DynamoDB.Table != "", "store.dynamodb.table must not be empty when backend is dynamodb")
		p.check(s.DynamoDB.Region != "", "store.dynamodb.region must not be empty when backend is dynamodb")
	default:
		p.check(false, "store.backend must be one of: memory, sqlite, postgres, dynamodb, remote; got %q", s.Backend)
	}

	if s.Cache.Enabled {
		p.check(s.Cache.Addr != "", "store.cache.addr must not be empty when the cache is enabled")
		p.check(s.Cache.TTL > 0, "store.cache.ttl must be positive when the cache is enabled")
	}
	return p.join()
}

func (a *ActionsConfig) validate() error {
	var p problems
	p.check(a.Timeout >= 0, "actions.timeout must not be negative")
	p.check(a.ImportWorkers >= 1, "actions.import_workers must be >= 1, got %d", a.ImportWorkers)
	p.check(a.ImportMaxBatch >= 1, "actions.import_max_batch must be >= 1, got %d", a.ImportMaxBatch)
	return p.join()
}

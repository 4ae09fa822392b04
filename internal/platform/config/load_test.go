package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/jsamuelsen11/user-action-service/internal/platform/config"
)

const configDir = "../../../configs"

func TestLoad_Profiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		profile       string
		wantLevel     string
		wantFormat    string
		wantTelemetry bool
		wantBackend   string
	}{
		{profile: "local", wantLevel: "debug", wantFormat: "text", wantBackend: config.BackendMemory},
		{profile: "prod", wantLevel: "info", wantFormat: "json", wantTelemetry: true},
	}

	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			t.Parallel()

			cfg, err := config.Load(tt.profile, config.WithConfigDir(configDir))
			if err != nil {
				t.Fatalf("Load(%q) error: %v", tt.profile, err)
			}
			if cfg.Log.Level != tt.wantLevel || cfg.Log.Format != tt.wantFormat {
				t.Errorf("Log = %s/%s, want %s/%s", cfg.Log.Level, cfg.Log.Format, tt.wantLevel, tt.wantFormat)
			}
			if cfg.Telemetry.Enabled != tt.wantTelemetry {
				t.Errorf("Telemetry.Enabled = %v, want %v", cfg.Telemetry.Enabled, tt.wantTelemetry)
			}
			if tt.wantTelemetry && (cfg.Telemetry.Exporter != "otlp" || cfg.Telemetry.Endpoint == "") {
				t.Errorf("Telemetry = %q at %q, want otlp with an endpoint", cfg.Telemetry.Exporter, cfg.Telemetry.Endpoint)
			}
			if tt.wantBackend != "" && cfg.Store.Backend != tt.wantBackend {
				t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, tt.wantBackend)
			}
		})
	}
}

func TestLoad_BaseConfigInheritance(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load("local", config.WithConfigDir(configDir))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	// Not overridden by local.yaml.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Client.Retry.MaxAttempts != 3 {
		t.Errorf("Client.Retry.MaxAttempts = %d, want 3", cfg.Client.Retry.MaxAttempts)
	}
	if len(cfg.Server.CORS.AllowedOrigins) != 1 {
		t.Errorf("Server.CORS.AllowedOrigins = %v, want the local front-end only", cfg.Server.CORS.AllowedOrigins)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		env   string
		value string
		check func(*config.Config) bool
	}{
		{"APP_SERVER_PORT", "9090", func(c *config.Config) bool { return c.Server.Port == 9090 }},
		{"APP_SERVER_READ_TIMEOUT", "15s", func(c *config.Config) bool { return c.Server.ReadTimeout == 15*time.Second }},
		{"APP_CLIENT_RETRY_MAX_ATTEMPTS", "7", func(c *config.Config) bool { return c.Client.Retry.MaxAttempts == 7 }},
		{"APP_ACTIONS_IMPORT_WORKERS", "3", func(c *config.Config) bool { return c.Actions.ImportWorkers == 3 }},
		{"APP_STORE_CACHE_PREFIX", "u:", func(c *config.Config) bool { return c.Store.Cache.Prefix == "u:" }},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)

			cfg, err := config.Load("local", config.WithConfigDir(configDir))
			if err != nil {
				t.Fatalf("Load error: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("%s=%s was not applied", tt.env, tt.value)
			}
		})
	}
}

func TestLoad_OverridesBeatEnvironment(t *testing.T) {
	t.Setenv("APP_STORE_BACKEND", "postgres")

	cfg, err := config.Load("local",
		config.WithConfigDir(configDir),
		config.WithOverrides(map[string]any{"store.backend": config.BackendSQLite, "store.sqlite.path": "x.db"}),
	)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Store.Backend != config.BackendSQLite || cfg.Store.SQLite.Path != "x.db" {
		t.Errorf("Store = %s at %q, want sqlite at x.db", cfg.Store.Backend, cfg.Store.SQLite.Path)
	}
}

func TestLoad_RejectsBadProfiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		profile string
		wantErr string
	}{
		{"", "must not be empty"},
		{"  ", "must not be empty"},
		{"../etc", "path separators"},
		{"a..b", "path traversal"},
		{"nonexistent", "loading profile config"},
	}

	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			t.Parallel()

			_, err := config.Load(tt.profile, config.WithConfigDir(configDir))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load(%q) error = %v, want containing %q", tt.profile, err, tt.wantErr)
			}
		})
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Server.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for port=0")
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Log.Level = "verbose"

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for invalid log level")
	}
}

func TestValidate_OtlpWithoutEndpoint(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.Exporter = "otlp"
	cfg.Telemetry.Endpoint = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for otlp without endpoint")
	}
}

func TestValidate_Store(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.StoreConfig)
		wantErr bool
	}{
		{name: "memory", mutate: func(*config.StoreConfig) {}},
		{name: "remote", mutate: func(s *config.StoreConfig) { s.Backend = config.BackendRemote }},
		{name: "unknown backend", mutate: func(s *config.StoreConfig) { s.Backend = "mongo" }, wantErr: true},
		{name: "sqlite without path", mutate: func(s *config.StoreConfig) { s.Backend = config.BackendSQLite }, wantErr: true},
		{name: "sqlite with path", mutate: func(s *config.StoreConfig) {
			s.Backend = config.BackendSQLite
			s.SQLite.Path = "users.db"
		}},
		{name: "postgres without dsn", mutate: func(s *config.StoreConfig) { s.Backend = config.BackendPostgres }, wantErr: true},
		{name: "dynamodb without table", mutate: func(s *config.StoreConfig) {
			s.Backend = config.BackendDynamoDB
			s.DynamoDB.Region = "us-east-1"
		}, wantErr: true},
		{name: "dynamodb complete", mutate: func(s *config.StoreConfig) {
			s.Backend = config.BackendDynamoDB
			s.DynamoDB.Table = "users"
			s.DynamoDB.Region = "us-east-1"
		}},
		{name: "cache without addr", mutate: func(s *config.StoreConfig) { s.Cache.Enabled = true }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validBaseConfig()
			tt.mutate(&cfg.Store)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("Validate() returned nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Validate() returned error: %v", err)
			}
		})
	}
}

func TestValidate_Actions(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Actions.ImportWorkers = 0
	cfg.Actions.ImportMaxBatch = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() returned nil, want error")
	}
	for _, want := range []string{"actions.import_workers", "actions.import_max_batch"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error %q does not mention %s", err, want)
		}
	}
}

func TestValidate_RateLimitNeedsBurst(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Client.RateLimit.RequestsPerSecond = 10

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for rate limit without burst")
	}
}

func TestLoad_DefaultsFillUnsetKeys(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load("local", config.WithConfigDir(configDir))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Actions.ImportMaxBatch != 500 {
		t.Errorf("Actions.ImportMaxBatch = %d, want 500 (default)", cfg.Actions.ImportMaxBatch)
	}
	if cfg.Store.Cache.TTL != 5*time.Minute {
		t.Errorf("Store.Cache.TTL = %v, want 5m (default)", cfg.Store.Cache.TTL)
	}
}

func TestLoad_EnvSelectsBackend(t *testing.T) {
	t.Setenv("APP_STORE_BACKEND", "sqlite")
	t.Setenv("APP_STORE_SQLITE_PATH", "/tmp/users.db")

	cfg, err := config.Load("local", config.WithConfigDir(configDir))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Store.Backend != config.BackendSQLite {
		t.Errorf("Store.Backend = %q, want sqlite", cfg.Store.Backend)
	}
	if cfg.Store.SQLite.Path != "/tmp/users.db" {
		t.Errorf("Store.SQLite.Path = %q, want /tmp/users.db", cfg.Store.SQLite.Path)
	}
}

func TestValidate_ReportsEverySection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"cors credentials with any origin", func(c *config.Config) {
			c.Server.CORS.AllowCredentials = true
			c.Server.CORS.AllowedOrigins = []string{"https://users.example.com", "*"}
		}, "server.cors.allow_credentials"},
		{"relative base url", func(c *config.Config) { c.Client.BaseURL = "/users" }, "client.base_url"},
		{"base url without scheme", func(c *config.Config) { c.Client.BaseURL = "localhost:8081" }, "client.base_url"},
		{"cache without ttl", func(c *config.Config) {
			c.Store.Cache.Enabled = true
			c.Store.Cache.Addr = "localhost:6379"
		}, "store.cache.ttl"},
		{"negative action timeout", func(c *config.Config) { c.Actions.Timeout = -time.Second }, "actions.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validBaseConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want an error mentioning %s", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_JoinsFailures(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Server.Port = 0
	cfg.Log.Format = "xml"
	cfg.Store.Backend = "mongo"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() returned nil")
	}
	for _, want := range []string{"server.port", "log.format", "store.backend"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error %q does not mention %s", err, want)
		}
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error for valid config: %v", err)
	}
}

// validBaseConfig returns a Config with all fields set to valid values.
func validBaseConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Log: config.LogConfig{
			Level:  "info",
			Format: "json",
		},
		Client: config.ClientConfig{
			BaseURL: "http://localhost:8081",
			Timeout: 30 * time.Second,
			Retry: config.RetryConfig{
				MaxAttempts:     3,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     10 * time.Second,
				Multiplier:      2.0,
			},
			CircuitBreaker: config.CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       30 * time.Second,
				HalfOpenLimit: 1,
			},
		},
		Telemetry: config.TelemetryConfig{
			Enabled:  false,
			Exporter: "stdout",
		},
		Store: config.StoreConfig{
			Backend: config.BackendMemory,
		},
		Actions: config.ActionsConfig{
			Timeout:        10 * time.Second,
			ImportWorkers:  8,
			ImportMaxBatch: 500,
		},
	}
}

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix        = "APP_"
	defaultConfigDir = "configs"
)

// Option configures Load.
type Option func(*loader)

// WithConfigDir points Load at a directory other than ./configs.
func WithConfigDir(dir string) Option {
	return func(l *loader) {
		l.dir = dir
	}
}

// WithOverrides applies values after every other layer. The CLI uses it for
// flags such as --backend that take precedence over the environment.
func WithOverrides(values map[string]any) Option {
	return func(l *loader) {
		l.overrides = values
	}
}

type loader struct {
	dir       string
	profile   string
	overrides map[string]any
	k         *koanf.Koanf
}

// Load resolves the service configuration for profile. Later layers win:
// built-in defaults, {dir}/base.yaml, {dir}/{profile}.yaml, APP_* environment
// variables, then any WithOverrides values. The result is validated.
//
// Environment names are matched against the keys already loaded, so
// underscores inside a key survive:
//
//	APP_SERVER_READ_TIMEOUT       -> server.read_timeout
//	APP_STORE_POSTGRES_DSN        -> store.postgres.dsn
//	APP_ACTIONS_IMPORT_WORKERS    -> actions.import_workers
//	APP_CLIENT_RETRY_MAX_ATTEMPTS -> client.retry.max_attempts
func Load(profile string, opts ...Option) (*Config, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	l := &loader{dir: defaultConfigDir, profile: profile, k: koanf.New(".")}
	for _, opt := range opts {
		opt(l)
	}

	steps := []struct {
		name string
		load func() error
	}{
		{"defaults", func() error { return l.set(defaults()) }},
		{"base config", func() error { return l.file("base.yaml") }},
		{"profile config", func() error { return l.file(profile + ".yaml") }},
		{"environment", l.env},
		{"overrides", func() error { return l.set(l.overrides) }},
	}
	for _, s := range steps {
		if err := s.load(); err != nil {
			return nil, fmt.Errorf("loading %s: %w", s.name, err)
		}
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config for profile %q: %w", profile, err)
	}
	return &cfg, nil
}

func (l *loader) set(values map[string]any) error {
	for key, value := range values {
		if err := l.k.Set(key, value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func (l *loader) file(name string) error {
	path := filepath.Join(l.dir, name)
	if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (l *loader) env() error {
	keys := envKeys(l.k.Keys())
	return l.k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(name, value string) (string, any) {
			name = strings.ToLower(strings.TrimPrefix(name, envPrefix))
			if key, ok := keys[name]; ok {
				return key, value
			}
			return strings.ReplaceAll(name, "_", "."), value
		},
	}), nil)
}

// envKeys maps the underscore form of each known key back to its dotted form.
func envKeys(keys []string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		out[strings.ReplaceAll(key, ".", "_")] = key
	}
	return out
}

func validateProfile(profile string) error {
	switch {
	case strings.TrimSpace(profile) == "":
		return errors.New("profile must not be empty")
	case strings.ContainsAny(profile, `/\`):
		return fmt.Errorf("profile must not contain path separators, got %q", profile)
	case strings.Contains(profile, ".."):
		return fmt.Errorf("profile must not contain path traversal, got %q", profile)
	}
	return nil
}

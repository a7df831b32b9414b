package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/dbpool/internal/secrets"
	"github.com/vvka-141/dbpool/pkg/poolcache"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// SecretConfig selects the remote secret holding the database credentials.
type SecretConfig struct {
	Backend string `yaml:"backend,omitempty"`
	Region  string `yaml:"region,omitempty"`
	ID      string `yaml:"id,omitempty"`
	Timeout string `yaml:"timeout,omitempty"`
}

// EnvConfig names the environment variable holding a full URL and the dotenv
// files merged into the environment before it is read.
type EnvConfig struct {
	Variable string   `yaml:"variable,omitempty"`
	Files    []string `yaml:"files,omitempty"`
}

type ConnectionConfig struct {
	Scheme         string `yaml:"scheme,omitempty"`
	ConnectTimeout string `yaml:"connect_timeout,omitempty"`
}

type Config struct {
	Secret     SecretConfig     `yaml:"secret"`
	Env        EnvConfig        `yaml:"env"`
	Connection ConnectionConfig `yaml:"connection"`
}

const ConfigFileName = "dbpool.yaml"

// Environment variables overriding file settings.
const (
	EnvSecretBackend = "DBPOOL_SECRET_BACKEND"
	EnvSecretRegion  = "DBPOOL_SECRET_REGION"
	EnvSecretID      = "DBPOOL_SECRET_ID"
	EnvScheme        = "DBPOOL_SCHEME"
)

var supportedSchemes = []string{"mysql", "postgres", "postgresql"}

func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %v: %w", configPath, err, poolcache.ErrInvalidConfig)
	}
	return &cfg, nil
}

// LoadOrDefault is Load with a missing file treated as an empty config.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if errors.Is(err, ErrConfigNotFound) {
		return &Config{}, nil
	}
	return cfg, err
}

// ApplyEnv overrides file settings with non-empty DBPOOL_* variables.
// A nil lookup reads the process environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(&c.Secret.Backend, EnvSecretBackend)
	set(&c.Secret.Region, EnvSecretRegion)
	set(&c.Secret.ID, EnvSecretID)
	set(&c.Connection.Scheme, EnvScheme)
}

// Validate reports every invalid setting at once. The returned error wraps
// poolcache.ErrInvalidConfig.
func (c *Config) Validate() error {
	var problems []string

	switch strings.ToLower(c.Secret.Backend) {
	case "", secrets.BackendAWS, secrets.BackendAzure:
	default:
		problems = append(problems, fmt.Sprintf("secret.backend %q must be %q or %q",
			c.Secret.Backend, secrets.BackendAWS, secrets.BackendAzure))
	}
	if strings.EqualFold(c.Secret.Backend, secrets.BackendAzure) && c.Secret.ID != "" && c.Secret.Region == "" {
		problems = append(problems, "secret.region must name the key vault when secret.backend is azure")
	}
	if _, err := parseDuration(c.Secret.Timeout); err != nil {
		problems = append(problems, fmt.Sprintf("secret.timeout: %v", err))
	}
	if _, err := parseDuration(c.Connection.ConnectTimeout); err != nil {
		problems = append(problems, fmt.Sprintf("connection.connect_timeout: %v", err))
	}
	if s := c.Connection.Scheme; s != "" && !isSupportedScheme(s) {
		problems = append(problems, fmt.Sprintf("connection.scheme %q must be one of %s",
			s, strings.Join(supportedSchemes, ", ")))
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %w", strings.Join(problems, "; "), poolcache.ErrInvalidConfig)
}

// HasSecret reports whether a remote secret is configured.
func (c *Config) HasSecret() bool {
	return c.Secret.ID != ""
}

// Scheme returns the configured URL scheme, lower-cased, or DefaultScheme.
func (c *Config) Scheme() string {
	if c.Connection.Scheme == "" {
		return poolcache.DefaultScheme
	}
	return strings.ToLower(c.Connection.Scheme)
}

// SecretTimeout returns the secret fetch timeout or DefaultSecretTimeout.
// Call Validate first; an unparseable value also yields the default.
func (c *Config) SecretTimeout() time.Duration {
	d, err := parseDuration(c.Secret.Timeout)
	if err != nil || d == 0 {
		return poolcache.DefaultSecretTimeout
	}
	return d
}

// ConnectTimeout returns the pool connect timeout or DefaultConnectTimeout.
func (c *Config) ConnectTimeout() time.Duration {
	d, err := parseDuration(c.Connection.ConnectTimeout)
	if err != nil || d == 0 {
		return poolcache.DefaultConnectTimeout
	}
	return d
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", s)
	}
	return d, nil
}

func isSupportedScheme(s string) bool {
	for _, supported := range supportedSchemes {
		if strings.EqualFold(s, supported) {
			return true
		}
	}
	return false
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces every environment variable the service reads.
const envPrefix = "DAMLEVELS_"

// Config holds all service settings. Values come from defaults, then an
// optional YAML file named by DAMLEVELS_CONFIG, then DAMLEVELS_* env
// vars, each layer overriding the previous one.
type Config struct {
	SheetURL        string        `koanf:"sheet_url"`
	HTTPAddr        string        `koanf:"http_addr"`
	LogLevel        string        `koanf:"log_level"`
	LogFormat       string        `koanf:"log_format"`
	FetchTimeout    time.Duration `koanf:"fetch_timeout"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// defaults is the baseline configuration. The sheet URL has no default:
// without one the service starts degraded and reports not-ready until a
// URL is configured.
func defaults() Config {
	return Config{
		HTTPAddr:        ":8080",
		LogLevel:        "info",
		LogFormat:       "json",
		FetchTimeout:    15 * time.Second,
		CacheTTL:        5 * time.Minute,
		RefreshInterval: 5 * time.Minute,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load assembles and validates the service configuration.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPAddr == "" {
		return errors.New("http_addr is required")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("log_format must be json or text, got %q", c.LogFormat)
	}
	if c.FetchTimeout <= 0 {
		return errors.New("fetch_timeout must be positive")
	}
	if c.CacheTTL <= 0 {
		return errors.New("cache_ttl must be positive")
	}
	if c.RefreshInterval <= 0 {
		return errors.New("refresh_interval must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	return nil
}

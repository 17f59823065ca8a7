// Package config holds runtime configuration for the service and the CLI.
//
// Values are layered: Default(), then a config file (YAML, TOML or JSON),
// then WEBSCRAPE_* environment variables. Command-line flags are applied last
// by the cmd package.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"
)

// Config is the single-file configuration schema.
type Config struct {
	Server struct {
		Host                string `yaml:"host" toml:"host" json:"host"`
		Port                int    `yaml:"port" toml:"port" json:"port"`
		ReadTimeoutSeconds  int    `yaml:"readTimeoutSeconds" toml:"read_timeout_seconds" json:"readTimeoutSeconds"`
		WriteTimeoutSeconds int    `yaml:"writeTimeoutSeconds" toml:"write_timeout_seconds" json:"writeTimeoutSeconds"`
	} `yaml:"server" toml:"server" json:"server"`

	Fetch struct {
		TimeoutSeconds int    `yaml:"timeoutSeconds" toml:"timeout_seconds" json:"timeoutSeconds"`
		UserAgent      string `yaml:"userAgent" toml:"user_agent" json:"userAgent"`
		MaxBodyBytes   int64  `yaml:"maxBodyBytes" toml:"max_body_bytes" json:"maxBodyBytes"`
	} `yaml:"fetch" toml:"fetch" json:"fetch"`

	Store struct {
		Enabled bool   `yaml:"enabled" toml:"enabled" json:"enabled"`
		Path    string `yaml:"path" toml:"path" json:"path"`
	} `yaml:"store" toml:"store" json:"store"`

	Crawl struct {
		MaxPages      int     `yaml:"maxPages" toml:"max_pages" json:"maxPages"`
		Concurrency   int     `yaml:"concurrency" toml:"concurrency" json:"concurrency"`
		RateLimit     float64 `yaml:"rateLimit" toml:"rate_limit" json:"rateLimit"`
		RespectRobots bool    `yaml:"respectRobots" toml:"respect_robots" json:"respectRobots"`
	} `yaml:"crawl" toml:"crawl" json:"crawl"`

	Log struct {
		Level  string `yaml:"level" toml:"level" json:"level"`
		Format string `yaml:"format" toml:"format" json:"format"`
	} `yaml:"log" toml:"log" json:"log"`
}

// Default returns a config with default values.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 5000
	cfg.Server.ReadTimeoutSeconds = 15
	cfg.Server.WriteTimeoutSeconds = 30
	cfg.Fetch.TimeoutSeconds = 10
	cfg.Fetch.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	cfg.Fetch.MaxBodyBytes = 10 << 20
	cfg.Store.Path = "scrape_results.jsonl"
	cfg.Crawl.MaxPages = 100
	cfg.Crawl.Concurrency = 4
	cfg.Crawl.RateLimit = 2
	cfg.Crawl.RespectRobots = true
	cfg.Log.Level = "info"
	cfg.Log.Format = "console"
	return cfg
}

// Load builds the effective config: defaults, then the file at path (if
// non-empty), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFile decodes the file over cfg; fields absent from the file keep
// their current values.
func (cfg *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return fmt.Errorf("parse yaml: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, cfg); err != nil {
			return fmt.Errorf("parse toml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, cfg); err != nil {
			return fmt.Errorf("parse json: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file extension %q", ext)
	}
	return nil
}

// ApplyEnv overrides cfg fields with WEBSCRAPE_* environment variables that
// are set. Malformed numbers and booleans are reported, not ignored.
func ApplyEnv(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	var errs []error

	setString := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	setBool := func(dst *bool, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "1", "true", "yes", "on":
				*dst = true
			case "0", "false", "no", "off":
				*dst = false
			default:
				errs = append(errs, fmt.Errorf("%s: invalid boolean %q", key, v))
			}
		}
	}

	setString(&cfg.Server.Host, "WEBSCRAPE_HOST")
	setInt(&cfg.Server.Port, "WEBSCRAPE_PORT")
	setInt(&cfg.Fetch.TimeoutSeconds, "WEBSCRAPE_FETCH_TIMEOUT")
	setString(&cfg.Fetch.UserAgent, "WEBSCRAPE_USER_AGENT")
	setBool(&cfg.Store.Enabled, "WEBSCRAPE_STORE_ENABLED")
	setString(&cfg.Store.Path, "WEBSCRAPE_STORE_PATH")
	setInt(&cfg.Crawl.MaxPages, "WEBSCRAPE_CRAWL_MAX_PAGES")
	setInt(&cfg.Crawl.Concurrency, "WEBSCRAPE_CRAWL_CONCURRENCY")
	setBool(&cfg.Crawl.RespectRobots, "WEBSCRAPE_CRAWL_RESPECT_ROBOTS")
	setString(&cfg.Log.Level, "WEBSCRAPE_LOG_LEVEL")
	setString(&cfg.Log.Format, "WEBSCRAPE_LOG_FORMAT")

	if v, ok := os.LookupEnv("WEBSCRAPE_CRAWL_RATE_LIMIT"); ok && v != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("WEBSCRAPE_CRAWL_RATE_LIMIT: %w", err))
		} else {
			cfg.Crawl.RateLimit = f
		}
	}
	return errors.Join(errs...)
}

// Validate rejects settings the service cannot run with.
func (cfg *Config) Validate() error {
	switch {
	case cfg.Server.Port <= 0 || cfg.Server.Port > 65535:
		return fmt.Errorf("config: server.port %d out of range", cfg.Server.Port)
	case cfg.Fetch.TimeoutSeconds <= 0:
		return errors.New("config: fetch.timeoutSeconds must be positive")
	case cfg.Fetch.MaxBodyBytes <= 0:
		return errors.New("config: fetch.maxBodyBytes must be positive")
	case cfg.Crawl.MaxPages <= 0 || cfg.Crawl.Concurrency <= 0:
		return errors.New("config: crawl limits must be positive")
	case cfg.Crawl.RateLimit <= 0:
		return errors.New("config: crawl.rateLimit must be positive")
	case cfg.Store.Enabled && strings.TrimSpace(cfg.Store.Path) == "":
		return errors.New("config: store.path is required when the store is enabled")
	}
	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: log.format must be console or json, got %q", cfg.Log.Format)
	}
	return nil
}

// FetchTimeout returns the fetch timeout as a duration.
func (cfg *Config) FetchTimeout() time.Duration {
	return time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second
}

// Addr returns the listen address of the HTTP server.
func (cfg *Config) Addr() string {
	return fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
}

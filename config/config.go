// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Notion      NotionConfig      `yaml:"notion"`
	Models      ModelsConfig      `yaml:"models"`
	Collections map[string]string `yaml:"collections"` // model name -> collection id
	Logging     LoggingConfig     `yaml:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// NotionConfig configures the remote database service.
type NotionConfig struct {
	Token    string            `yaml:"token"`
	BaseURL  string            `yaml:"base_url"`
	Version  string            `yaml:"version"`
	Timeout  time.Duration     `yaml:"timeout"`
	ParentID string            `yaml:"parent_id"` // page that new collections are created under
	Headers  map[string]string `yaml:"headers,omitempty"`
}

// ModelsConfig locates model definition files.
type ModelsConfig struct {
	Dir   string   `yaml:"dir"`
	Files []string `yaml:"files,omitempty"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Textfile string `yaml:"textfile"` // written on exit, for the node exporter textfile collector
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
//
// Environment variables:
//
//	NOTIONORM_TOKEN           - Integration token (falls back to NOTION_API_KEY)
//	NOTIONORM_BASE_URL        - API base URL (default: https://api.notion.com)
//	NOTIONORM_VERSION         - Notion-Version header (default: 2022-06-28)
//	NOTIONORM_TIMEOUT         - Request timeout (default: 30s)
//	NOTIONORM_PARENT_ID       - Parent page for migrate
//	NOTIONORM_MODELS_DIR      - Directory of model definitions (default: models)
//	NOTIONORM_LOG_LEVEL       - Log level: debug, info, warn, error (default: info)
//	NOTIONORM_LOG_FORMAT      - Log format: json or console (default: console)
//	NOTIONORM_METRICS_ENABLED - Collect gateway metrics (default: false)
//	NOTIONORM_METRICS_FILE    - Write metrics to this file on exit
func LoadFromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback tries to load from file, falls back to environment variables.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	if HasEnvConfig() {
		return LoadFromEnv()
	}

	return nil, fmt.Errorf("no configuration found: provide config file or set NOTIONORM_TOKEN")
}

// HasEnvConfig returns true if a token is available from the environment.
func HasEnvConfig() bool {
	return envToken() != ""
}

func envToken() string {
	if v := os.Getenv("NOTIONORM_TOKEN"); v != "" {
		return v
	}
	return os.Getenv("NOTION_API_KEY")
}

// applyEnvOverrides applies NOTIONORM_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := envToken(); v != "" {
		cfg.Notion.Token = v
	}
	if v := os.Getenv("NOTIONORM_BASE_URL"); v != "" {
		cfg.Notion.BaseURL = v
	}
	if v := os.Getenv("NOTIONORM_VERSION"); v != "" {
		cfg.Notion.Version = v
	}
	if v := os.Getenv("NOTIONORM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Notion.Timeout = d
		}
	}
	if v := os.Getenv("NOTIONORM_PARENT_ID"); v != "" {
		cfg.Notion.ParentID = v
	}

	if v := os.Getenv("NOTIONORM_MODELS_DIR"); v != "" {
		cfg.Models.Dir = v
	}

	if v := os.Getenv("NOTIONORM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("NOTIONORM_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	if v := os.Getenv("NOTIONORM_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("NOTIONORM_METRICS_FILE"); v != "" {
		cfg.Metrics.Textfile = v
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Notion.BaseURL == "" {
		cfg.Notion.BaseURL = "https://api.notion.com"
	}
	if cfg.Notion.Version == "" {
		cfg.Notion.Version = "2022-06-28"
	}
	if cfg.Notion.Timeout == 0 {
		cfg.Notion.Timeout = 30 * time.Second
	}

	if cfg.Models.Dir == "" && len(cfg.Models.Files) == 0 {
		cfg.Models.Dir = "models"
	}
	if cfg.Collections == nil {
		cfg.Collections = map[string]string{}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func validate(cfg *Config) error {
	if cfg.Notion.Token == "" {
		return fmt.Errorf("notion.token is required")
	}
	if !strings.HasPrefix(cfg.Notion.BaseURL, "http://") && !strings.HasPrefix(cfg.Notion.BaseURL, "https://") {
		return fmt.Errorf("notion.base_url must be an http(s) URL, got %q", cfg.Notion.BaseURL)
	}
	if cfg.Notion.Timeout < 0 {
		return fmt.Errorf("notion.timeout must not be negative")
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Textfile != "" && !cfg.Metrics.Enabled {
		return fmt.Errorf("metrics.textfile requires metrics.enabled")
	}

	for model, id := range cfg.Collections {
		if id == "" {
			return fmt.Errorf("collections.%s must not be empty", model)
		}
	}

	return nil
}

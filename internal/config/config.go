package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config is the client configuration loaded from JSON.
type Config struct {
	API    APIConfig    `json:"api"`
	Server ServerConfig `json:"server"`
	Log    LogConfig    `json:"log"`
}

// APIConfig locates the analysis backend.
type APIConfig struct {
	BaseURL          string `json:"baseUrl"`
	DialTimeoutMs    int    `json:"dialTimeoutMs"`
	MaxResponseBytes int64  `json:"maxResponseBytes"`
}

// ServerConfig holds settings for the web front end.
type ServerConfig struct {
	Addr           string   `json:"addr"`
	AllowOrigins   []string `json:"allowOrigins"`
	RefreshSeconds int      `json:"refreshSeconds"`
}

type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // text or json
}

const (
	EnvAPIURL = "MISINFOGUARD_API_URL"

	DefaultBaseURL          = "http://localhost:8000"
	DefaultDialTimeoutMs    = 5000
	DefaultMaxResponseBytes = 5 * 1024 * 1024
	DefaultAddr             = ":8080"
	DefaultRefreshSeconds   = 2
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
)

func (a APIConfig) DialTimeout() time.Duration {
	return time.Duration(a.DialTimeoutMs) * time.Millisecond
}

// Load reads path (when non-empty), applies the environment override and
// defaults, and validates.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config: %w", err)
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.API.BaseURL = v
	}
	applyDefaults(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.API.DialTimeoutMs == 0 {
		cfg.API.DialTimeoutMs = DefaultDialTimeoutMs
	}
	if cfg.API.MaxResponseBytes == 0 {
		cfg.API.MaxResponseBytes = DefaultMaxResponseBytes
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if len(cfg.Server.AllowOrigins) == 0 {
		cfg.Server.AllowOrigins = []string{"*"}
	}
	if cfg.Server.RefreshSeconds == 0 {
		cfg.Server.RefreshSeconds = DefaultRefreshSeconds
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// Validate checks a config that already has defaults applied. Entry points
// call it again after applying flag overrides.
func Validate(cfg Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.baseUrl must be an absolute http(s) url, got %q", cfg.API.BaseURL)
	}
	if cfg.API.DialTimeoutMs < 0 {
		return fmt.Errorf("api.dialTimeoutMs must not be negative")
	}
	if cfg.API.MaxResponseBytes < 0 {
		return fmt.Errorf("api.maxResponseBytes must not be negative")
	}
	if cfg.Server.RefreshSeconds < 0 {
		return fmt.Errorf("server.refreshSeconds must not be negative")
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be %q or %q, got %q", "text", "json", cfg.Log.Format)
	}
	return nil
}

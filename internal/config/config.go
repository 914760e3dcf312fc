package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Digital-Shane/kinopoisk-meta/internal/provider/dev"
	"github.com/Digital-Shane/kinopoisk-meta/internal/provider/unofficial"
	"github.com/Digital-Shane/kinopoisk-meta/internal/provider/upstream"
	"github.com/hashicorp/go-hclog"
)

// APITypes lists the provider identifiers api_type accepts
var APITypes = []string{unofficial.Name, dev.Name}

// Config holds the runtime settings for every command
type Config struct {
	APIType string `json:"api_type"`
	Token   string `json:"token"`

	EnableLogging    bool   `json:"enable_logging"`
	LogRetentionDays int    `json:"log_retention_days"`
	LogLevel         string `json:"log_level"`

	// Upstream client settings
	RequestTimeoutSeconds int `json:"request_timeout_seconds"`
	MaxRetries            int `json:"max_retries"`
	RetryBaseDelayMs      int `json:"retry_base_delay_ms"`
	RateLimitPerSecond    int `json:"rate_limit_per_second"`

	CreateSequenceCollections bool `json:"create_sequence_collections"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	retry := upstream.DefaultRetryPolicy()
	return &Config{
		APIType:                   unofficial.Name,
		Token:                     "",
		EnableLogging:             true,
		LogRetentionDays:          30,
		LogLevel:                  "warn",
		RequestTimeoutSeconds:     30,
		MaxRetries:                int(retry.MaxRetries),
		RetryBaseDelayMs:          int(retry.BaseDelay / time.Millisecond),
		RateLimitPerSecond:        20,
		CreateSequenceCollections: false,
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Dir returns the directory holding the config file and activity logs
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".kinopoisk-meta"), nil
}

// Load reads the configuration from disk
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the configuration at path; a missing file yields the defaults
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Keys missing from the file keep their default values
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Fill in blank strings with defaults
	defaults := DefaultConfig()
	if cfg.APIType == "" {
		cfg.APIType = defaults.APIType
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	if cfg.RequestTimeoutSeconds == 0 {
		cfg.RequestTimeoutSeconds = defaults.RequestTimeoutSeconds
	}

	return cfg, nil
}

// Save writes the configuration to disk
func (cfg *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return cfg.SaveFile(path)
}

// SaveFile writes the configuration to path, creating its directory
func (cfg *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The token is a credential
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate reports the first setting that cannot be used
func (cfg *Config) Validate() error {
	if !slices.Contains(APITypes, cfg.APIType) {
		return fmt.Errorf("api_type %q is not one of %s", cfg.APIType, strings.Join(APITypes, ", "))
	}
	if hclog.LevelFromString(cfg.LogLevel) == hclog.NoLevel {
		return fmt.Errorf("log_level %q is not a valid level", cfg.LogLevel)
	}
	if cfg.LogRetentionDays < 0 {
		return fmt.Errorf("log_retention_days must not be negative")
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive")
	}
	if cfg.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	if cfg.RetryBaseDelayMs <= 0 {
		return fmt.Errorf("retry_base_delay_ms must be positive")
	}
	if cfg.RateLimitPerSecond < 0 {
		return fmt.Errorf("rate_limit_per_second must not be negative")
	}
	return nil
}

// Keys lists the settable keys in file order
func Keys() []string {
	return []string{
		"api_type",
		"token",
		"enable_logging",
		"log_retention_days",
		"log_level",
		"request_timeout_seconds",
		"max_retries",
		"retry_base_delay_ms",
		"rate_limit_per_second",
		"create_sequence_collections",
	}
}

// Set assigns value to the setting named by its JSON key and validates the result
func (cfg *Config) Set(key, value string) error {
	next := *cfg
	var err error
	switch key {
	case "api_type":
		next.APIType = value
	case "token":
		next.Token = strings.TrimSpace(value)
	case "log_level":
		next.LogLevel = strings.ToLower(value)
	case "enable_logging":
		next.EnableLogging, err = strconv.ParseBool(value)
	case "create_sequence_collections":
		next.CreateSequenceCollections, err = strconv.ParseBool(value)
	case "log_retention_days":
		next.LogRetentionDays, err = strconv.Atoi(value)
	case "request_timeout_seconds":
		next.RequestTimeoutSeconds, err = strconv.Atoi(value)
	case "max_retries":
		next.MaxRetries, err = strconv.Atoi(value)
	case "retry_base_delay_ms":
		next.RetryBaseDelayMs, err = strconv.Atoi(value)
	case "rate_limit_per_second":
		next.RateLimitPerSecond, err = strconv.Atoi(value)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*cfg = next
	return nil
}

// Get returns the setting named by its JSON key formatted for display
func (cfg *Config) Get(key string) (string, error) {
	switch key {
	case "api_type":
		return cfg.APIType, nil
	case "token":
		return cfg.Token, nil
	case "log_level":
		return cfg.LogLevel, nil
	case "enable_logging":
		return strconv.FormatBool(cfg.EnableLogging), nil
	case "create_sequence_collections":
		return strconv.FormatBool(cfg.CreateSequenceCollections), nil
	case "log_retention_days":
		return strconv.Itoa(cfg.LogRetentionDays), nil
	case "request_timeout_seconds":
		return strconv.Itoa(cfg.RequestTimeoutSeconds), nil
	case "max_retries":
		return strconv.Itoa(cfg.MaxRetries), nil
	case "retry_base_delay_ms":
		return strconv.Itoa(cfg.RetryBaseDelayMs), nil
	case "rate_limit_per_second":
		return strconv.Itoa(cfg.RateLimitPerSecond), nil
	}
	return "", fmt.Errorf("unknown config key %q", key)
}

// RequestTimeout returns the per-request HTTP timeout
func (cfg *Config) RequestTimeout() time.Duration {
	return time.Duration(cfg.RequestTimeoutSeconds) * time.Second
}

// RetryPolicy returns the throttling backoff derived from the settings
func (cfg *Config) RetryPolicy() upstream.RetryPolicy {
	policy := upstream.DefaultRetryPolicy()
	policy.MaxRetries = uint64(max(cfg.MaxRetries, 0))
	if cfg.RetryBaseDelayMs > 0 {
		policy.BaseDelay = time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond
	}
	if policy.MaxDelay < policy.BaseDelay {
		policy.MaxDelay = policy.BaseDelay
	}
	return policy
}

// Level returns the hclog level for log_level, defaulting to warn
func (cfg *Config) Level() hclog.Level {
	if level := hclog.LevelFromString(cfg.LogLevel); level != hclog.NoLevel {
		return level
	}
	return hclog.Warn
}

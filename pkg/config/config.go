// Package config loads online-check settings from file and environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/online-check/pkg/idle"
	"github.com/Veraticus/online-check/pkg/logging"
)

// AppName names the per-user config directory.
const AppName = "online-check"

// FileName is the default settings file name.
const FileName = "settings.json"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ONLINE_CHECK_"

// MinInterval is the shortest accepted report interval.
const MinInterval = time.Second

// Config holds all configuration for online-check
type Config struct {
	// Reporting target
	URL   string `json:"url" yaml:"url" toml:"url"`
	Token string `json:"token" yaml:"token" toml:"token"`

	Interval Duration `json:"interval" yaml:"interval" toml:"interval"`

	// Behavior flags
	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level"`
	Quiet     bool   `json:"quiet" yaml:"quiet" toml:"quiet"`
	Autostart bool   `json:"autostart" yaml:"autostart" toml:"autostart"`

	IdleSource  string `json:"idle_source" yaml:"idle_source" toml:"idle_source"`
	HistorySize int    `json:"history_size" yaml:"history_size" toml:"history_size"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Interval:    Duration(60 * time.Second),
		LogLevel:    "info",
		Autostart:   true,
		IdleSource:  idle.SourceAuto,
		HistorySize: 50,
	}
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Load loads configuration from path and the environment. An empty path
// uses ConfigPath. A missing file is created with the defaults.
func Load(path string) (*Config, error) {
	loadDotEnv()

	if path == "" {
		path = ConfigPath()
	}

	cfg, err := loadOrCreate(path)
	if err != nil {
		return nil, err
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFile reads path without creating it or applying the environment.
func LoadFile(path string) (*Config, error) {
	// #nosec G304 - The config file path comes from trusted sources (flag, env var or standard location)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

func loadOrCreate(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
		if err := Save(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to create config file: %w", err)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	return cfg, nil
}

// ConfigPath returns the settings file path
func ConfigPath() string {
	if path := os.Getenv(EnvPrefix + "CONFIG"); path != "" {
		return path
	}

	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, AppName, FileName)
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", AppName, FileName)
	}

	return FileName
}

// loadDotEnv loads .env from the working directory when present.
func loadDotEnv() {
	_ = godotenv.Load()
}

// decode parses data in the format implied by the extension of path.
func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	default:
		if len(strings.TrimSpace(string(data))) == 0 {
			return nil
		}
		return json.Unmarshal(data, cfg)
	}
}

// encode renders cfg in the format implied by the extension of path.
func encode(path string, cfg *Config) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Marshal(cfg)
	case ".toml":
		var sb strings.Builder
		if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
			return nil, err
		}
		return []byte(sb.String()), nil
	default:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// Save writes cfg to path, creating the directory if needed.
func Save(cfg *Config, path string) error {
	data, err := encode(path, cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	// Replace via rename so readers see either the old or the new file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// ApplyEnv overrides cfg with ONLINE_CHECK_* environment variables.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv(EnvPrefix + "URL"); v != "" {
		cfg.URL = v
	}

	if v := os.Getenv(EnvPrefix + "TOKEN"); v != "" {
		cfg.Token = v
	}

	if v := os.Getenv(EnvPrefix + "INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sINTERVAL: %w", EnvPrefix, err)
		}
		cfg.Interval = Duration(d)
	}

	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv(EnvPrefix + "IDLE_SOURCE"); v != "" {
		cfg.IdleSource = v
	}

	for _, b := range []struct {
		name string
		dst  *bool
	}{
		{"QUIET", &cfg.Quiet},
		{"AUTOSTART", &cfg.Autostart},
	} {
		v := os.Getenv(EnvPrefix + b.name)
		if v == "" {
			continue
		}
		parsed, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s value: %q (use true/false)", EnvPrefix, b.name, v)
		}
		*b.dst = parsed
	}

	return nil
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	return strconv.ParseBool(v)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.URL != "" {
		u, err := url.Parse(c.URL)
		if err != nil {
			return fmt.Errorf("url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("url must use http or https, got %q", c.URL)
		}
		if u.Host == "" {
			return fmt.Errorf("url has no host: %q", c.URL)
		}
	}

	if c.Interval.Duration() < MinInterval {
		return fmt.Errorf("interval must be at least %s", MinInterval)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	switch c.IdleSource {
	case "", idle.SourceAuto, idle.SourceStatic:
	default:
		return fmt.Errorf("idle_source must be %q or %q, got %q", idle.SourceAuto, idle.SourceStatic, c.IdleSource)
	}

	if c.HistorySize < 0 {
		return fmt.Errorf("history_size must be non-negative")
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

type Config struct {
	Backend   string         `toml:"backend"`
	Currency  string         `toml:"currency"`
	WeekStart string         `toml:"week_start"`
	Database  DatabaseConfig `toml:"database"`
	Remote    RemoteConfig   `toml:"remote"`
	Log       LogConfig      `toml:"log"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// RemoteConfig points at the hosted backend (PostgREST + GoTrue).
type RemoteConfig struct {
	URL        string `toml:"url"`
	AnonKey    string `toml:"anon_key"`
	TimeoutMs  int    `toml:"timeout_ms"`
	MaxRetries int    `toml:"max_retries"`
}

func (r RemoteConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutMs) * time.Millisecond
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// HomeDir returns $SHIFTBOOK_HOME, or ~/.shiftbook when unset.
func HomeDir() (string, error) {
	if v := os.Getenv("SHIFTBOOK_HOME"); v != "" {
		return expandPath(v), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".shiftbook"), nil
}

func DefaultPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultConfig returns the local-backend configuration rooted at dir.
func DefaultConfig(dir string) *Config {
	return &Config{
		Backend:   BackendLocal,
		Currency:  "¥",
		WeekStart: "sunday",
		Database:  DatabaseConfig{Path: filepath.Join(dir, "shiftbook.db")},
		Remote:    RemoteConfig{TimeoutMs: 10000, MaxRetries: 2},
		Log:       LogConfig{Level: "info", File: filepath.Join(dir, "shiftbook.log")},
	}
}

// Load reads the config file at path (DefaultPath when empty), writing one
// with defaults if it does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolving config path: %w", err)
		}
		path = p
	}
	path = expandPath(path)

	cfg := DefaultConfig(filepath.Dir(path))

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
	} else if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	applyEnv(cfg)
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Log.File = expandPath(cfg.Log.File)
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SHIFTBOOK_BACKEND"); v != "" {
		cfg.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("SHIFTBOOK_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("SHIFTBOOK_REMOTE_URL"); v != "" {
		cfg.Remote.URL = v
	}
	if v := os.Getenv("SHIFTBOOK_REMOTE_ANON_KEY"); v != "" {
		cfg.Remote.AnonKey = v
	}
	if v := os.Getenv("SHIFTBOOK_REMOTE_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Remote.TimeoutMs = n
		}
	}
	if v := os.Getenv("SHIFTBOOK_REMOTE_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Remote.MaxRetries = n
		}
	}
	if v := os.Getenv("SHIFTBOOK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate rejects configurations the CLI cannot start with.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendLocal:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the local backend")
		}
	case BackendRemote:
		if c.Remote.URL == "" || c.Remote.AnonKey == "" {
			return fmt.Errorf("remote.url and remote.anon_key are required for the remote backend")
		}
	default:
		return fmt.Errorf("unknown backend %q (use %q or %q)", c.Backend, BackendLocal, BackendRemote)
	}
	switch strings.ToLower(c.WeekStart) {
	case "", "sunday", "monday":
	default:
		return fmt.Errorf("week_start must be sunday or monday, got %q", c.WeekStart)
	}
	return nil
}

// FirstWeekday maps week_start to a time.Weekday.
func (c *Config) FirstWeekday() time.Weekday {
	if strings.EqualFold(c.WeekStart, "monday") {
		return time.Monday
	}
	return time.Sunday
}

func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

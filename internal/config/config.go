package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	UserID        string         `toml:"user_id"`
	Service       ServiceConfig  `toml:"service"`
	Profiles      ProfilesConfig `toml:"profiles"`
	AI            AIConfig       `toml:"ai"`
	Notifications NotifyConfig   `toml:"notifications"`
	Calendar      CalendarConfig `toml:"calendar"`
	Storage       StorageConfig  `toml:"storage"`
}

// ServiceConfig points at the plan generation service.
type ServiceConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxRetries     int    `toml:"max_retries"`
}

// ProfilesConfig points at the backend holding user profiles.
type ProfilesConfig struct {
	URL             string `toml:"url"`
	AnonKey         string `toml:"anon_key"`
	CacheTTLSeconds int    `toml:"cache_ttl_seconds"`
}

type AIConfig struct {
	Provider string `toml:"provider"` // "service" or "openai"
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type NotifyConfig struct {
	Enabled     bool `toml:"enabled"`
	LeadMinutes int  `toml:"lead_minutes"`
	Celebrate   bool `toml:"celebrate"`
}

type CalendarConfig struct {
	EventMinutes int `toml:"event_minutes"`
}

type StorageConfig struct {
	Path string `toml:"path"`
}

func DefaultConfig() Config {
	return Config{
		Service: ServiceConfig{
			BaseURL:        "http://127.0.0.1:5000",
			TimeoutSeconds: 120,
			MaxRetries:     0,
		},
		Profiles: ProfilesConfig{
			CacheTTLSeconds: 60,
		},
		AI: AIConfig{
			Provider: "service",
			Model:    "gpt-4o-mini",
		},
		Notifications: NotifyConfig{
			Enabled:     true,
			LeadMinutes: 5,
			Celebrate:   true,
		},
		Calendar: CalendarConfig{
			EventMinutes: 30,
		},
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "wellsync"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DatabasePath returns the configured database location, defaulting to
// wellsync.db in the config directory.
func (c *Config) DatabasePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "wellsync.db"), nil
}

func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. A missing file yields the defaults.
// Environment variables override both.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WELLSYNC_USER_ID"); v != "" {
		cfg.UserID = v
	}
	if v := os.Getenv("WELLSYNC_API_URL"); v != "" {
		cfg.Service.BaseURL = v
	}
	if v := os.Getenv("WELLSYNC_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Service.MaxRetries = n
		}
	}
	if v := os.Getenv("SUPABASE_URL"); v != "" {
		cfg.Profiles.URL = v
	}
	if v := os.Getenv("SUPABASE_ANON_KEY"); v != "" {
		cfg.Profiles.AnonKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
}

func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// SaveUserID persists the user ID to the config file using a
// read-modify-write approach to preserve other settings.
func SaveUserID(userID string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	return saveKey(path, "user_id", userID)
}

func saveKey(path, key string, value any) error {
	cfg := make(map[string]any)

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}
	if len(data) > 0 {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg[key] = value

	out, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}

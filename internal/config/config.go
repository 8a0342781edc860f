package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Storage StorageConfig
	LLM     LLMConfig
	UI      UIConfig
	Log     LogConfig
}

// StorageConfig selects where the store and note live.
type StorageConfig struct {
	Backend string // "sqlite" or "file"
	Path    string // sqlite database file, or directory for the file backend
}

// LLMConfig holds summary provider settings.
type LLMConfig struct {
	Provider  string // "gemini", "openai" or "local"
	APIKeyEnv string `mapstructure:"api_key_env"`
	APIKey    string `mapstructure:"api_key"`
	Model     string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Timezone  string
	WeekStart string `mapstructure:"week_start"`
}

// LogConfig controls the log file; the terminal belongs to the TUI.
type LogConfig struct {
	Level string
	Path  string
}

// Location resolves UI.Timezone, falling back to the local zone.
func (c Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.UI.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Local, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	return loc, nil
}

// WeekStartsMonday reports whether calendar rows start on Monday.
func (c Config) WeekStartsMonday() bool {
	return strings.EqualFold(strings.TrimSpace(c.UI.WeekStart), "monday")
}

func dataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "daytally")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "daytally")
}

// Path returns the config file location: DAYTALLY_CONFIG or
// $XDG_CONFIG_HOME/daytally/config.toml.
func Path() string {
	if p := os.Getenv("DAYTALLY_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "daytally", "config.toml")
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Storage: StorageConfig{Backend: "sqlite", Path: filepath.Join(dataDir(), "daytally.db")},
		LLM:     LLMConfig{Provider: "gemini"},
		UI:      UIConfig{Timezone: "Local", WeekStart: "sunday"},
		Log:     LogConfig{Level: "info", Path: filepath.Join(dataDir(), "daytally.log")},
	}
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("storage.backend", c.Storage.Backend)
	v.SetDefault("storage.path", c.Storage.Path)
	v.SetDefault("llm.provider", c.LLM.Provider)
	v.SetDefault("llm.api_key_env", c.LLM.APIKeyEnv)
	v.SetDefault("llm.api_key", c.LLM.APIKey)
	v.SetDefault("llm.model", c.LLM.Model)
	v.SetDefault("ui.timezone", c.UI.Timezone)
	v.SetDefault("ui.week_start", c.UI.WeekStart)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.path", c.Log.Path)
}

// Load reads configuration from file and env. Env var overrides use prefix DAYTALLY_.
// An explicit path wins over DAYTALLY_CONFIG; a missing file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()

	setDefaults(v, Defaults())

	v.SetConfigType("toml")
	if path == "" {
		path = Path()
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix("DAYTALLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// providerDefaults fills llm.api_key_env and llm.model when left empty.
var providerDefaults = map[string]struct{ keyEnv, model string }{
	"gemini": {"GEMINI_API_KEY", "gemini-2.5-flash"},
	"openai": {"OPENAI_API_KEY", "gpt-4o-mini"},
	"local":  {"", ""},
}

func (c *Config) validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case "sqlite", "file":
	default:
		return fmt.Errorf("config: unknown storage.backend %q", c.Storage.Backend)
	}
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	defaults, ok := providerDefaults[c.LLM.Provider]
	if !ok {
		return fmt.Errorf("config: unknown llm.provider %q", c.LLM.Provider)
	}
	if strings.TrimSpace(c.LLM.APIKeyEnv) == "" {
		c.LLM.APIKeyEnv = defaults.keyEnv
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		c.LLM.Model = defaults.model
	}
	return nil
}

// Save writes the provided config to path (Path() when empty), creating the
// config directory if needed. The API key is stored in plain text; prefer env vars.
func Save(cfg Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("llm.provider", cfg.LLM.Provider)
	v.Set("llm.api_key_env", cfg.LLM.APIKeyEnv)
	v.Set("llm.api_key", cfg.LLM.APIKey)
	v.Set("llm.model", cfg.LLM.Model)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.week_start", cfg.UI.WeekStart)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.path", cfg.Log.Path)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// WriteDefault saves Defaults to path (Path() when empty) unless a file is
// already there. It reports whether a file was written.
func WriteDefault(path string) (bool, error) {
	if path == "" {
		path = Path()
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config: %w", err)
	}
	cfg := Defaults()
	if err := cfg.validate(); err != nil {
		return false, err
	}
	if err := Save(cfg, path); err != nil {
		return false, err
	}
	return true, nil
}

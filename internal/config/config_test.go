package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Storage.Backend)
	require.Equal(t, "gemini", cfg.LLM.Provider)
	require.Equal(t, "GEMINI_API_KEY", cfg.LLM.APIKeyEnv)
	require.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	require.Equal(t, "info", cfg.Log.Level)
	require.Contains(t, cfg.Storage.Path, filepath.Join(".local", "share", "daytally"))

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, time.Local, loc)
	require.False(t, cfg.WeekStartsMonday())
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[storage]
backend = "file"
path = "/tmp/daytally-data"

[llm]
provider = "openai"
api_key_env = "OPENAI_API_KEY"
model = "gpt-4o-mini"

[ui]
timezone = "Asia/Shanghai"
week_start = "monday"
`), 0o600))
	t.Setenv("DAYTALLY_LLM_MODEL", "gpt-4.1-mini")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "file", cfg.Storage.Backend)
	require.Equal(t, "/tmp/daytally-data", cfg.Storage.Path)
	require.Equal(t, "openai", cfg.LLM.Provider)
	require.Equal(t, "OPENAI_API_KEY", cfg.LLM.APIKeyEnv)
	require.Equal(t, "gpt-4.1-mini", cfg.LLM.Model)
	require.True(t, cfg.WeekStartsMonday())

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, "Asia/Shanghai", loc.String())
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage]\nbackend = \"postgres\"\n"), 0o600))
	_, err := Load(path)
	require.ErrorContains(t, err, "storage.backend")
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage\nbackend ="), 0o600))
	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	in := Config{
		Storage: StorageConfig{Backend: "file", Path: "/data"},
		LLM:     LLMConfig{Provider: "local", APIKeyEnv: "X_KEY", Model: "m"},
		UI:      UIConfig{Timezone: "UTC", WeekStart: "monday"},
		Log:     LogConfig{Level: "debug", Path: "/tmp/d.log"},
	}
	require.NoError(t, Save(in, path))

	out, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestBadTimezoneFallsBack(t *testing.T) {
	cfg := Config{UI: UIConfig{Timezone: "Mars/Olympus"}}
	loc, err := cfg.Location()
	require.Error(t, err)
	require.Equal(t, time.Local, loc)
}

func TestProviderDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[llm]\nprovider = \"OpenAI\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "openai", cfg.LLM.Provider)
	require.Equal(t, "OPENAI_API_KEY", cfg.LLM.APIKeyEnv)
	require.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
}

func TestWriteDefaultOnlyOnce(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "")
	path := filepath.Join(t.TempDir(), "daytally", "config.toml")

	created, err := WriteDefault(path)
	require.NoError(t, err)
	require.True(t, created)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Storage.Backend)
	require.Equal(t, "GEMINI_API_KEY", cfg.LLM.APIKeyEnv)
	require.Equal(t, "sunday", cfg.UI.WeekStart)

	require.NoError(t, os.WriteFile(path, []byte("[ui]\nweek_start = \"monday\"\n"), 0o600))
	created, err = WriteDefault(path)
	require.NoError(t, err)
	require.False(t, created, "an existing file is left alone")

	cfg, err = Load(path)
	require.NoError(t, err)
	require.True(t, cfg.WeekStartsMonday())
}

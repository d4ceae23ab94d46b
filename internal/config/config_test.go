package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"WELLSYNC_USER_ID", "WELLSYNC_API_URL", "WELLSYNC_MAX_RETRIES", "SUPABASE_URL", "SUPABASE_ANON_KEY", "OPENAI_API_KEY", "OPENAI_BASE_URL"} {
		t.Setenv(k, "")
	}
}

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
	assert.Zero(t, cfg.Service.MaxRetries)
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
user_id = "u-42"

[service]
base_url = "https://plans.example.com"

[notifications]
lead_minutes = 15
`), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "u-42", cfg.UserID)
	assert.Equal(t, "https://plans.example.com", cfg.Service.BaseURL)
	assert.Equal(t, 120, cfg.Service.TimeoutSeconds)
	assert.Equal(t, 15, cfg.Notifications.LeadMinutes)
	assert.True(t, cfg.Notifications.Enabled)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`user_id = "from-file"`), 0644))

	t.Setenv("WELLSYNC_USER_ID", "from-env")
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("WELLSYNC_MAX_RETRIES", "2")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.UserID)
	assert.Equal(t, "https://proj.supabase.co", cfg.Profiles.URL)
	assert.Equal(t, "anon", cfg.Profiles.AnonKey)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.Equal(t, 2, cfg.Service.MaxRetries)
}

func TestLoadFileRejectsBadTOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("user_id = "), 0644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestSaveKeyPreservesOtherSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[service]\nbase_url = \"http://x\"\n"), 0644))

	require.NoError(t, saveKey(path, "user_id", "u-7"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, toml.Unmarshal(data, &got))
	assert.Equal(t, "u-7", got["user_id"])
	assert.Equal(t, "http://x", got["service"].(map[string]any)["base_url"])
}

func TestDatabasePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Path = "/tmp/custom.db"
	p, err := cfg.DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", p)
}

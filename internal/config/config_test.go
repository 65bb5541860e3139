package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "PORT", "SITE_KEY", "SESSION_CRYPTOKEY",
		"APP_ENV", "IS_DEV", "REDIS_URL", "DATABASE_URL", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadRequiresSessionKey(t *testing.T) {
	clearEnv(t)
	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaultsAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_CRYPTOKEY", "k")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5050", cfg.Port)
	assert.Equal(t, "ember", cfg.SiteKey)
	assert.False(t, cfg.Dev())

	t.Setenv("PORT", "9999")
	t.Setenv("APP_ENV", "development")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://ember.example")

	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)
	assert.True(t, cfg.Dev())
	assert.Equal(t, []string{"http://localhost:3000", "https://ember.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadYAMLFileUnderEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"port: \"7070\"\nsite_key: hearth\nsession_key: from-file\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "hearth", cfg.SiteKey)
	assert.Equal(t, "from-file", cfg.SessionKey)

	// Environment overrides the file.
	t.Setenv("SESSION_CRYPTOKEY", "from-env")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.SessionKey)
}

func TestIsDevFlag(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_CRYPTOKEY", "k")
	t.Setenv("IS_DEV", "1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Dev())
}

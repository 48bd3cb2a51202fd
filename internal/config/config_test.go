package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, "http://localhost:8080", cfg.Client.BaseURL)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("POSTPREVIEW_SERVER_ADDR", ":9999")
	t.Setenv("POSTPREVIEW_AUTH_JWT_SECRET", "s3cret")
	t.Setenv("POSTPREVIEW_REDIS_CACHE_TTL", "30s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.NoError(t, cfg.ValidateServer())
}

func TestLoadConfigFileAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("POSTPREVIEW_CLIENT_TOKEN=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("POSTPREVIEW_CLIENT_TOKEN") })

	path := filepath.Join(dir, "postpreview.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":7000\"\nauth:\n  disabled: true\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.True(t, cfg.Auth.Disabled)
	assert.Equal(t, "from-dotenv", cfg.Client.Token)
	assert.NoError(t, cfg.ValidateServer())
}

func TestLoadMissingConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestValidateServerRequiresSecret(t *testing.T) {
	cfg := Config{Server: ServerConfig{Addr: ":8080"}, Telemetry: TelemetryConfig{SamplingRate: 1}}

	err := cfg.ValidateServer()
	var missing MissingEnvError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"POSTPREVIEW_AUTH_JWT_SECRET"}, missing.Variables)
	assert.EqualError(t, missing, "auth not configured (missing POSTPREVIEW_AUTH_JWT_SECRET)")
}

// chdir mirrors testing.T.Chdir (Go 1.24+): it changes the working
// directory for the duration of the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

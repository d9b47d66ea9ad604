package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/keysvc/internal/config"
	kserrors "github.com/systmms/keysvc/internal/errors"
	"github.com/systmms/keysvc/internal/logging"
	"github.com/systmms/keysvc/pkg/keyservice"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "keysvc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		config.EnvRealmURL, config.EnvVersion, config.EnvTimeoutMs, config.EnvKeyringService,
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
realm_base_url: https://id.example.com/auth/realms/demo
version: v1
timeout_ms: 5000
keyring_service: my-app
metrics: true
`)

	cfg := &config.Config{Path: path, Logger: logging.New(false, true)}
	require.NoError(t, cfg.Load())

	assert.Equal(t, "https://id.example.com/auth/realms/demo", cfg.Settings.RealmBaseURL)
	assert.Equal(t, "v1", cfg.Settings.Version)
	assert.Equal(t, 5000, cfg.Settings.TimeoutMs)
	assert.Equal(t, "my-app", cfg.Settings.KeyringService)
	assert.True(t, cfg.Settings.Metrics)

	clientCfg := cfg.Settings.ClientConfig()
	assert.Equal(t, keyservice.V1, clientCfg.Version)
	assert.Equal(t, 5*time.Second, clientCfg.Timeout)
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "realm_base_url: https://id.example.com/auth/realms/demo\n")

	cfg := &config.Config{Path: path, Logger: logging.New(false, true)}
	require.NoError(t, cfg.Load())

	assert.Equal(t, string(keyservice.V1), cfg.Settings.Version)
	assert.Equal(t, config.DefaultTimeoutMs, cfg.Settings.TimeoutMs)
	assert.Equal(t, config.DefaultKeyringService, cfg.Settings.KeyringService)
	assert.False(t, cfg.Settings.Metrics)
}

func TestLoadWithoutFileUsesEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvRealmURL, "https://id.example.com/auth/realms/env")
	t.Setenv(config.EnvTimeoutMs, "1500")

	cfg := &config.Config{
		Path:   filepath.Join(t.TempDir(), "does-not-exist.yaml"),
		Logger: logging.New(false, true),
	}
	require.NoError(t, cfg.Load())

	assert.Equal(t, "https://id.example.com/auth/realms/env", cfg.Settings.RealmBaseURL)
	assert.Equal(t, 1500, cfg.Settings.TimeoutMs)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvRealmURL, "https://id.example.com/auth/realms/override")
	t.Setenv(config.EnvKeyringService, "override-service")

	path := writeConfig(t, `
realm_base_url: https://id.example.com/auth/realms/file
keyring_service: file-service
`)

	cfg := &config.Config{Path: path, Logger: logging.New(false, true)}
	require.NoError(t, cfg.Load())

	assert.Equal(t, "https://id.example.com/auth/realms/override", cfg.Settings.RealmBaseURL)
	assert.Equal(t, "override-service", cfg.Settings.KeyringService)
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing_realm_url",
			content: "timeout_ms: 1000\n",
		},
		{
			name:    "invalid_yaml",
			content: "realm_base_url: [unterminated\n",
		},
		{
			name:    "unknown_field",
			content: "realm_base_url: https://id.example.com\nrealm_url_base: oops\n",
		},
		{
			name:    "negative_timeout",
			content: "realm_base_url: https://id.example.com\ntimeout_ms: -5\n",
		},
		{
			name:    "relative_realm_url",
			content: "realm_base_url: realms/demo\n",
		},
		{
			name:    "unknown_version",
			content: "realm_base_url: https://id.example.com\nversion: v99\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			path := writeConfig(t, tt.content)
			cfg := &config.Config{Path: path, Logger: logging.New(false, true)}

			err := cfg.Load()
			require.Error(t, err)

			var configErr kserrors.ConfigError
			assert.ErrorAs(t, err, &configErr, "load failures must be ConfigError, got %T", err)
		})
	}
}

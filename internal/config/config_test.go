package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"wacrm/internal/constants"
	"wacrm/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, cfg models.Config) string {
	t.Helper()

	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func minimalConfig() models.Config {
	return models.Config{
		Provider: models.ProviderConfig{
			APIBaseURL: "https://provider.example.com",
			InstanceID: "inst1",
		},
		Database: models.DatabaseConfig{Path: "/tmp/wacrm.db"},
		Media:    models.MediaConfig{UploadDir: "/tmp/uploads"},
	}
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, minimalConfig())

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultJIDSuffix, cfg.Provider.JIDSuffix)
	assert.Equal(t, constants.DefaultProviderTimeoutSec, cfg.Provider.TimeoutSec)
	assert.Equal(t, constants.DefaultProviderRetryCount, cfg.Provider.RetryCount)
	assert.Equal(t, constants.DefaultMaxUploadSizeMB, cfg.Media.MaxUploadSizeMB)
	assert.Equal(t, constants.DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, constants.DefaultBackoffInitialMs, cfg.Retry.InitialBackoffMs)
}

func TestLoadConfig_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Config)
	}{
		{"missing provider url", func(c *models.Config) { c.Provider.APIBaseURL = "" }},
		{"missing instance id", func(c *models.Config) { c.Provider.InstanceID = "" }},
		{"missing db path", func(c *models.Config) { c.Database.Path = "" }},
		{"missing upload dir", func(c *models.Config) { c.Media.UploadDir = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := minimalConfig()
			tt.mutate(&cfg)
			_, err := LoadConfig(writeConfig(t, cfg))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_InlineModeNeedsNoUploadDir(t *testing.T) {
	cfg := minimalConfig()
	cfg.Media.UploadDir = ""
	cfg.Media.InlineBase64 = true

	_, err := LoadConfig(writeConfig(t, cfg))
	assert.NoError(t, err)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PROVIDER_API_URL", "https://override.example.com")
	t.Setenv("PROVIDER_INSTANCE_ID", "inst-env")
	t.Setenv("WACRM_WEBHOOK_SECRET", "env-secret")
	t.Setenv("DB_PATH", "/data/override.db")
	t.Setenv("MEDIA_DIR", "/data/media")
	t.Setenv("MEDIA_PUBLIC_BASE_URL", "https://cdn.override.example.com")

	cfg, err := LoadConfig(writeConfig(t, minimalConfig()))
	require.NoError(t, err)

	assert.Equal(t, "https://override.example.com", cfg.Provider.APIBaseURL)
	assert.Equal(t, "inst-env", cfg.Provider.InstanceID)
	assert.Equal(t, "env-secret", cfg.Provider.WebhookSecret)
	assert.Equal(t, "/data/override.db", cfg.Database.Path)
	assert.Equal(t, "/data/media", cfg.Media.UploadDir)
	assert.Equal(t, "https://cdn.override.example.com", cfg.Media.PublicBaseURL)
}

func TestLoadConfig_ProductionRequiresStrongSecret(t *testing.T) {
	t.Setenv("WACRM_ENV", "production")

	t.Run("missing secret", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, minimalConfig()))
		assert.Error(t, err)
	})

	t.Run("short secret", func(t *testing.T) {
		t.Setenv("WACRM_WEBHOOK_SECRET", "short")
		_, err := LoadConfig(writeConfig(t, minimalConfig()))
		assert.Error(t, err)
	})

	t.Run("strong secret", func(t *testing.T) {
		t.Setenv("WACRM_WEBHOOK_SECRET", "0123456789abcdef0123456789abcdef")
		_, err := LoadConfig(writeConfig(t, minimalConfig()))
		assert.NoError(t, err)
	})

	t.Run("debug logging rejected", func(t *testing.T) {
		t.Setenv("WACRM_WEBHOOK_SECRET", "0123456789abcdef0123456789abcdef")
		cfg := minimalConfig()
		cfg.LogLevel = "debug"
		_, err := LoadConfig(writeConfig(t, cfg))
		assert.Error(t, err)
	})
}

func TestLoadConfig_FileErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

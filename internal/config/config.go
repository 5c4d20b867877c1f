package config

import (
	"encoding/json"
	"fmt"
	"os"

	"wacrm/internal/constants"
	"wacrm/internal/models"
	"wacrm/internal/security"
)

var (
	ErrMissingProviderURL = models.ConfigError{Message: "missing provider API base URL"}
	ErrMissingInstanceID  = models.ConfigError{Message: "missing provider instance ID"}
	ErrMissingDBPath      = models.ConfigError{Message: "missing database path"}
	ErrMissingUploadDir   = models.ConfigError{Message: "missing media upload directory"}
)

func LoadConfig(path string) (*models.Config, error) {
	if err := security.ValidateFilePath(path); err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	file, err := os.ReadFile(path) // #nosec G304 - Path validated above
	if err != nil {
		return nil, err
	}

	var config models.Config
	if err := json.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	if err := validate(&config); err != nil {
		return nil, err
	}

	applyEnvironmentOverrides(&config)

	if err := validateSecurity(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validate(c *models.Config) error {
	if c.Provider.APIBaseURL == "" {
		return ErrMissingProviderURL
	}
	if c.Provider.InstanceID == "" {
		return ErrMissingInstanceID
	}
	if c.Database.Path == "" {
		return ErrMissingDBPath
	}
	if c.Media.UploadDir == "" && !c.Media.InlineBase64 {
		return ErrMissingUploadDir
	}

	if c.Provider.JIDSuffix == "" {
		c.Provider.JIDSuffix = constants.DefaultJIDSuffix
	}
	if c.Provider.TimeoutSec <= 0 {
		c.Provider.TimeoutSec = constants.DefaultProviderTimeoutSec
	}
	if c.Provider.RetryCount <= 0 {
		c.Provider.RetryCount = constants.DefaultProviderRetryCount
	}
	if c.Media.MaxUploadSizeMB <= 0 {
		c.Media.MaxUploadSizeMB = constants.DefaultMaxUploadSizeMB
	}
	if c.Retry.InitialBackoffMs <= 0 {
		c.Retry.InitialBackoffMs = constants.DefaultBackoffInitialMs
	}
	if c.Retry.MaxBackoffMs <= 0 {
		c.Retry.MaxBackoffMs = constants.DefaultBackoffMaxMs
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = constants.DefaultMaxAttempts
	}
	if c.Server.Port <= 0 {
		c.Server.Port = constants.DefaultServerPort
	}
	if c.Server.ReadTimeoutSec <= 0 {
		c.Server.ReadTimeoutSec = constants.DefaultServerReadTimeoutSec
	}
	if c.Server.WriteTimeoutSec <= 0 {
		c.Server.WriteTimeoutSec = constants.DefaultServerWriteTimeoutSec
	}
	if c.Server.IdleTimeoutSec <= 0 {
		c.Server.IdleTimeoutSec = constants.DefaultServerIdleTimeoutSec
	}
	return nil
}

func applyEnvironmentOverrides(c *models.Config) {
	if url := os.Getenv("PROVIDER_API_URL"); url != "" {
		c.Provider.APIBaseURL = url
	}
	if instance := os.Getenv("PROVIDER_INSTANCE_ID"); instance != "" {
		c.Provider.InstanceID = instance
	}

	// SECURITY: webhook secrets should be set via environment variables
	if secret := os.Getenv("WACRM_WEBHOOK_SECRET"); secret != "" {
		c.Provider.WebhookSecret = secret
	}

	if path := os.Getenv("DB_PATH"); path != "" {
		c.Database.Path = path
	}
	if dir := os.Getenv("MEDIA_DIR"); dir != "" {
		c.Media.UploadDir = dir
	}
	if base := os.Getenv("MEDIA_PUBLIC_BASE_URL"); base != "" {
		c.Media.PublicBaseURL = base
	}
}

// validateSecurity performs security-specific validation
func validateSecurity(c *models.Config) error {
	isProduction := os.Getenv("WACRM_ENV") == "production"

	if isProduction {
		if c.Provider.WebhookSecret == "" {
			return models.ConfigError{Message: "webhook secret is required in production (set WACRM_WEBHOOK_SECRET environment variable)"}
		}
		if len(c.Provider.WebhookSecret) < 32 {
			return models.ConfigError{Message: "webhook secret must be at least 32 characters long"}
		}
		if c.LogLevel == "debug" {
			return models.ConfigError{Message: "debug logging should not be used in production (security risk)"}
		}
	} else if c.Provider.WebhookSecret == "" {
		fmt.Fprintf(os.Stderr, "WARNING: webhook secret not set. Set WACRM_WEBHOOK_SECRET environment variable for security.\n")
	}

	return nil
}

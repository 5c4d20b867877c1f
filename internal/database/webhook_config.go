package database

import (
	"context"
	"database/sql"
	"fmt"

	"wacrm/internal/models"
)

// SaveWebhookConfig persists the forwarding target for UI notifications.
// The secret token is encrypted at rest when encryption is enabled. Only
// the most recent row is considered active.
func (d *Database) SaveWebhookConfig(ctx context.Context, webhookURL, secretToken string) error {
	encryptedToken, err := d.encryptor.Encrypt(secretToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt secret token: %w", err)
	}

	query := `
		INSERT INTO webhook_config (webhook_url, secret_token, is_active)
		VALUES (?, ?, TRUE)
	`

	if _, err := d.db.ExecContext(ctx, query, webhookURL, encryptedToken); err != nil {
		return fmt.Errorf("failed to save webhook config: %w", err)
	}

	return nil
}

// GetWebhookConfig returns the most recently saved active webhook config,
// or nil when none has been configured.
func (d *Database) GetWebhookConfig(ctx context.Context) (*models.WebhookConfig, error) {
	query := `
		SELECT id, webhook_url, secret_token, is_active, created_at
		FROM webhook_config
		WHERE is_active = TRUE
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	cfg := &models.WebhookConfig{}
	var encryptedToken sql.NullString
	err := d.db.QueryRowContext(ctx, query).Scan(
		&cfg.ID,
		&cfg.WebhookURL,
		&encryptedToken,
		&cfg.IsActive,
		&cfg.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get webhook config: %w", err)
	}

	if encryptedToken.Valid {
		cfg.SecretToken, err = d.encryptor.Decrypt(encryptedToken.String)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt secret token: %w", err)
		}
	}

	return cfg, nil
}

package models

import "time"

// WebhookConfig is the locally persisted forwarding target for a UI
// collaborator. Saving it does not register anything with the provider.
type WebhookConfig struct {
	ID          int64     `json:"id" db:"id"`
	WebhookURL  string    `json:"webhookUrl" db:"webhook_url"`
	SecretToken string    `json:"secretToken,omitempty" db:"secret_token"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

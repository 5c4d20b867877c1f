package models

import "time"

// Conversation groups all messages exchanged with a single phone number.
// It is created lazily on first contact and never deleted by the relay.
type Conversation struct {
	ID            int64     `json:"id" db:"id"`
	Phone         string    `json:"phone" db:"phone"`
	Name          string    `json:"name" db:"name"`
	LastMessageAt time.Time `json:"lastMessageAt" db:"last_message_at"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`

	// MessageCount is populated by list queries only.
	MessageCount int64 `json:"messageCount" db:"message_count"`
}

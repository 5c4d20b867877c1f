package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wacrm/internal/models"
)

// UpsertConversation finds or creates the conversation for a phone number.
// The display name and last-activity time are overwritten unconditionally.
// phone is UNIQUE, so concurrent first-contact requests resolve to a single
// row inside SQLite instead of racing in application code.
func (d *Database) UpsertConversation(ctx context.Context, phone, name string, now time.Time) (*models.Conversation, error) {
	query := `
		INSERT INTO conversations (phone, name, last_message_at, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(phone) DO UPDATE SET
			name = excluded.name,
			last_message_at = excluded.last_message_at
	`

	if _, err := d.db.ExecContext(ctx, query, phone, name, now, now); err != nil {
		return nil, fmt.Errorf("failed to upsert conversation: %w", err)
	}

	return d.GetConversationByPhone(ctx, phone)
}

// EnsureConversation creates the conversation when missing, using the phone
// number as the initial display name, and bumps last_message_at either way.
// Unlike UpsertConversation it never touches an existing name, so outbound
// sends do not clobber the display name learned from inbound traffic.
func (d *Database) EnsureConversation(ctx context.Context, phone string, now time.Time) (*models.Conversation, error) {
	query := `
		INSERT INTO conversations (phone, name, last_message_at, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(phone) DO UPDATE SET
			last_message_at = excluded.last_message_at
	`

	if _, err := d.db.ExecContext(ctx, query, phone, phone, now, now); err != nil {
		return nil, fmt.Errorf("failed to ensure conversation: %w", err)
	}

	return d.GetConversationByPhone(ctx, phone)
}

// GetConversationByPhone looks a conversation up by exact phone match.
// Returns nil without error when none exists.
func (d *Database) GetConversationByPhone(ctx context.Context, phone string) (*models.Conversation, error) {
	query := `
		SELECT id, phone, name, last_message_at, created_at
		FROM conversations
		WHERE phone = ?
	`

	conv := &models.Conversation{}
	err := d.db.QueryRowContext(ctx, query, phone).Scan(
		&conv.ID,
		&conv.Phone,
		&conv.Name,
		&conv.LastMessageAt,
		&conv.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return conv, nil
}

// ListConversations returns all conversations ordered by most recent
// activity, each annotated with its message count.
func (d *Database) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	query := `
		SELECT c.id, c.phone, c.name, c.last_message_at, c.created_at, COUNT(m.id) AS message_count
		FROM conversations c
		LEFT JOIN messages m ON c.id = m.conversation_id
		GROUP BY c.id
		ORDER BY c.last_message_at DESC
	`

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		var conv models.Conversation
		if err := rows.Scan(
			&conv.ID,
			&conv.Phone,
			&conv.Name,
			&conv.LastMessageAt,
			&conv.CreatedAt,
			&conv.MessageCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversations: %w", err)
	}

	return conversations, nil
}

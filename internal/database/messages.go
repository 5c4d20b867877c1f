package database

import (
	"context"
	"fmt"

	"wacrm/internal/models"
)

// SaveMessage inserts a message row. When the message carries a provider
// message id and a row with that id already exists, the insert is a silent
// no-op and inserted is false; the original row is left unchanged.
func (d *Database) SaveMessage(ctx context.Context, msg *models.Message) (inserted bool, err error) {
	query := `
		INSERT OR IGNORE INTO messages (
			conversation_id, provider_message_id, sender_phone, text, type,
			media_url, media_filename, is_from_me, timestamp, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := d.db.ExecContext(ctx, query,
		msg.ConversationID,
		msg.ProviderMessageID,
		msg.SenderPhone,
		msg.Text,
		msg.Type,
		msg.MediaURL,
		msg.MediaFilename,
		msg.IsFromMe,
		msg.Timestamp,
		msg.Status,
	)
	if err != nil {
		return false, fmt.Errorf("failed to save message: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return false, nil
	}

	if id, err := result.LastInsertId(); err == nil {
		msg.ID = id
	}
	return true, nil
}

// ListMessages returns all messages of a conversation ordered by timestamp
// ascending.
func (d *Database) ListMessages(ctx context.Context, conversationID int64) ([]models.Message, error) {
	query := `
		SELECT id, conversation_id, provider_message_id, sender_phone, text, type,
		       media_url, media_filename, is_from_me, timestamp, status
		FROM messages
		WHERE conversation_id = ?
		ORDER BY timestamp ASC
	`

	rows, err := d.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.ProviderMessageID,
			&msg.SenderPhone,
			&msg.Text,
			&msg.Type,
			&msg.MediaURL,
			&msg.MediaFilename,
			&msg.IsFromMe,
			&msg.Timestamp,
			&msg.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}

package models

import "time"

type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeImage    MessageType = "image"
	MessageTypeVideo    MessageType = "video"
	MessageTypeAudio    MessageType = "audio"
	MessageTypeDocument MessageType = "document"
)

type MessageStatus string

const (
	MessageStatusReceived MessageStatus = "received"
	MessageStatusSent     MessageStatus = "sent"
)

// Message is a single stored message, inbound or outbound.
type Message struct {
	ID             int64 `json:"id" db:"id"`
	ConversationID int64 `json:"conversationId" db:"conversation_id"`
	// ProviderMessageID is the provider-assigned id and the deduplication
	// key for inbound messages. Outbound sends may not have one.
	ProviderMessageID *string       `json:"providerMessageId,omitempty" db:"provider_message_id"`
	SenderPhone       string        `json:"senderPhone" db:"sender_phone"`
	Text              string        `json:"text" db:"text"`
	Type              MessageType   `json:"type" db:"type"`
	MediaURL          *string       `json:"mediaUrl,omitempty" db:"media_url"`
	MediaFilename     *string       `json:"mediaFilename,omitempty" db:"media_filename"`
	IsFromMe          bool          `json:"isFromMe" db:"is_from_me"`
	Timestamp         time.Time     `json:"timestamp" db:"timestamp"`
	Status            MessageStatus `json:"status" db:"status"`
}

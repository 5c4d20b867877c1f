package models

import "encoding/json"

// Provider webhook event types
const (
	EventMessagesUpsert = "messages.upsert"
)

// MessageKey identifies a message within a provider-normalized webhook event.
type MessageKey struct {
	RemoteJID string `json:"remoteJid"`
	ID        string `json:"id"`
	FromMe    bool   `json:"fromMe"`
}

// ProviderWebhookPayload is the provider-normalized webhook body. The same
// shape may arrive wrapped in a single-element array and/or nested under a
// "body" key, depending on the deployment.
type ProviderWebhookPayload struct {
	Type             string              `json:"type"`
	Body             json.RawMessage     `json:"body,omitempty"`
	Key              *MessageKey         `json:"key,omitempty"`
	MessageTimestamp json.RawMessage     `json:"messageTimestamp,omitempty"`
	PushName         string              `json:"pushName,omitempty"`
	Message          *MessageContent     `json:"message,omitempty"`
	MediaURL         string              `json:"mediaUrl,omitempty"`
}

// RawWebhookPayload is the flat webhook body used by raw-style deployments,
// where the provider has already extracted the interesting fields.
type RawWebhookPayload struct {
	Phone       string `json:"phone"`
	Message     string `json:"message"`
	MessageID   string `json:"messageId"`
	MessageType string `json:"messageType"`
	MediaURL    string `json:"mediaUrl"`
	FileName    string `json:"fileName"`
	FromMe      bool   `json:"fromMe"`
}

// MessageContent is the provider's message union. Exactly which pointer is
// non-nil determines the message kind; the wire format has no discriminator.
type MessageContent struct {
	Conversation        *string              `json:"conversation,omitempty"`
	ExtendedTextMessage *ExtendedTextMessage `json:"extendedTextMessage,omitempty"`
	ImageMessage        *MediaContent        `json:"imageMessage,omitempty"`
	VideoMessage        *MediaContent        `json:"videoMessage,omitempty"`
	AudioMessage        *MediaContent        `json:"audioMessage,omitempty"`
	DocumentMessage     *DocumentContent     `json:"documentMessage,omitempty"`
}

type ExtendedTextMessage struct {
	Text string `json:"text"`
}

type MediaContent struct {
	Caption string `json:"caption,omitempty"`
	URL     string `json:"url,omitempty"`
}

type DocumentContent struct {
	FileName string `json:"fileName,omitempty"`
	Caption  string `json:"caption,omitempty"`
	URL      string `json:"url,omitempty"`
}

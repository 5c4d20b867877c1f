package provider

import (
	"context"
	"time"
)

// Client sends outbound messages through the provider's HTTP API.
type Client interface {
	SendText(ctx context.Context, phone, text string) (*SendMessageResponse, error)
	SendMedia(ctx context.Context, phone string, media MediaMessageRequest) (*SendMessageResponse, error)
}

// ClientConfig represents the configuration for the provider client
type ClientConfig struct {
	BaseURL    string        `json:"base_url"`
	InstanceID string        `json:"instance_id"`
	APIKey     string        `json:"api_key"`
	JIDSuffix  string        `json:"jid_suffix"`
	Timeout    time.Duration `json:"timeout"`
	RetryCount int           `json:"retry_count"`
}

// TextMessageRequest is the payload for POST …/messages/text
type TextMessageRequest struct {
	JID     string `json:"jid"`
	Message string `json:"message"`
}

// MediaMessageRequest is the payload for POST …/messages/media.
// JID is filled in by the client from the destination phone.
type MediaMessageRequest struct {
	JID       string `json:"jid"`
	MediaType string `json:"mediaType"`
	Media     string `json:"media"`
	Caption   string `json:"caption,omitempty"`
	Filename  string `json:"filename,omitempty"`
}

// SendMessageResponse represents the response from send message operations
type SendMessageResponse struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// ErrorResponse represents application-level error payloads from the API
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

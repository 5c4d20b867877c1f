package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	apperrors "wacrm/internal/errors"
	"wacrm/internal/models"
)

// ErrEventIgnored signals an event the relay deliberately does not record:
// unrecognized event types and self-sent provider events. Callers must
// respond with success so the provider does not retry delivery.
var ErrEventIgnored = errors.New("event ignored")

// Envelope is the normalized result of unwrapping a webhook body, ready for
// classification and recording.
type Envelope struct {
	Phone        string
	PushName     string
	MessageID    string
	FromMe       bool
	RawTimestamp json.RawMessage
	Content      *models.MessageContent
	MediaURL     string

	// Raw-style payloads arrive pre-classified by the provider; when Raw is
	// set, Content and RawTimestamp are empty and the fields below apply.
	Raw         bool
	RawText     string
	RawType     string
	RawFilename string
}

// UnwrapWebhookPayload converts any accepted webhook body shape into a
// canonical envelope. It handles single-element array wrapping, nesting
// under a "body" key, and both the raw-style and the provider-normalized
// payload formats.
func UnwrapWebhookPayload(body []byte) (*Envelope, error) {
	value := bytes.TrimSpace(body)

	// A sequence means the provider batched events; only the first element
	// is delivered downstream, matching the single-event contract of the
	// rest of the pipeline.
	if len(value) > 0 && value[0] == '[' {
		var elements []json.RawMessage
		if err := json.Unmarshal(value, &elements); err != nil {
			return nil, apperrors.NewBadRequestError("invalid webhook payload")
		}
		if len(elements) == 0 {
			return nil, apperrors.NewBadRequestError("phone not found")
		}
		value = elements[0]
	}

	// Probe only the discriminator fields first: raw-style bodies reuse the
	// "message" key for a plain string, so a full decode would reject them.
	var probe struct {
		Type string             `json:"type"`
		Body json.RawMessage    `json:"body"`
		Key  *models.MessageKey `json:"key"`
	}
	if err := json.Unmarshal(value, &probe); err != nil {
		return nil, apperrors.NewBadRequestError("invalid webhook payload")
	}

	// Some deployments nest the event one level down under "body".
	if len(probe.Body) > 0 && isJSONObject(probe.Body) {
		value = probe.Body
		probe.Body = nil
		if err := json.Unmarshal(value, &probe); err != nil {
			return nil, apperrors.NewBadRequestError("invalid webhook payload")
		}
	}

	// Flat raw-style bodies have no event type and no message key; they
	// carry the phone directly.
	if probe.Type == "" && probe.Key == nil {
		return unwrapRawPayload(value)
	}

	var payload models.ProviderWebhookPayload
	if err := json.Unmarshal(value, &payload); err != nil {
		return nil, apperrors.NewBadRequestError("invalid webhook payload")
	}

	if payload.Type != models.EventMessagesUpsert {
		return nil, ErrEventIgnored
	}

	if payload.Key == nil || payload.Key.RemoteJID == "" {
		return nil, apperrors.NewBadRequestError("phone not found")
	}

	// Events for messages this instance sent itself were already recorded
	// on the outbound path; recording them again would duplicate them.
	if payload.Key.FromMe {
		return nil, ErrEventIgnored
	}

	return &Envelope{
		Phone:        CanonicalPhone(payload.Key.RemoteJID),
		PushName:     payload.PushName,
		MessageID:    payload.Key.ID,
		FromMe:       false,
		RawTimestamp: payload.MessageTimestamp,
		Content:      payload.Message,
		MediaURL:     payload.MediaURL,
	}, nil
}

func unwrapRawPayload(value json.RawMessage) (*Envelope, error) {
	var payload models.RawWebhookPayload
	if err := json.Unmarshal(value, &payload); err != nil {
		return nil, apperrors.NewBadRequestError("invalid webhook payload")
	}
	if payload.Phone == "" {
		return nil, apperrors.NewBadRequestError("phone not found")
	}

	return &Envelope{
		Phone:       CanonicalPhone(payload.Phone),
		MessageID:   payload.MessageID,
		FromMe:      payload.FromMe,
		MediaURL:    payload.MediaURL,
		Raw:         true,
		RawText:     payload.Message,
		RawType:     payload.MessageType,
		RawFilename: payload.FileName,
	}, nil
}

// CanonicalPhone strips any provider suffix (such as @s.whatsapp.net or
// @c.us) from a JID, leaving the bare phone number.
func CanonicalPhone(jid string) string {
	if at := strings.Index(jid, "@"); at >= 0 {
		return jid[:at]
	}
	return jid
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

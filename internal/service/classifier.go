package service

import (
	"wacrm/internal/models"
)

// Placeholder texts stored when the provider supplies no usable text.
const (
	placeholderDocument    = "Documento"
	placeholderUnsupported = "Mensagem não suportada"
	placeholderImage       = "📷 Imagem"
	placeholderVideo       = "🎥 Vídeo"
	placeholderAudio       = "🎵 Áudio"
)

// Classification is the result of classifying a message content union.
// Text is never empty-for-nil: empty string is allowed, nil is not
// representable. Type is empty when no branch matched.
type Classification struct {
	Type     models.MessageType
	Text     string
	MediaURL *string
}

// ClassifyContent maps the provider's message union to a message type,
// text, and media URL. Exactly one branch applies; the first matching
// field wins. providerMediaURL is a pre-resolved URL supplied alongside
// the union and takes precedence over any URL embedded in it.
func ClassifyContent(content *models.MessageContent, providerMediaURL string) Classification {
	if content == nil {
		return Classification{Text: placeholderUnsupported}
	}

	switch {
	case content.Conversation != nil:
		return Classification{
			Type: models.MessageTypeText,
			Text: *content.Conversation,
		}

	case content.ExtendedTextMessage != nil:
		return Classification{
			Type: models.MessageTypeText,
			Text: content.ExtendedTextMessage.Text,
		}

	case content.ImageMessage != nil:
		return Classification{
			Type:     models.MessageTypeImage,
			Text:     content.ImageMessage.Caption,
			MediaURL: pickMediaURL(providerMediaURL, content.ImageMessage.URL),
		}

	case content.VideoMessage != nil:
		return Classification{
			Type:     models.MessageTypeVideo,
			Text:     content.VideoMessage.Caption,
			MediaURL: pickMediaURL(providerMediaURL, content.VideoMessage.URL),
		}

	case content.AudioMessage != nil:
		return Classification{
			Type:     models.MessageTypeAudio,
			Text:     "",
			MediaURL: pickMediaURL(providerMediaURL, content.AudioMessage.URL),
		}

	case content.DocumentMessage != nil:
		text := content.DocumentMessage.FileName
		if text == "" {
			text = placeholderDocument
		}
		return Classification{
			Type:     models.MessageTypeDocument,
			Text:     text,
			MediaURL: pickMediaURL(providerMediaURL, content.DocumentMessage.URL),
		}
	}

	return Classification{Text: placeholderUnsupported}
}

// MediaPlaceholder returns the human-readable stand-in text stored for a
// media message without a caption.
func MediaPlaceholder(msgType models.MessageType) string {
	switch msgType {
	case models.MessageTypeImage:
		return placeholderImage
	case models.MessageTypeVideo:
		return placeholderVideo
	case models.MessageTypeAudio:
		return placeholderAudio
	case models.MessageTypeDocument:
		return placeholderDocument
	default:
		return placeholderUnsupported
	}
}

func pickMediaURL(resolved, embedded string) *string {
	if resolved != "" {
		return &resolved
	}
	if embedded != "" {
		return &embedded
	}
	return nil
}

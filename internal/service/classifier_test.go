package service

import (
	"testing"

	"wacrm/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestClassifyContent(t *testing.T) {
	tests := []struct {
		name         string
		content      *models.MessageContent
		providerURL  string
		wantType     models.MessageType
		wantText     string
		wantMediaURL *string
	}{
		{
			name:     "plain conversation text",
			content:  &models.MessageContent{Conversation: strPtr("Oi")},
			wantType: models.MessageTypeText,
			wantText: "Oi",
		},
		{
			name:     "empty conversation text is preserved",
			content:  &models.MessageContent{Conversation: strPtr("")},
			wantType: models.MessageTypeText,
			wantText: "",
		},
		{
			name:     "extended text",
			content:  &models.MessageContent{ExtendedTextMessage: &models.ExtendedTextMessage{Text: "link preview text"}},
			wantType: models.MessageTypeText,
			wantText: "link preview text",
		},
		{
			name:         "image with caption and embedded url",
			content:      &models.MessageContent{ImageMessage: &models.MediaContent{Caption: "look", URL: "https://cdn/img.jpg"}},
			wantType:     models.MessageTypeImage,
			wantText:     "look",
			wantMediaURL: strPtr("https://cdn/img.jpg"),
		},
		{
			name:         "provider resolved url wins over embedded",
			content:      &models.MessageContent{ImageMessage: &models.MediaContent{URL: "https://cdn/embedded.jpg"}},
			providerURL:  "https://cdn/resolved.jpg",
			wantType:     models.MessageTypeImage,
			wantText:     "",
			wantMediaURL: strPtr("https://cdn/resolved.jpg"),
		},
		{
			name:         "video",
			content:      &models.MessageContent{VideoMessage: &models.MediaContent{Caption: "clip", URL: "https://cdn/v.mp4"}},
			wantType:     models.MessageTypeVideo,
			wantText:     "clip",
			wantMediaURL: strPtr("https://cdn/v.mp4"),
		},
		{
			name:         "audio has no caption",
			content:      &models.MessageContent{AudioMessage: &models.MediaContent{URL: "https://cdn/a.ogg"}},
			wantType:     models.MessageTypeAudio,
			wantText:     "",
			wantMediaURL: strPtr("https://cdn/a.ogg"),
		},
		{
			name:     "document uses filename as text",
			content:  &models.MessageContent{DocumentMessage: &models.DocumentContent{FileName: "contrato.pdf"}},
			wantType: models.MessageTypeDocument,
			wantText: "contrato.pdf",
		},
		{
			name:     "document without filename falls back to placeholder",
			content:  &models.MessageContent{DocumentMessage: &models.DocumentContent{}},
			wantType: models.MessageTypeDocument,
			wantText: "Documento",
		},
		{
			name:     "nil content is unsupported",
			content:  nil,
			wantType: "",
			wantText: "Mensagem não suportada",
		},
		{
			name:     "empty union is unsupported",
			content:  &models.MessageContent{},
			wantType: "",
			wantText: "Mensagem não suportada",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyContent(tt.content, tt.providerURL)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantText, got.Text)
			if tt.wantMediaURL == nil {
				assert.Nil(t, got.MediaURL)
			} else {
				require.NotNil(t, got.MediaURL)
				assert.Equal(t, *tt.wantMediaURL, *got.MediaURL)
			}
		})
	}
}

func TestClassifyContent_ConversationWinsOverMedia(t *testing.T) {
	// The union probe is ordered, text branches are checked first.
	content := &models.MessageContent{
		Conversation: strPtr("both set"),
		ImageMessage: &models.MediaContent{URL: "https://cdn/img.jpg"},
	}

	got := ClassifyContent(content, "")
	assert.Equal(t, models.MessageTypeText, got.Type)
	assert.Equal(t, "both set", got.Text)
	assert.Nil(t, got.MediaURL)
}

func TestMediaPlaceholder(t *testing.T) {
	assert.Equal(t, "📷 Imagem", MediaPlaceholder(models.MessageTypeImage))
	assert.Equal(t, "🎥 Vídeo", MediaPlaceholder(models.MessageTypeVideo))
	assert.Equal(t, "🎵 Áudio", MediaPlaceholder(models.MessageTypeAudio))
	assert.Equal(t, "Documento", MediaPlaceholder(models.MessageTypeDocument))
	assert.Equal(t, "Mensagem não suportada", MediaPlaceholder(models.MessageType("sticker")))
}

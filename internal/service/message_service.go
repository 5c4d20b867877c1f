package service

import (
	"context"
	"time"

	apperrors "wacrm/internal/errors"
	"wacrm/internal/models"
	"wacrm/internal/privacy"
	"wacrm/pkg/media"
	"wacrm/pkg/provider"

	"github.com/sirupsen/logrus"
)

// Store is the persistence surface the pipeline needs.
type Store interface {
	UpsertConversation(ctx context.Context, phone, name string, now time.Time) (*models.Conversation, error)
	EnsureConversation(ctx context.Context, phone string, now time.Time) (*models.Conversation, error)
	SaveMessage(ctx context.Context, msg *models.Message) (bool, error)
	ListConversations(ctx context.Context) ([]models.Conversation, error)
	ListMessages(ctx context.Context, conversationID int64) ([]models.Message, error)
	SaveWebhookConfig(ctx context.Context, webhookURL, secretToken string) error
	GetWebhookConfig(ctx context.Context) (*models.WebhookConfig, error)
}

// Broadcaster pushes recorded messages to live UI subscribers.
type Broadcaster interface {
	Broadcast(ctx context.Context, event MessageEvent)
}

// SendMessageRequest is the request body of the send endpoint.
type SendMessageRequest struct {
	Phone       string `json:"phone"`
	Message     string `json:"message"`
	MessageType string `json:"messageType"`
	MediaURL    string `json:"mediaUrl,omitempty"`
	FileName    string `json:"fileName,omitempty"`
}

type MessageService interface {
	HandleInboundWebhook(ctx context.Context, body []byte) (*models.Message, error)
	SendMessage(ctx context.Context, req SendMessageRequest) (*models.Message, error)
	ListConversations(ctx context.Context) ([]models.Conversation, error)
	ListMessages(ctx context.Context, conversationID int64) ([]models.Message, error)
	ConfigureWebhook(ctx context.Context, webhookURL, secretToken string) error
	WebhookConfig(ctx context.Context) (*models.WebhookConfig, error)
}

type messageService struct {
	logger      *logrus.Logger
	store       Store
	provider    provider.Client
	broadcaster Broadcaster
	now         func() time.Time
}

func NewMessageService(store Store, providerClient provider.Client, broadcaster Broadcaster, logger *logrus.Logger) MessageService {
	return &messageService{
		logger:      logger,
		store:       store,
		provider:    providerClient,
		broadcaster: broadcaster,
		now:         time.Now,
	}
}

// HandleInboundWebhook runs the full inbound pipeline: unwrap, classify,
// normalize the timestamp, upsert the conversation and record the message.
// ErrEventIgnored is returned for events that must be acknowledged without
// persistence.
func (s *messageService) HandleInboundWebhook(ctx context.Context, body []byte) (*models.Message, error) {
	env, err := UnwrapWebhookPayload(body)
	if err != nil {
		return nil, err
	}

	now := s.now()

	var (
		timestamp      time.Time
		classification Classification
		mediaFilename  *string
	)
	if env.Raw {
		timestamp = now
		classification = Classification{
			Type: models.MessageType(env.RawType),
			Text: env.RawText,
		}
		if env.MediaURL != "" {
			mediaURL := env.MediaURL
			classification.MediaURL = &mediaURL
		}
		if env.RawFilename != "" {
			filename := env.RawFilename
			mediaFilename = &filename
		}
	} else {
		timestamp = NormalizeTimestamp(env.RawTimestamp, s.now)
		classification = ClassifyContent(env.Content, env.MediaURL)
	}

	displayName := env.PushName
	if displayName == "" {
		displayName = env.Phone
	}

	conv, err := s.store.UpsertConversation(ctx, env.Phone, displayName, now)
	if err != nil {
		return nil, apperrors.NewDatabaseError("conversation upsert", err)
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderPhone:    env.Phone,
		Text:           classification.Text,
		Type:           classification.Type,
		MediaURL:       classification.MediaURL,
		MediaFilename:  mediaFilename,
		IsFromMe:       env.FromMe,
		Timestamp:      timestamp,
		Status:         models.MessageStatusReceived,
	}
	if env.MessageID != "" {
		providerMessageID := env.MessageID
		msg.ProviderMessageID = &providerMessageID
	}

	inserted, err := s.recordMessage(ctx, msg)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		LogFieldPhone:          privacy.MaskPhoneNumber(env.Phone),
		LogFieldConversationID: conv.ID,
		LogFieldMessageType:    msg.Type,
		LogFieldDirection:      "incoming",
		"deduplicated":         !inserted,
	}).Info("Inbound message processed")

	if inserted {
		s.broadcaster.Broadcast(ctx, MessageEvent{
			Event:        "message.received",
			Conversation: conv,
			Message:      msg,
		})
	}

	return msg, nil
}

// SendMessage resolves the conversation, forwards the message through the
// provider and records it with status sent.
func (s *messageService) SendMessage(ctx context.Context, req SendMessageRequest) (*models.Message, error) {
	if req.Phone == "" {
		return nil, apperrors.NewBadRequestError("phone is required")
	}
	msgType := models.MessageType(req.MessageType)
	if msgType == "" {
		msgType = models.MessageTypeText
	}
	if msgType != models.MessageTypeText && req.MediaURL == "" {
		return nil, apperrors.NewValidationError("mediaUrl", "required for media messages")
	}
	if msgType == models.MessageTypeText && req.Message == "" {
		return nil, apperrors.NewValidationError("message", "required for text messages")
	}

	now := s.now()

	conv, err := s.store.EnsureConversation(ctx, req.Phone, now)
	if err != nil {
		return nil, apperrors.NewDatabaseError("conversation upsert", err)
	}

	var resp *provider.SendMessageResponse
	if msgType == models.MessageTypeText {
		resp, err = s.provider.SendText(ctx, req.Phone, req.Message)
	} else {
		resp, err = s.provider.SendMedia(ctx, req.Phone, provider.MediaMessageRequest{
			MediaType: string(msgType),
			Media:     req.MediaURL,
			Caption:   req.Message,
			Filename:  req.FileName,
		})
	}
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderPhone:    req.Phone,
		Text:           req.Message,
		Type:           msgType,
		IsFromMe:       true,
		Timestamp:      now,
		Status:         models.MessageStatusSent,
	}
	if req.MediaURL != "" {
		mediaURL := req.MediaURL
		msg.MediaURL = &mediaURL
	}
	if req.FileName != "" {
		filename := req.FileName
		msg.MediaFilename = &filename
	}
	if resp != nil && resp.MessageID != "" {
		providerMessageID := resp.MessageID
		msg.ProviderMessageID = &providerMessageID
	}

	if _, err := s.recordMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		LogFieldPhone:          privacy.MaskPhoneNumber(req.Phone),
		LogFieldConversationID: conv.ID,
		LogFieldMessageType:    msg.Type,
		LogFieldDirection:      "outgoing",
	}).Info("Outbound message sent")

	s.broadcaster.Broadcast(ctx, MessageEvent{
		Event:        "message.sent",
		Conversation: conv,
		Message:      msg,
	})

	return msg, nil
}

// recordMessage applies the recorder rules (placeholder text for captionless
// media, filename derivation) and inserts the row.
func (s *messageService) recordMessage(ctx context.Context, msg *models.Message) (bool, error) {
	if msg.Type == "" {
		msg.Type = models.MessageTypeText
	}
	if msg.Text == "" && msg.Type != models.MessageTypeText {
		msg.Text = MediaPlaceholder(msg.Type)
	}
	if msg.MediaFilename == nil {
		msg.MediaFilename = media.FilenameFromURL(msg.MediaURL)
	}

	inserted, err := s.store.SaveMessage(ctx, msg)
	if err != nil {
		return false, apperrors.NewDatabaseError("message insert", err)
	}
	return inserted, nil
}

func (s *messageService) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	conversations, err := s.store.ListConversations(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("conversation list", err)
	}
	return conversations, nil
}

func (s *messageService) ListMessages(ctx context.Context, conversationID int64) ([]models.Message, error) {
	messages, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("message list", err)
	}
	return messages, nil
}

func (s *messageService) ConfigureWebhook(ctx context.Context, webhookURL, secretToken string) error {
	if webhookURL == "" {
		return apperrors.NewBadRequestError("webhookUrl is required")
	}
	if err := s.store.SaveWebhookConfig(ctx, webhookURL, secretToken); err != nil {
		return apperrors.NewDatabaseError("webhook config save", err)
	}
	return nil
}

// WebhookConfig returns the most recently saved forwarding target, or nil
// when none has been configured. The secret token is never echoed back.
func (s *messageService) WebhookConfig(ctx context.Context) (*models.WebhookConfig, error) {
	cfg, err := s.store.GetWebhookConfig(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("webhook config load", err)
	}
	if cfg != nil {
		cfg.SecretToken = ""
	}
	return cfg, nil
}

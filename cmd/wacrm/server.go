package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"wacrm/internal/constants"
	apperrors "wacrm/internal/errors"
	"wacrm/internal/middleware"
	"wacrm/internal/models"
	"wacrm/internal/service"
	"wacrm/pkg/media"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Server struct {
	router      *mux.Router
	logger      *logrus.Logger
	cfg         *models.Config
	msgService  service.MessageService
	mediaStore  *media.Storage
	broadcaster *service.EventBroadcaster
	server      *http.Server
}

func NewServer(cfg *models.Config, msgService service.MessageService, mediaStore *media.Storage, broadcaster *service.EventBroadcaster, logger *logrus.Logger) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		logger:      logger,
		cfg:         cfg,
		msgService:  msgService,
		mediaStore:  mediaStore,
		broadcaster: broadcaster,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.ObservabilityMiddleware(s.logger))

	s.router.HandleFunc("/health", s.handleHealth()).Methods(http.MethodGet)
	s.router.HandleFunc("/metrics", s.handleMetrics()).Methods(http.MethodGet)

	webhook := s.router.PathPrefix("/webhook/whatsapp").Subrouter()
	webhook.Use(middleware.WebhookObservabilityMiddleware(s.logger, "whatsapp"))
	webhook.HandleFunc("", s.handleWhatsAppWebhook()).Methods(http.MethodPost)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/conversations", s.handleListConversations()).Methods(http.MethodGet)
	api.HandleFunc("/conversations/{id:[0-9]+}/messages", s.handleListMessages()).Methods(http.MethodGet)
	api.HandleFunc("/send-message", s.handleSendMessage()).Methods(http.MethodPost)
	api.HandleFunc("/webhook-config", s.handleWebhookConfig()).Methods(http.MethodPost)
	api.HandleFunc("/webhook-config", s.handleGetWebhookConfig()).Methods(http.MethodGet)
	api.HandleFunc("/upload-media", s.handleUploadMedia()).Methods(http.MethodPost)
	api.HandleFunc("/events", s.handleEvents()).Methods(http.MethodGet)
}

func (s *Server) Start() error {
	port := s.cfg.Server.Port
	if port <= 0 {
		port = constants.DefaultServerPort
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeoutSec) * time.Second,
	}

	s.logger.Infof("Starting server on port %d", port)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// writeJSON writes v with the given status. Encoding failures are logged,
// not surfaced, since the header has already been written.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

// writeError maps an error to its HTTP status and the {error: message}
// body the frontend expects.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	message := apperrors.GetUserMessage(err)
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) handleWhatsAppWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := verifySignature(r, s.cfg.Provider.WebhookSecret, "X-Webhook-Signature")
		if err != nil {
			s.logger.WithError(err).Warn("Webhook signature verification failed")
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid signature"})
			return
		}

		msg, err := s.msgService.HandleInboundWebhook(r.Context(), body)
		if errors.Is(err, service.ErrEventIgnored) {
			// Provider retries on non-2xx, so ignored events still ack.
			s.writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "ignored": true})
			return
		}
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": msg,
		})
	}
}

func (s *Server) handleListConversations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversations, err := s.msgService.ListConversations(r.Context())
		if err != nil {
			s.writeError(w, err)
			return
		}
		if conversations == nil {
			conversations = []models.Conversation{}
		}
		s.writeJSON(w, http.StatusOK, conversations)
	}
}

func (s *Server) handleListMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversationID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid conversation id"})
			return
		}

		messages, err := s.msgService.ListMessages(r.Context(), conversationID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if messages == nil {
			messages = []models.Message{}
		}
		s.writeJSON(w, http.StatusOK, messages)
	}
}

func (s *Server) handleSendMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.SendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		msg, err := s.msgService.SendMessage(r.Context(), req)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": msg,
		})
	}
}

func (s *Server) handleWebhookConfig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			WebhookURL  string `json:"webhookUrl"`
			SecretToken string `json:"secretToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		if err := s.msgService.ConfigureWebhook(r.Context(), req.WebhookURL, req.SecretToken); err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) handleGetWebhookConfig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := s.msgService.WebhookConfig(r.Context())
		if err != nil {
			s.writeError(w, err)
			return
		}
		if cfg == nil {
			s.writeError(w, apperrors.New(apperrors.ErrCodeNotFound, "webhook config not set").
				WithUserMessage("Webhook is not configured"))
			return
		}
		s.writeJSON(w, http.StatusOK, cfg)
	}
}

func (s *Server) handleUploadMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.mediaStore.MaxBytes())
		if err := r.ParseMultipartForm(s.mediaStore.MaxBytes()); err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file too large or malformed upload"})
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file field is required"})
			return
		}
		defer file.Close()

		upload, err := s.mediaStore.Store(header.Filename, io.LimitReader(file, s.mediaStore.MaxBytes()))
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"upload":  upload,
		})
	}
}

func (s *Server) handleEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.broadcaster.Subscribe(w, r); err != nil {
			s.logger.WithError(err).Warn("Websocket subscription failed")
		}
	}
}

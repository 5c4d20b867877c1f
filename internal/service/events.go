package service

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"wacrm/internal/models"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
)

const broadcastWriteTimeout = 5 * time.Second

// MessageEvent is pushed to connected UI clients whenever a message is
// recorded.
type MessageEvent struct {
	Event        string               `json:"event"`
	Conversation *models.Conversation `json:"conversation"`
	Message      *models.Message      `json:"message"`
}

// EventBroadcaster fans message events out to websocket subscribers. Slow
// or closed subscribers are dropped rather than blocking the pipeline.
type EventBroadcaster struct {
	logger *logrus.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewEventBroadcaster(logger *logrus.Logger) *EventBroadcaster {
	return &EventBroadcaster{
		logger: logger,
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

// Subscribe upgrades the request to a websocket and keeps it registered
// until the client disconnects or the request context ends.
func (b *EventBroadcaster) Subscribe(w http.ResponseWriter, r *http.Request) error {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.conns[conn] = struct{}{}
	count := len(b.conns)
	b.mu.Unlock()

	b.logger.WithField(LogFieldCount, count).Debug("Event subscriber connected")

	defer func() {
		b.remove(conn)
		conn.Close(websocket.StatusNormalClosure, "")
	}()

	// Subscribers only listen; the read loop exists to notice the close.
	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return nil
		}
	}
}

// Broadcast sends the event to every connected subscriber.
func (b *EventBroadcaster) Broadcast(ctx context.Context, event MessageEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		b.logger.WithError(err).Error("Failed to marshal message event")
		return
	}

	b.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(b.conns))
	for conn := range b.conns {
		conns = append(conns, conn)
	}
	b.mu.Unlock()

	for _, conn := range conns {
		writeCtx, cancel := context.WithTimeout(ctx, broadcastWriteTimeout)
		err := conn.Write(writeCtx, websocket.MessageText, data)
		cancel()
		if err != nil {
			b.remove(conn)
			conn.Close(websocket.StatusPolicyViolation, "write failed")
		}
	}
}

func (b *EventBroadcaster) remove(conn *websocket.Conn) {
	b.mu.Lock()
	delete(b.conns, conn)
	b.mu.Unlock()
}

package notification

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Hub fans notification events out to connected websocket clients. A
// slow or dead client is dropped on the first failed write.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
		logger:  logger,
	}
}

// HandleConnection blocks for the lifetime of the websocket connection.
// Incoming messages are drained and discarded, the stream is push only.
func (h *Hub) HandleConnection(c *websocket.Conn) {
	h.register(c)
	defer h.unregister(c)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) register(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", zap.Int("clients", count))
}

func (h *Hub) unregister(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.Close()
}

// Broadcast sends the event to every connected client.
func (h *Hub) Broadcast(event Event) {
	if event.SentAt.IsZero() {
		event.SentAt = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("failed to encode notification event", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(h.clients, c)
			c.Close()
		}
	}
}

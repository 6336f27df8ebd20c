package realtime

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/linguachat/chat-api/internal/api/metrics"
)

// Hub owns the set of live websocket clients and the presence registry.
// It is created at server start and torn down at shutdown; nothing else
// mutates presence state.
type Hub struct {
	registry *Registry
	logger   zerolog.Logger

	mu      sync.RWMutex
	clients map[string]*Client // connID -> client
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		registry: NewRegistry(),
		clients:  make(map[string]*Client),
		logger:   logger,
	}
}

// Registry exposes the presence registry for read-side consumers.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// add registers a freshly upgraded connection and broadcasts the new
// online-user set to every live connection.
func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	h.registry.Register(c.userID, c.id)
	metrics.ConnectionsActive.Inc()
	h.logger.Info().Str("conn_id", c.id).Str("user_id", c.userID).Msg("websocket connected")

	h.BroadcastPresence()
}

// remove drops a closing connection. The presence entry is only removed when
// it still points at this connection: after a reconnect overwrite, the old
// socket's close must not clobber the new entry.
func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	close(c.send)
	h.mu.Unlock()

	if current, ok := h.registry.Lookup(c.userID); ok && current == c.id {
		h.registry.Unregister(c.userID)
	}
	metrics.ConnectionsActive.Dec()
	h.logger.Info().Str("conn_id", c.id).Str("user_id", c.userID).Msg("websocket disconnected")

	h.BroadcastPresence()
}

// Close tears down every live connection, for server shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
		_ = c.conn.Close()
	}
}

func (h *Hub) client(connID string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[connID]
	return c, ok
}

package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	gws "github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/shahriakhansejan/core-bits-server/service"
	"github.com/shahriakhansejan/core-bits-server/utils"
)

// Event is the wire format for request lifecycle updates pushed to
// dashboard clients.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type Client struct {
	scope string
	conn  *gws.Conn
	send  chan []byte
}

// Hub fans events out to connected clients grouped by HR scope. It
// implements service.EventPublisher.
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[*Client]bool
	log     *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]bool),
		log:     log,
	}
}

// Publish sends an event to every client in the given HR scope. Slow
// clients are dropped rather than blocking the caller.
func (h *Hub) Publish(scope string, event string, payload interface{}) {
	data, err := json.Marshal(Event{
		Type:      event,
		Data:      payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		h.log.Errorw("failed to marshal event", "event", event, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients[scope] {
		select {
		case client.send <- data:
		default:
			close(client.send)
			delete(h.clients[scope], client)
		}
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.scope] == nil {
		h.clients[c.scope] = make(map[*Client]bool)
	}
	h.clients[c.scope][c] = true
	h.log.Infow("ws client connected", "scope", c.scope, "total", len(h.clients[c.scope]))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clients[c.scope]; ok {
		if _, ok := clients[c]; ok {
			close(c.send)
			delete(clients, c)
		}
	}
	h.log.Infow("ws client disconnected", "scope", c.scope)
}

var upgrader = gws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is handled at the middleware layer; the token gates access here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection. Browsers cannot set headers on a
// websocket handshake, so the token rides in the query string and is
// resolved here instead of in the auth middleware.
func (h *Hub) ServeWS(auth *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "token is required")
			return
		}

		ident, err := auth.Resolve(r.Context(), token)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		scope := ident.Scope()
		if scope == "" {
			utils.RespondWithError(w, http.StatusForbidden, "no HR scope")
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Errorw("ws upgrade failed", "error", err)
			return
		}

		client := &Client{scope: scope, conn: conn, send: make(chan []byte, 16)}
		h.register(client)

		go client.writePump()
		go client.readPump(h)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(gws.TextMessage, msg); err != nil {
			return
		}
	}
}

// readPump discards inbound frames; it exists to notice the close.
func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

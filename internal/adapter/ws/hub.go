package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/couchcryptid/uap-dashboard/internal/charts"
	"github.com/couchcryptid/uap-dashboard/internal/dashboard"
	"github.com/couchcryptid/uap-dashboard/internal/observability"
)

const (
	// writeTimeout is the deadline for a single write to a client.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong response before treating the
	// connection as dead.
	pongWait = 60 * time.Second

	// pingPeriod controls how often the server sends WebSocket ping frames.
	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufSize is the per-client outgoing message buffer depth.
	sendBufSize = 4

	// maxFilterSize bounds one incoming filter frame.
	maxFilterSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 64 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Message is the JSON envelope sent to clients.
type Message struct {
	Event   string          `json:"event"`
	Session string          `json:"session"`
	Data    *charts.Figures `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// filterRequest mirrors dataset.Filter with optional year bounds.
type filterRequest struct {
	Countries []string `json:"countries"`
	YearMin   *int     `json:"year_min"`
	YearMax   *int     `json:"year_max"`
}

// Hub tracks connected dashboard sessions and answers their filter frames.
type Hub struct {
	svc     *dashboard.Service
	metrics *observability.Metrics
	logger  *slog.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

// client represents one connected browser session.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// New creates a Hub that recomputes figures through svc.
func New(svc *dashboard.Service, metrics *observability.Metrics, logger *slog.Logger) *Hub {
	return &Hub{
		svc:     svc,
		metrics: metrics,
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// Run blocks until ctx is cancelled, then closes all active connections.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// ServeHTTP upgrades the HTTP connection to WebSocket and serves the client
// until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}
	h.register(c)
	defer h.unregister(c)

	go c.writePump()
	h.readPump(c) // blocks until connection closes
}

// Count returns the number of currently connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// --- internal ---------------------------------------------------------------

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.metrics.WebSocketSessions.Inc()
	h.logger.Debug("websocket session opened", "session", c.id)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.metrics.WebSocketSessions.Dec()
		h.logger.Debug("websocket session closed", "session", c.id)
	}
	h.mu.Unlock()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
		h.metrics.WebSocketSessions.Dec()
	}
}

// enqueue hands msg to the client's writer. A client too slow to drain its
// buffer is disconnected.
func (h *Hub) enqueue(c *client, msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
		h.metrics.WebSocketSessions.Dec()
		h.logger.Warn("websocket client too slow, disconnecting", "session", c.id)
	}
}

// respond recomputes the figures for one filter frame.
func (h *Hub) respond(sessionID string, frame []byte) Message {
	var req filterRequest
	if err := json.Unmarshal(frame, &req); err != nil {
		return Message{Event: "error", Session: sessionID, Error: fmt.Sprintf("decode filter: %v", err)}
	}

	f := h.svc.DefaultFilter()
	f.Countries = req.Countries
	if req.YearMin != nil {
		f.YearMin = *req.YearMin
	}
	if req.YearMax != nil {
		f.YearMax = *req.YearMax
	}

	figs, err := h.svc.Figures(f, "ws")
	if err != nil {
		return Message{Event: "error", Session: sessionID, Error: err.Error()}
	}
	return Message{Event: "figures", Session: sessionID, Data: &figs}
}

// readPump answers filter frames in arrival order. Blocks until the
// connection closes.
func (h *Hub) readPump(c *client) {
	defer c.conn.Close()
	c.conn.SetReadLimit(maxFilterSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck

		data, err := json.Marshal(h.respond(c.id, frame))
		if err != nil {
			h.logger.Error("encode websocket message", "session", c.id, "error", err)
			continue
		}
		h.enqueue(c, data)
	}
}

// writePump drains the client's send channel and forwards messages to the
// WebSocket connection. It also sends periodic ping frames. Runs in its own
// goroutine per client.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if !ok {
				// Channel was closed (hub is shutting down or client removed).
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

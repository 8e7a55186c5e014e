package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"bullet-hell/internal/game"
	"bullet-hell/internal/logger"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// MaxWSConnectionsTotal is the maximum number of WebSocket connections allowed
	MaxWSConnectionsTotal = 500

	// MaxWSConnectionsPerIP is the maximum WebSocket connections per IP
	MaxWSConnectionsPerIP = 10

	// maxWSMessage bounds inbound client messages (key lists only)
	maxWSMessage = 1 << 10
)

// Event names on the feed
const (
	EventState         = "sim:state"
	EventNotifications = "sim:notifications"
)

// Message is the envelope of every message the hub sends
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// wsClient tracks a WebSocket connection with its source IP
type wsClient struct {
	conn    *websocket.Conn
	ip      string
	control bool // may send input
}

// WebSocketHub fans snapshots and notifications out to spectators and
// accepts key input from authorized clients. Only Run writes to connections.
type WebSocketHub struct {
	engine EngineInterface

	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	done       chan struct{} // closed when Run returns
	mu         sync.RWMutex

	upgrader  websocket.Upgrader
	auth      *TokenAuth
	wsLimiter *ConnLimiter
}

// NewWebSocketHub creates a new hub with connection limiting
func NewWebSocketHub(engine EngineInterface, origins *OriginChecker, auth *TokenAuth) *WebSocketHub {
	h := &WebSocketHub{
		engine:     engine,
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		auth:       auth,
		wsLimiter:  NewConnLimiter(MaxWSConnectionsPerIP),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origins.Allowed(origin) {
				return true
			}
			logger.Log.WithField("origin", origin).Warn("WebSocket connection rejected")
			RecordConnectionRejected("origin")
			return false
		},
	}
	return h
}

// Run services registrations and broadcasts until ctx is cancelled, then
// closes every connection.
func (h *WebSocketHub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			count := len(h.clients)
			h.mu.Unlock()

			logger.Log.WithFields(logrus.Fields{
				"ip":      client.ip,
				"control": client.control,
				"total":   count,
			}).Info("WebSocket client connected")
			UpdateWSConnections(count)

		case conn := <-h.unregister:
			h.remove(conn)

		case message := <-h.broadcast:
			var failed []*websocket.Conn
			h.mu.RLock()
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					failed = append(failed, conn)
				}
			}
			h.mu.RUnlock()

			for _, conn := range failed {
				h.remove(conn)
			}
			IncrementWSMessages()
		}
	}
}

// remove drops a connection and releases its per-IP slot
func (h *WebSocketHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	client, ok := h.clients[conn]
	if ok {
		h.wsLimiter.Release(client.ip)
		delete(h.clients, conn)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	conn.Close()
	logger.Log.WithField("remaining", count).Info("WebSocket client disconnected")
	UpdateWSConnections(count)
}

func (h *WebSocketHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, client := range h.clients {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
		h.wsLimiter.Release(client.ip)
		delete(h.clients, conn)
	}
	UpdateWSConnections(0)
}

// Broadcast sends a message to all connected clients
func (h *WebSocketHub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		logger.Log.WithError(err).WithField("event", event).Warn("Broadcast encode failed")
		return
	}
	msg, err := json.Marshal(Message{Event: event, Data: payload})
	if err != nil {
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		// Channel full, skip (backpressure)
	}
}

// PublishNotifications forwards a tick's notifications to the feed.
// Suitable as an Engine.OnNotify handler.
func (h *WebSocketHub) PublishNotifications(notes []game.Notification) {
	if h.ClientCount() == 0 {
		return
	}
	h.Broadcast(EventNotifications, notes)
}

// ConnStats reports per-address connection admissions
func (h *WebSocketHub) ConnStats() LimitStats {
	return h.wsLimiter.Stats()
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RunBroadcastLoop pushes the latest snapshot every interval until ctx ends
func (h *WebSocketHub) RunBroadcastLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastSeq uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if stats := h.engine.GetEventLogStats(); stats != nil {
				total, _ := stats["total"].(uint64)
				dropped, _ := stats["dropped"].(uint64)
				UpdateEventLogStats(total, dropped)
			}

			if h.ClientCount() == 0 {
				continue
			}
			snap := h.engine.GetSnapshot()
			if snap.Sequence == lastSeq {
				continue
			}
			lastSeq = snap.Sequence
			h.Broadcast(EventState, snap)
		}
	}
}

// HandleWebSocket handles incoming WebSocket connections with DoS protection
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := ClientIP(r)

	if h.ClientCount() >= MaxWSConnectionsTotal {
		logger.Log.WithField("limit", MaxWSConnectionsTotal).Warn("WebSocket connection rejected: total limit reached")
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	if !h.wsLimiter.Acquire(ip) {
		logger.Log.WithField("ip", ip).Warn("WebSocket connection rejected: per-IP limit reached")
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	// Browsers cannot set headers on a WebSocket handshake, so the token may
	// also arrive as a query parameter
	token := bearerToken(r)
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	control := h.auth.Valid(token)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Debug("WebSocket upgrade failed")
		h.wsLimiter.Release(ip)
		return
	}
	conn.SetReadLimit(maxWSMessage)

	client := &wsClient{conn: conn, ip: ip, control: control}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		h.wsLimiter.Release(ip)
		return
	}

	// Read input messages from the client
	go func() {
		defer func() {
			select {
			case h.unregister <- conn:
			case <-h.done:
			}
		}()

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var req InputRequest
			if err := json.Unmarshal(message, &req); err != nil {
				logger.Log.WithField("ip", ip).Debug("Ignoring malformed WebSocket message")
				continue
			}
			if !client.control {
				continue
			}
			h.engine.SetInput(game.KeySetFromNames(req.Keys))
		}
	}()
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/shoppinglist/internal/auth"
	"github.com/vyrodovalexey/shoppinglist/internal/model"
	"github.com/vyrodovalexey/shoppinglist/internal/screen"
)

// WebSocket configuration constants.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 8
)

// inboundMessage is a client frame. Payload holds an intentRequest for
// "intent" frames and is ignored otherwise.
type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// wsClient is one connected remote view.
type wsClient struct {
	id     string
	member string // empty when authentication is off
	conn   *websocket.Conn
	send   chan model.WebSocketMessage
	cancel context.CancelFunc
	done   chan struct{} // closed when writePump returns
}

// WebSocketHandler streams screen state to remote views and accepts their
// intents.
type WebSocketHandler struct {
	upgrader websocket.Upgrader
	screen   Broadcaster
	logger   *zap.Logger
	mu       sync.Mutex
	clients  map[string]*wsClient
}

// NewWebSocketHandler creates a new WebSocketHandler instance.
func NewWebSocketHandler(b Broadcaster, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true // CORS and Auth middleware guard the route
			},
		},
		screen:  b,
		logger:  logger,
		clients: make(map[string]*wsClient),
	}
}

// RegisterRoutes registers the WebSocket routes with the router.
func (h *WebSocketHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws", h.HandleWebSocket).Methods(http.MethodGet)
}

// HandleWebSocket upgrades the connection, sends the current state and then
// every later change.
//
//nolint:contextcheck // the connection outlives the upgrade request
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Subscribe before the snapshot so no change can fall between them.
	updates, unsubscribe := h.screen.Subscribe()

	initial, err := h.screen.Snapshot(r.Context())
	if err != nil {
		unsubscribe()
		h.logger.Warn("websocket snapshot failed", zap.Error(err))
		http.Error(w, "screen unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		unsubscribe()
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := &wsClient{
		id:     uuid.New().String(),
		member: memberName(r),
		conn:   conn,
		send:   make(chan model.WebSocketMessage, sendBuffer),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[client.id] = client
	h.mu.Unlock()

	h.logger.Info("websocket client connected",
		zap.String("client_id", client.id),
		zap.String("member", client.member),
		zap.String("remote_addr", conn.RemoteAddr().String()),
	)

	go h.writePump(ctx, client, initial, updates, unsubscribe)
	go h.readPump(ctx, client)
}

func memberName(r *http.Request) string {
	if m, ok := auth.FromContext(r.Context()); ok {
		return m.Name
	}
	return ""
}

// readPump turns client frames into intents.
func (h *WebSocketHandler) readPump(ctx context.Context, c *wsClient) {
	defer func() {
		c.cancel()
		h.removeClient(c)
		if err := c.conn.Close(); err != nil {
			h.logger.Debug("error closing connection", zap.Error(err))
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		h.logger.Error("failed to set read deadline", zap.Error(err))
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket read error", zap.String("client_id", c.id), zap.Error(err))
			}
			return
		}

		if reply, ok := h.handleMessage(ctx, c, data); ok {
			h.enqueue(ctx, c, reply)
		}
	}
}

// handleMessage processes one client frame and returns the reply to send,
// if any. State changes reach the client through the subscription.
func (h *WebSocketHandler) handleMessage(ctx context.Context, c *wsClient, data []byte) (model.WebSocketMessage, bool) {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return model.NewErrorMessage("invalid message"), true
	}

	switch msg.Type {
	case model.WSMessageTypePing:
		return model.WebSocketMessage{Type: model.WSMessageTypePong, Timestamp: time.Now().UTC()}, true

	case model.WSMessageTypeIntent:
		var req intentRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return model.NewErrorMessage("invalid intent"), true
		}
		in, err := req.intent()
		if err != nil {
			return model.NewErrorMessage(err.Error()), true
		}

		h.logger.Debug("websocket intent",
			zap.String("client_id", c.id),
			zap.String("member", c.member),
			zap.String("intent", string(in.Type)),
		)

		if _, err = h.screen.Dispatch(ctx, in); err != nil {
			switch {
			case errors.Is(err, screen.ErrUnknownIntent):
				return model.NewErrorMessage(err.Error()), true
			case errors.Is(err, screen.ErrStopped):
				return model.NewErrorMessage("screen unavailable"), true
			default:
				h.logger.Debug("websocket dispatch failed", zap.String("client_id", c.id), zap.Error(err))
			}
		}
		return model.WebSocketMessage{}, false

	default:
		return model.NewErrorMessage("unknown message type"), true
	}
}

func (h *WebSocketHandler) enqueue(ctx context.Context, c *wsClient, msg model.WebSocketMessage) {
	select {
	case c.send <- msg:
	case <-ctx.Done():
	}
}

// writePump is the only writer on the connection. It sends the initial
// state, then every newer state, replies queued by readPump and pings.
func (h *WebSocketHandler) writePump(
	ctx context.Context,
	c *wsClient,
	initial screen.State,
	updates <-chan screen.State,
	unsubscribe func(),
) {
	pingTicker := time.NewTicker(pingPeriod)

	defer func() {
		pingTicker.Stop()
		unsubscribe()
		close(c.done)
	}()

	if err := h.write(c.conn, model.NewStateMessage(initial)); err != nil {
		h.logger.Debug("failed to send initial state", zap.Error(err))
		c.cancel()
		return
	}
	lastVersion := initial.Version

	for {
		select {
		case <-ctx.Done():
			h.sendCloseMessage(c.conn)
			return

		case state, ok := <-updates:
			if !ok {
				// Loop stopped.
				h.sendCloseMessage(c.conn)
				c.cancel()
				return
			}
			if state.Version <= lastVersion {
				continue
			}
			if err := h.write(c.conn, model.NewStateMessage(state)); err != nil {
				h.logger.Debug("failed to send state", zap.Error(err))
				c.cancel()
				return
			}
			lastVersion = state.Version

		case msg := <-c.send:
			if err := h.write(c.conn, msg); err != nil {
				h.logger.Debug("failed to send reply", zap.Error(err))
				c.cancel()
				return
			}

		case <-pingTicker.C:
			if err := h.sendPing(c.conn); err != nil {
				h.logger.Debug("failed to send ping", zap.Error(err))
				c.cancel()
				return
			}
		}
	}
}

func (h *WebSocketHandler) write(conn *websocket.Conn, msg model.WebSocketMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

func (h *WebSocketHandler) sendPing(conn *websocket.Conn) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.PingMessage, nil)
}

func (h *WebSocketHandler) sendCloseMessage(conn *websocket.Conn) {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		h.logger.Debug("failed to set write deadline for close", zap.Error(err))
		return
	}

	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "server shutting down")
	if err := conn.WriteMessage(websocket.CloseMessage, closeMsg); err != nil {
		h.logger.Debug("failed to send close message", zap.Error(err))
	}
}

func (h *WebSocketHandler) removeClient(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[c.id]; exists {
		delete(h.clients, c.id)
		h.logger.Info("websocket client disconnected", zap.String("client_id", c.id))
	}
}

// ClientCount returns the number of connected clients.
func (h *WebSocketHandler) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// CloseAllConnections sends a close frame to every client and closes the
// connections.
func (h *WebSocketHandler) CloseAllConnections() {
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.cancel()
	}

	// writePump sends the close frame before it exits.
	for _, c := range clients {
		<-c.done
		if err := c.conn.Close(); err != nil {
			h.logger.Debug("error closing connection", zap.Error(err))
		}
		h.removeClient(c)
	}

	h.logger.Info("all websocket connections closed")
}

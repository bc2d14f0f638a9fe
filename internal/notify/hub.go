// Package notify implements the Notification Bus (spec.md §4.8): a
// per-user fan-out of bot_status and new_trade events to connected
// websocket clients. Grounded on the pack's trading-backend websocket-hub
// shape (other_examples/.../trading-backend-cmd-server-main.go's
// api.NewHub/wsHub.Run()/BroadcastXxx call pattern) and gorilla/websocket,
// already an indirect dependency of the teacher's own go.mod.
package notify

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/flowdex/tradecore/internal/types"
)

// Event is the wire shape of everything the bus sends, spec.md §4.8.
type Event struct {
	Type      string          `json:"type"`
	Network   types.Network   `json:"network,omitempty"`
	IsRunning *bool           `json:"isRunning,omitempty"`
	Trade     *types.TradeLog `json:"trade,omitempty"`
}

// authFrame is the first message a listener must send before it is
// attached to a user's fan-out set — spec.md §4.8's "listeners
// authenticate by sending {type: 'auth', userId}".
type authFrame struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// Conn is one connected, (possibly still unauthenticated) websocket
// listener.
type Conn struct {
	ws     *websocket.Conn
	send   chan []byte
	mu     sync.Mutex
	closed bool
}

func newConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws, send: make(chan []byte, 16)}
}

// writeLoop drains c.send to the underlying websocket connection. It runs
// on its own goroutine so Hub.broadcast never blocks on a slow client.
func (c *Conn) writeLoop() {
	for msg := range c.send {
		c.mu.Lock()
		err := c.ws.WriteMessage(websocket.TextMessage, msg)
		c.mu.Unlock()
		if err != nil {
			return
		}
	}
}

func (c *Conn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	_ = c.ws.Close()
}

// Hub is the process-wide registry of userId -> connected listeners. Both
// the registry and the per-user slice it holds are mutation-protected
// (spec.md §5's "shared mutability... both are mutation-protected").
type Hub struct {
	mu        sync.RWMutex
	listeners map[string][]*Conn
	logger    *zap.SugaredLogger
}

// NewHub constructs an empty Hub.
func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{listeners: make(map[string][]*Conn), logger: logger}
}

// Serve takes ownership of an already-upgraded websocket connection: it
// waits for the {type:"auth",userId} first frame (discarding anything
// else unauthenticated listeners send, per spec.md §4.8), registers the
// connection, and then pumps inbound frames until the socket closes,
// pruning the connection from its user's set on exit.
func (h *Hub) Serve(ws *websocket.Conn) {
	conn := newConn(ws)
	go conn.writeLoop()
	defer conn.close()

	var userID string
	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			return
		}

		var frame authFrame
		if err := json.Unmarshal(msg, &frame); err != nil {
			continue
		}
		if frame.Type == "auth" && frame.UserID != "" {
			userID = frame.UserID
			h.register(userID, conn)
			break
		}
	}

	defer h.unregister(userID, conn)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) register(userID string, conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners[userID] = append(h.listeners[userID], conn)
}

func (h *Hub) unregister(userID string, conn *Conn) {
	if userID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.listeners[userID]
	for i, c := range conns {
		if c == conn {
			h.listeners[userID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.listeners[userID]) == 0 {
		delete(h.listeners, userID)
	}
}

// broadcast serializes event and sends it to every listener currently
// registered for userID. Listeners whose transport has already gone away
// are pruned on their own read-loop exit, not here — broadcast never
// blocks waiting for a slow or dead client (each Conn has its own
// buffered send channel and write goroutine).
func (h *Hub) broadcast(userID string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Errorw("failed to marshal notification event", "error", err)
		return
	}

	h.mu.RLock()
	conns := append([]*Conn(nil), h.listeners[userID]...)
	h.mu.RUnlock()

	for _, c := range conns {
		select {
		case c.send <- payload:
		default:
			h.logger.Warnw("dropping notification, listener send buffer full", "userId", userID)
		}
	}
}

// NotifyBotStatus broadcasts a bot_status event — spec.md §4.8.
func (h *Hub) NotifyBotStatus(userID string, status types.BotStatus) {
	running := status.IsRunning
	h.broadcast(userID, Event{Type: "bot_status", Network: status.Network, IsRunning: &running})
}

// NotifyTrade broadcasts a new_trade event carrying the full trade log —
// spec.md §4.8.
func (h *Hub) NotifyTrade(userID string, log types.TradeLog) {
	h.broadcast(userID, Event{Type: "new_trade", Trade: &log})
}

// Close tears down every registered connection. Called on process
// shutdown (spec.md §9: "each should have explicit construction at
// startup and explicit teardown on shutdown... close listeners").
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, conns := range h.listeners {
		for _, c := range conns {
			c.close()
		}
		delete(h.listeners, userID)
	}
}

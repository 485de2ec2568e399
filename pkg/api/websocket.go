package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tradedeck/tradedeck/pkg/catalog"
	"github.com/tradedeck/tradedeck/pkg/ticks"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (CORS handled by main server)
		return true
	},
}

// client is one tick-feed connection. Its subscription is a two-state
// machine: idle (symbol == "") or active on exactly one symbol, with an
// owned cancel handle for the streaming goroutine. Every subscribe tears
// down the previous handle before installing a new one; connection close
// tears down unconditionally.
type client struct {
	conn   *websocket.Conn
	send   chan []byte
	id     string
	logger *zap.SugaredLogger

	catalog  *catalog.Catalog
	ticks    *ticks.Generator
	interval time.Duration

	// mu guards the subscription state below and the send channel's
	// lifecycle. Tick emission happens under mu, so a command observed
	// by the reader is never outrun by a stale timer firing.
	mu     sync.Mutex
	symbol string
	cancel chan struct{}
	closed bool
}

// handleTickFeed handles WebSocket upgrade and client lifecycle
func (s *Server) handleTickFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("ws_upgrade_failed", "err", err)
		return
	}

	c := &client{
		conn:     conn,
		send:     make(chan []byte, 16),
		id:       conn.RemoteAddr().String(),
		logger:   s.logger,
		catalog:  s.catalog,
		ticks:    s.ticks,
		interval: s.tickInterval,
	}

	s.logger.Infow("ws_connected", "client", c.id)

	go c.writePump()
	go c.readPump()
}

// readPump consumes subscribe/unsubscribe commands until the connection
// drops, then tears the subscription down.
func (c *client) readPump() {
	defer func() {
		c.teardown()
		c.conn.Close()
		c.logger.Infow("ws_disconnected", "client", c.id)
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warnw("ws_read_error", "client", c.id, "err", err)
			}
			return
		}

		// The feed is best-effort: bad commands are logged and dropped,
		// the connection stays open and no error is sent back.
		var cmd TickCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.logger.Warnw("ws_bad_payload", "client", c.id, "err", err)
			continue
		}
		if cmd.Symbol == "" {
			c.logger.Warnw("ws_missing_symbol", "client", c.id)
			continue
		}

		switch cmd.Action {
		case "subscribe":
			c.subscribe(cmd.Symbol)
		case "unsubscribe":
			c.unsubscribe(cmd.Symbol)
		default:
			c.logger.Warnw("ws_unknown_action", "client", c.id, "action", cmd.Action)
		}
	}
}

// subscribe activates a tick stream for the symbol, replacing any previous
// subscription. Unknown symbols are dropped without a state change.
func (c *client) subscribe(code string) {
	sym, ok := c.catalog.Find(code)
	if !ok {
		c.logger.Warnw("ws_unknown_symbol", "client", c.id, "symbol", code)
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.stopLocked()
	cancel := make(chan struct{})
	c.symbol = sym.Symbol
	c.cancel = cancel
	c.mu.Unlock()

	go c.stream(sym, cancel)
	c.logger.Infow("ws_subscribed", "client", c.id, "symbol", sym.Symbol)
}

// unsubscribe is a no-op unless the named symbol is the active one.
func (c *client) unsubscribe(code string) {
	c.mu.Lock()
	if c.symbol == code {
		c.stopLocked()
		c.logger.Infow("ws_unsubscribed", "client", c.id, "symbol", code)
	}
	c.mu.Unlock()
}

// stopLocked cancels the active stream, if any. Caller holds c.mu.
func (c *client) stopLocked() {
	if c.cancel != nil {
		close(c.cancel)
		c.cancel = nil
		c.symbol = ""
	}
}

// teardown ends the subscription and the write pump when the connection
// goes away.
func (c *client) teardown() {
	c.mu.Lock()
	c.stopLocked()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
}

// stream emits one tick per interval while cancel is still the client's
// active handle. The re-check and the emission happen under the client
// lock, so a subscription change observed by the reader can never be
// followed by a tick from the replaced stream. The check compares handle
// identity, not the symbol name: after an unsubscribe and an immediate
// resubscribe to the same symbol the name matches again, but only the
// replacement stream owns the new handle.
func (c *client) stream(sym catalog.Symbol, cancel chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.closed || c.cancel != cancel {
				c.mu.Unlock()
				return
			}
			tick := c.ticks.Next(sym.Symbol, sym.ClosePrice)
			data, err := json.Marshal(tick)
			if err == nil {
				select {
				case c.send <- data:
				default:
					// Slow consumer: drop the tick, the feed is lossy.
				}
			}
			c.mu.Unlock()
		}
	}
}

// writePump pumps outbound messages to the WebSocket connection
func (c *client) writePump() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package realtime

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxMessage = 4 * 1024
)

// Handler upgrades GET /v1/ws.  An optional ?resources=rooms,reservations
// query limits which events the client receives.  allowedOrigins empty
// accepts any origin.
func (h *Hub) Handler(allowedOrigins []string) echo.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			h.log.Warn("websocket upgrade failed", zap.Error(err))
			return nil
		}
		client := &Client{
			ID:        uuid.New(),
			conn:      conn,
			hub:       h,
			send:      make(chan Message, 32),
			resources: make(map[string]bool),
		}
		if q := c.QueryParam("resources"); q != "" {
			client.Subscribe(splitList(q)...)
		}
		if !h.add(client) {
			_ = conn.Close()
			return nil
		}
		h.log.Info("websocket client connected", zap.String("client_id", client.ID.String()))

		go client.writePump()
		client.readPump()
		return nil
	}
}

// readPump handles subscription changes from the client until it goes away.
func (c *Client) readPump() {
	defer func() {
		c.hub.remove(c)
		_ = c.conn.Close()
		c.hub.log.Info("websocket client disconnected", zap.String("client_id", c.ID.String()))
	}()

	c.conn.SetReadLimit(maxMessage)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warn("websocket unexpected close", zap.String("client_id", c.ID.String()), zap.Error(err))
			}
			return
		}
		switch msg.Type {
		case MessageTypeSubscribe:
			c.Subscribe(msg.Resources...)
		case MessageTypeUnsubscribe:
			c.Unsubscribe(msg.Resources...)
		default:
			c.trySend(Message{Type: MessageTypeError, Payload: "unknown message type: " + string(msg.Type), Timestamp: time.Now().UTC()})
		}
	}
}

// trySend queues msg unless the hub has already dropped the client.
func (c *Client) trySend(msg Message) {
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if !c.hub.clients[c] {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

// writePump writes queued messages and keeps the connection alive.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.hub.log.Debug("websocket write error", zap.String("client_id", c.ID.String()), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[strings.TrimRight(o, "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[strings.TrimRight(origin, "/")]
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

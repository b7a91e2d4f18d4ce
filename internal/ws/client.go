package ws

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mport/typeduel/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings with this period; must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size in bytes
	maxMessageSize = 4096

	// Outbound buffer per connection; the hub drops the connection rather
	// than block when it fills
	sendBufferSize = 64
)

// Client is one live websocket connection. Reads and writes each run on
// their own goroutine; everything else goes through the hub.
type Client struct {
	connID model.ConnectionID
	conn   *websocket.Conn
	hub    *Hub
	send   chan Envelope
	logger *slog.Logger
}

func newClient(connID model.ConnectionID, conn *websocket.Conn, hub *Hub, logger *slog.Logger) *Client {
	return &Client{
		connID: connID,
		conn:   conn,
		hub:    hub,
		send:   make(chan Envelope, sendBufferSize),
		logger: logger.With(slog.String("conn_id", string(connID))),
	}
}

// readPump reads envelopes off the connection and feeds them to the hub.
// It exits on any read error, triggering unregistration.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("unexpected close", slog.String("error", err.Error()))
			}
			return
		}
		c.hub.incoming <- inboundMessage{connID: c.connID, envelope: env}
	}
}

// writePump drains the send channel onto the connection and keeps the
// connection alive with periodic pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel; the client was unregistered
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(env); err != nil {
				c.logger.Warn("write failed", slog.String("error", err.Error()))
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

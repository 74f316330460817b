package websocket

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	ErrClientDisconnected = errors.New("client disconnected")
	ErrSendBufferFull     = errors.New("send buffer full")
)

// Settings tune the per-connection pumps.
type Settings struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period. Must be less than PongWait
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64

	// Outbound frames queued per connection before new ones are dropped
	SendBufferSize int
}

func DefaultSettings() Settings {
	return Settings{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 8192,
		SendBufferSize: 256,
	}
}

// Conn is the part of *websocket.Conn the pumps use.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Client is one authenticated connection.
type Client struct {
	id     string
	userID uint
	hub    *Hub
	conn   Conn
	send   chan []byte

	// Connection state management
	ctx    context.Context
	cancel context.CancelFunc
	closed int32
}

func NewClient(hub *Hub, conn Conn, userID uint) *Client {
	ctx, cancel := context.WithCancel(hub.ctx)

	return &Client{
		id:     uuid.New().String(),
		userID: userID,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, hub.settings.SendBufferSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (c *Client) isClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

// Close terminates the connection without a close frame. The read pump then
// fails and routes the client through Hub.Unregister.
func (c *Client) Close() {
	if atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		c.cancel()
		c.conn.Close()
		c.hub.log.Debug("Client closed", "clientID", c.id, "userID", c.userID)
	}
}

// closeGoingAway sends a close frame before closing, used on shutdown.
func (c *Client) closeGoingAway() {
	if c.isClosed() {
		return
	}
	deadline := time.Now().Add(c.hub.settings.WriteWait)
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	if err := c.conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
		c.hub.log.Debug("Error sending close frame", "clientID", c.id, "error", err)
	}
	c.Close()
}

// Send queues an encoded frame without blocking. A full queue drops the frame.
func (c *Client) Send(data []byte) error {
	if c.isClosed() {
		return ErrClientDisconnected
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.hub.log.Debug("Send buffer full, dropping frame", "clientID", c.id, "userID", c.userID)
		return ErrSendBufferFull
	}
}

// SendEvent encodes and queues a single event for this connection only.
func (c *Client) SendEvent(evt *OutboundEvent) error {
	data, err := evt.Encode()
	if err != nil {
		return err
	}
	return c.Send(data)
}

func (c *Client) readPump() {
	defer c.hub.Unregister(c)

	c.conn.SetReadLimit(c.hub.settings.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.hub.settings.PongWait))
	c.conn.SetPongHandler(func(string) error {
		if c.isClosed() {
			return websocket.ErrCloseSent
		}
		return c.conn.SetReadDeadline(time.Now().Add(c.hub.settings.PongWait))
	})

	c.hub.log.Debug("ReadPump started", "clientID", c.id, "userID", c.userID)

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && !c.isClosed() {
				c.hub.log.Info("WebSocket read error", "clientID", c.id, "userID", c.userID, "error", err)
			} else {
				c.hub.log.Debug("WebSocket connection closed", "clientID", c.id, "userID", c.userID, "error", err)
			}
			return
		}

		if messageType != websocket.TextMessage {
			c.hub.log.Debug("Ignoring non-text frame", "clientID", c.id, "userID", c.userID, "messageType", messageType)
			continue
		}

		c.hub.HandleFrame(c, data)

		if c.isClosed() {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.settings.PingPeriod)
	defer func() {
		ticker.Stop()
		c.hub.log.Debug("WritePump finished", "clientID", c.id, "userID", c.userID)
	}()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.settings.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.hub.log.Debug("Error writing message", "clientID", c.id, "userID", c.userID, "error", err)
				c.Close()
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.settings.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.hub.log.Debug("Error sending ping", "clientID", c.id, "userID", c.userID, "error", err)
				c.Close()
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// ServeWS upgrades an already authenticated request and starts the pumps.
func ServeWS(hub *Hub, upgrader *websocket.Upgrader, w http.ResponseWriter, r *http.Request, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Error("Failed to upgrade WebSocket connection", "userID", userID, "error", err)
		return
	}

	client := NewClient(hub, conn, userID)
	if err := hub.Register(client); err != nil {
		hub.log.Warn("Rejected WebSocket connection", "userID", userID, "error", err)
		conn.Close()
		return
	}
	hub.log.Info("New WebSocket connection established", "clientID", client.id, "userID", client.userID)

	go client.writePump()
	go client.readPump()
}

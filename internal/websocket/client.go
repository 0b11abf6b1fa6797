package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"zattar/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

var timeNow = time.Now

// Client is one websocket connection bound to a user and a conversation.
type Client struct {
	ID             string
	UserID         uuid.UUID
	ConversationID uuid.UUID

	conn *websocket.Conn
	send chan []byte
	log  *logger.Logger

	mu     sync.Mutex
	closed bool
}

func NewClient(conn *websocket.Conn, userID, conversationID uuid.UUID, log *logger.Logger) *Client {
	return &Client{
		ID:             uuid.New().String(),
		UserID:         userID,
		ConversationID: conversationID,
		conn:           conn,
		send:           make(chan []byte, sendBufferSize),
		log:            log,
	}
}

// SendPayload queues a frame for delivery without blocking. A client whose
// buffer is full misses the frame; it is dropped and logged rather than
// stalling the broadcaster. A broadcast can hold a subscriber snapshot taken
// before the client disconnected, so frames arriving after Close are dropped
// instead of hitting the closed channel.
func (c *Client) SendPayload(payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	select {
	case c.send <- payload:
	default:
		c.log.Warnf("client %s send buffer full, dropping frame", c.ID)
	}
}

// WriteLoop drains the send queue onto the wire and keeps the connection
// alive with pings. It exits when the send channel closes or a write fails.
func (c *Client) WriteLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close shuts the send queue, which unblocks WriteLoop and closes the
// underlying connection. Safe to call once the client has been unregistered;
// later sends become no-ops.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

package websocket

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"zattar/internal/events"
	"zattar/internal/redis"
	"zattar/internal/services"
	"zattar/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// inboundFrame is what clients are allowed to send over the socket.
type inboundFrame struct {
	Type     string `json:"type"`
	Content  string `json:"content"`
	IsTyping bool   `json:"is_typing"`
}

type Handler struct {
	hub       *Hub
	chat      *services.ChatService
	auth      *services.AuthService
	publisher events.Publisher
	limiter   *redis.RateLimiter
	log       *logger.Logger
}

func NewHandler(hub *Hub, chat *services.ChatService, auth *services.AuthService, publisher events.Publisher, limiter *redis.RateLimiter, log *logger.Logger) *Handler {
	return &Handler{
		hub:       hub,
		chat:      chat,
		auth:      auth,
		publisher: publisher,
		limiter:   limiter,
		log:       log,
	}
}

// HandleChat upgrades GET /ws/chat/:conversation_id. Browsers cannot set an
// Authorization header on a websocket request, so the access token rides in
// the token query parameter.
func (h *Handler) HandleChat(c *gin.Context) {
	claims, err := h.auth.ParseAccessToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
		return
	}

	conversationID, err := uuid.Parse(c.Param("conversation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	// Membership is checked before the upgrade so outsiders get a plain
	// HTTP status instead of a half-open socket.
	if _, err := h.chat.GetConversation(c.Request.Context(), conversationID, userID); err != nil {
		c.JSON(services.HTTPStatus(err), gin.H{"error": "conversation unavailable"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorf("websocket upgrade failed: %v", err)
		return
	}

	client := NewClient(conn, userID, conversationID, h.log)
	h.hub.Register(conversationID, client)
	go client.WriteLoop()

	if payload, err := events.NewUserJoinedEvent(userID); err == nil {
		h.publish(c.Request.Context(), conversationID, payload)
	}

	h.readLoop(client)
}

func (h *Handler) readLoop(client *Client) {
	defer func() {
		h.hub.Unregister(client.ConversationID, client)
		client.Close()

		if payload, err := events.NewUserLeftEvent(client.UserID); err == nil {
			h.publish(context.Background(), client.ConversationID, payload)
		}
	}()

	client.conn.SetReadLimit(maxMessageSize)
	client.conn.SetReadDeadline(timeNow().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(timeNow().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warnf("client %s read error: %v", client.ID, err)
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			h.log.Warnf("client %s sent malformed frame", client.ID)
			continue
		}

		switch frame.Type {
		case events.TypeMessage:
			h.handleMessage(client, frame.Content)
		case events.TypeTyping:
			h.handleTyping(client, frame.IsTyping)
		default:
			h.log.Warnf("client %s sent unknown frame type %q", client.ID, frame.Type)
		}
	}
}

func (h *Handler) handleMessage(client *Client, content string) {
	ctx := context.Background()

	if h.limiter != nil {
		res, err := h.limiter.AllowMessage(ctx, client.UserID.String())
		if err == nil && !res.Allowed {
			h.log.Warnf("client %s over message rate limit", client.ID)
			return
		}
	}

	msg, err := h.chat.SendMessage(ctx, client.ConversationID, client.UserID, content)
	if err != nil {
		h.log.Warnf("client %s message rejected: %v", client.ID, err)
		return
	}

	payload, err := events.NewMessageEvent(events.MessageBody{
		ID:        msg.ID,
		SenderID:  msg.SenderID,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	})
	if err != nil {
		h.log.Errorf("encode message event: %v", err)
		return
	}
	h.publish(ctx, client.ConversationID, payload)
}

func (h *Handler) handleTyping(client *Client, isTyping bool) {
	payload, err := events.NewTypingEvent(client.UserID, isTyping)
	if err != nil {
		return
	}
	h.publish(context.Background(), client.ConversationID, payload)
}

// publish routes a frame through redis so every instance, this one
// included, delivers it via its bridge. If redis is down the frame still
// reaches local subscribers directly.
func (h *Handler) publish(ctx context.Context, conversationID uuid.UUID, payload []byte) {
	if h.publisher == nil {
		h.hub.Broadcast(conversationID, payload)
		return
	}
	if err := h.publisher.Publish(ctx, events.ConversationChannel(conversationID), payload); err != nil {
		h.log.Errorf("publish to conversation %s failed, delivering locally: %v", conversationID, err)
		h.hub.Broadcast(conversationID, payload)
	}
}

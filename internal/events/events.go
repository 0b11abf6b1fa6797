package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Chat event types as carried in the "type" field of every frame.
const (
	TypeMessage    = "message"
	TypeTyping     = "typing"
	TypeUserJoined = "user_joined"
	TypeUserLeft   = "user_left"
	TypeDealUpdate = "deal_update"
)

// Publisher pushes a serialized event onto a fan-out channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Subscriber consumes fan-out channels matching the given patterns.
type Subscriber interface {
	Subscribe(ctx context.Context, patterns []string, handler func(channel string, payload []byte)) error
}

const conversationChannelPrefix = "channel:conversation:"

// ConversationChannel names the fan-out channel for one conversation.
func ConversationChannel(conversationID uuid.UUID) string {
	return conversationChannelPrefix + conversationID.String()
}

// ConversationPattern matches every conversation channel.
func ConversationPattern() string {
	return conversationChannelPrefix + "*"
}

// MessageBody is the persisted message as broadcast to subscribers.
type MessageBody struct {
	ID        uuid.UUID `json:"id"`
	SenderID  uuid.UUID `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageEvent wraps a new chat message.
type MessageEvent struct {
	Type    string      `json:"type"`
	Message MessageBody `json:"message"`
}

// TypingEvent relays a typing indicator.
type TypingEvent struct {
	Type     string    `json:"type"`
	UserID   uuid.UUID `json:"user_id"`
	IsTyping bool      `json:"is_typing"`
}

// PresenceEvent announces a user joining or leaving a conversation.
type PresenceEvent struct {
	Type   string    `json:"type"`
	UserID uuid.UUID `json:"user_id"`
}

func NewMessageEvent(body MessageBody) ([]byte, error) {
	return json.Marshal(MessageEvent{Type: TypeMessage, Message: body})
}

func NewTypingEvent(userID uuid.UUID, isTyping bool) ([]byte, error) {
	return json.Marshal(TypingEvent{Type: TypeTyping, UserID: userID, IsTyping: isTyping})
}

func NewUserJoinedEvent(userID uuid.UUID) ([]byte, error) {
	return json.Marshal(PresenceEvent{Type: TypeUserJoined, UserID: userID})
}

func NewUserLeftEvent(userID uuid.UUID) ([]byte, error) {
	return json.Marshal(PresenceEvent{Type: TypeUserLeft, UserID: userID})
}

// DealUpdateEvent tells a conversation that its safe deal changed status.
type DealUpdateEvent struct {
	Type   string    `json:"type"`
	DealID uuid.UUID `json:"deal_id"`
	Status string    `json:"status"`
}

func NewDealUpdateEvent(dealID uuid.UUID, status string) ([]byte, error) {
	return json.Marshal(DealUpdateEvent{Type: TypeDealUpdate, DealID: dealID, Status: status})
}

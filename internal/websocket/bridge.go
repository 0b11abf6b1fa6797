package websocket

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"zattar/internal/events"
	"zattar/pkg/logger"
)

// Bridge feeds redis-published conversation events into the local hub, so
// clients attached to other instances still receive every frame.
type Bridge struct {
	hub        *Hub
	subscriber events.Subscriber
	log        *logger.Logger
}

func NewBridge(hub *Hub, subscriber events.Subscriber, log *logger.Logger) *Bridge {
	return &Bridge{
		hub:        hub,
		subscriber: subscriber,
		log:        log,
	}
}

// Run blocks on the redis subscription until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	return b.subscriber.Subscribe(ctx, []string{events.ConversationPattern()}, b.deliver)
}

func (b *Bridge) deliver(channel string, payload []byte) {
	idx := strings.LastIndex(channel, ":")
	if idx < 0 || idx == len(channel)-1 {
		b.log.Warnf("bridge received malformed channel %q", channel)
		return
	}
	conversationID, err := uuid.Parse(channel[idx+1:])
	if err != nil {
		b.log.Warnf("bridge received non-uuid conversation in channel %q", channel)
		return
	}
	b.hub.Broadcast(conversationID, payload)
}

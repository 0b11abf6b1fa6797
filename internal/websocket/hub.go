package websocket

import (
	"sync"

	"github.com/google/uuid"

	"zattar/pkg/logger"
)

// Hub tracks which clients are attached to which conversation on this
// instance. Cross-instance delivery goes through the redis bridge; the hub
// only fans out locally.
type Hub struct {
	mu            sync.RWMutex
	conversations map[uuid.UUID]map[*Client]struct{}
	log           *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		conversations: make(map[uuid.UUID]map[*Client]struct{}),
		log:           log,
	}
}

func (h *Hub) Register(conversationID uuid.UUID, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.conversations[conversationID]
	if !ok {
		set = make(map[*Client]struct{})
		h.conversations[conversationID] = set
	}
	set[client] = struct{}{}

	h.log.Infof("client %s joined conversation %s (%d attached)", client.ID, conversationID, len(set))
}

func (h *Hub) Unregister(conversationID uuid.UUID, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.conversations[conversationID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.conversations, conversationID)
	}

	h.log.Infof("client %s left conversation %s", client.ID, conversationID)
}

// Subscribers returns a snapshot of the clients attached to a conversation.
// Delivery happens outside the lock so a slow client cannot stall the hub.
func (h *Hub) Subscribers(conversationID uuid.UUID) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	set, ok := h.conversations[conversationID]
	if !ok {
		return nil
	}
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	return clients
}

// Broadcast sends payload to every client attached to the conversation.
func (h *Hub) Broadcast(conversationID uuid.UUID, payload []byte) {
	for _, c := range h.Subscribers(conversationID) {
		c.SendPayload(payload)
	}
}

// ConversationCount reports how many conversations have at least one
// attached client, for the health endpoint.
func (h *Hub) ConversationCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conversations)
}

package websocket

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zattar/pkg/logger"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	return NewHub(logger.New(logger.DevelopmentMode))
}

func newTestClient(conversationID uuid.UUID, log *logger.Logger) *Client {
	return NewClient(nil, uuid.New(), conversationID, log)
}

func drain(c *Client) [][]byte {
	var out [][]byte
	for {
		select {
		case p := <-c.send:
			out = append(out, p)
		default:
			return out
		}
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := newTestHub(t)
	convID := uuid.New()

	a := newTestClient(convID, hub.log)
	b := newTestClient(convID, hub.log)
	hub.Register(convID, a)
	hub.Register(convID, b)

	other := newTestClient(uuid.New(), hub.log)
	hub.Register(other.ConversationID, other)

	hub.Broadcast(convID, []byte(`{"type":"typing"}`))

	require.Len(t, drain(a), 1)
	require.Len(t, drain(b), 1)
	assert.Empty(t, drain(other))
}

func TestHubUnregister(t *testing.T) {
	hub := newTestHub(t)
	convID := uuid.New()

	a := newTestClient(convID, hub.log)
	b := newTestClient(convID, hub.log)
	hub.Register(convID, a)
	hub.Register(convID, b)

	hub.Unregister(convID, a)
	hub.Broadcast(convID, []byte("x"))

	assert.Empty(t, drain(a))
	assert.Len(t, drain(b), 1)
}

func TestHubRemovesEmptyConversations(t *testing.T) {
	hub := newTestHub(t)
	convID := uuid.New()

	c := newTestClient(convID, hub.log)
	hub.Register(convID, c)
	assert.Equal(t, 1, hub.ConversationCount())

	hub.Unregister(convID, c)
	assert.Equal(t, 0, hub.ConversationCount())

	// Unregistering again is harmless.
	hub.Unregister(convID, c)
	assert.Equal(t, 0, hub.ConversationCount())
}

func TestSubscribersSnapshot(t *testing.T) {
	hub := newTestHub(t)
	convID := uuid.New()

	a := newTestClient(convID, hub.log)
	hub.Register(convID, a)

	snap := hub.Subscribers(convID)
	require.Len(t, snap, 1)

	// Mutating membership after the snapshot does not affect it.
	hub.Unregister(convID, a)
	assert.Len(t, snap, 1)
	assert.Nil(t, hub.Subscribers(convID))
}

func TestBroadcastAfterDisconnectDoesNotPanic(t *testing.T) {
	hub := newTestHub(t)
	convID := uuid.New()

	a := newTestClient(convID, hub.log)
	b := newTestClient(convID, hub.log)
	hub.Register(convID, a)
	hub.Register(convID, b)

	// A broadcaster can hold a snapshot taken before a client disconnects.
	snap := hub.Subscribers(convID)
	require.Len(t, snap, 2)

	hub.Unregister(convID, a)
	a.Close()

	require.NotPanics(t, func() {
		for _, c := range snap {
			c.SendPayload([]byte("late"))
		}
	})
	assert.Len(t, drain(b), 1)

	// Close is idempotent as well.
	require.NotPanics(t, func() { a.Close() })
}

func TestSendPayloadDropsWhenFull(t *testing.T) {
	hub := newTestHub(t)
	c := newTestClient(uuid.New(), hub.log)

	for i := 0; i < sendBufferSize; i++ {
		c.SendPayload([]byte("fill"))
	}
	// Buffer is full; the extra frame is dropped, not blocked on.
	c.SendPayload([]byte("overflow"))

	assert.Len(t, drain(c), sendBufferSize)
}

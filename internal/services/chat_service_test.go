package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zattar/internal/domain/chat"
	zattar_errors "zattar/pkg/errors"
)

type fakeConversationRepo struct {
	conversations map[uuid.UUID]chat.Conversation
	createErr     error
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: make(map[uuid.UUID]chat.Conversation)}
}

func (f *fakeConversationRepo) Create(_ context.Context, c *chat.Conversation) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.conversations {
		if existing.ListingID == c.ListingID && existing.BuyerID == c.BuyerID && existing.SellerID == c.SellerID {
			return zattar_errors.ErrAlreadyExists
		}
	}
	f.conversations[c.ID] = *c
	return nil
}

func (f *fakeConversationRepo) GetByID(_ context.Context, id uuid.UUID) (chat.Conversation, error) {
	c, ok := f.conversations[id]
	if !ok {
		return chat.Conversation{}, zattar_errors.ErrNotFound
	}
	return c, nil
}

func (f *fakeConversationRepo) GetByParties(_ context.Context, listingID, buyerID, sellerID uuid.UUID) (chat.Conversation, error) {
	for _, c := range f.conversations {
		if c.ListingID == listingID && c.BuyerID == buyerID && c.SellerID == sellerID {
			return c, nil
		}
	}
	return chat.Conversation{}, zattar_errors.ErrNotFound
}

func (f *fakeConversationRepo) GetByUser(_ context.Context, userID uuid.UUID, _, _ int) ([]chat.Conversation, error) {
	var out []chat.Conversation
	for _, c := range f.conversations {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConversationRepo) TouchLastMessage(_ context.Context, id uuid.UUID, at time.Time) error {
	c, ok := f.conversations[id]
	if !ok {
		return zattar_errors.ErrNotFound
	}
	c.LastMessageAt = at
	f.conversations[id] = c
	return nil
}

type fakeMessageRepo struct {
	messages []chat.Message
}

func (f *fakeMessageRepo) Create(_ context.Context, m *chat.Message) error {
	f.messages = append(f.messages, *m)
	return nil
}

func (f *fakeMessageRepo) GetByConversation(_ context.Context, conversationID uuid.UUID, _, _ int) ([]chat.Message, error) {
	var out []chat.Message
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) MarkAsRead(_ context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	var n int64
	for i, m := range f.messages {
		if m.ConversationID == conversationID && m.SenderID != readerID && !m.IsRead {
			f.messages[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func newTestChatService(convRepo *fakeConversationRepo, msgRepo *fakeMessageRepo, at time.Time) *ChatService {
	s := NewChatService(convRepo, msgRepo)
	s.now = func() time.Time { return at }
	return s
}

func TestGetOrCreateConversation(t *testing.T) {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("creates once and returns same conversation after", func(t *testing.T) {
		convRepo := newFakeConversationRepo()
		svc := newTestChatService(convRepo, &fakeMessageRepo{}, now)

		listingID, buyerID, sellerID := uuid.New(), uuid.New(), uuid.New()

		first, err := svc.GetOrCreateConversation(ctx, listingID, buyerID, sellerID)
		require.NoError(t, err)
		assert.Equal(t, now, first.LastMessageAt)

		second, err := svc.GetOrCreateConversation(ctx, listingID, buyerID, sellerID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Len(t, convRepo.conversations, 1)
	})

	t.Run("rejects self conversation", func(t *testing.T) {
		svc := newTestChatService(newFakeConversationRepo(), &fakeMessageRepo{}, now)
		party := uuid.New()

		_, err := svc.GetOrCreateConversation(ctx, uuid.New(), party, party)
		assert.ErrorIs(t, err, zattar_errors.ErrInvalidInput)
	})
}

func TestSendMessage(t *testing.T) {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	ctx := context.Background()

	setup := func(t *testing.T) (*ChatService, *fakeConversationRepo, *fakeMessageRepo, chat.Conversation) {
		convRepo := newFakeConversationRepo()
		msgRepo := &fakeMessageRepo{}
		svc := newTestChatService(convRepo, msgRepo, now)
		conv, err := svc.GetOrCreateConversation(ctx, uuid.New(), uuid.New(), uuid.New())
		require.NoError(t, err)
		return svc, convRepo, msgRepo, conv
	}

	t.Run("persists and bumps last_message_at", func(t *testing.T) {
		svc, convRepo, msgRepo, conv := setup(t)

		later := now.Add(10 * time.Minute)
		svc.now = func() time.Time { return later }

		msg, err := svc.SendMessage(ctx, conv.ID, conv.BuyerID, "is this still available?")
		require.NoError(t, err)
		assert.Equal(t, conv.ID, msg.ConversationID)
		assert.Equal(t, later, msg.CreatedAt)
		require.Len(t, msgRepo.messages, 1)
		assert.Equal(t, later, convRepo.conversations[conv.ID].LastMessageAt)
	})

	t.Run("rejects empty content", func(t *testing.T) {
		svc, _, _, conv := setup(t)

		_, err := svc.SendMessage(ctx, conv.ID, conv.BuyerID, "")
		assert.ErrorIs(t, err, zattar_errors.ErrInvalidInput)
	})

	t.Run("rejects non-participant", func(t *testing.T) {
		svc, _, _, conv := setup(t)

		_, err := svc.SendMessage(ctx, conv.ID, uuid.New(), "hello")
		assert.ErrorIs(t, err, zattar_errors.ErrForbidden)
	})

	t.Run("unknown conversation", func(t *testing.T) {
		svc, _, _, _ := setup(t)

		_, err := svc.SendMessage(ctx, uuid.New(), uuid.New(), "hello")
		assert.ErrorIs(t, err, zattar_errors.ErrNotFound)
	})
}

func TestMarkConversationAsRead(t *testing.T) {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	ctx := context.Background()

	convRepo := newFakeConversationRepo()
	msgRepo := &fakeMessageRepo{}
	svc := newTestChatService(convRepo, msgRepo, now)

	conv, err := svc.GetOrCreateConversation(ctx, uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, conv.ID, conv.SellerID, "still for sale")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, conv.ID, conv.SellerID, "interested?")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, conv.ID, conv.BuyerID, "yes")
	require.NoError(t, err)

	// Only the peer's messages flip to read, never the reader's own.
	n, err := svc.MarkConversationAsRead(ctx, conv.ID, conv.BuyerID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = svc.MarkConversationAsRead(ctx, conv.ID, conv.BuyerID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, err = svc.MarkConversationAsRead(ctx, conv.ID, uuid.New())
	assert.ErrorIs(t, err, zattar_errors.ErrForbidden)
}

func TestGetConversationMessages(t *testing.T) {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	ctx := context.Background()

	convRepo := newFakeConversationRepo()
	msgRepo := &fakeMessageRepo{}
	svc := newTestChatService(convRepo, msgRepo, now)

	conv, err := svc.GetOrCreateConversation(ctx, uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, conv.ID, conv.BuyerID, "hi")
	require.NoError(t, err)

	msgs, err := svc.GetConversationMessages(ctx, conv.ID, conv.SellerID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	_, err = svc.GetConversationMessages(ctx, conv.ID, uuid.New(), 0, 0)
	assert.ErrorIs(t, err, zattar_errors.ErrForbidden)
}

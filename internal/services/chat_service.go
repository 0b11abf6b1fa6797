package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zattar/internal/domain/chat"
	"zattar/internal/repository"
	zattar_errors "zattar/pkg/errors"

	"github.com/google/uuid"
)

// ChatService owns conversations and message persistence. Fan-out happens
// after the write confirms, in the websocket layer.
type ChatService struct {
	conversationRepo repository.ConversationRepository
	messageRepo      repository.MessageRepository
	now              func() time.Time
}

func NewChatService(conversationRepo repository.ConversationRepository, messageRepo repository.MessageRepository) *ChatService {
	return &ChatService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		now:              time.Now,
	}
}

// GetOrCreateConversation returns the conversation for the triple, creating
// it on first contact.
func (s *ChatService) GetOrCreateConversation(ctx context.Context, listingID, buyerID, sellerID uuid.UUID) (chat.Conversation, error) {
	if buyerID == sellerID {
		return chat.Conversation{}, fmt.Errorf("%w: cannot start a conversation with yourself", zattar_errors.ErrInvalidInput)
	}

	existing, err := s.conversationRepo.GetByParties(ctx, listingID, buyerID, sellerID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, zattar_errors.ErrNotFound) {
		return chat.Conversation{}, err
	}

	now := s.now()
	conv := chat.Conversation{
		ID:            uuid.New(),
		ListingID:     listingID,
		BuyerID:       buyerID,
		SellerID:      sellerID,
		LastMessageAt: now,
		CreatedAt:     now,
	}
	if err := s.conversationRepo.Create(ctx, &conv); err != nil {
		// Lost a creation race; the other request's row wins.
		if errors.Is(err, zattar_errors.ErrAlreadyExists) {
			return s.conversationRepo.GetByParties(ctx, listingID, buyerID, sellerID)
		}
		return chat.Conversation{}, err
	}
	return conv, nil
}

func (s *ChatService) GetConversation(ctx context.Context, conversationID, userID uuid.UUID) (chat.Conversation, error) {
	conv, err := s.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return chat.Conversation{}, err
	}
	if !conv.HasParticipant(userID) {
		return chat.Conversation{}, fmt.Errorf("%w: you are not part of this conversation", zattar_errors.ErrForbidden)
	}
	return conv, nil
}

func (s *ChatService) GetUserConversations(ctx context.Context, userID uuid.UUID, offset, limit int) ([]chat.Conversation, error) {
	return s.conversationRepo.GetByUser(ctx, userID, offset, normalizeLimit(limit))
}

// SendMessage persists a message after a participant check and bumps the
// conversation's last_message_at.
func (s *ChatService) SendMessage(ctx context.Context, conversationID, senderID uuid.UUID, content string) (chat.Message, error) {
	if content == "" {
		return chat.Message{}, fmt.Errorf("%w: empty message", zattar_errors.ErrInvalidInput)
	}

	conv, err := s.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return chat.Message{}, err
	}
	if !conv.HasParticipant(senderID) {
		return chat.Message{}, fmt.Errorf("%w: you are not part of this conversation", zattar_errors.ErrForbidden)
	}

	now := s.now()
	msg := chat.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.messageRepo.Create(ctx, &msg); err != nil {
		return chat.Message{}, err
	}
	if err := s.conversationRepo.TouchLastMessage(ctx, conversationID, now); err != nil {
		return chat.Message{}, err
	}
	return msg, nil
}

func (s *ChatService) GetConversationMessages(ctx context.Context, conversationID, userID uuid.UUID, offset, limit int) ([]chat.Message, error) {
	if _, err := s.GetConversation(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	return s.messageRepo.GetByConversation(ctx, conversationID, offset, normalizeLimit(limit))
}

// MarkConversationAsRead marks every peer message as read, returning the count.
func (s *ChatService) MarkConversationAsRead(ctx context.Context, conversationID, userID uuid.UUID) (int64, error) {
	if _, err := s.GetConversation(ctx, conversationID, userID); err != nil {
		return 0, err
	}
	return s.messageRepo.MarkAsRead(ctx, conversationID, userID)
}

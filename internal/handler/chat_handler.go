package handler

import (
	"net/http"
	"time"

	"zattar/internal/domain/chat"
	"zattar/internal/events"
	"zattar/internal/services"
	"zattar/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChatHandler handles conversation and message endpoints. Messages posted
// over REST go through the same event channel as websocket traffic, so
// connected clients see them live.
type ChatHandler struct {
	service   *services.ChatService
	publisher events.Publisher
}

func NewChatHandler(service *services.ChatService, publisher events.Publisher) *ChatHandler {
	return &ChatHandler{service: service, publisher: publisher}
}

// CreateConversation handles POST /chat/conversations.
func (h *ChatHandler) CreateConversation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req httpdto.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid listing_id", "INVALID_REQUEST"))
		return
	}
	sellerID, err := uuid.Parse(req.SellerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid seller_id", "INVALID_REQUEST"))
		return
	}

	conv, err := h.service.GetOrCreateConversation(c.Request.Context(), listingID, userID, sellerID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toConversationDTO(conv)))
}

// ListConversations handles GET /chat/conversations.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	convs, err := h.service.GetUserConversations(c.Request.Context(), userID, queryInt(c, "offset", 0), queryInt(c, "limit", 0))
	if err != nil {
		writeError(c, err)
		return
	}

	dtos := make([]httpdto.ConversationDTO, 0, len(convs))
	for _, conv := range convs {
		dtos = append(dtos, toConversationDTO(conv))
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(dtos))
}

// GetConversation handles GET /chat/conversations/:id.
func (h *ChatHandler) GetConversation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	conv, err := h.service.GetConversation(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toConversationDTO(conv)))
}

// SendMessage handles POST /chat/conversations/:id/messages.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req httpdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	msg, err := h.service.SendMessage(c.Request.Context(), id, userID, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}

	if h.publisher != nil {
		if payload, err := events.NewMessageEvent(events.MessageBody{
			ID:        msg.ID,
			SenderID:  msg.SenderID,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		}); err == nil {
			_ = h.publisher.Publish(c.Request.Context(), events.ConversationChannel(id), payload)
		}
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(toMessageDTO(msg)))
}

// ListMessages handles GET /chat/conversations/:id/messages.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	msgs, err := h.service.GetConversationMessages(c.Request.Context(), id, userID, queryInt(c, "offset", 0), queryInt(c, "limit", 0))
	if err != nil {
		writeError(c, err)
		return
	}

	dtos := make([]httpdto.MessageDTO, 0, len(msgs))
	for _, m := range msgs {
		dtos = append(dtos, toMessageDTO(m))
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(dtos))
}

// MarkRead handles POST /chat/conversations/:id/read.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	n, err := h.service.MarkConversationAsRead(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.MarkReadResponse{MarkedRead: n}))
}

func toConversationDTO(conv chat.Conversation) httpdto.ConversationDTO {
	dto := httpdto.ConversationDTO{
		ID:        conv.ID.String(),
		ListingID: conv.ListingID.String(),
		BuyerID:   conv.BuyerID.String(),
		SellerID:  conv.SellerID.String(),
		CreatedAt: conv.CreatedAt.Format(time.RFC3339),
	}
	if !conv.LastMessageAt.IsZero() {
		dto.LastMessageAt = conv.LastMessageAt.Format(time.RFC3339)
	}
	return dto
}

func toMessageDTO(m chat.Message) httpdto.MessageDTO {
	return httpdto.MessageDTO{
		ID:             m.ID.String(),
		ConversationID: m.ConversationID.String(),
		SenderID:       m.SenderID.String(),
		Content:        m.Content,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
}

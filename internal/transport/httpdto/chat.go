package httpdto

// CreateConversationRequest is used for POST /chat/conversations
type CreateConversationRequest struct {
	ListingID string `json:"listing_id" binding:"required"`
	SellerID  string `json:"seller_id" binding:"required"`
}

// SendMessageRequest is used for POST /chat/conversations/:id/messages
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// ConversationDTO represents a conversation in API responses
type ConversationDTO struct {
	ID            string `json:"id"`
	ListingID     string `json:"listing_id"`
	BuyerID       string `json:"buyer_id"`
	SellerID      string `json:"seller_id"`
	LastMessageAt string `json:"last_message_at,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// MessageDTO represents a chat message in API responses
type MessageDTO struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	Content        string `json:"content"`
	IsRead         bool   `json:"is_read"`
	CreatedAt      string `json:"created_at"`
}

// MarkReadResponse reports how many messages were marked read
type MarkReadResponse struct {
	MarkedRead int64 `json:"marked_read"`
}

package chat

import (
	"time"

	"github.com/google/uuid"
)

// Conversation represents the conversations table. Exactly one conversation
// exists per (listing, buyer, seller) triple.
type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_conversation,priority:1" json:"listing_id"`
	BuyerID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_conversation,priority:2;index:idx_conversation_participants,priority:1" json:"buyer_id"`
	SellerID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_conversation,priority:3;index:idx_conversation_participants,priority:2" json:"seller_id"`

	LastMessageAt time.Time `gorm:"not null;index" json:"last_message_at"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// HasParticipant reports whether the user is the conversation's buyer or seller.
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return userID == c.BuyerID || userID == c.SellerID
}

// Message represents the messages table
type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index:idx_message_conversation_created,priority:1" json:"conversation_id"`
	SenderID       uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	Content        string    `gorm:"type:text;not null" json:"content"`

	IsRead bool `gorm:"default:false" json:"is_read"`

	CreatedAt time.Time `gorm:"not null;index:idx_message_conversation_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Message) TableName() string {
	return "messages"
}

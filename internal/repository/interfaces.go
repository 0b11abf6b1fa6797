package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"zattar/internal/domain/category"
	"zattar/internal/domain/chat"
	"zattar/internal/domain/deal"
	"zattar/internal/domain/listing"
	"zattar/internal/domain/user"
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, c *category.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (category.Category, error)
	GetBySlug(ctx context.Context, slug string) (category.Category, error)
	List(ctx context.Context) ([]category.Category, error)
}

type ListingRepository interface {
	Create(ctx context.Context, l *listing.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (listing.Listing, error)
	Update(ctx context.Context, l listing.Listing) error
	Delete(ctx context.Context, id uuid.UUID) error

	Search(ctx context.Context, f ListingFilter) ([]listing.Listing, int64, error)
	GetBySeller(ctx context.Context, sellerID uuid.UUID, offset, limit int) ([]listing.Listing, error)
}

// ListingFilter narrows listing searches. Zero values mean "any".
type ListingFilter struct {
	Query      string
	CategoryID uuid.UUID
	City       string
	MinPrice   float64
	MaxPrice   float64
	Status     listing.Status
	Offset     int
	Limit      int
}

type DealRepository interface {
	Create(ctx context.Context, d *deal.SafeDeal) error
	GetByID(ctx context.Context, id uuid.UUID) (deal.SafeDeal, error)

	GetByBuyer(ctx context.Context, buyerID uuid.UUID, offset, limit int) ([]deal.SafeDeal, error)
	GetBySeller(ctx context.Context, sellerID uuid.UUID, offset, limit int) ([]deal.SafeDeal, error)
	GetPendingForBuyer(ctx context.Context, buyerID, listingID uuid.UUID) (deal.SafeDeal, error)
	GetExpired(ctx context.Context, now time.Time) ([]deal.SafeDeal, error)

	// UpdateStatus performs a compare-and-set on the deal's status column:
	// the write applies only while the row still holds expectedStatus, and
	// ErrConflict is returned when it no longer does.
	UpdateStatus(ctx context.Context, id uuid.UUID, expectedStatus deal.Status, fields map[string]interface{}) error
}

type ConversationRepository interface {
	Create(ctx context.Context, c *chat.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (chat.Conversation, error)
	GetByParties(ctx context.Context, listingID, buyerID, sellerID uuid.UUID) (chat.Conversation, error)
	GetByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]chat.Conversation, error)
	TouchLastMessage(ctx context.Context, id uuid.UUID, at time.Time) error
}

type MessageRepository interface {
	Create(ctx context.Context, m *chat.Message) error
	GetByConversation(ctx context.Context, conversationID uuid.UUID, offset, limit int) ([]chat.Message, error)
	MarkAsRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error)
}

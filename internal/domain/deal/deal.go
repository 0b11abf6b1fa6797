package deal

import (
	"time"

	"github.com/google/uuid"
)

// Status is the state of a safe deal.
type Status string

const (
	StatusPending   Status = "pending"   // initial state
	StatusShipped   Status = "shipped"   // seller marked as shipped
	StatusCompleted Status = "completed" // buyer confirmed delivery
	StatusDisputed  Status = "disputed"  // dispute initiated, terminal
	StatusCancelled Status = "cancelled" // deal cancelled, terminal
)

// ParseStatus validates a wire value against the known statuses.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusShipped, StatusCompleted, StatusDisputed, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

// transitions is the allowed-transition table. DISPUTED and CANCELLED are
// terminal; DISPUTED stays reachable from COMPLETED.
var transitions = map[Status][]Status{
	StatusPending:   {StatusShipped, StatusCancelled, StatusDisputed},
	StatusShipped:   {StatusCompleted, StatusDisputed, StatusCancelled},
	StatusCompleted: {StatusDisputed},
	StatusDisputed:  {},
	StatusCancelled: {},
}

// CanTransition reports whether the state machine allows moving from one
// status to another. Pure lookup, no side effects.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// SafeDeal represents an escrow-mediated transaction between a buyer and a
// seller over one listing.
type SafeDeal struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;index:idx_safe_deal_listing" json:"listing_id"`
	BuyerID   uuid.UUID `gorm:"type:uuid;not null;index:idx_safe_deal_buyer_status,priority:1" json:"buyer_id"`
	SellerID  uuid.UUID `gorm:"type:uuid;not null;index:idx_safe_deal_seller_status,priority:1" json:"seller_id"`

	Amount   float64 `gorm:"not null" json:"amount"`
	Currency string  `gorm:"type:varchar(3);default:'KZT'" json:"currency"`

	Status Status `gorm:"type:varchar(16);not null;index:idx_safe_deal_buyer_status,priority:2;index:idx_safe_deal_seller_status,priority:2" json:"status"`

	ShippingNumber *string `gorm:"type:varchar(255)" json:"shipping_number,omitempty"`
	DispatchNote   *string `gorm:"type:text" json:"dispatch_note,omitempty"`
	DisputeReason  *string `gorm:"type:text" json:"dispute_reason,omitempty"`

	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DisputedAt  *time.Time `json:"disputed_at,omitempty"`
	ExpiresAt   *time.Time `gorm:"index:idx_safe_deal_expires" json:"expires_at,omitempty"`
}

func (SafeDeal) TableName() string {
	return "safe_deals"
}

// IsParticipant reports whether the user is the deal's buyer or seller.
func (d *SafeDeal) IsParticipant(userID uuid.UUID) bool {
	return userID == d.BuyerID || userID == d.SellerID
}

// ApplyTransition moves the deal to the target status if the table allows
// it, stamping the corresponding timestamp in the same step. Returns false
// without any mutation otherwise.
func (d *SafeDeal) ApplyTransition(to Status, now time.Time) bool {
	if !CanTransition(d.Status, to) {
		return false
	}
	d.Status = to
	switch to {
	case StatusShipped:
		d.ShippedAt = &now
	case StatusCompleted:
		d.CompletedAt = &now
	case StatusDisputed:
		d.DisputedAt = &now
	}
	return true
}

// TimestampColumn names the column ApplyTransition stamps for a target
// status, or "" when the transition stamps nothing (CANCELLED).
func TimestampColumn(to Status) string {
	switch to {
	case StatusShipped:
		return "shipped_at"
	case StatusCompleted:
		return "completed_at"
	case StatusDisputed:
		return "disputed_at"
	}
	return ""
}

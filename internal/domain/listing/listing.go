package listing

import (
	"time"

	"github.com/google/uuid"
)

// Condition of the listed item.
type Condition string

const (
	ConditionNew  Condition = "new"
	ConditionUsed Condition = "used"
)

// Status of a listing.
type Status string

const (
	StatusActive   Status = "active"
	StatusSold     Status = "sold"
	StatusArchived Status = "archived"
)

// Listing represents the listings table
type Listing struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SellerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"seller_id"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id"`

	Title       string  `gorm:"type:varchar(255);not null;index" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null;index" json:"price"`
	Currency    string  `gorm:"type:varchar(3);default:'KZT'" json:"currency"`

	City      string    `gorm:"type:varchar(100);index" json:"city"`
	Condition Condition `gorm:"type:varchar(8);default:'used'" json:"condition"`
	Status    Status    `gorm:"type:varchar(16);default:'active';index" json:"status"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Listing) TableName() string {
	return "listings"
}

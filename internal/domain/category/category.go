package category

import (
	"github.com/google/uuid"
)

// Category represents the categories table. Every listing hangs off exactly
// one category.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Slug        string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"slug"`
	Description string    `gorm:"type:varchar(500)" json:"description,omitempty"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
}

func (Category) TableName() string {
	return "categories"
}

package httpdto

// CreateListingRequest is used for POST /listings
type CreateListingRequest struct {
	CategoryID  string  `json:"category_id" binding:"required,uuid"`
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price" binding:"required"`
	Currency    string  `json:"currency,omitempty"`
	City        string  `json:"city,omitempty"`
	Condition   string  `json:"condition,omitempty"`
}

// UpdateListingRequest is used for PATCH /listings/:id. Zero-value fields
// are left untouched.
type UpdateListingRequest struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price,omitempty"`
	City        string  `json:"city,omitempty"`
}

// ListingDTO represents a listing in API responses
type ListingDTO struct {
	ID          string  `json:"id"`
	SellerID    string  `json:"seller_id"`
	CategoryID  string  `json:"category_id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	City        string  `json:"city,omitempty"`
	Condition   string  `json:"condition"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// CategoryDTO represents a category in API responses
type CategoryDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sort_order"`
}

// ListingSearchResponse wraps a search result page
type ListingSearchResponse struct {
	Listings []ListingDTO `json:"listings"`
	Total    int64        `json:"total"`
	Offset   int          `json:"offset"`
	Limit    int          `json:"limit"`
}

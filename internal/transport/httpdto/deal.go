package httpdto

// InitiateDealRequest is used for POST /deals
type InitiateDealRequest struct {
	ListingID string  `json:"listing_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required"`
	Currency  string  `json:"currency,omitempty"`
}

// TransitionDealRequest is used for POST /deals/:id/transition
type TransitionDealRequest struct {
	Status         string `json:"status" binding:"required"`
	ShippingNumber string `json:"shipping_number,omitempty"`
	DispatchNote   string `json:"dispatch_note,omitempty"`
	DisputeReason  string `json:"dispute_reason,omitempty"`
}

// DealDTO represents a safe deal in API responses
type DealDTO struct {
	ID             string  `json:"id"`
	ListingID      string  `json:"listing_id"`
	BuyerID        string  `json:"buyer_id"`
	SellerID       string  `json:"seller_id"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	Status         string  `json:"status"`
	ShippingNumber string  `json:"shipping_number,omitempty"`
	DispatchNote   string  `json:"dispatch_note,omitempty"`
	DisputeReason  string  `json:"dispute_reason,omitempty"`
	ExpiresAt      string  `json:"expires_at,omitempty"`
	ShippedAt      string  `json:"shipped_at,omitempty"`
	CompletedAt    string  `json:"completed_at,omitempty"`
	DisputedAt     string  `json:"disputed_at,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// DealListResponse wraps a page of deals
type DealListResponse struct {
	Deals  []DealDTO `json:"deals"`
	Offset int       `json:"offset"`
	Limit  int       `json:"limit"`
}

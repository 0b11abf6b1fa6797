package handler

import (
	"net/http"
	"time"

	"zattar/internal/domain/listing"
	"zattar/internal/repository"
	"zattar/internal/services"
	"zattar/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListingHandler handles marketplace listing endpoints.
type ListingHandler struct {
	service         *services.ListingService
	defaultCurrency string
}

func NewListingHandler(service *services.ListingService, defaultCurrency string) *ListingHandler {
	return &ListingHandler{service: service, defaultCurrency: defaultCurrency}
}

// Create handles POST /listings.
func (h *ListingHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req httpdto.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	if req.Currency == "" {
		req.Currency = h.defaultCurrency
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("category_id must be a UUID", "INVALID_REQUEST"))
		return
	}

	l, err := h.service.Create(c.Request.Context(), services.CreateListingInput{
		SellerID:    userID,
		CategoryID:  categoryID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		City:        req.City,
		Condition:   listing.Condition(req.Condition),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(toListingDTO(l)))
}

// Get handles GET /listings/:id.
func (h *ListingHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	l, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toListingDTO(l)))
}

// Search handles GET /listings.
func (h *ListingHandler) Search(c *gin.Context) {
	filter := repository.ListingFilter{
		Query:    c.Query("q"),
		City:     c.Query("city"),
		MinPrice: queryFloat(c, "min_price"),
		MaxPrice: queryFloat(c, "max_price"),
		Status:   listing.Status(c.Query("status")),
		Offset:   queryInt(c, "offset", 0),
		Limit:    queryInt(c, "limit", 0),
	}
	if raw := c.Query("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("category_id must be a UUID", "INVALID_REQUEST"))
			return
		}
		filter.CategoryID = categoryID
	}

	listings, total, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	dtos := make([]httpdto.ListingDTO, 0, len(listings))
	for _, l := range listings {
		dtos = append(dtos, toListingDTO(l))
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ListingSearchResponse{
		Listings: dtos,
		Total:    total,
		Offset:   filter.Offset,
		Limit:    filter.Limit,
	}))
}

// Update handles PATCH /listings/:id.
func (h *ListingHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req httpdto.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	l, err := h.service.Update(c.Request.Context(), id, userID, services.UpdateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		City:        req.City,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toListingDTO(l)))
}

// Delete handles DELETE /listings/:id.
func (h *ListingHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"deleted": true}))
}

// MarkSold handles POST /listings/:id/sold.
func (h *ListingHandler) MarkSold(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	l, err := h.service.MarkSold(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toListingDTO(l)))
}

// Mine handles GET /listings/mine.
func (h *ListingHandler) Mine(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	listings, err := h.service.GetBySeller(c.Request.Context(), userID, queryInt(c, "offset", 0), queryInt(c, "limit", 0))
	if err != nil {
		writeError(c, err)
		return
	}

	dtos := make([]httpdto.ListingDTO, 0, len(listings))
	for _, l := range listings {
		dtos = append(dtos, toListingDTO(l))
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(dtos))
}

// BySeller handles GET /listings/user/:user_id. Public, so buyers can browse
// a seller's other items.
func (h *ListingHandler) BySeller(c *gin.Context) {
	sellerID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}

	listings, err := h.service.GetBySeller(c.Request.Context(), sellerID, queryInt(c, "offset", 0), queryInt(c, "limit", 0))
	if err != nil {
		writeError(c, err)
		return
	}

	dtos := make([]httpdto.ListingDTO, 0, len(listings))
	for _, l := range listings {
		dtos = append(dtos, toListingDTO(l))
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(dtos))
}

func toListingDTO(l listing.Listing) httpdto.ListingDTO {
	return httpdto.ListingDTO{
		ID:          l.ID.String(),
		SellerID:    l.SellerID.String(),
		CategoryID:  l.CategoryID.String(),
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Currency:    l.Currency,
		City:        l.City,
		Condition:   string(l.Condition),
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   l.UpdatedAt.Format(time.RFC3339),
	}
}

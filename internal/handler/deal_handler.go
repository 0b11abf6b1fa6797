package handler

import (
	"context"
	"net/http"
	"time"

	"zattar/internal/domain/deal"
	"zattar/internal/events"
	"zattar/internal/services"
	"zattar/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DealHandler handles safe deal endpoints. Status changes are echoed into
// the deal's conversation channel so both parties see them live.
type DealHandler struct {
	deals           *services.DealService
	listings        *services.ListingService
	chat            *services.ChatService
	publisher       events.Publisher
	defaultCurrency string
}

func NewDealHandler(deals *services.DealService, listings *services.ListingService, chat *services.ChatService, publisher events.Publisher, defaultCurrency string) *DealHandler {
	return &DealHandler{
		deals:           deals,
		listings:        listings,
		chat:            chat,
		publisher:       publisher,
		defaultCurrency: defaultCurrency,
	}
}

// Initiate handles POST /deals. The seller comes from the listing itself,
// never from the request body.
func (h *DealHandler) Initiate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req httpdto.InitiateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid listing_id", "INVALID_REQUEST"))
		return
	}

	l, err := h.listings.Get(c.Request.Context(), listingID)
	if err != nil {
		writeError(c, err)
		return
	}

	if req.Currency == "" {
		req.Currency = h.defaultCurrency
	}

	d, err := h.deals.Initiate(c.Request.Context(), services.InitiateDealInput{
		ListingID: l.ID,
		BuyerID:   userID,
		SellerID:  l.SellerID,
		Amount:    req.Amount,
		Currency:  req.Currency,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	h.notifyConversation(c.Request.Context(), d)

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(toDealDTO(d)))
}

// notifyConversation publishes a deal_update frame into the chat thread
// that shares the deal's (listing, buyer, seller) triple. Best effort; a
// missing conversation or publish failure never fails the request.
func (h *DealHandler) notifyConversation(ctx context.Context, d deal.SafeDeal) {
	if h.chat == nil || h.publisher == nil {
		return
	}
	conv, err := h.chat.GetOrCreateConversation(ctx, d.ListingID, d.BuyerID, d.SellerID)
	if err != nil {
		return
	}
	if payload, err := events.NewDealUpdateEvent(d.ID, string(d.Status)); err == nil {
		_ = h.publisher.Publish(ctx, events.ConversationChannel(conv.ID), payload)
	}
}

// Get handles GET /deals/:id.
func (h *DealHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	d, err := h.deals.Get(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toDealDTO(d)))
}

// Transition handles POST /deals/:id/transition.
func (h *DealHandler) Transition(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req httpdto.TransitionDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	target, ok := deal.ParseStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("unknown status", "INVALID_REQUEST"))
		return
	}

	d, err := h.deals.RequestTransition(c.Request.Context(), id, userID, services.TransitionDealInput{
		Status:         target,
		ShippingNumber: req.ShippingNumber,
		DispatchNote:   req.DispatchNote,
		DisputeReason:  req.DisputeReason,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	h.notifyConversation(c.Request.Context(), d)

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toDealDTO(d)))
}

// AsBuyer handles GET /deals/buying.
func (h *DealHandler) AsBuyer(c *gin.Context) {
	h.list(c, h.deals.ListByBuyer)
}

// AsSeller handles GET /deals/selling.
func (h *DealHandler) AsSeller(c *gin.Context) {
	h.list(c, h.deals.ListBySeller)
}

func (h *DealHandler) list(c *gin.Context, fetch func(ctx context.Context, id uuid.UUID, offset, limit int) ([]deal.SafeDeal, error)) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	offset := queryInt(c, "offset", 0)
	limit := queryInt(c, "limit", 0)

	deals, err := fetch(c.Request.Context(), userID, offset, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	dtos := make([]httpdto.DealDTO, 0, len(deals))
	for _, d := range deals {
		dtos = append(dtos, toDealDTO(d))
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.DealListResponse{
		Deals:  dtos,
		Offset: offset,
		Limit:  limit,
	}))
}

func toDealDTO(d deal.SafeDeal) httpdto.DealDTO {
	dto := httpdto.DealDTO{
		ID:        d.ID.String(),
		ListingID: d.ListingID.String(),
		BuyerID:   d.BuyerID.String(),
		SellerID:  d.SellerID.String(),
		Amount:    d.Amount,
		Currency:  d.Currency,
		Status:    string(d.Status),
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
	}
	if d.ShippingNumber != nil {
		dto.ShippingNumber = *d.ShippingNumber
	}
	if d.DispatchNote != nil {
		dto.DispatchNote = *d.DispatchNote
	}
	if d.DisputeReason != nil {
		dto.DisputeReason = *d.DisputeReason
	}
	if d.ExpiresAt != nil {
		dto.ExpiresAt = d.ExpiresAt.Format(time.RFC3339)
	}
	if d.ShippedAt != nil {
		dto.ShippedAt = d.ShippedAt.Format(time.RFC3339)
	}
	if d.CompletedAt != nil {
		dto.CompletedAt = d.CompletedAt.Format(time.RFC3339)
	}
	if d.DisputedAt != nil {
		dto.DisputedAt = d.DisputedAt.Format(time.RFC3339)
	}
	return dto
}

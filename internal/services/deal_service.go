package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zattar/internal/domain/deal"
	"zattar/internal/repository"
	zattar_errors "zattar/pkg/errors"
	"zattar/pkg/logger"

	"github.com/google/uuid"
)

// DealService orchestrates the safe-deal lifecycle on top of the state
// machine and the deal repository. Role checks run before the generic
// transition table; both must pass.
type DealService struct {
	repo    repository.DealRepository
	log     *logger.Logger
	timeout time.Duration
	now     func() time.Time
}

func NewDealService(repo repository.DealRepository, log *logger.Logger, timeout time.Duration) *DealService {
	return &DealService{
		repo:    repo,
		log:     log,
		timeout: timeout,
		now:     time.Now,
	}
}

type InitiateDealInput struct {
	ListingID uuid.UUID
	BuyerID   uuid.UUID
	SellerID  uuid.UUID
	Amount    float64
	Currency  string
}

type TransitionDealInput struct {
	Status         deal.Status
	ShippingNumber string
	DispatchNote   string
	DisputeReason  string
}

// Initiate creates a PENDING deal with an expiry. At most one PENDING deal
// may exist per (buyer, listing) pair.
func (s *DealService) Initiate(ctx context.Context, in InitiateDealInput) (deal.SafeDeal, error) {
	if in.Amount <= 0 {
		return deal.SafeDeal{}, fmt.Errorf("%w: amount must be positive", zattar_errors.ErrInvalidInput)
	}
	if in.BuyerID == in.SellerID {
		return deal.SafeDeal{}, fmt.Errorf("%w: buyer and seller must differ", zattar_errors.ErrInvalidInput)
	}

	_, err := s.repo.GetPendingForBuyer(ctx, in.BuyerID, in.ListingID)
	if err == nil {
		return deal.SafeDeal{}, zattar_errors.ErrAlreadyPending
	}
	if !errors.Is(err, zattar_errors.ErrNotFound) {
		return deal.SafeDeal{}, err
	}

	now := s.now()
	expiresAt := now.Add(s.timeout)
	d := deal.SafeDeal{
		ID:        uuid.New(),
		ListingID: in.ListingID,
		BuyerID:   in.BuyerID,
		SellerID:  in.SellerID,
		Amount:    in.Amount,
		Currency:  in.Currency,
		Status:    deal.StatusPending,
		CreatedAt: now,
		ExpiresAt: &expiresAt,
	}
	if err := s.repo.Create(ctx, &d); err != nil {
		return deal.SafeDeal{}, err
	}
	return d, nil
}

func (s *DealService) Get(ctx context.Context, dealID, userID uuid.UUID) (deal.SafeDeal, error) {
	d, err := s.repo.GetByID(ctx, dealID)
	if err != nil {
		return deal.SafeDeal{}, err
	}
	if !d.IsParticipant(userID) {
		return deal.SafeDeal{}, zattar_errors.ErrForbidden
	}
	return d, nil
}

func (s *DealService) ListByBuyer(ctx context.Context, buyerID uuid.UUID, offset, limit int) ([]deal.SafeDeal, error) {
	return s.repo.GetByBuyer(ctx, buyerID, offset, normalizeLimit(limit))
}

func (s *DealService) ListBySeller(ctx context.Context, sellerID uuid.UUID, offset, limit int) ([]deal.SafeDeal, error) {
	return s.repo.GetBySeller(ctx, sellerID, offset, normalizeLimit(limit))
}

// RequestTransition validates a user-requested status change and applies it
// through a conditional update keyed on the current status, so two racing
// requests cannot both win from the same starting point.
func (s *DealService) RequestTransition(ctx context.Context, dealID, userID uuid.UUID, in TransitionDealInput) (deal.SafeDeal, error) {
	d, err := s.repo.GetByID(ctx, dealID)
	if err != nil {
		return deal.SafeDeal{}, err
	}
	if !d.IsParticipant(userID) {
		return deal.SafeDeal{}, fmt.Errorf("%w: you are not part of this deal", zattar_errors.ErrForbidden)
	}

	if err := authorizeTransition(&d, userID, in.Status); err != nil {
		return deal.SafeDeal{}, err
	}

	if !deal.CanTransition(d.Status, in.Status) {
		return deal.SafeDeal{}, fmt.Errorf("%w: cannot transition from %s to %s",
			zattar_errors.ErrInvalidTransition, d.Status, in.Status)
	}

	now := s.now()
	fields := map[string]interface{}{"status": in.Status}
	if col := deal.TimestampColumn(in.Status); col != "" {
		fields[col] = now
	}
	// Optional fields overwrite only when provided, never clear.
	if in.ShippingNumber != "" {
		fields["shipping_number"] = in.ShippingNumber
	}
	if in.DispatchNote != "" {
		fields["dispatch_note"] = in.DispatchNote
	}
	if in.DisputeReason != "" {
		fields["dispute_reason"] = in.DisputeReason
	}

	if err := s.repo.UpdateStatus(ctx, d.ID, d.Status, fields); err != nil {
		if errors.Is(err, zattar_errors.ErrConflict) {
			if fresh, ferr := s.repo.GetByID(ctx, dealID); ferr == nil {
				return deal.SafeDeal{}, fmt.Errorf("%w: deal is now %s", zattar_errors.ErrConflict, fresh.Status)
			}
		}
		return deal.SafeDeal{}, err
	}

	d.ApplyTransition(in.Status, now)
	if in.ShippingNumber != "" {
		d.ShippingNumber = &in.ShippingNumber
	}
	if in.DispatchNote != "" {
		d.DispatchNote = &in.DispatchNote
	}
	if in.DisputeReason != "" {
		d.DisputeReason = &in.DisputeReason
	}
	return d, nil
}

// authorizeTransition is the role policy layer. It is deliberately separate
// from the transition table: CANCELLED is tightened to PENDING-only here even
// though the raw table allows SHIPPED -> CANCELLED.
func authorizeTransition(d *deal.SafeDeal, userID uuid.UUID, target deal.Status) error {
	switch target {
	case deal.StatusShipped:
		if userID != d.SellerID {
			return fmt.Errorf("%w: only seller can mark deal as shipped", zattar_errors.ErrForbidden)
		}
	case deal.StatusCompleted:
		if userID != d.BuyerID {
			return fmt.Errorf("%w: only buyer can confirm delivery", zattar_errors.ErrForbidden)
		}
	case deal.StatusDisputed:
		// Either party can dispute.
	case deal.StatusCancelled:
		if d.Status != deal.StatusPending {
			return fmt.Errorf("%w: deal can only be cancelled in pending state", zattar_errors.ErrInvalidTransition)
		}
	default:
		return fmt.Errorf("%w: unknown target status %q", zattar_errors.ErrInvalidInput, target)
	}
	return nil
}

// SweepExpired auto-completes PENDING deals whose expiry has passed: the
// buyer failed to act within the timeout and the deal is deemed fulfilled.
// Each candidate is processed independently; a deal that left PENDING
// between query and write is skipped via the conditional update.
func (s *DealService) SweepExpired(ctx context.Context) (int, error) {
	expired, err := s.repo.GetExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}

	count := 0
	for _, d := range expired {
		now := s.now()
		fields := map[string]interface{}{
			"status":       deal.StatusCompleted,
			"completed_at": now,
		}
		if err := s.repo.UpdateStatus(ctx, d.ID, deal.StatusPending, fields); err != nil {
			if !errors.Is(err, zattar_errors.ErrConflict) && s.log != nil {
				s.log.Errorf("sweep: failed to complete deal %s: %s", d.ID, err)
			}
			continue
		}
		count++
	}
	return count, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 50
	}
	return limit
}

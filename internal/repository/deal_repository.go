package repository

import (
	"context"
	"errors"
	"time"

	"zattar/internal/domain/deal"
	zattar_errors "zattar/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresDealRepository struct {
	db *gorm.DB
}

func NewDealRepository(db *gorm.DB) DealRepository {
	return &PostgresDealRepository{db: db}
}

func (r *PostgresDealRepository) Create(ctx context.Context, d *deal.SafeDeal) error {
	res := r.db.WithContext(ctx).Create(d)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return zattar_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresDealRepository) GetByID(ctx context.Context, id uuid.UUID) (deal.SafeDeal, error) {
	var d deal.SafeDeal
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return deal.SafeDeal{}, zattar_errors.ErrNotFound
		}
		return deal.SafeDeal{}, err
	}
	return d, nil
}

func (r *PostgresDealRepository) GetByBuyer(ctx context.Context, buyerID uuid.UUID, offset, limit int) ([]deal.SafeDeal, error) {
	var deals []deal.SafeDeal
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&deals).Error
	if err != nil {
		return nil, err
	}
	return deals, nil
}

func (r *PostgresDealRepository) GetBySeller(ctx context.Context, sellerID uuid.UUID, offset, limit int) ([]deal.SafeDeal, error) {
	var deals []deal.SafeDeal
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&deals).Error
	if err != nil {
		return nil, err
	}
	return deals, nil
}

func (r *PostgresDealRepository) GetPendingForBuyer(ctx context.Context, buyerID, listingID uuid.UUID) (deal.SafeDeal, error) {
	var d deal.SafeDeal
	err := r.db.WithContext(ctx).
		Where("buyer_id = ? AND listing_id = ? AND status = ?", buyerID, listingID, deal.StatusPending).
		First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return deal.SafeDeal{}, zattar_errors.ErrNotFound
		}
		return deal.SafeDeal{}, err
	}
	return d, nil
}

func (r *PostgresDealRepository) GetExpired(ctx context.Context, now time.Time) ([]deal.SafeDeal, error) {
	var deals []deal.SafeDeal
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", deal.StatusPending, now).
		Find(&deals).Error
	if err != nil {
		return nil, err
	}
	return deals, nil
}

// UpdateStatus writes the given fields only while the row still holds
// expectedStatus. A racing transition makes RowsAffected zero, which is
// surfaced as ErrConflict so the caller can re-read the fresh status.
func (r *PostgresDealRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expectedStatus deal.Status, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&deal.SafeDeal{}).
		Where("id = ? AND status = ?", id, expectedStatus).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return zattar_errors.ErrConflict
	}
	return nil
}

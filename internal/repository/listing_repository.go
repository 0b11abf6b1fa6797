package repository

import (
	"context"
	"errors"

	"zattar/internal/domain/listing"
	zattar_errors "zattar/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &PostgresListingRepository{db: db}
}

func (r *PostgresListingRepository) Create(ctx context.Context, l *listing.Listing) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *PostgresListingRepository) GetByID(ctx context.Context, id uuid.UUID) (listing.Listing, error) {
	var l listing.Listing
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return listing.Listing{}, zattar_errors.ErrNotFound
		}
		return listing.Listing{}, err
	}
	return l, nil
}

func (r *PostgresListingRepository) Update(ctx context.Context, l listing.Listing) error {
	res := r.db.WithContext(ctx).Save(&l)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return zattar_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&listing.Listing{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return zattar_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresListingRepository) Search(ctx context.Context, f ListingFilter) ([]listing.Listing, int64, error) {
	var listings []listing.Listing
	var total int64

	q := r.db.WithContext(ctx).Model(&listing.Listing{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Query != "" {
		q = q.Where("title ILIKE ?", "%"+f.Query+"%")
	}
	if f.CategoryID != uuid.Nil {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.City != "" {
		q = q.Where("city = ?", f.City)
	}
	if f.MinPrice > 0 {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price <= ?", f.MaxPrice)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("created_at DESC").Offset(f.Offset).Limit(f.Limit).Find(&listings).Error; err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *PostgresListingRepository) GetBySeller(ctx context.Context, sellerID uuid.UUID, offset, limit int) ([]listing.Listing, error) {
	var listings []listing.Listing
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

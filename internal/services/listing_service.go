package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zattar/internal/domain/listing"
	"zattar/internal/redis"
	"zattar/internal/repository"
	zattar_errors "zattar/pkg/errors"

	"github.com/google/uuid"
)

type ListingService struct {
	repo       repository.ListingRepository
	categories repository.CategoryRepository
	cache      *redis.CacheStore
	now        func() time.Time
}

// NewListingService wires the listing repository with the category lookup
// and an optional Redis read-through cache. cache may be nil.
func NewListingService(repo repository.ListingRepository, categories repository.CategoryRepository, cache *redis.CacheStore) *ListingService {
	return &ListingService{repo: repo, categories: categories, cache: cache, now: time.Now}
}

type CreateListingInput struct {
	SellerID    uuid.UUID
	CategoryID  uuid.UUID
	Title       string
	Description string
	Price       float64
	Currency    string
	City        string
	Condition   listing.Condition
}

type UpdateListingInput struct {
	Title       string
	Description string
	Price       float64
	City        string
}

func (s *ListingService) Create(ctx context.Context, in CreateListingInput) (listing.Listing, error) {
	if in.Title == "" {
		return listing.Listing{}, fmt.Errorf("%w: title is required", zattar_errors.ErrInvalidInput)
	}
	if in.Price <= 0 {
		return listing.Listing{}, fmt.Errorf("%w: price must be positive", zattar_errors.ErrInvalidInput)
	}
	if in.CategoryID == uuid.Nil {
		return listing.Listing{}, fmt.Errorf("%w: category_id is required", zattar_errors.ErrInvalidInput)
	}
	if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, zattar_errors.ErrNotFound) {
			return listing.Listing{}, fmt.Errorf("%w: unknown category", zattar_errors.ErrInvalidInput)
		}
		return listing.Listing{}, err
	}
	if in.Condition == "" {
		in.Condition = listing.ConditionUsed
	}

	now := s.now()
	l := listing.Listing{
		ID:          uuid.New(),
		SellerID:    in.SellerID,
		CategoryID:  in.CategoryID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Currency:    in.Currency,
		City:        in.City,
		Condition:   in.Condition,
		Status:      listing.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, &l); err != nil {
		return listing.Listing{}, err
	}
	return l, nil
}

func (s *ListingService) Get(ctx context.Context, id uuid.UUID) (listing.Listing, error) {
	if s.cache != nil {
		if l, ok := s.cache.GetListing(ctx, id); ok {
			return l, nil
		}
	}
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return listing.Listing{}, err
	}
	if s.cache != nil {
		_ = s.cache.SetListing(ctx, l)
	}
	return l, nil
}

func (s *ListingService) Update(ctx context.Context, id, userID uuid.UUID, in UpdateListingInput) (listing.Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return listing.Listing{}, err
	}
	if l.SellerID != userID {
		return listing.Listing{}, fmt.Errorf("%w: only the seller can edit a listing", zattar_errors.ErrForbidden)
	}

	if in.Title != "" {
		l.Title = in.Title
	}
	if in.Description != "" {
		l.Description = in.Description
	}
	if in.Price > 0 {
		l.Price = in.Price
	}
	if in.City != "" {
		l.City = in.City
	}
	l.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, l); err != nil {
		return listing.Listing{}, err
	}
	s.invalidate(ctx, id)
	return l, nil
}

func (s *ListingService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if l.SellerID != userID {
		return fmt.Errorf("%w: only the seller can delete a listing", zattar_errors.ErrForbidden)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *ListingService) MarkSold(ctx context.Context, id, userID uuid.UUID) (listing.Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return listing.Listing{}, err
	}
	if l.SellerID != userID {
		return listing.Listing{}, fmt.Errorf("%w: only the seller can mark a listing sold", zattar_errors.ErrForbidden)
	}
	l.Status = listing.StatusSold
	l.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, l); err != nil {
		return listing.Listing{}, err
	}
	s.invalidate(ctx, id)
	return l, nil
}

func (s *ListingService) Search(ctx context.Context, f repository.ListingFilter) ([]listing.Listing, int64, error) {
	if f.Status == "" {
		f.Status = listing.StatusActive
	}
	f.Limit = normalizeLimit(f.Limit)
	return s.repo.Search(ctx, f)
}

func (s *ListingService) GetBySeller(ctx context.Context, sellerID uuid.UUID, offset, limit int) ([]listing.Listing, error) {
	return s.repo.GetBySeller(ctx, sellerID, offset, normalizeLimit(limit))
}

func (s *ListingService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache != nil {
		_ = s.cache.InvalidateListing(ctx, id)
	}
}

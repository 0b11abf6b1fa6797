package repository

import (
	"context"
	"errors"

	"zattar/internal/domain/category"
	zattar_errors "zattar/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresCategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

func (r *PostgresCategoryRepository) Create(ctx context.Context, c *category.Category) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return zattar_errors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (category.Category, error) {
	var c category.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return category.Category{}, zattar_errors.ErrNotFound
		}
		return category.Category{}, err
	}
	return c, nil
}

func (r *PostgresCategoryRepository) GetBySlug(ctx context.Context, slug string) (category.Category, error) {
	var c category.Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return category.Category{}, zattar_errors.ErrNotFound
		}
		return category.Category{}, err
	}
	return c, nil
}

func (r *PostgresCategoryRepository) List(ctx context.Context) ([]category.Category, error) {
	var categories []category.Category
	err := r.db.WithContext(ctx).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

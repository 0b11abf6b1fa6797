package services

import (
	"context"

	"zattar/internal/domain/category"
	"zattar/internal/repository"
)

// CategoryService exposes the category catalogue. Categories are managed
// out of band (migrations), so the service is read-only.
type CategoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context) ([]category.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (category.Category, error) {
	return s.repo.GetBySlug(ctx, slug)
}

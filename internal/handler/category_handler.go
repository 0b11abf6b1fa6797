package handler

import (
	"net/http"

	"zattar/internal/domain/category"
	"zattar/internal/services"
	"zattar/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// CategoryHandler serves the public category catalogue.
type CategoryHandler struct {
	service *services.CategoryService
}

func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// List handles GET /categories.
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	dtos := make([]httpdto.CategoryDTO, 0, len(categories))
	for _, cat := range categories {
		dtos = append(dtos, toCategoryDTO(cat))
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(dtos))
}

// GetBySlug handles GET /categories/:slug.
func (h *CategoryHandler) GetBySlug(c *gin.Context) {
	cat, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(toCategoryDTO(cat)))
}

func toCategoryDTO(c category.Category) httpdto.CategoryDTO {
	return httpdto.CategoryDTO{
		ID:          c.ID.String(),
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		SortOrder:   c.SortOrder,
	}
}

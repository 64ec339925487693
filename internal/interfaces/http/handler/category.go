package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcatalog "github.com/marketplace/backend/internal/application/catalog"
)

// CategoryHandler handles category management HTTP requests
type CategoryHandler struct {
	BaseHandler
	categoryService *appcatalog.CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService *appcatalog.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// CreateCategoryRequest represents a category creation request
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Slug        string `json:"slug" binding:"required,slug,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateCategoryRequest represents a category update request
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// CategoryResponse contains category details returned to clients
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
}

// Create adds a new category to the tenant's catalog
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	info, err := h.categoryService.Create(c.Request.Context(), appcatalog.CreateCategoryInput{
		TenantID:    getTenantID(c),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, categoryResponseFromInfo(info))
}

// Update renames a category or changes its description
func (h *CategoryHandler) Update(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid category ID")
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	info, err := h.categoryService.Update(c.Request.Context(), appcatalog.UpdateCategoryInput{
		CategoryID:  categoryID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, categoryResponseFromInfo(info))
}

// Delete deactivates a category
func (h *CategoryHandler) Delete(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid category ID")
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), categoryID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Get returns a single category by slug
func (h *CategoryHandler) Get(c *gin.Context) {
	info, err := h.categoryService.Get(c.Request.Context(), getTenantID(c), c.Param("slug"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, categoryResponseFromInfo(info))
}

// List returns the tenant's active categories
func (h *CategoryHandler) List(c *gin.Context) {
	infos, err := h.categoryService.List(c.Request.Context(), getTenantID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	responses := make([]CategoryResponse, 0, len(infos))
	for i := range infos {
		responses = append(responses, categoryResponseFromInfo(&infos[i]))
	}
	h.Success(c, responses)
}

func categoryResponseFromInfo(info *appcatalog.CategoryInfo) CategoryResponse {
	return CategoryResponse{
		ID:          info.ID,
		Name:        info.Name,
		Slug:        info.Slug,
		Description: info.Description,
		Active:      info.Active,
	}
}

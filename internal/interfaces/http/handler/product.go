package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcatalog "github.com/marketplace/backend/internal/application/catalog"
	"github.com/marketplace/backend/internal/domain/catalog"
)

// ProductHandler handles product listing HTTP requests
type ProductHandler struct {
	BaseHandler
	productService *appcatalog.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *appcatalog.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// CreateListing creates a new listing owned by the authenticated seller
func (h *ProductHandler) CreateListing(c *gin.Context) {
	sellerID, err := getAccountID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	variations := make([]appcatalog.VariationInput, 0, len(req.Variations))
	for _, v := range req.Variations {
		variations = append(variations, appcatalog.VariationInput{
			Category: catalog.VariationCategory(v.Category),
			Value:    v.Value,
		})
	}

	info, err := h.productService.List(c.Request.Context(), appcatalog.ListProductInput{
		TenantID:    getTenantID(c),
		SellerID:    sellerID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Variations:  variations,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, productResponseFromInfo(info))
}

// Update changes a listing's details. The actor must own the listing
// or be an admin.
func (h *ProductHandler) Update(c *gin.Context) {
	actorID, err := getAccountID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	info, err := h.productService.Update(c.Request.Context(), appcatalog.UpdateProductInput{
		ProductID:    productID,
		ActorID:      actorID,
		ActorIsAdmin: isAdmin(c),
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Stock:        req.Stock,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, productResponseFromInfo(info))
}

// Delete delists a product
func (h *ProductHandler) Delete(c *gin.Context) {
	actorID, err := getAccountID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), productID, actorID, isAdmin(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Approve publishes a listing to the storefront. Admin only.
func (h *ProductHandler) Approve(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	info, err := h.productService.Approve(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, productResponseFromInfo(info))
}

// Feature toggles a listing's featured flag. Admin only.
func (h *ProductHandler) Feature(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req FeatureProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	info, err := h.productService.Feature(c.Request.Context(), productID, req.Featured)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, productResponseFromInfo(info))
}

// Get returns a single listing by slug. Unapproved listings are only
// visible to their owner and admins.
func (h *ProductHandler) Get(c *gin.Context) {
	actorID, _ := getAccountID(c)

	info, err := h.productService.GetBySlug(c.Request.Context(), getTenantID(c), c.Param("slug"), actorID, isAdmin(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, productResponseFromInfo(info))
}

// Browse searches the approved storefront catalog
func (h *ProductHandler) Browse(c *gin.Context) {
	var req BrowseProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.productService.Browse(c.Request.Context(), appcatalog.BrowseInput{
		TenantID:   getTenantID(c),
		Keyword:    req.Keyword,
		CategoryID: req.CategoryID,
		SellerID:   req.SellerID,
		Featured:   req.Featured,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	items := make([]ProductResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, productResponseFromInfo(&page.Items[i]))
	}
	h.SuccessWithMeta(c, items, page.TotalCount, page.Page, page.PageSize)
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcart "github.com/marketplace/backend/internal/application/cart"
)

// CartHandler handles shopping cart HTTP requests
type CartHandler struct {
	BaseHandler
	cartService *appcart.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *appcart.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// AddToCartRequest represents an add-to-cart request
type AddToCartRequest struct {
	ProductID  uuid.UUID                    `json:"product_id" binding:"required"`
	Quantity   int                          `json:"quantity" binding:"omitempty,min=1"`
	Variations []appcart.VariationSelection `json:"variations" binding:"dive"`
}

// Add puts a product into the buyer's cart, merging with an existing
// line when the variation selection matches
func (h *CartHandler) Add(c *gin.Context) {
	buyerID, err := getAccountID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	line, err := h.cartService.AddToCart(c.Request.Context(), appcart.AddToCartInput{
		TenantID:   getTenantID(c),
		BuyerID:    buyerID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		Variations: req.Variations,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, line)
}

// Increment raises a cart line's quantity by one
func (h *CartHandler) Increment(c *gin.Context) {
	buyerID, itemID, ok := h.cartLineIDs(c)
	if !ok {
		return
	}

	if err := h.cartService.Increment(c.Request.Context(), buyerID, itemID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Quantity updated"})
}

// Decrement lowers a cart line's quantity by one, removing the line
// when it reaches zero
func (h *CartHandler) Decrement(c *gin.Context) {
	buyerID, itemID, ok := h.cartLineIDs(c)
	if !ok {
		return
	}

	if err := h.cartService.Decrement(c.Request.Context(), buyerID, itemID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Quantity updated"})
}

// Remove deletes a cart line
func (h *CartHandler) Remove(c *gin.Context) {
	buyerID, itemID, ok := h.cartLineIDs(c)
	if !ok {
		return
	}

	if err := h.cartService.Remove(c.Request.Context(), buyerID, itemID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Get returns the buyer's cart with a totals preview
func (h *CartHandler) Get(c *gin.Context) {
	buyerID, err := getAccountID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	info, err := h.cartService.GetCart(c.Request.Context(), getTenantID(c), buyerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, info)
}

func (h *CartHandler) cartLineIDs(c *gin.Context) (buyerID, itemID uuid.UUID, ok bool) {
	buyerID, err := getAccountID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	itemID, err = uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cart item ID")
		return uuid.Nil, uuid.Nil, false
	}

	return buyerID, itemID, true
}

package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shared"
)

// CartService handles cart use cases for authenticated buyers
type CartService struct {
	cartRepo    cart.CartItemRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(
	cartRepo cart.CartItemRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// AddToCart adds a product with the selected variations to the buyer's
// cart. Re-adding the same product with the same selection increments
// the existing line instead of creating a duplicate.
func (s *CartService) AddToCart(ctx context.Context, input AddToCartInput) (*CartLineInfo, error) {
	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Approved {
		return nil, shared.ErrNotFound
	}

	variationIDs := make([]uuid.UUID, 0, len(input.Variations))
	for _, sel := range input.Variations {
		variation, err := product.FindVariation(sel.Category, sel.Value)
		if err != nil {
			return nil, err
		}
		variationIDs = append(variationIDs, variation.ID)
	}

	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}

	lines, err := s.cartRepo.FindByBuyer(ctx, input.TenantID, input.BuyerID)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if line.HasSameSelection(product.ID, variationIDs) {
			if err := line.IncrementQuantity(quantity); err != nil {
				return nil, err
			}
			if err := s.cartRepo.Save(ctx, line); err != nil {
				return nil, err
			}
			info := lineInfoFromDomain(line, product)
			return &info, nil
		}
	}

	item, err := cart.NewCartItem(input.TenantID, input.BuyerID, product, variationIDs, quantity)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Debug("Added product to cart",
		zap.String("buyer_id", input.BuyerID.String()),
		zap.String("product_id", product.ID.String()),
		zap.Int("quantity", quantity))

	info := lineInfoFromDomain(item, product)
	return &info, nil
}

// Increment adds one unit to a cart line
func (s *CartService) Increment(ctx context.Context, buyerID, itemID uuid.UUID) error {
	item, err := s.ownedLine(ctx, buyerID, itemID)
	if err != nil {
		return err
	}
	if err := item.IncrementQuantity(1); err != nil {
		return err
	}
	return s.cartRepo.Save(ctx, item)
}

// Decrement removes one unit from a cart line, deleting the line when
// the last unit is removed
func (s *CartService) Decrement(ctx context.Context, buyerID, itemID uuid.UUID) error {
	item, err := s.ownedLine(ctx, buyerID, itemID)
	if err != nil {
		return err
	}
	if item.Quantity <= 1 {
		return s.cartRepo.Delete(ctx, item.ID)
	}
	if err := item.DecrementQuantity(); err != nil {
		return err
	}
	return s.cartRepo.Save(ctx, item)
}

// Remove deletes a cart line regardless of quantity
func (s *CartService) Remove(ctx context.Context, buyerID, itemID uuid.UUID) error {
	item, err := s.ownedLine(ctx, buyerID, itemID)
	if err != nil {
		return err
	}
	return s.cartRepo.Delete(ctx, item.ID)
}

// GetCart returns the buyer's cart lines with a totals preview using
// the same tax rule applied at checkout. Lines whose product has been
// removed from the catalog are dropped from the view.
func (s *CartService) GetCart(ctx context.Context, tenantID, buyerID uuid.UUID) (*CartInfo, error) {
	lines, err := s.cartRepo.FindByBuyer(ctx, tenantID, buyerID)
	if err != nil {
		return nil, err
	}

	info := &CartInfo{
		Lines:    make([]CartLineInfo, 0, len(lines)),
		Subtotal: decimal.Zero,
	}
	for _, line := range lines {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return nil, err
		}
		lineInfo := lineInfoFromDomain(line, product)
		info.Lines = append(info.Lines, lineInfo)
		info.Subtotal = info.Subtotal.Add(lineInfo.Subtotal)
	}

	info.Tax = info.Subtotal.Mul(order.TaxRatePercent).Div(decimal.NewFromInt(100)).Round(2)
	info.Total = info.Subtotal.Add(info.Tax)

	return info, nil
}

func (s *CartService) ownedLine(ctx context.Context, buyerID, itemID uuid.UUID) (*cart.CartItem, error) {
	item, err := s.cartRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.BuyerID != buyerID {
		return nil, shared.ErrForbidden
	}
	return item, nil
}

package service

import (
	"context"
	"fmt"

	cartdomain "apotek-store/internal/features/carts/domain"
	"apotek-store/internal/features/carts/ports"
	catalogdomain "apotek-store/internal/features/catalog/domain"

	"github.com/shopspring/decimal"
)

// ProductReader is the slice of the catalog the cart needs.
type ProductReader interface {
	Get(ctx context.Context, id string) (*catalogdomain.Product, error)
}

// CartService manages a user's cart lines.
type CartService struct {
	repo     ports.CartRepository
	products ProductReader
}

// NewCartService creates a new CartService.
func NewCartService(repo ports.CartRepository, products ProductReader) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
	}
}

// SetLine puts a product into the cart with the given quantity, replacing
// any previous quantity for that product.
func (s *CartService) SetLine(ctx context.Context, userID, productID string, quantity int64) error {
	if quantity < 1 {
		return cartdomain.ErrInvalidQuantity
	}

	if _, err := s.products.Get(ctx, productID); err != nil {
		return err
	}

	if err := s.repo.SetLine(ctx, userID, cartdomain.Line{ProductID: productID, Quantity: quantity}); err != nil {
		return fmt.Errorf("service: failed to set cart line: %w", err)
	}
	return nil
}

// RemoveLine removes a product from the cart.
func (s *CartService) RemoveLine(ctx context.Context, userID, productID string) error {
	return s.repo.RemoveLine(ctx, userID, productID)
}

// CartItem is a cart line enriched with catalog data for display.
type CartItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// List returns the cart contents with names, prices and subtotals.
func (s *CartService) List(ctx context.Context, userID string) ([]CartItem, decimal.Decimal, error) {
	lines, err := s.repo.Lines(ctx, userID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	items := make([]CartItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		product, err := s.products.Get(ctx, line.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		subtotal := product.Price.Mul(decimal.NewFromInt(line.Quantity))
		items = append(items, CartItem{
			ProductID:   line.ProductID,
			ProductName: product.Name,
			Price:       product.Price,
			Quantity:    line.Quantity,
			Subtotal:    subtotal,
		})
		total = total.Add(subtotal)
	}
	return items, total, nil
}

// ReadLines exposes the raw cart lines to checkout.
func (s *CartService) ReadLines(ctx context.Context, userID string) ([]cartdomain.Line, error) {
	return s.repo.Lines(ctx, userID)
}

// Clear drops the cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.repo.Clear(ctx, userID)
}

package service

import (
	"context"
	"fmt"

	"apotek-store/internal/features/catalog/domain"
	"apotek-store/internal/features/catalog/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductService manages the catalog and seeds the inventory ledger.
type ProductService struct {
	repo  ports.ProductRepository
	stock ports.StockSeeder
}

// NewProductService creates a new ProductService.
func NewProductService(repo ports.ProductRepository, stock ports.StockSeeder) *ProductService {
	return &ProductService{
		repo:  repo,
		stock: stock,
	}
}

// Create validates and stores a product, then seeds its stock counter.
// The counter is written exactly once here; afterwards only reservations
// and releases may move it.
func (s *ProductService) Create(ctx context.Context, name, description string, price decimal.Decimal, imageURL string, initialStock int64) (*domain.Product, error) {
	product, err := domain.NewProduct(uuid.NewString(), name, description, price, imageURL)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("service: failed to save product: %w", err)
	}

	if err := s.stock.Seed(ctx, product.ID, initialStock); err != nil {
		return nil, fmt.Errorf("service: failed to seed stock: %w", err)
	}

	return product, nil
}

// Update replaces the mutable fields of a product. Stock is not touched:
// orders hold price snapshots, so a price change never alters history.
func (s *ProductService) Update(ctx context.Context, id, name, description string, price decimal.Decimal, imageURL string) (*domain.Product, error) {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if price.IsNegative() {
		return nil, domain.ErrInvalidPrice
	}

	product.Name = name
	product.Description = description
	product.Price = price
	product.ImageURL = imageURL

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("service: failed to update product: %w", err)
	}
	return product, nil
}

// Get returns a product with its current stock level.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, int64, error) {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	stock, err := s.stock.Stock(ctx, id)
	if err != nil {
		return nil, 0, fmt.Errorf("service: failed to read stock: %w", err)
	}
	return product, stock, nil
}

// List returns all products, newest first.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// Delete removes a product from the catalog along with its stock counter.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.stock.Retire(ctx, id)
}

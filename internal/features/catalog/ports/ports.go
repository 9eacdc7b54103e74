package ports

import (
	"context"

	"apotek-store/internal/features/catalog/domain"
)

// ProductRepository is the secondary port for catalog storage.
type ProductRepository interface {
	Save(ctx context.Context, product *domain.Product) error
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// StockSeeder manages a product's stock counter lifecycle: written once at
// creation, removed when the product leaves the catalog.
type StockSeeder interface {
	Seed(ctx context.Context, productID string, quantity int64) error
	Stock(ctx context.Context, productID string) (int64, error)
	Retire(ctx context.Context, productID string) error
}

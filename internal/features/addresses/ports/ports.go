package ports

import (
	"context"

	"apotek-store/internal/features/addresses/domain"
)

// AddressRepository is the secondary port for address-book storage.
type AddressRepository interface {
	Save(ctx context.Context, address *domain.Address) error
	Get(ctx context.Context, id string) (*domain.Address, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Address, error)
	Delete(ctx context.Context, address *domain.Address) error
}

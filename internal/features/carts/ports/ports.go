package ports

import (
	"context"

	"apotek-store/internal/features/carts/domain"
)

// CartRepository is the secondary port for cart storage.
type CartRepository interface {
	SetLine(ctx context.Context, userID string, line domain.Line) error
	RemoveLine(ctx context.Context, userID, productID string) error
	Lines(ctx context.Context, userID string) ([]domain.Line, error)
	Clear(ctx context.Context, userID string) error
}

package ports

import (
	"context"

	orderdomain "apotek-store/internal/features/orders/domain"
	orderports "apotek-store/internal/features/orders/ports"
	"apotek-store/internal/features/payments/domain"
)

// PaymentRepository is the secondary port for payment receipts. Writes go
// through the order transaction; this port only covers reads and key
// derivation.
type PaymentRepository interface {
	// Key returns the storage key a payment for the order commits under.
	Key(orderID string) string
	Get(ctx context.Context, orderID string) (*domain.Payment, error)
}

// PINVerifier checks the caller's payment PIN.
type PINVerifier interface {
	VerifyPIN(ctx context.Context, userID, pin string) error
}

// OrderMutator is the slice of the order store payment authorization needs.
type OrderMutator interface {
	Get(ctx context.Context, id string) (*orderdomain.Order, error)
	Mutate(ctx context.Context, id string, fn orderports.MutateFunc) (*orderdomain.Order, error)
}

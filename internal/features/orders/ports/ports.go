package ports

import (
	"context"

	addrdomain "apotek-store/internal/features/addresses/domain"
	cartdomain "apotek-store/internal/features/carts/domain"
	catalogdomain "apotek-store/internal/features/catalog/domain"
	invdomain "apotek-store/internal/features/inventory/domain"
	"apotek-store/internal/features/orders/domain"

	"github.com/shopspring/decimal"
)

// Effect is everything a transition writes besides the order itself.
// Movements and extra keys commit in the same transaction as the status
// change, or not at all.
type Effect struct {
	// Movements are the stock changes implied by the transition.
	Movements []invdomain.Movement
	// SetKeys are extra records written atomically with the order,
	// e.g. the payment record created by authorization.
	SetKeys map[string][]byte
}

// MutateFunc inspects a freshly-read order, applies the transition to it and
// returns the effect. It runs under the transaction's watch and may be
// retried with a fresh order after a lost race.
type MutateFunc func(o *domain.Order) (*Effect, error)

// OrderRepository is the secondary port for order storage.
type OrderRepository interface {
	// CreateWithReservation persists a new order, decrements stock for
	// every item and clears the owner's cart as one atomic unit.
	CreateWithReservation(ctx context.Context, order *domain.Order) error
	Get(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	// ExpiredPending returns IDs of orders still awaiting payment whose
	// deadline is at or before the given unix time.
	ExpiredPending(ctx context.Context, nowUnix int64) ([]string, error)
	// Mutate runs fn against the current order under a watch on the order
	// and its stock keys, committing the returned effect atomically.
	Mutate(ctx context.Context, id string, fn MutateFunc) (*domain.Order, error)
}

// CartReader is the slice of the cart store checkout consumes.
type CartReader interface {
	ReadLines(ctx context.Context, userID string) ([]cartdomain.Line, error)
}

// AddressReader resolves an address and enforces ownership.
type AddressReader interface {
	GetOwned(ctx context.Context, userID, addressID string) (*addrdomain.Address, error)
}

// ProductReader is the slice of the catalog checkout consumes.
type ProductReader interface {
	Get(ctx context.Context, id string) (*catalogdomain.Product, error)
}

// ShippingCalculator prices the shipping for a checkout. The baseline is a
// flat rate; a courier/destination-aware calculator can be swapped in
// without touching checkout.
type ShippingCalculator interface {
	Cost(courier string, address *addrdomain.Address, lines []cartdomain.Line) decimal.Decimal
}

// DeliveryChecker reports whether an order's shipment has been delivered.
// Implemented by the shipping feature; gates the COMPLETED transition.
type DeliveryChecker interface {
	Delivered(ctx context.Context, orderID string) (bool, error)
}

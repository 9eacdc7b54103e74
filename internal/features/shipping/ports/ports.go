package ports

import (
	"context"

	orderdomain "apotek-store/internal/features/orders/domain"
	"apotek-store/internal/features/shipping/domain"
	userdomain "apotek-store/internal/features/users/domain"
)

// ShippingRepository is the secondary port for shipment storage.
type ShippingRepository interface {
	Save(ctx context.Context, shipping *domain.Shipping) error
	GetByOrder(ctx context.Context, orderID string) (*domain.Shipping, error)
	GetByTracking(ctx context.Context, trackingNumber string) (*domain.Shipping, error)
	ListAll(ctx context.Context) ([]domain.Shipping, error)
}

// OrderStatusSetter moves an order to SHIPPING when tracking is registered.
type OrderStatusSetter interface {
	ForceShipping(ctx context.Context, orderID string) (*orderdomain.Order, error)
}

// OrderReader is the slice of the order store shipping views need.
type OrderReader interface {
	Get(ctx context.Context, id string) (*orderdomain.Order, error)
}

// CustomerReader resolves the customer behind an order for admin views.
type CustomerReader interface {
	Get(ctx context.Context, id string) (*userdomain.User, error)
}

package domain

import (
	"errors"
	"time"

	invdomain "apotek-store/internal/features/inventory/domain"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderNotFound is returned when an order does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrNotOwner is returned when a caller acts on someone else's order.
	ErrNotOwner = errors.New("order does not belong to caller")
	// ErrNotPendingPayment is returned when an operation requires the
	// payment window to still be open.
	ErrNotPendingPayment = errors.New("order is not awaiting payment")
	// ErrNotExpired is returned when the sweeper reaches an order whose
	// deadline has not passed.
	ErrNotExpired = errors.New("order has not expired")
	// ErrNotShipping is returned when completion is confirmed out of order.
	ErrNotShipping = errors.New("order is not in shipping status")
	// ErrNotDelivered is returned when completion is confirmed before the
	// courier reported delivery.
	ErrNotDelivered = errors.New("shipment has not been delivered")
	// ErrAlreadyCancelled is returned when cancelling twice.
	ErrAlreadyCancelled = errors.New("order is already cancelled")
	// ErrCompleted is returned when cancelling a completed order.
	ErrCompleted = errors.New("cannot cancel a completed order")
)

// OrderItem is a cart line frozen at checkout time. Price is a snapshot and
// never follows later catalog changes.
type OrderItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Order is the central entity of the storefront.
type Order struct {
	ID            string          `json:"order_id"`
	Code          string          `json:"order_code"`
	UserID        string          `json:"user_id"`
	Status        Status          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	// Address is the flattened delivery snapshot captured at checkout.
	Address      string          `json:"address"`
	CourierName  string          `json:"courier_name"`
	ItemsTotal   decimal.Decimal `json:"items_total"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	CreatedAt    time.Time       `json:"created_at"`
	// ExpiresAt is computed once at creation and never recomputed; it is
	// only meaningful while the order is PENDING_PAYMENT.
	ExpiresAt time.Time   `json:"expires_at"`
	Items     []OrderItem `json:"items"`
}

// Lines converts the order items into inventory lines for stock movements.
func (o *Order) Lines() []invdomain.Line {
	lines := make([]invdomain.Line, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, invdomain.Line{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
		})
	}
	return lines
}

// MarkPaid transitions PENDING_PAYMENT -> PAID.
func (o *Order) MarkPaid() error {
	if o.Status != StatusPendingPayment {
		return ErrNotPendingPayment
	}
	o.Status = StatusPaid
	return nil
}

// CancelByUser transitions PENDING_PAYMENT -> CANCELLED_BY_USER.
// The caller releases the order's stock alongside this transition.
func (o *Order) CancelByUser() error {
	if o.Status != StatusPendingPayment {
		return ErrNotPendingPayment
	}
	o.Status = StatusCancelledByUser
	return nil
}

// ExpireAuto transitions PENDING_PAYMENT -> CANCELLED_AUTO once the payment
// deadline has passed.
func (o *Order) ExpireAuto(now time.Time) error {
	if o.Status != StatusPendingPayment {
		return ErrNotPendingPayment
	}
	if now.Before(o.ExpiresAt) {
		return ErrNotExpired
	}
	o.Status = StatusCancelledAuto
	return nil
}

// ConfirmCompleted transitions SHIPPING -> COMPLETED. The delivery check
// happens in the service; this only guards the order side.
func (o *Order) ConfirmCompleted() error {
	if o.Status != StatusShipping {
		return ErrNotShipping
	}
	o.Status = StatusCompleted
	return nil
}

// CancelByAdmin transitions any cancellable state to CANCELLED_BY_ADMIN and
// reports whether stock must be released. EXPIRED orders may still be
// cancelled but their stock is already back on the shelf.
func (o *Order) CancelByAdmin() (StockDirection, error) {
	switch {
	case o.Status == StatusCompleted:
		return StockKeep, ErrCompleted
	case o.Status == StatusCancelledByUser, o.Status == StatusCancelledByAdmin, o.Status == StatusCancelledAuto:
		return StockKeep, ErrAlreadyCancelled
	}

	direction := DirectionFor(o.Status, StatusCancelledByAdmin)
	o.Status = StatusCancelledByAdmin
	return direction, nil
}

// SetStatus applies an admin direct status edit and reports the implied
// stock movement.
func (o *Order) SetStatus(to Status) StockDirection {
	direction := DirectionFor(o.Status, to)
	o.Status = to
	return direction
}

package domain

import (
	"errors"
	"time"
)

var (
	// ErrPaymentNotFound is returned when an order has no payment record.
	ErrPaymentNotFound = errors.New("payment not found")
)

// StatusPaid is the only status a payment record ever carries; a record
// exists exactly when its order was paid.
const StatusPaid = "PAID"

// Payment is the receipt written when an order's payment is authorized.
// At most one exists per order, committed atomically with the order's
// transition to PAID.
type Payment struct {
	ID        string    `json:"payment_id"`
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	Reference string    `json:"reference"`
	PaidAt    time.Time `json:"paid_at"`
}

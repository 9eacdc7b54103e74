package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrShippingNotFound is returned when no shipment matches the lookup.
	ErrShippingNotFound = errors.New("shipping record not found")
	// ErrUnknownStatus is returned for a status outside the enumeration.
	ErrUnknownStatus = errors.New("unknown shipping status")
)

// Status is the courier-side state of a shipment. It evolves independently
// of the order status; only the user's completion confirmation joins them.
type Status string

const (
	// StatusOnDelivery means the courier has the package.
	StatusOnDelivery Status = "ON_DELIVERY"
	// StatusDelivered means the courier reported a successful handover.
	StatusDelivered Status = "DELIVERED"
	// StatusReturned means the package came back undelivered.
	StatusReturned Status = "RETURNED"
)

// ParseStatus validates a caller-supplied status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusOnDelivery, StatusDelivered, StatusReturned:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownStatus, s)
}

// Shipping is the tracking record attached to an order once it leaves the
// pharmacy. One per order, found either by order ID or tracking number.
type Shipping struct {
	OrderID        string     `json:"order_id"`
	TrackingNumber string     `json:"tracking_number"`
	CourierName    string     `json:"courier_name"`
	Status         Status     `json:"status"`
	ShippedDate    time.Time  `json:"shipped_date"`
	DeliveredDate  *time.Time `json:"delivered_date,omitempty"`
}

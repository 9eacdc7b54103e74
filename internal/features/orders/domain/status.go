package domain

import (
	"errors"
	"fmt"
)

// Status is the canonical order state. The set is closed: every transition
// goes through the rules below, never through raw string assignment.
type Status string

const (
	// StatusPendingPayment is the initial state after checkout; stock is
	// already reserved and the payment window is running.
	StatusPendingPayment Status = "PENDING_PAYMENT"
	// StatusPaid means payment was authorized inside the window.
	StatusPaid Status = "PAID"
	// StatusProcessing means the pharmacy is preparing the order.
	StatusProcessing Status = "PROCESSING"
	// StatusShipping means a courier has the package.
	StatusShipping Status = "SHIPPING"
	// StatusCompleted is terminal: the user confirmed receipt.
	StatusCompleted Status = "COMPLETED"
	// StatusCancelledByUser is terminal: cancelled while payable.
	StatusCancelledByUser Status = "CANCELLED_BY_USER"
	// StatusCancelledByAdmin is terminal: cancelled by back office.
	StatusCancelledByAdmin Status = "CANCELLED_BY_ADMIN"
	// StatusCancelledAuto is terminal: expired by the sweeper.
	StatusCancelledAuto Status = "CANCELLED_AUTO"
	// StatusExpired is terminal: reserved for manually expired orders.
	StatusExpired Status = "EXPIRED"
)

var allStatuses = map[Status]struct{}{
	StatusPendingPayment:   {},
	StatusPaid:             {},
	StatusProcessing:       {},
	StatusShipping:         {},
	StatusCompleted:        {},
	StatusCancelledByUser:  {},
	StatusCancelledByAdmin: {},
	StatusCancelledAuto:    {},
	StatusExpired:          {},
}

var (
	// ErrUnknownStatus is returned for a status value outside the enumeration.
	ErrUnknownStatus = errors.New("unknown order status")
)

// ParseStatus validates a caller-supplied status string.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := allStatuses[status]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownStatus, s)
	}
	return status, nil
}

// IsCancelledFamily reports whether the status is one of the four states
// from which stock has already been released.
func (s Status) IsCancelledFamily() bool {
	switch s {
	case StatusCancelledByUser, StatusCancelledByAdmin, StatusCancelledAuto, StatusExpired:
		return true
	}
	return false
}

// IsTerminal reports whether the order can no longer progress on its own.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s.IsCancelledFamily()
}

// StockDirection is the stock movement implied by a status change.
type StockDirection int

const (
	// StockKeep means the change moves no stock.
	StockKeep StockDirection = 0
	// StockRelease means reserved units go back to the shelf.
	StockRelease StockDirection = 1
	// StockReserve means units must be taken from the shelf again.
	StockReserve StockDirection = -1
)

// DirectionFor decides the stock movement for an arbitrary status edit.
// Only crossing the cancelled-family boundary moves stock, and only once
// per crossing, so repeated edits can never double-count.
func DirectionFor(from, to Status) StockDirection {
	fromCancelled := from.IsCancelledFamily()
	toCancelled := to.IsCancelledFamily()
	switch {
	case !fromCancelled && toCancelled:
		return StockRelease
	case fromCancelled && !toCancelled:
		return StockReserve
	default:
		return StockKeep
	}
}

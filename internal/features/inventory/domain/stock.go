package domain

import "errors"

var (
	// ErrInsufficientStock is returned when a reservation asks for more units
	// than are available. Wrapped with the product name by callers.
	ErrInsufficientStock = errors.New("insufficient stock for product")
	// ErrProductNotStocked is returned when no stock counter exists for a product.
	ErrProductNotStocked = errors.New("product has no stock record")
)

// Movement is a pending change to a product's stock counter.
// A negative delta reserves units, a positive delta releases them back.
type Movement struct {
	ProductID   string
	ProductName string
	Delta       int64
}

// Reserve builds the movements that take stock for the given lines.
func Reserve(lines []Line) []Movement {
	movements := make([]Movement, 0, len(lines))
	for _, l := range lines {
		movements = append(movements, Movement{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Delta:       -l.Quantity,
		})
	}
	return movements
}

// Release builds the movements that return stock for the given lines.
func Release(lines []Line) []Movement {
	movements := make([]Movement, 0, len(lines))
	for _, l := range lines {
		movements = append(movements, Movement{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Delta:       l.Quantity,
		})
	}
	return movements
}

// Line is one product/quantity pair subject to reservation.
type Line struct {
	ProductID   string
	ProductName string
	Quantity    int64
}

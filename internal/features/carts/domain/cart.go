package domain

import "errors"

var (
	// ErrEmptyCart is returned when checkout finds no lines for the user.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidQuantity is returned when a line quantity is below one.
	ErrInvalidQuantity = errors.New("quantity must be at least one")
	// ErrLineNotFound is returned when removing a product not in the cart.
	ErrLineNotFound = errors.New("product not in cart")
)

// Line is one product/quantity pair in a user's cart.
type Line struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

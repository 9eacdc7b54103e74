package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAddressNotFound is returned when an address does not exist.
	ErrAddressNotFound = errors.New("address not found")
	// ErrNotOwner is returned when a caller uses someone else's address.
	ErrNotOwner = errors.New("address does not belong to caller")
)

// Address is an entry in a user's address book.
type Address struct {
	ID         string `json:"address_id"`
	UserID     string `json:"user_id"`
	Receiver   string `json:"receiver"`
	Phone      string `json:"phone"`
	FullAddress string `json:"full_address"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
}

// Snapshot flattens the address into the single string stored on an order.
// Orders keep this copy forever; later edits to the address book must not
// alter it.
func (a *Address) Snapshot() string {
	return fmt.Sprintf("%s | %s | %s, %s, %s - %s",
		a.Receiver, a.Phone, a.FullAddress, a.City, a.Province, a.PostalCode)
}

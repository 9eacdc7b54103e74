package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrProductNotFound is returned when a product does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidPrice is returned when a price is negative.
	ErrInvalidPrice = errors.New("price must be zero or greater")
)

// Product is a catalog entry. The stock counter is owned by the inventory
// ledger and lives outside this record.
type Product struct {
	// ID is the unique identifier for the product.
	ID string `json:"product_id"`
	// Name is the display name of the product.
	Name string `json:"name"`
	// Description is the long-form product description.
	Description string `json:"description,omitempty"`
	// Price is the current unit price.
	Price decimal.Decimal `json:"price"`
	// ImageURL points at the product image.
	ImageURL string `json:"image_url,omitempty"`
	// CreatedAt is when the product was added to the catalog.
	CreatedAt time.Time `json:"created_at"`
}

// NewProduct validates and builds a Product.
func NewProduct(id, name, description string, price decimal.Decimal, imageURL string) (*Product, error) {
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	return &Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		ImageURL:    imageURL,
		CreatedAt:   time.Now(),
	}, nil
}

package service

import (
	"context"
	"fmt"

	"apotek-store/internal/features/addresses/domain"
	"apotek-store/internal/features/addresses/ports"

	"github.com/google/uuid"
)

// AddressService manages a user's address book.
type AddressService struct {
	repo ports.AddressRepository
}

// NewAddressService creates a new AddressService.
func NewAddressService(repo ports.AddressRepository) *AddressService {
	return &AddressService{repo: repo}
}

// Create stores a new address for the user.
func (s *AddressService) Create(ctx context.Context, userID string, address domain.Address) (*domain.Address, error) {
	address.ID = uuid.NewString()
	address.UserID = userID

	if err := s.repo.Save(ctx, &address); err != nil {
		return nil, fmt.Errorf("service: failed to save address: %w", err)
	}
	return &address, nil
}

// Update replaces an address the caller owns.
func (s *AddressService) Update(ctx context.Context, userID, addressID string, update domain.Address) (*domain.Address, error) {
	address, err := s.GetOwned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	address.Receiver = update.Receiver
	address.Phone = update.Phone
	address.FullAddress = update.FullAddress
	address.City = update.City
	address.Province = update.Province
	address.PostalCode = update.PostalCode

	if err := s.repo.Save(ctx, address); err != nil {
		return nil, fmt.Errorf("service: failed to update address: %w", err)
	}
	return address, nil
}

// GetOwned returns the address only if the caller owns it.
func (s *AddressService) GetOwned(ctx context.Context, userID, addressID string) (*domain.Address, error) {
	address, err := s.repo.Get(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if address.UserID != userID {
		return nil, domain.ErrNotOwner
	}
	return address, nil
}

// List returns the caller's addresses.
func (s *AddressService) List(ctx context.Context, userID string) ([]domain.Address, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Delete removes an address the caller owns.
func (s *AddressService) Delete(ctx context.Context, userID, addressID string) error {
	address, err := s.GetOwned(ctx, userID, addressID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, address)
}

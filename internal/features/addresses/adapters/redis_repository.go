package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"apotek-store/internal/features/addresses/domain"

	"github.com/redis/go-redis/v9"
)

func addressKey(id string) string {
	return "address:" + id
}

func userAddressesKey(userID string) string {
	return "addresses:user:" + userID
}

// RedisAddressRepository implements ports.AddressRepository on the shared store.
type RedisAddressRepository struct {
	client *redis.Client
}

// NewRedisAddressRepository creates a new RedisAddressRepository.
func NewRedisAddressRepository(client *redis.Client) *RedisAddressRepository {
	return &RedisAddressRepository{client: client}
}

// Save stores the address and indexes it under its owner.
func (r *RedisAddressRepository) Save(ctx context.Context, address *domain.Address) error {
	data, err := json.Marshal(address)
	if err != nil {
		return fmt.Errorf("failed to marshal address: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, addressKey(address.ID), data, 0)
		pipe.SAdd(ctx, userAddressesKey(address.UserID), address.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save address: %w", err)
	}
	return nil
}

// Get retrieves an address by ID.
func (r *RedisAddressRepository) Get(ctx context.Context, id string) (*domain.Address, error) {
	data, err := r.client.Get(ctx, addressKey(id)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrAddressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get address %s: %w", id, err)
	}

	var address domain.Address
	if err := json.Unmarshal(data, &address); err != nil {
		return nil, fmt.Errorf("failed to unmarshal address %s: %w", id, err)
	}
	return &address, nil
}

// ListByUser returns all addresses owned by a user.
func (r *RedisAddressRepository) ListByUser(ctx context.Context, userID string) ([]domain.Address, error) {
	ids, err := r.client.SMembers(ctx, userAddressesKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}

	addresses := make([]domain.Address, 0, len(ids))
	for _, id := range ids {
		address, err := r.Get(ctx, id)
		if err == domain.ErrAddressNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, *address)
	}
	return addresses, nil
}

// Delete removes an address and its index entry.
func (r *RedisAddressRepository) Delete(ctx context.Context, address *domain.Address) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, addressKey(address.ID))
		pipe.SRem(ctx, userAddressesKey(address.UserID), address.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete address %s: %w", address.ID, err)
	}
	return nil
}

package adapters

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"apotek-store/internal/features/carts/domain"

	"github.com/redis/go-redis/v9"
)

// Key returns the Redis hash key holding a user's cart lines.
// Exported so the checkout transaction can clear the cart atomically with
// order creation.
func Key(userID string) string {
	return "cart:" + userID
}

// RedisCartRepository stores each cart as a product-to-quantity hash.
type RedisCartRepository struct {
	client *redis.Client
}

// NewRedisCartRepository creates a new RedisCartRepository.
func NewRedisCartRepository(client *redis.Client) *RedisCartRepository {
	return &RedisCartRepository{client: client}
}

// SetLine sets the quantity for a product in the cart.
func (r *RedisCartRepository) SetLine(ctx context.Context, userID string, line domain.Line) error {
	if err := r.client.HSet(ctx, Key(userID), line.ProductID, line.Quantity).Err(); err != nil {
		return fmt.Errorf("failed to set cart line: %w", err)
	}
	return nil
}

// RemoveLine deletes a product from the cart.
func (r *RedisCartRepository) RemoveLine(ctx context.Context, userID, productID string) error {
	removed, err := r.client.HDel(ctx, Key(userID), productID).Result()
	if err != nil {
		return fmt.Errorf("failed to remove cart line: %w", err)
	}
	if removed == 0 {
		return domain.ErrLineNotFound
	}
	return nil
}

// Lines returns all lines in a user's cart, ordered by product ID for
// stable output.
func (r *RedisCartRepository) Lines(ctx context.Context, userID string) ([]domain.Line, error) {
	entries, err := r.client.HGetAll(ctx, Key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	lines := make([]domain.Line, 0, len(entries))
	for productID, qty := range entries {
		quantity, err := strconv.ParseInt(qty, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt cart quantity for %s: %w", productID, err)
		}
		lines = append(lines, domain.Line{ProductID: productID, Quantity: quantity})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines, nil
}

// Clear drops the whole cart.
func (r *RedisCartRepository) Clear(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, Key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

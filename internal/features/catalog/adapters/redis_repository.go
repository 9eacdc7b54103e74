package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"apotek-store/internal/features/catalog/domain"

	"github.com/redis/go-redis/v9"
)

const productIndexKey = "products:index"

func productKey(id string) string {
	return "product:" + id
}

// RedisProductRepository implements ports.ProductRepository on the shared store.
type RedisProductRepository struct {
	client *redis.Client
}

// NewRedisProductRepository creates a new RedisProductRepository.
func NewRedisProductRepository(client *redis.Client) *RedisProductRepository {
	return &RedisProductRepository{client: client}
}

// Save stores the product and indexes it by creation time.
func (r *RedisProductRepository) Save(ctx context.Context, product *domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, productKey(product.ID), data, 0)
		pipe.ZAdd(ctx, productIndexKey, redis.Z{
			Score:  float64(product.CreatedAt.UnixNano()),
			Member: product.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

// Get retrieves a product by ID.
func (r *RedisProductRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	data, err := r.client.Get(ctx, productKey(id)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}

	var product domain.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product %s: %w", id, err)
	}
	return &product, nil
}

// List returns all products, newest first.
func (r *RedisProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	ids, err := r.client.ZRevRange(ctx, productIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		product, err := r.Get(ctx, id)
		if err == domain.ErrProductNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, nil
}

// Delete removes a product and its index entry.
func (r *RedisProductRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, productKey(id))
		pipe.ZRem(ctx, productIndexKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}

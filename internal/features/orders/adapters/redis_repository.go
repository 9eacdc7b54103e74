package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"apotek-store/internal/core/store"
	cartadapters "apotek-store/internal/features/carts/adapters"
	invadapters "apotek-store/internal/features/inventory/adapters"
	invdomain "apotek-store/internal/features/inventory/domain"
	"apotek-store/internal/features/orders/domain"
	"apotek-store/internal/features/orders/ports"

	"github.com/redis/go-redis/v9"
)

const (
	orderIndexKey   = "orders:index"
	pendingIndexKey = "orders:pending"

	// maxTxRetries bounds how often a lost optimistic race is retried
	// before surfacing store.ErrConflict.
	maxTxRetries = 3
)

func orderKey(id string) string {
	return "order:" + id
}

func userOrdersKey(userID string) string {
	return "orders:user:" + userID
}

// RedisOrderRepository implements ports.OrderRepository on the shared store.
//
// Orders are JSON records; three sorted sets index them: all orders by
// creation time, a per-user set by creation time, and the pending set by
// payment deadline, which feeds the expiration sweeper.
type RedisOrderRepository struct {
	client *redis.Client
}

// NewRedisOrderRepository creates a new RedisOrderRepository.
func NewRedisOrderRepository(client *redis.Client) *RedisOrderRepository {
	return &RedisOrderRepository{client: client}
}

// CreateWithReservation persists the order, takes its stock and clears the
// owner's cart in one transaction. The watch covers every stock key and the
// cart, so a concurrent checkout against the same products forces a retry
// and re-validation instead of overselling.
func (r *RedisOrderRepository) CreateWithReservation(ctx context.Context, order *domain.Order) error {
	movements := invdomain.Reserve(order.Lines())

	watchKeys := make([]string, 0, len(movements)+1)
	for _, m := range movements {
		watchKeys = append(watchKeys, invadapters.StockKey(m.ProductID))
	}
	watchKeys = append(watchKeys, cartadapters.Key(order.UserID))

	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	txn := func(tx *redis.Tx) error {
		if err := invadapters.EnsureAvailable(ctx, tx, movements); err != nil {
			return err
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			invadapters.ApplyMovements(ctx, pipe, movements)
			pipe.Set(ctx, orderKey(order.ID), data, 0)
			pipe.ZAdd(ctx, orderIndexKey, redis.Z{
				Score:  float64(order.CreatedAt.UnixNano()),
				Member: order.ID,
			})
			pipe.ZAdd(ctx, userOrdersKey(order.UserID), redis.Z{
				Score:  float64(order.CreatedAt.UnixNano()),
				Member: order.ID,
			})
			pipe.ZAdd(ctx, pendingIndexKey, redis.Z{
				Score:  float64(order.ExpiresAt.Unix()),
				Member: order.ID,
			})
			pipe.Del(ctx, cartadapters.Key(order.UserID))
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err = r.client.Watch(ctx, txn, watchKeys...)
		if err != redis.TxFailedErr {
			return err
		}
	}
	return store.ErrConflict
}

// Get retrieves an order by ID.
func (r *RedisOrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	return r.get(ctx, r.client, id)
}

func (r *RedisOrderRepository) get(ctx context.Context, c redis.Cmdable, id string) (*domain.Order, error) {
	data, err := c.Get(ctx, orderKey(id)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}

	var order domain.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order %s: %w", id, err)
	}
	return &order, nil
}

// ListByUser returns the user's orders, newest first.
func (r *RedisOrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.listIndex(ctx, userOrdersKey(userID))
}

// ListAll returns every order, newest first.
func (r *RedisOrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.listIndex(ctx, orderIndexKey)
}

func (r *RedisOrderRepository) listIndex(ctx context.Context, indexKey string) ([]domain.Order, error) {
	ids, err := r.client.ZRevRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		order, err := r.Get(ctx, id)
		if err == domain.ErrOrderNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

// ExpiredPending returns IDs of orders whose payment deadline has passed.
func (r *RedisOrderRepository) ExpiredPending(ctx context.Context, nowUnix int64) ([]string, error) {
	ids, err := r.client.ZRangeByScore(ctx, pendingIndexKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", nowUnix),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query pending orders: %w", err)
	}
	return ids, nil
}

// Mutate runs fn against the current order under a watch on the order key
// and every stock key its items touch. The effect commits atomically with
// the status change; a reserving effect is re-validated against fresh stock
// inside the watch. Lost races retry with a freshly-read order.
func (r *RedisOrderRepository) Mutate(ctx context.Context, id string, fn ports.MutateFunc) (*domain.Order, error) {
	// Items are immutable, so the stock keys can be derived from a plain
	// read before the watch begins.
	order, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	watchKeys := []string{orderKey(id)}
	for _, item := range order.Items {
		watchKeys = append(watchKeys, invadapters.StockKey(item.ProductID))
	}

	var result *domain.Order
	txn := func(tx *redis.Tx) error {
		fresh, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}

		effect, err := fn(fresh)
		if err != nil {
			return err
		}
		if effect == nil {
			effect = &ports.Effect{}
		}

		if err := invadapters.EnsureAvailable(ctx, tx, effect.Movements); err != nil {
			return err
		}

		data, err := json.Marshal(fresh)
		if err != nil {
			return fmt.Errorf("failed to marshal order: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			invadapters.ApplyMovements(ctx, pipe, effect.Movements)
			pipe.Set(ctx, orderKey(id), data, 0)
			if fresh.Status == domain.StatusPendingPayment {
				pipe.ZAdd(ctx, pendingIndexKey, redis.Z{
					Score:  float64(fresh.ExpiresAt.Unix()),
					Member: id,
				})
			} else {
				pipe.ZRem(ctx, pendingIndexKey, id)
			}
			for key, value := range effect.SetKeys {
				pipe.Set(ctx, key, value, 0)
			}
			return nil
		})
		if err != nil {
			return err
		}

		result = fresh
		return nil
	}

	for i := 0; i < maxTxRetries; i++ {
		err = r.client.Watch(ctx, txn, watchKeys...)
		if err != redis.TxFailedErr {
			break
		}
	}
	if err == redis.TxFailedErr {
		return nil, store.ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

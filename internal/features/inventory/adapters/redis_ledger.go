package adapters

import (
	"context"
	"fmt"
	"strconv"

	"apotek-store/internal/features/inventory/domain"

	"github.com/redis/go-redis/v9"
)

const maxReserveRetries = 3

// StockKey returns the Redis key holding the stock counter for a product.
// The ledger is the only writer of these keys outside of checkout/transition
// transactions, which go through EnsureAvailable/ApplyMovements below.
func StockKey(productID string) string {
	return "stock:" + productID
}

// RedisLedger is the exclusive authority over per-product stock counters.
type RedisLedger struct {
	client *redis.Client
}

// NewRedisLedger creates a RedisLedger on the shared store client.
func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client}
}

// Seed writes the initial stock counter for a newly-created product.
func (l *RedisLedger) Seed(ctx context.Context, productID string, quantity int64) error {
	if err := l.client.Set(ctx, StockKey(productID), quantity, 0).Err(); err != nil {
		return fmt.Errorf("failed to seed stock for %s: %w", productID, err)
	}
	return nil
}

// Retire removes the stock counter for a product leaving the catalog.
func (l *RedisLedger) Retire(ctx context.Context, productID string) error {
	if err := l.client.Del(ctx, StockKey(productID)).Err(); err != nil {
		return fmt.Errorf("failed to retire stock for %s: %w", productID, err)
	}
	return nil
}

// Stock returns the current available quantity for a product.
func (l *RedisLedger) Stock(ctx context.Context, productID string) (int64, error) {
	val, err := l.client.Get(ctx, StockKey(productID)).Result()
	if err == redis.Nil {
		return 0, domain.ErrProductNotStocked
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read stock for %s: %w", productID, err)
	}
	return strconv.ParseInt(val, 10, 64)
}

// Reserve atomically takes stock for every line, all-or-nothing.
// Concurrent reservations against the same products are serialized by the
// WATCH on the stock keys; losers retry and re-validate against fresh counts.
func (l *RedisLedger) Reserve(ctx context.Context, lines []domain.Line) error {
	movements := domain.Reserve(lines)

	keys := make([]string, 0, len(movements))
	for _, m := range movements {
		keys = append(keys, StockKey(m.ProductID))
	}

	txn := func(tx *redis.Tx) error {
		if err := EnsureAvailable(ctx, tx, movements); err != nil {
			return err
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			ApplyMovements(ctx, pipe, movements)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < maxReserveRetries; i++ {
		err = l.client.Watch(ctx, txn, keys...)
		if err != redis.TxFailedErr {
			return err
		}
	}
	return fmt.Errorf("reserve lost %d races: %w", maxReserveRetries, err)
}

// Release returns stock for every line. Releasing cannot fail a business
// rule, so a plain pipeline of increments suffices.
func (l *RedisLedger) Release(ctx context.Context, lines []domain.Line) error {
	_, err := l.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		ApplyMovements(ctx, pipe, domain.Release(lines))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to release stock: %w", err)
	}
	return nil
}

// EnsureAvailable validates that every reserving movement fits within the
// current stock. It must run on a connection whose stock keys are WATCHed so
// the validation stays true when the caller's transaction commits.
func EnsureAvailable(ctx context.Context, c redis.Cmdable, movements []domain.Movement) error {
	for _, m := range movements {
		if m.Delta >= 0 {
			continue
		}
		val, err := c.Get(ctx, StockKey(m.ProductID)).Result()
		if err == redis.Nil {
			return fmt.Errorf("%w: %s", domain.ErrProductNotStocked, m.ProductID)
		}
		if err != nil {
			return fmt.Errorf("failed to read stock for %s: %w", m.ProductID, err)
		}
		current, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("corrupt stock counter for %s: %w", m.ProductID, err)
		}
		if current+m.Delta < 0 {
			return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, m.ProductName)
		}
	}
	return nil
}

// ApplyMovements queues the stock increments/decrements on a pipeline.
func ApplyMovements(ctx context.Context, pipe redis.Pipeliner, movements []domain.Movement) {
	for _, m := range movements {
		if m.Delta == 0 {
			continue
		}
		pipe.IncrBy(ctx, StockKey(m.ProductID), m.Delta)
	}
}

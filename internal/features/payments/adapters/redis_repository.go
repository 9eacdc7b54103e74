package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"apotek-store/internal/features/payments/domain"

	"github.com/redis/go-redis/v9"
)

func paymentKey(orderID string) string {
	return "payment:order:" + orderID
}

// RedisPaymentRepository reads payment receipts from the shared store.
// The receipts themselves are written by the order transaction.
type RedisPaymentRepository struct {
	client *redis.Client
}

// NewRedisPaymentRepository creates a new RedisPaymentRepository.
func NewRedisPaymentRepository(client *redis.Client) *RedisPaymentRepository {
	return &RedisPaymentRepository{client: client}
}

// Key implements ports.PaymentRepository.
func (r *RedisPaymentRepository) Key(orderID string) string {
	return paymentKey(orderID)
}

// Get retrieves the payment receipt for an order.
func (r *RedisPaymentRepository) Get(ctx context.Context, orderID string) (*domain.Payment, error) {
	data, err := r.client.Get(ctx, paymentKey(orderID)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment for order %s: %w", orderID, err)
	}

	var payment domain.Payment
	if err := json.Unmarshal(data, &payment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment for order %s: %w", orderID, err)
	}
	return &payment, nil
}

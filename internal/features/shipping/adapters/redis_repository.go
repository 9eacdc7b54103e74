package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"apotek-store/internal/features/shipping/domain"

	"github.com/redis/go-redis/v9"
)

const shippingIndexKey = "shippings:index"

func shippingKey(orderID string) string {
	return "shipping:order:" + orderID
}

func trackingKey(trackingNumber string) string {
	return "shipping:tracking:" + trackingNumber
}

// RedisShippingRepository implements ports.ShippingRepository on the shared
// store. Records live under the order ID; a second key maps tracking
// numbers back to orders.
type RedisShippingRepository struct {
	client *redis.Client
}

// NewRedisShippingRepository creates a new RedisShippingRepository.
func NewRedisShippingRepository(client *redis.Client) *RedisShippingRepository {
	return &RedisShippingRepository{client: client}
}

// Save upserts the shipment and refreshes the tracking-number mapping.
func (r *RedisShippingRepository) Save(ctx context.Context, shipping *domain.Shipping) error {
	data, err := json.Marshal(shipping)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping: %w", err)
	}

	previous, err := r.GetByOrder(ctx, shipping.OrderID)
	if err != nil && err != domain.ErrShippingNotFound {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if previous != nil && previous.TrackingNumber != shipping.TrackingNumber {
			pipe.Del(ctx, trackingKey(previous.TrackingNumber))
		}
		pipe.Set(ctx, shippingKey(shipping.OrderID), data, 0)
		pipe.Set(ctx, trackingKey(shipping.TrackingNumber), shipping.OrderID, 0)
		pipe.ZAdd(ctx, shippingIndexKey, redis.Z{
			Score:  float64(shipping.ShippedDate.UnixNano()),
			Member: shipping.OrderID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save shipping for order %s: %w", shipping.OrderID, err)
	}
	return nil
}

// GetByOrder retrieves the shipment attached to an order.
func (r *RedisShippingRepository) GetByOrder(ctx context.Context, orderID string) (*domain.Shipping, error) {
	data, err := r.client.Get(ctx, shippingKey(orderID)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrShippingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shipping for order %s: %w", orderID, err)
	}

	var shipping domain.Shipping
	if err := json.Unmarshal(data, &shipping); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shipping for order %s: %w", orderID, err)
	}
	return &shipping, nil
}

// GetByTracking resolves a tracking number to its shipment.
func (r *RedisShippingRepository) GetByTracking(ctx context.Context, trackingNumber string) (*domain.Shipping, error) {
	orderID, err := r.client.Get(ctx, trackingKey(trackingNumber)).Result()
	if err == redis.Nil {
		return nil, domain.ErrShippingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tracking number %s: %w", trackingNumber, err)
	}
	return r.GetByOrder(ctx, orderID)
}

// ListAll returns every shipment, most recently shipped first.
func (r *RedisShippingRepository) ListAll(ctx context.Context) ([]domain.Shipping, error) {
	orderIDs, err := r.client.ZRevRange(ctx, shippingIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list shipments: %w", err)
	}

	shipments := make([]domain.Shipping, 0, len(orderIDs))
	for _, orderID := range orderIDs {
		shipping, err := r.GetByOrder(ctx, orderID)
		if err == domain.ErrShippingNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, *shipping)
	}
	return shipments, nil
}

// Delivered reports whether the order's shipment reached the customer.
// Orders without a shipment are simply not delivered yet.
func (r *RedisShippingRepository) Delivered(ctx context.Context, orderID string) (bool, error) {
	shipping, err := r.GetByOrder(ctx, orderID)
	if err == domain.ErrShippingNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return shipping.Status == domain.StatusDelivered, nil
}

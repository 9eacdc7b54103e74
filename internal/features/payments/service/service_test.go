package service

import (
	"context"
	"testing"
	"time"

	invadapters "apotek-store/internal/features/inventory/adapters"
	orderadapters "apotek-store/internal/features/orders/adapters"
	orderdomain "apotek-store/internal/features/orders/domain"
	"apotek-store/internal/features/payments/adapters"
	"apotek-store/internal/features/payments/domain"
	userdomain "apotek-store/internal/features/users/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPINs struct {
	valid string
}

func (s *stubPINs) VerifyPIN(ctx context.Context, userID, pin string) error {
	if pin != s.valid {
		return userdomain.ErrInvalidPIN
	}
	return nil
}

func newTestService(t *testing.T) (*PaymentService, *orderadapters.RedisOrderRepository, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	orders := orderadapters.NewRedisOrderRepository(client)
	svc := NewPaymentService(adapters.NewRedisPaymentRepository(client), orders, &stubPINs{valid: "123456"})
	return svc, orders, client
}

func seedPendingOrder(t *testing.T, ctx context.Context, client *redis.Client, orders *orderadapters.RedisOrderRepository, id, userID string) {
	t.Helper()

	require.NoError(t, client.Set(ctx, invadapters.StockKey("p1"), 10, 0).Err())
	now := time.Now().UTC()
	require.NoError(t, orders.CreateWithReservation(ctx, &orderdomain.Order{
		ID:          id,
		Code:        "ORD-" + id,
		UserID:      userID,
		Status:      orderdomain.StatusPendingPayment,
		TotalAmount: decimal.NewFromInt(40000),
		CreatedAt:   now,
		ExpiresAt:   now.Add(time.Hour),
		Items: []orderdomain.OrderItem{
			{ProductID: "p1", ProductName: "Paracetamol", Quantity: 2, Price: decimal.NewFromInt(10000)},
		},
	}))
}

func TestPaymentService_Pay(t *testing.T) {
	svc, orders, client := newTestService(t)
	ctx := context.Background()
	seedPendingOrder(t, ctx, client, orders, "o1", "u1")

	payment, err := svc.Pay(ctx, "u1", "123456", "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, payment.Status)
	assert.Contains(t, payment.Reference, "PAY-")

	order, err := orders.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, orderdomain.StatusPaid, order.Status)

	stored, err := svc.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, payment.Reference, stored.Reference)

	// Paid orders are off the sweeper's radar.
	pending, err := orders.ExpiredPending(ctx, time.Now().Add(2*time.Hour).Unix())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPaymentService_Pay_InvalidPIN(t *testing.T) {
	svc, orders, client := newTestService(t)
	ctx := context.Background()
	seedPendingOrder(t, ctx, client, orders, "o1", "u1")

	_, err := svc.Pay(ctx, "u1", "000000", "o1")
	assert.ErrorIs(t, err, userdomain.ErrInvalidPIN)

	order, err := orders.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, orderdomain.StatusPendingPayment, order.Status)

	_, err = svc.Get(ctx, "o1")
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}

func TestPaymentService_Pay_ForeignOrder(t *testing.T) {
	svc, orders, client := newTestService(t)
	ctx := context.Background()
	seedPendingOrder(t, ctx, client, orders, "o1", "u1")

	_, err := svc.Pay(ctx, "u2", "123456", "o1")
	assert.ErrorIs(t, err, orderdomain.ErrNotOwner)
}

func TestPaymentService_Pay_Twice(t *testing.T) {
	svc, orders, client := newTestService(t)
	ctx := context.Background()
	seedPendingOrder(t, ctx, client, orders, "o1", "u1")

	first, err := svc.Pay(ctx, "u1", "123456", "o1")
	require.NoError(t, err)

	_, err = svc.Pay(ctx, "u1", "123456", "o1")
	assert.ErrorIs(t, err, orderdomain.ErrNotPendingPayment)

	stored, err := svc.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, first.Reference, stored.Reference, "the first receipt survives")
}

func TestPaymentService_Pay_MissingOrder(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Pay(context.Background(), "u1", "123456", "missing")
	assert.ErrorIs(t, err, orderdomain.ErrOrderNotFound)
}

func TestPaymentService_Pay_ErrorPrecedence(t *testing.T) {
	svc, orders, client := newTestService(t)
	ctx := context.Background()
	seedPendingOrder(t, ctx, client, orders, "o1", "u1")

	// A wrong PIN never masks the order-level failures.
	_, err := svc.Pay(ctx, "u1", "000000", "missing")
	assert.ErrorIs(t, err, orderdomain.ErrOrderNotFound)

	_, err = svc.Pay(ctx, "u2", "000000", "o1")
	assert.ErrorIs(t, err, orderdomain.ErrNotOwner)

	_, err = svc.Pay(ctx, "u1", "123456", "o1")
	require.NoError(t, err)

	_, err = svc.Pay(ctx, "u1", "000000", "o1")
	assert.ErrorIs(t, err, orderdomain.ErrNotPendingPayment)
}

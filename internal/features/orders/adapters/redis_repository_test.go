package adapters

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"apotek-store/internal/core/store"
	cartadapters "apotek-store/internal/features/carts/adapters"
	invadapters "apotek-store/internal/features/inventory/adapters"
	invdomain "apotek-store/internal/features/inventory/domain"
	"apotek-store/internal/features/orders/domain"
	"apotek-store/internal/features/orders/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*RedisOrderRepository, *redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisOrderRepository(client), client, mr
}

func testOrder(id, userID string) *domain.Order {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Order{
		ID:            id,
		Code:          "ORD-" + id,
		UserID:        userID,
		Status:        domain.StatusPendingPayment,
		PaymentMethod: "APOTEK_PAY",
		Address:       "Budi | 0812 | Jl. Melati 1, Bandung, Jawa Barat - 40111",
		CourierName:   "JNE",
		ItemsTotal:    decimal.NewFromInt(30000),
		ShippingCost:  decimal.NewFromInt(20000),
		TotalAmount:   decimal.NewFromInt(50000),
		CreatedAt:     now,
		ExpiresAt:     now.Add(60 * time.Minute),
		Items: []domain.OrderItem{
			{ProductID: "p1", ProductName: "Paracetamol", Quantity: 2, Price: decimal.NewFromInt(15000)},
		},
	}
}

func TestRedisOrderRepository_CreateWithReservation(t *testing.T) {
	repo, client, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, invadapters.StockKey("p1"), 5, 0).Err())
	require.NoError(t, client.HSet(ctx, cartadapters.Key("u1"), "p1", 2).Err())

	order := testOrder("o1", "u1")
	require.NoError(t, repo.CreateWithReservation(ctx, order))

	stock, err := client.Get(ctx, invadapters.StockKey("p1")).Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stock)

	exists, err := client.Exists(ctx, cartadapters.Key("u1")).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists, "cart should be cleared")

	got, err := repo.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingPayment, got.Status)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(50000)))

	pending, err := repo.ExpiredPending(ctx, order.ExpiresAt.Unix())
	require.NoError(t, err)
	assert.Equal(t, []string{"o1"}, pending)
}

func TestRedisOrderRepository_CreateWithReservation_InsufficientStock(t *testing.T) {
	repo, client, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, invadapters.StockKey("p1"), 1, 0).Err())

	err := repo.CreateWithReservation(ctx, testOrder("o1", "u1"))
	assert.ErrorIs(t, err, invdomain.ErrInsufficientStock)

	_, err = repo.Get(ctx, "o1")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	stock, err := client.Get(ctx, invadapters.StockKey("p1")).Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stock, "stock must be untouched on failure")
}

func TestRedisOrderRepository_ConcurrentCheckouts_NoOversell(t *testing.T) {
	repo, client, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, invadapters.StockKey("p1"), 3, 0).Err())

	const workers = 8
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func(n int) {
			results <- repo.CreateWithReservation(ctx, testOrder(fmt.Sprintf("o%d", n), fmt.Sprintf("u%d", n)))
		}(i)
	}

	successes := 0
	for i := 0; i < workers; i++ {
		if err := <-results; err == nil {
			successes++
		} else {
			require.True(t,
				errors.Is(err, invdomain.ErrInsufficientStock) || errors.Is(err, store.ErrConflict),
				"unexpected error: %v", err)
		}
	}

	// Each order takes 2 units out of 3, so exactly one can win.
	assert.Equal(t, 1, successes)

	stock, err := client.Get(ctx, invadapters.StockKey("p1")).Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(3-2*successes), stock)
}

func TestRedisOrderRepository_Get_NotFound(t *testing.T) {
	repo, _, _ := newTestRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestRedisOrderRepository_ListByUser(t *testing.T) {
	repo, client, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, invadapters.StockKey("p1"), 10, 0).Err())

	first := testOrder("o1", "u1")
	second := testOrder("o2", "u1")
	second.CreatedAt = first.CreatedAt.Add(time.Minute)
	other := testOrder("o3", "u2")

	require.NoError(t, repo.CreateWithReservation(ctx, first))
	require.NoError(t, repo.CreateWithReservation(ctx, second))
	require.NoError(t, repo.CreateWithReservation(ctx, other))

	mine, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "o2", mine[0].ID, "newest first")
	assert.Equal(t, "o1", mine[1].ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRedisOrderRepository_Mutate_Paid(t *testing.T) {
	repo, client, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, invadapters.StockKey("p1"), 5, 0).Err())
	require.NoError(t, repo.CreateWithReservation(ctx, testOrder("o1", "u1")))

	updated, err := repo.Mutate(ctx, "o1", func(o *domain.Order) (*ports.Effect, error) {
		if err := o.MarkPaid(); err != nil {
			return nil, err
		}
		return &ports.Effect{
			SetKeys: map[string][]byte{"payment:order:o1": []byte(`{"status":"PAID"}`)},
		}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, updated.Status)

	// Paid orders leave the pending index so the sweeper never sees them.
	pending, err := repo.ExpiredPending(ctx, time.Now().Add(2*time.Hour).Unix())
	require.NoError(t, err)
	assert.Empty(t, pending)

	raw, err := client.Get(ctx, "payment:order:o1").Result()
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"PAID"}`, raw)
}

func TestRedisOrderRepository_Mutate_ReleasesStock(t *testing.T) {
	repo, client, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, invadapters.StockKey("p1"), 5, 0).Err())
	require.NoError(t, repo.CreateWithReservation(ctx, testOrder("o1", "u1")))

	_, err := repo.Mutate(ctx, "o1", func(o *domain.Order) (*ports.Effect, error) {
		if err := o.CancelByUser(); err != nil {
			return nil, err
		}
		return &ports.Effect{Movements: invdomain.Release(o.Lines())}, nil
	})
	require.NoError(t, err)

	stock, err := client.Get(ctx, invadapters.StockKey("p1")).Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(5), stock, "cancellation returns the reservation")

	pending, err := repo.ExpiredPending(ctx, time.Now().Add(2*time.Hour).Unix())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRedisOrderRepository_Mutate_DomainErrorAborts(t *testing.T) {
	repo, client, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, invadapters.StockKey("p1"), 5, 0).Err())
	require.NoError(t, repo.CreateWithReservation(ctx, testOrder("o1", "u1")))

	_, err := repo.Mutate(ctx, "o1", func(o *domain.Order) (*ports.Effect, error) {
		return nil, o.ConfirmCompleted()
	})
	assert.ErrorIs(t, err, domain.ErrNotShipping)

	got, err := repo.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingPayment, got.Status, "failed mutation leaves the order untouched")
}

func TestRedisOrderRepository_Mutate_ReserveValidatesStock(t *testing.T) {
	repo, client, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, invadapters.StockKey("p1"), 2, 0).Err())
	require.NoError(t, repo.CreateWithReservation(ctx, testOrder("o1", "u1")))

	// Cancel to release, drain the freed stock, then try to re-activate.
	_, err := repo.Mutate(ctx, "o1", func(o *domain.Order) (*ports.Effect, error) {
		dir := o.SetStatus(domain.StatusCancelledByAdmin)
		require.Equal(t, domain.StockRelease, dir)
		return &ports.Effect{Movements: invdomain.Release(o.Lines())}, nil
	})
	require.NoError(t, err)
	require.NoError(t, client.Set(ctx, invadapters.StockKey("p1"), 1, 0).Err())

	_, err = repo.Mutate(ctx, "o1", func(o *domain.Order) (*ports.Effect, error) {
		dir := o.SetStatus(domain.StatusProcessing)
		require.Equal(t, domain.StockReserve, dir)
		return &ports.Effect{Movements: invdomain.Reserve(o.Lines())}, nil
	})
	assert.ErrorIs(t, err, invdomain.ErrInsufficientStock)

	got, err := repo.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelledByAdmin, got.Status, "re-activation must not commit without stock")
}

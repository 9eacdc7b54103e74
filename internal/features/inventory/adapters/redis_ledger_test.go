package adapters

import (
	"context"
	"sync"
	"testing"

	"apotek-store/internal/features/inventory/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) (*RedisLedger, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisLedger(client), mr
}

func TestRedisLedger_SeedAndStock(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Seed(ctx, "p1", 5))

	stock, err := ledger.Stock(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), stock)
}

func TestRedisLedger_StockMissing(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, err := ledger.Stock(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrProductNotStocked)
}

func TestRedisLedger_ReserveRelease(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Seed(ctx, "p1", 5))

	lines := []domain.Line{{ProductID: "p1", ProductName: "Paracetamol", Quantity: 2}}
	require.NoError(t, ledger.Reserve(ctx, lines))

	stock, err := ledger.Stock(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), stock)

	require.NoError(t, ledger.Release(ctx, lines))

	stock, err = ledger.Stock(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), stock)
}

func TestRedisLedger_ReserveInsufficient(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Seed(ctx, "p1", 1))

	err := ledger.Reserve(ctx, []domain.Line{{ProductID: "p1", ProductName: "Paracetamol", Quantity: 2}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Paracetamol")

	// Failed reservation must not touch the counter.
	stock, err := ledger.Stock(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stock)
}

func TestRedisLedger_ReserveAllOrNothing(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Seed(ctx, "p1", 10))
	require.NoError(t, ledger.Seed(ctx, "p2", 1))

	err := ledger.Reserve(ctx, []domain.Line{
		{ProductID: "p1", ProductName: "Paracetamol", Quantity: 2},
		{ProductID: "p2", ProductName: "Vitamin C", Quantity: 5},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Neither counter moved.
	stock, _ := ledger.Stock(ctx, "p1")
	assert.Equal(t, int64(10), stock)
	stock, _ = ledger.Stock(ctx, "p2")
	assert.Equal(t, int64(1), stock)
}

// TestRedisLedger_NoOversell runs concurrent reservations that together ask
// for more than the available stock; exactly as many as the stock allows may
// succeed.
func TestRedisLedger_NoOversell(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Seed(ctx, "p1", 5))

	const workers = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := ledger.Reserve(ctx, []domain.Line{{ProductID: "p1", ProductName: "Paracetamol", Quantity: 1}})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	stock, err := ledger.Stock(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(5-successes), stock)
	assert.LessOrEqual(t, successes, 5)
	assert.GreaterOrEqual(t, stock, int64(0))
}

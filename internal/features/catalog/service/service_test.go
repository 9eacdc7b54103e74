package service

import (
	"context"
	"testing"

	"apotek-store/internal/features/catalog/adapters"
	"apotek-store/internal/features/catalog/domain"
	invadapters "apotek-store/internal/features/inventory/adapters"
	invdomain "apotek-store/internal/features/inventory/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*ProductService, *invadapters.RedisLedger) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	ledger := invadapters.NewRedisLedger(client)
	return NewProductService(adapters.NewRedisProductRepository(client), ledger), ledger
}

func TestProductService_Create(t *testing.T) {
	svc, ledger := newTestService(t)
	ctx := context.Background()

	product, err := svc.Create(ctx, "Paracetamol 500mg", "Pain relief", decimal.NewFromInt(10000), "", 25)
	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)

	got, stock, err := svc.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paracetamol 500mg", got.Name)
	assert.Equal(t, int64(25), stock)

	seeded, err := ledger.Stock(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), seeded)
}

func TestProductService_Create_InvalidPrice(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), "Free pills", "", decimal.NewFromInt(-1), "", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestProductService_Update_KeepsStock(t *testing.T) {
	svc, ledger := newTestService(t)
	ctx := context.Background()

	product, err := svc.Create(ctx, "Paracetamol 500mg", "Pain relief", decimal.NewFromInt(10000), "", 25)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, product.ID, "Paracetamol Forte", "Stronger", decimal.NewFromInt(12000), "")
	require.NoError(t, err)
	assert.Equal(t, "Paracetamol Forte", updated.Name)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(12000)))

	stock, err := ledger.Stock(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), stock, "catalog edits never touch stock")
}

func TestProductService_Get_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductService_ListAndDelete(t *testing.T) {
	svc, ledger := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, "Paracetamol", "", decimal.NewFromInt(10000), "", 5)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Ibuprofen", "", decimal.NewFromInt(15000), "", 5)
	require.NoError(t, err)

	products, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	require.NoError(t, svc.Delete(ctx, first.ID))
	products, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)

	// The stock counter goes with the product.
	_, err = ledger.Stock(ctx, first.ID)
	assert.ErrorIs(t, err, invdomain.ErrProductNotStocked)
}

package inventory_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/teaestate-api/internal/application/dto"
	"github.com/jhoicas/teaestate-api/internal/application/inventory"
	"github.com/jhoicas/teaestate-api/internal/domain/entity"
	"github.com/jhoicas/teaestate-api/internal/domain/repository"
	"github.com/jhoicas/teaestate-api/internal/infrastructure/lock"
	"github.com/jhoicas/teaestate-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store  *memory.Store
	tx     *memory.TxRunner
	locker *lock.LocalLocker
	items  *inventory.ItemUseCase
	adjust *inventory.AdjustStockUseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	locker := lock.NewLocalLocker()
	return &fixture{
		store:  store,
		tx:     tx,
		locker: locker,
		items:  inventory.NewItemUseCase(tx, locker, store.Items(), store.Adjustments()),
		adjust: inventory.NewAdjustStockUseCase(tx, locker, zerolog.Nop()),
	}
}

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func dp(v string) *decimal.Decimal {
	x := d(v)
	return &x
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "esperado %s, obtenido %s", want, got)
}

// create registra un fertilizante con saldo inicial opening al costo cost.
func (f *fixture) create(t *testing.T, opening, cost, minQty string) *dto.ItemResponse {
	t.Helper()
	out, err := f.items.Create(context.Background(), "u-1", dto.CreateItemRequest{
		Name:       "Urea 46%",
		Category:   string(entity.CategoryFertilizer),
		Unit:       string(entity.UnitKg),
		OpeningQty: d(opening),
		Cost:       d(cost),
		MinQty:     dp(minQty),
	})
	require.NoError(t, err)
	return out
}

func (f *fixture) stored(t *testing.T, id string) *entity.StockItem {
	t.Helper()
	item, err := f.store.Items().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, item)
	return item
}

func (f *fixture) adjustments(t *testing.T, id string) []*entity.Adjustment {
	t.Helper()
	list, err := f.store.Adjustments().ListByItem(context.Background(), id, repository.AdjustmentFilter{})
	require.NoError(t, err)
	return list
}

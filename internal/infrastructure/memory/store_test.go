package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/teaestate-api/internal/domain"
	"github.com/jhoicas/teaestate-api/internal/domain/entity"
	"github.com/jhoicas/teaestate-api/internal/domain/repository"
)

func seed(t *testing.T, s *Store, id, qty string) *entity.StockItem {
	t.Helper()
	q := decimal.RequireFromString(qty)
	item := &entity.StockItem{
		ID: id, Name: id, Category: entity.CategoryFertilizer, Unit: entity.UnitKg,
		QtyOnHand: q, Batches: []entity.Batch{{Qty: q, UnitCost: decimal.NewFromInt(2)}},
		Version: 1, CreatedAt: time.Now(),
	}
	require.NoError(t, s.Items().Create(context.Background(), item))
	return item
}

func TestTxRunner_RollbackDescartaEscrituras(t *testing.T) {
	s := NewStore()
	seed(t, s, "a", "10")
	ctx := context.Background()
	boom := errors.New("boom")

	err := NewTxRunner(s).Run(ctx, func(items repository.StockItemRepository, adjs repository.AdjustmentRepository) error {
		it, err := items.GetForUpdate(ctx, "a")
		require.NoError(t, err)
		it.QtyOnHand = decimal.NewFromInt(4)
		it.Batches[0].Qty = decimal.NewFromInt(4)
		require.NoError(t, items.SaveLedger(ctx, it, it.Version))
		require.NoError(t, adjs.Create(ctx, &entity.Adjustment{ID: "x", ItemID: "a", Delta: decimal.NewFromInt(-6)}))

		// Dentro de la tx se ven las escrituras pendientes.
		visible, err := items.GetByID(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, int64(2), visible.Version)
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Items().GetByID(ctx, "a")
	require.NoError(t, err)
	assert.True(t, got.QtyOnHand.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, int64(1), got.Version)
	adjs, err := s.Adjustments().ListByItem(ctx, "a", repository.AdjustmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, adjs)
}

func TestTxRunner_ConflictoAlConfirmar(t *testing.T) {
	s := NewStore()
	seed(t, s, "a", "10")
	ctx := context.Background()

	err := NewTxRunner(s).Run(ctx, func(items repository.StockItemRepository, _ repository.AdjustmentRepository) error {
		it, err := items.GetForUpdate(ctx, "a")
		require.NoError(t, err)
		require.NoError(t, items.SaveLedger(ctx, it, it.Version))

		// Escritura fuera de la transacción entre el guardado y la confirmación.
		other, err := s.Items().GetByID(ctx, "a")
		require.NoError(t, err)
		return s.Items().SaveLedger(ctx, other, other.Version)
	})
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, int64(1), conflict.ExpectedVersion)

	got, _ := s.Items().GetByID(ctx, "a")
	assert.Equal(t, int64(2), got.Version)
}

func TestItemRepo_SaveLedgerValidaInvariantes(t *testing.T) {
	s := NewStore()
	item := seed(t, s, "a", "10")
	ctx := context.Background()

	item.QtyOnHand = decimal.NewFromInt(9)
	assert.Error(t, s.Items().SaveLedger(ctx, item, 1))

	item.QtyOnHand = decimal.NewFromInt(10)
	err := s.Items().SaveLedger(ctx, item, 7)
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, s.Items().SaveLedger(ctx, item, 1))
	assert.Equal(t, int64(2), item.Version)

	missing := item.Clone()
	missing.ID = "zz"
	assert.ErrorIs(t, s.Items().SaveLedger(ctx, missing, 1), domain.ErrNotFound)
}

func TestItemRepo_CreateDuplicadoYDelete(t *testing.T) {
	s := NewStore()
	item := seed(t, s, "a", "10")
	ctx := context.Background()

	assert.ErrorIs(t, s.Items().Create(ctx, item), domain.ErrConflict)
	assert.ErrorIs(t, s.Items().Delete(ctx, "a"), domain.ErrStockNotEmpty)
	assert.ErrorIs(t, s.Items().Delete(ctx, "b"), domain.ErrNotFound)

	seedEmpty := &entity.StockItem{ID: "c", Category: entity.CategoryInsecticide, Unit: entity.UnitLitre, Version: 1}
	require.NoError(t, s.Items().Create(ctx, seedEmpty))
	require.NoError(t, s.Items().Delete(ctx, "c"))
	got, err := s.Items().GetByID(ctx, "c")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAdjustmentRepo_FiltroPorFecha(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Adjustments().Create(ctx, &entity.Adjustment{
			ID: string(rune('a' + i)), ItemID: "it", Delta: decimal.NewFromInt(1), CreatedAt: base.AddDate(0, 0, i),
		}))
	}
	assert.ErrorIs(t, s.Adjustments().Create(ctx, &entity.Adjustment{ItemID: "it"}), domain.ErrInvalidQuantity)

	from, to := base.AddDate(0, 0, 1), base.AddDate(0, 0, 3)
	list, err := s.Adjustments().ListByItem(ctx, "it", repository.AdjustmentFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "d", list[0].ID)

	page, err := s.Adjustments().ListByItem(ctx, "it", repository.AdjustmentFilter{Limit: 2, Offset: 4})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "a", page[0].ID)
}

package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/teaestate-api/internal/application/inventory"
	"github.com/jhoicas/teaestate-api/internal/domain/entity"
)

// legacyItem inserta un ítem tal como quedó antes de existir la cola de lotes.
func (f *fixture) legacyItem(t *testing.T, id, qty string, batches ...entity.Batch) {
	t.Helper()
	created := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.store.Items().Create(context.Background(), &entity.StockItem{
		ID: id, Name: id, Category: entity.CategoryFertilizer, Unit: entity.UnitKg,
		QtyOnHand: d(qty), Batches: batches, Version: 1, CreatedAt: created, UpdatedAt: created,
	}))
}

func TestBackfill_AnteponeLoteSinCosto(t *testing.T) {
	f := newFixture()
	f.legacyItem(t, "sin-lotes", "25")
	f.legacyItem(t, "parcial", "10", entity.Batch{Qty: d("4"), UnitCost: d("7")})
	f.legacyItem(t, "sobrante", "2", entity.Batch{Qty: d("5"), UnitCost: d("7")})
	f.create(t, "3", "1", "0")

	uc := inventory.NewBackfillUseCase(f.tx, f.locker, f.store.Items(), zerolog.Nop())
	res, err := uc.Run(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, res.DryRun)
	assert.Equal(t, 4, res.Scanned)
	assert.Len(t, res.Repaired, 2)
	require.Len(t, res.Inconsistent, 1)
	assert.Equal(t, "sobrante", res.Inconsistent[0].ItemID)
	assertDec(t, "-3", res.Inconsistent[0].Gap)

	parcial := f.stored(t, "parcial")
	require.Len(t, parcial.Batches, 2)
	assertDec(t, "6", parcial.Batches[0].Qty)
	assertDec(t, "0", parcial.Batches[0].UnitCost)
	assertDec(t, "7", parcial.Batches[1].UnitCost)
	assertDec(t, "10", parcial.QtyOnHand)
	assert.Equal(t, int64(2), parcial.Version)

	sinLotes := f.stored(t, "sin-lotes")
	require.Len(t, sinLotes.Batches, 1)
	assertDec(t, "25", sinLotes.Batches[0].Qty)
	assert.Empty(t, f.adjustments(t, "sin-lotes"))

	// Segunda pasada: ya no hay nada que reparar.
	res, err = uc.Run(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, res.Repaired)
	assert.Len(t, res.Inconsistent, 1)
}

func TestBackfill_DryRunNoModifica(t *testing.T) {
	f := newFixture()
	f.legacyItem(t, "sin-lotes", "25")

	uc := inventory.NewBackfillUseCase(f.tx, f.locker, f.store.Items(), zerolog.Nop())
	res, err := uc.Run(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	require.Len(t, res.Repaired, 1)
	assertDec(t, "25", res.Repaired[0].Gap)

	item := f.stored(t, "sin-lotes")
	assert.Empty(t, item.Batches)
	assert.Equal(t, int64(1), item.Version)
}

// Tras reparar, el consumo FIFO toma primero el lote sin costo.
func TestBackfill_ConsumoPosteriorUsaLoteAntiguo(t *testing.T) {
	f := newFixture()
	f.legacyItem(t, "parcial", "10", entity.Batch{Qty: d("4"), UnitCost: d("7")})

	uc := inventory.NewBackfillUseCase(f.tx, f.locker, f.store.Items(), zerolog.Nop())
	_, err := uc.Run(context.Background(), false)
	require.NoError(t, err)

	out, err := f.adjust.Adjust(context.Background(), inventory.AdjustInput{
		ItemID: "parcial", Delta: d("-8"), Reason: entity.ReasonUsage,
	})
	require.NoError(t, err)
	assertDec(t, "14", out.CostConsumed)
}

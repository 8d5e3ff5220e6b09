package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/teaestate-api/internal/domain/entity"
	"github.com/jhoicas/teaestate-api/internal/domain/inventory"
)

func TestBatchQueue_OperacionesFIFO(t *testing.T) {
	src := []entity.Batch{batch("5", "2"), batch("3", "4")}
	q := inventory.NewBatchQueue(src)

	q.PushBack(batch("1", "1"))
	q.PushBack(entity.Batch{Qty: decimal.Zero, UnitCost: d("9")}) // ignorado
	require.Equal(t, 3, q.Len())
	assert.True(t, d("9").Equal(q.Total()))

	q.ShrinkFront(d("2"))
	front, ok := q.Front()
	require.True(t, ok)
	assert.True(t, d("3").Equal(front.Qty))
	assert.True(t, d("2").Equal(front.UnitCost), "reducir un lote nunca cambia su costo")

	q.ShrinkFront(d("3")) // agota el lote: se retira
	front, _ = q.Front()
	assert.True(t, d("4").Equal(front.UnitCost))

	popped, ok := q.PopFront()
	require.True(t, ok)
	assert.True(t, d("3").Equal(popped.Qty))
	assert.Equal(t, 1, q.Len())

	assert.Len(t, src, 2, "la cola no comparte memoria con el slice de origen")
	assert.True(t, d("5").Equal(src[0].Qty))
}

func TestBatchQueue_Vacia(t *testing.T) {
	q := inventory.NewBatchQueue(nil)
	_, ok := q.Front()
	assert.False(t, ok)
	_, ok = q.PopFront()
	assert.False(t, ok)
	q.ShrinkFront(d("1"))
	assert.NotNil(t, q.Snapshot())
	assert.True(t, q.Total().IsZero())
}

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// (10*5 + 10*7) / 20 = 6
	got := inventory.CostCalculator(d("10"), d("5"), d("10"), d("7"))
	assert.True(t, d("6").Equal(got))
	assert.True(t, inventory.CostCalculator(decimal.Zero, decimal.Zero, decimal.Zero, d("3")).IsZero())

	batches := []entity.Batch{batch("5", "2"), batch("5", "3")}
	assert.True(t, d("2.5").Equal(inventory.AverageUnitCost(batches)))
	assert.True(t, d("25").Equal(inventory.StockValue(batches)))
	assert.True(t, inventory.AverageUnitCost(nil).IsZero())
}

package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/teaestate-api/internal/application/dto"
	"github.com/jhoicas/teaestate-api/internal/application/inventory"
	"github.com/jhoicas/teaestate-api/internal/domain"
	"github.com/jhoicas/teaestate-api/internal/domain/entity"
	"github.com/jhoicas/teaestate-api/internal/domain/repository"
	"github.com/jhoicas/teaestate-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_EntradaYConsumoPersisten(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.create(t, "100", "10", "0")

	out, err := f.adjust.Adjust(ctx, inventory.AdjustInput{
		ItemID: item.ID, UserID: "u-2", Delta: d("50"), Reason: entity.ReasonPurchase, UnitCost: dp("12"),
	})
	require.NoError(t, err)
	assert.Equal(t, "u-2", out.Adjustment.CreatedBy)
	assert.NotEmpty(t, out.Adjustment.ID)

	out, err = f.adjust.Adjust(ctx, inventory.AdjustInput{
		ItemID: item.ID, Delta: d("-120"), Reason: entity.ReasonUsage, Note: "poda bloque 2",
	})
	require.NoError(t, err)
	assertDec(t, "1240", out.CostConsumed)
	assertDec(t, "1240", out.Adjustment.TotalCost)

	saved := f.stored(t, item.ID)
	assertDec(t, "30", saved.QtyOnHand)
	require.Len(t, saved.Batches, 1)
	assertDec(t, "12", saved.Batches[0].UnitCost)
	assert.Equal(t, int64(3), saved.Version)

	adjs := f.adjustments(t, item.ID)
	require.Len(t, adjs, 3)
	assert.Equal(t, entity.ReasonUsage, adjs[0].Reason)
}

func TestAdjust_ErroresNoTocanElAlmacen(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.create(t, "10", "5", "0")

	cases := []struct {
		name string
		in   inventory.AdjustInput
		want error
	}{
		{"sin item", inventory.AdjustInput{Delta: d("1"), Reason: entity.ReasonCorrection}, domain.ErrInvalidInput},
		{"delta cero", inventory.AdjustInput{ItemID: item.ID, Reason: entity.ReasonCorrection}, domain.ErrInvalidQuantity},
		{"motivo desconocido", inventory.AdjustInput{ItemID: item.ID, Delta: d("-1"), Reason: "robo"}, domain.ErrInvalidReason},
		{"costo negativo", inventory.AdjustInput{ItemID: item.ID, Delta: d("1"), Reason: entity.ReasonPurchase, UnitCost: dp("-1")}, domain.ErrInvalidCost},
		{"stock insuficiente", inventory.AdjustInput{ItemID: item.ID, Delta: d("-10.5"), Reason: entity.ReasonUsage}, domain.ErrInsufficientStock},
		{"inexistente", inventory.AdjustInput{ItemID: "nope", Delta: d("-1"), Reason: entity.ReasonUsage}, domain.ErrNotFound},
		{"delta fuera de escala", inventory.AdjustInput{ItemID: item.ID, Delta: d("1.00005"), Reason: entity.ReasonCorrection}, domain.ErrInvalidQuantity},
		{"costo fuera de escala", inventory.AdjustInput{ItemID: item.ID, Delta: d("1"), Reason: entity.ReasonPurchase, UnitCost: dp("3.00001")}, domain.ErrInvalidCost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.adjust.Adjust(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	saved := f.stored(t, item.ID)
	assertDec(t, "10", saved.QtyOnHand)
	assert.Equal(t, int64(1), saved.Version)
	assert.Len(t, f.adjustments(t, item.ID), 1)
}

func TestAdjust_StockInsuficienteDetalla(t *testing.T) {
	f := newFixture()
	item := f.create(t, "10", "5", "0")

	_, err := f.adjust.Adjust(context.Background(), inventory.AdjustInput{
		ItemID: item.ID, Delta: d("-12"), Reason: entity.ReasonWastage,
	})
	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assertDec(t, "10", insufficient.Available)
	assertDec(t, "12", insufficient.Requested)
}

// Consumos concurrentes sobre el mismo ítem: nunca se vende de más.
func TestAdjust_ConcurrenciaMismoItem(t *testing.T) {
	f := newFixture()
	item := f.create(t, "30", "2", "0")

	const workers = 50
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.adjust.Adjust(context.Background(), inventory.AdjustInput{
				ItemID: item.ID, Delta: d("-1"), Reason: entity.ReasonUsage,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 30, ok)
	assert.Equal(t, workers-30, rejected)
	saved := f.stored(t, item.ID)
	assert.True(t, saved.QtyOnHand.IsZero())
	assert.Empty(t, saved.Batches)
	assert.Len(t, f.adjustments(t, item.ID), 31)
}

// racingTx simula otro escritor que guarda el ítem justo antes que nosotros.
type racingTx struct {
	inner inventory.TxRunner
	store *memory.Store
}

func (r racingTx) Run(ctx context.Context, fn func(repository.StockItemRepository, repository.AdjustmentRepository) error) error {
	return r.inner.Run(ctx, func(items repository.StockItemRepository, adjs repository.AdjustmentRepository) error {
		return fn(racingItems{StockItemRepository: items, store: r.store}, adjs)
	})
}

type racingItems struct {
	repository.StockItemRepository
	store *memory.Store
}

func (r racingItems) SaveLedger(ctx context.Context, item *entity.StockItem, expected int64) error {
	other, err := r.store.Items().GetByID(ctx, item.ID)
	if err != nil {
		return err
	}
	if err := r.store.Items().SaveLedger(ctx, other, other.Version); err != nil {
		return err
	}
	return r.StockItemRepository.SaveLedger(ctx, item, expected)
}

func TestAdjust_ConflictoDeVersionNoSeReintenta(t *testing.T) {
	f := newFixture()
	item := f.create(t, "10", "5", "0")
	uc := inventory.NewAdjustStockUseCase(racingTx{inner: f.tx, store: f.store}, f.locker, zerolog.Nop())

	_, err := uc.Adjust(context.Background(), inventory.AdjustInput{
		ItemID: item.ID, Delta: d("-3"), Reason: entity.ReasonUsage,
	})
	require.ErrorIs(t, err, domain.ErrConflict)
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, int64(1), conflict.ExpectedVersion)

	saved := f.stored(t, item.ID)
	assertDec(t, "10", saved.QtyOnHand)
	assert.Equal(t, int64(2), saved.Version) // solo la escritura del otro
	assert.Len(t, f.adjustments(t, item.ID), 1)
}

func TestAdjustFromRequest_ArmaRespuesta(t *testing.T) {
	f := newFixture()
	item := f.create(t, "8", "4", "10")

	out, err := f.adjust.AdjustFromRequest(context.Background(), item.ID, "u-9", dto.AdjustStockRequest{
		Delta: d("4"), Reason: "correction", Note: "conteo físico",
	})
	require.NoError(t, err)
	assertDec(t, "12", out.Item.QtyOnHand)
	assertDec(t, "0", out.Adjustment.UnitCost)
	assert.Equal(t, "u-9", out.Adjustment.CreatedBy)
	assert.False(t, out.Item.LowStock)
	require.Len(t, out.Item.Batches, 2)
	assertDec(t, "0", out.Item.Batches[1].UnitCost)
}

package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/teaestate-api/internal/application/dto"
	"github.com/jhoicas/teaestate-api/internal/application/inventory"
	"github.com/jhoicas/teaestate-api/internal/domain/entity"
)

func TestGenerateReplenishmentList_OrdenYMontos(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	critical := f.create(t, "1", "5", "10")
	low := f.create(t, "5", "3", "10")
	f.create(t, "50", "2", "10")

	_, err := f.adjust.Adjust(ctx, inventory.AdjustInput{
		ItemID: low.ID, Delta: d("2"), Reason: entity.ReasonPurchase, UnitCost: dp("4"),
	})
	require.NoError(t, err)

	uc := inventory.NewReplenishmentUseCase(f.store.Items())
	list, err := uc.GenerateReplenishmentList(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 2)

	first := list[0]
	assert.Equal(t, critical.ID, first.ItemID)
	assert.Equal(t, 1, first.Priority)
	assertDec(t, "15", first.IdealStock)
	assertDec(t, "14", first.SuggestedOrderQty)
	assertDec(t, "70", first.EstimatedOrderCost)

	second := list[1]
	assert.Equal(t, low.ID, second.ItemID)
	assert.Equal(t, 2, second.Priority)
	assertDec(t, "8", second.SuggestedOrderQty)
	assertDec(t, "4", second.LastUnitCost)
	assertDec(t, "32", second.EstimatedOrderCost)
}

func TestGenerateReplenishmentList_FiltraCategoria(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.create(t, "1", "5", "10")
	_, err := f.items.Create(ctx, "u-1", dto.CreateItemRequest{
		Name: "Clorpirifos", Category: "insecticide", Unit: "L", OpeningQty: d("1"), Cost: d("9"), MinQty: dp("4"),
	})
	require.NoError(t, err)

	uc := inventory.NewReplenishmentUseCase(f.store.Items())
	list, err := uc.GenerateReplenishmentList(ctx, entity.CategoryInsecticide)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Clorpirifos", list[0].Name)

	fert, err := uc.GenerateReplenishmentList(ctx, entity.CategoryFertilizer)
	require.NoError(t, err)
	assert.Len(t, fert, 1)
}

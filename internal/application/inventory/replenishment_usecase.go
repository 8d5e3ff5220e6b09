package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/teaestate-api/internal/application/dto"
	"github.com/jhoicas/teaestate-api/internal/domain/entity"
	"github.com/jhoicas/teaestate-api/internal/domain/repository"
)

// replenishmentScanLimit tope de ítems bajo mínimo considerados por consulta.
const replenishmentScanLimit = 500

// ReplenishmentUseCase genera la lista de compra de insumos FNI en o bajo su mínimo.
type ReplenishmentUseCase struct {
	itemRepo repository.StockItemRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(itemRepo repository.StockItemRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{itemRepo: itemRepo}
}

// GenerateReplenishmentList devuelve los ítems bajo mínimo con la cantidad sugerida
// para llevarlos a 1.5 × MinQty, valorizada al costo del lote más reciente.
// category puede ser vacío para considerar todas las categorías.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, category entity.Category) ([]dto.ReplenishmentSuggestionDTO, error) {
	items, err := uc.itemRepo.List(ctx, repository.StockItemFilter{
		Category: category,
		LowStock: true,
		Limit:    replenishmentScanLimit,
	})
	if err != nil {
		return nil, err
	}

	factor := decimal.NewFromFloat(1.5)
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(items))
	for _, item := range items {
		if !item.BelowMinimum() {
			continue
		}
		idealStock := item.MinQty.Mul(factor)
		suggestedQty := idealStock.Sub(item.QtyOnHand)
		if suggestedQty.IsNegative() {
			suggestedQty = decimal.Zero
		}
		lastCost := decimal.Zero
		if n := len(item.Batches); n > 0 {
			lastCost = item.Batches[n-1].UnitCost
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ItemID:             item.ID,
			Name:               item.Name,
			Category:           string(item.Category),
			Unit:               string(item.Unit),
			QtyOnHand:          item.QtyOnHand,
			MinQty:             item.MinQty,
			IdealStock:         idealStock,
			SuggestedOrderQty:  suggestedQty,
			LastUnitCost:       lastCost,
			EstimatedOrderCost: suggestedQty.Mul(lastCost),
		})
	}

	// Ordenar: primero mayor déficit relativo (existencias / mínimo), luego mayor costo estimado.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		ra := a.QtyOnHand.Div(a.MinQty)
		rb := b.QtyOnHand.Div(b.MinQty)
		if !ra.Equal(rb) {
			return ra.LessThan(rb)
		}
		return a.EstimatedOrderCost.GreaterThan(b.EstimatedOrderCost)
	})

	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/teaestate-api/internal/domain/entity"
)

// CostCalculator costo promedio ponderado al incorporar una entrada (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// AverageUnitCost costo promedio ponderado de las existencias vivas, acumulando lote por lote.
// Solo es informativo: las salidas siempre se valoran por FIFO.
func AverageUnitCost(batches []entity.Batch) decimal.Decimal {
	qty, cost := decimal.Zero, decimal.Zero
	for _, b := range batches {
		cost = CostCalculator(qty, cost, b.Qty, b.UnitCost)
		qty = qty.Add(b.Qty)
	}
	return cost
}

// StockValue valor de inventario a costo histórico (Σ qty * unitCost).
func StockValue(batches []entity.Batch) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		total = total.Add(b.Qty.Mul(b.UnitCost))
	}
	return total
}

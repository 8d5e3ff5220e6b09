package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReplenishmentSuggestionDTO sugerencia de compra para un ítem en o bajo su mínimo.
type ReplenishmentSuggestionDTO struct {
	ItemID             string          `json:"item_id"`
	Name               string          `json:"name"`
	Category           string          `json:"category"`
	Unit               string          `json:"unit"`
	QtyOnHand          decimal.Decimal `json:"qty_on_hand"`
	MinQty             decimal.Decimal `json:"min_qty"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`          // MinQty * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`  // IdealStock - QtyOnHand
	LastUnitCost       decimal.Decimal `json:"last_unit_cost"`       // costo del lote más reciente
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * LastUnitCost
	Priority           int             `json:"priority"`             // 1 = más urgente
}

// ValuationReport resumen de existencias y costo FIFO consumido de un ítem en un periodo.
type ValuationReport struct {
	Item            ItemResponse         `json:"item"`
	From            time.Time            `json:"from"`
	To              time.Time            `json:"to"`
	Received        decimal.Decimal      `json:"received"`
	ReceivedCost    decimal.Decimal      `json:"received_cost"`
	Consumed        decimal.Decimal      `json:"consumed"`
	ConsumedCost    decimal.Decimal      `json:"consumed_cost"` // costo de ventas/aplicación (FIFO)
	ConsumedByCause []ReasonTotal        `json:"consumed_by_reason"`
	Adjustments     []AdjustmentResponse `json:"adjustments"`
	GeneratedAt     time.Time            `json:"generated_at"`
}

// ReasonTotal cantidad y costo acumulados por motivo.
type ReasonTotal struct {
	Reason string          `json:"reason"`
	Qty    decimal.Decimal `json:"qty"`
	Cost   decimal.Decimal `json:"cost"`
}

// BackfillResult resultado de la reparación de lotes faltantes.
type BackfillResult struct {
	DryRun       bool           `json:"dry_run"`
	Scanned      int            `json:"scanned"`
	Repaired     []BackfillItem `json:"repaired"`
	Inconsistent []BackfillItem `json:"inconsistent"` // suma de lotes > qty_on_hand: requiere revisión manual
}

// BackfillItem detalle por ítem reparado o inconsistente.
type BackfillItem struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	QtyOnHand decimal.Decimal `json:"qty_on_hand"`
	BatchSum  decimal.Decimal `json:"batch_sum"`
	Gap       decimal.Decimal `json:"gap"`
}

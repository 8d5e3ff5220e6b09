package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/items.
// Si opening_qty > 0 se registra una entrada inicial al costo cost.
type CreateItemRequest struct {
	Name       string           `json:"name" validate:"required,min=1,max=120"`
	Category   string           `json:"category" validate:"required,oneof=fertilizer insecticide"`
	Unit       string           `json:"unit" validate:"required,oneof=kg L"`
	OpeningQty decimal.Decimal  `json:"opening_qty" validate:"gte=0"`
	MinQty     *decimal.Decimal `json:"min_qty,omitempty" validate:"omitempty,gte=0"`
	Note       string           `json:"note" validate:"max=500"`
	Cost       decimal.Decimal  `json:"cost" validate:"gte=0"`
}

// UpdateItemRequest body para PATCH /api/items/:id. Solo metadatos: nunca lotes ni existencias.
type UpdateItemRequest struct {
	Name   *string          `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Unit   *string          `json:"unit,omitempty" validate:"omitempty,oneof=kg L"`
	MinQty *decimal.Decimal `json:"min_qty,omitempty" validate:"omitempty,gte=0"`
	Note   *string          `json:"note,omitempty" validate:"omitempty,max=500"`
}

// AdjustStockRequest body para POST /api/items/:id/adjust.
// delta > 0 entrada (purchase exige cost), delta < 0 salida FIFO.
type AdjustStockRequest struct {
	Delta  decimal.Decimal  `json:"delta"`
	Reason string           `json:"reason" validate:"required"` // purchase | usage | wastage | correction
	Note   string           `json:"note" validate:"max=500"`
	Cost   *decimal.Decimal `json:"cost,omitempty"`
}

// BatchResponse lote vivo de un ítem, en orden FIFO.
type BatchResponse struct {
	Qty        decimal.Decimal `json:"qty"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	AcquiredAt time.Time       `json:"acquired_at"`
}

// ItemResponse salida de un ítem FNI.
type ItemResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Unit            string          `json:"unit"`
	OpeningQty      decimal.Decimal `json:"opening_qty"`
	QtyOnHand       decimal.Decimal `json:"qty_on_hand"`
	MinQty          decimal.Decimal `json:"min_qty"`
	Note            string          `json:"note"`
	Batches         []BatchResponse `json:"batches"`
	StockValue      decimal.Decimal `json:"stock_value"`       // Σ qty * unit_cost
	AverageUnitCost decimal.Decimal `json:"average_unit_cost"` // informativo
	LowStock        bool            `json:"low_stock"`
	Version         int64           `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// AdjustmentResponse registro de la bitácora de ajustes.
type AdjustmentResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	Delta     decimal.Decimal `json:"delta"`
	Reason    string          `json:"reason"`
	Note      string          `json:"note,omitempty"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	TotalCost decimal.Decimal `json:"total_cost"`
	CreatedBy string          `json:"created_by,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// AdjustStockResponse resultado de un ajuste: ítem actualizado y costo FIFO consumido.
type AdjustStockResponse struct {
	Item              ItemResponse       `json:"item"`
	Adjustment        AdjustmentResponse `json:"adjustment"`
	TotalCostConsumed decimal.Decimal    `json:"total_cost_consumed"`
}

// AdjustmentListResponse lista paginada de ajustes.
type AdjustmentListResponse struct {
	Items []AdjustmentResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

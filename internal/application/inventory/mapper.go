package inventory

import (
	"github.com/jhoicas/teaestate-api/internal/application/dto"
	"github.com/jhoicas/teaestate-api/internal/domain/entity"
	"github.com/jhoicas/teaestate-api/internal/domain/inventory"
)

func toItemResponse(item *entity.StockItem) *dto.ItemResponse {
	if item == nil {
		return nil
	}
	batches := make([]dto.BatchResponse, 0, len(item.Batches))
	for _, b := range item.Batches {
		batches = append(batches, dto.BatchResponse{Qty: b.Qty, UnitCost: b.UnitCost, AcquiredAt: b.AcquiredAt})
	}
	return &dto.ItemResponse{
		ID:              item.ID,
		Name:            item.Name,
		Category:        string(item.Category),
		Unit:            string(item.Unit),
		OpeningQty:      item.OpeningQty,
		QtyOnHand:       item.QtyOnHand,
		MinQty:          item.MinQty,
		Note:            item.Note,
		Batches:         batches,
		StockValue:      inventory.StockValue(item.Batches),
		AverageUnitCost: inventory.AverageUnitCost(item.Batches).Round(4),
		LowStock:        item.BelowMinimum(),
		Version:         item.Version,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

func toAdjustmentResponse(a *entity.Adjustment) dto.AdjustmentResponse {
	return dto.AdjustmentResponse{
		ID:        a.ID,
		ItemID:    a.ItemID,
		Delta:     a.Delta,
		Reason:    string(a.Reason),
		Note:      a.Note,
		UnitCost:  a.UnitCost,
		TotalCost: a.TotalCost,
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
	}
}

func toAdjustmentResponses(list []*entity.Adjustment) []dto.AdjustmentResponse {
	out := make([]dto.AdjustmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAdjustmentResponse(a))
	}
	return out
}

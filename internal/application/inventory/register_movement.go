package inventory

import (
	"context"

	"github.com/jhoicas/teaestate-api/internal/application/dto"
	"github.com/jhoicas/teaestate-api/internal/domain/entity"
)

// AdjustFromRequest adapta el request HTTP al caso de uso Adjust(ctx, AdjustInput)
// y arma la respuesta con el ítem actualizado.
func (uc *AdjustStockUseCase) AdjustFromRequest(ctx context.Context, itemID, userID string, in dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	out, err := uc.Adjust(ctx, AdjustInput{
		ItemID:   itemID,
		UserID:   userID,
		Delta:    in.Delta,
		Reason:   entity.Reason(in.Reason),
		Note:     in.Note,
		UnitCost: in.Cost,
	})
	if err != nil {
		return nil, err
	}
	return &dto.AdjustStockResponse{
		Item:              *toItemResponse(out.Item),
		Adjustment:        toAdjustmentResponse(out.Adjustment),
		TotalCostConsumed: out.CostConsumed,
	}, nil
}

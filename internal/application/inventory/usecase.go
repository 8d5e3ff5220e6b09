package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/teaestate-api/internal/domain"
	"github.com/jhoicas/teaestate-api/internal/domain/entity"
	"github.com/jhoicas/teaestate-api/internal/domain/inventory"
	"github.com/jhoicas/teaestate-api/internal/domain/repository"
)

// AdjustStockUseCase aplica entradas y salidas FIFO de forma transaccional:
// bloqueo por ítem, SELECT FOR UPDATE, guardado con versión (CAS) y registro en la bitácora.
type AdjustStockUseCase struct {
	txRunner TxRunner
	locker   ItemLocker
	log      zerolog.Logger
	now      func() time.Time
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(txRunner TxRunner, locker ItemLocker, log zerolog.Logger) *AdjustStockUseCase {
	return &AdjustStockUseCase{
		txRunner: txRunner,
		locker:   locker,
		log:      log,
		now:      time.Now,
	}
}

// AdjustInput entrada de un ajuste. UnitCost es obligatorio en compras.
type AdjustInput struct {
	ItemID   string
	UserID   string
	Delta    decimal.Decimal
	Reason   entity.Reason
	Note     string
	UnitCost *decimal.Decimal
}

// AdjustOutput estado del ítem tras el ajuste y costo FIFO consumido (cero en entradas).
type AdjustOutput struct {
	Item         *entity.StockItem
	Adjustment   *entity.Adjustment
	CostConsumed decimal.Decimal
}

// Adjust ejecuta el ciclo lectura-modificación-escritura completo de un ajuste.
// Los errores de validación no tocan la BD; ErrConflict no se reintenta automáticamente.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, in AdjustInput) (*AdjustOutput, error) {
	if in.ItemID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Delta.IsZero() || !inventory.FitsScale(in.Delta) {
		return nil, domain.ErrInvalidQuantity
	}
	if !in.Reason.Valid() {
		return nil, domain.ErrInvalidReason
	}
	if in.UnitCost != nil && (in.UnitCost.IsNegative() || !inventory.FitsScale(*in.UnitCost)) {
		return nil, domain.ErrInvalidCost
	}

	unlock, err := uc.locker.Lock(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out *AdjustOutput
	err = uc.txRunner.Run(ctx, func(
		itemRepo repository.StockItemRepository,
		adjRepo repository.AdjustmentRepository,
	) error {
		item, err := itemRepo.GetForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		expected := item.Version

		ledger := inventory.NewLedger(item, inventory.WithClock(uc.now))
		res, err := ledger.Adjust(in.Delta, in.Reason, in.Note, in.UnitCost)
		if err != nil {
			return err
		}
		if err := itemRepo.SaveLedger(ctx, res.Item, expected); err != nil {
			return err
		}

		adj := res.Adjustment
		adj.ID = uuid.New().String()
		adj.CreatedBy = in.UserID
		if err := adjRepo.Create(ctx, &adj); err != nil {
			return err
		}
		out = &AdjustOutput{Item: res.Item, Adjustment: &adj, CostConsumed: res.CostConsumed}
		return nil
	})
	if err != nil {
		uc.logFailure(in, err)
		return nil, err
	}

	uc.log.Info().
		Str("item_id", in.ItemID).
		Str("delta", out.Adjustment.Delta.String()).
		Str("reason", string(out.Adjustment.Reason)).
		Str("total_cost", out.Adjustment.TotalCost.String()).
		Str("qty_on_hand", out.Item.QtyOnHand.String()).
		Int64("version", out.Item.Version).
		Msg("ajuste de existencias registrado")
	return out, nil
}

func (uc *AdjustStockUseCase) logFailure(in AdjustInput, err error) {
	switch {
	case errors.Is(err, domain.ErrConflict):
		uc.log.Warn().Err(err).Str("item_id", in.ItemID).Msg("ajuste rechazado por escritura concurrente")
	case errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrNotFound), domain.IsClientError(err):
		uc.log.Debug().Err(err).Str("item_id", in.ItemID).Msg("ajuste rechazado")
	default:
		uc.log.Error().Err(err).Str("item_id", in.ItemID).Msg("ajuste de existencias")
	}
}

package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/teaestate-api/internal/application/dto"
	"github.com/jhoicas/teaestate-api/internal/domain"
	"github.com/jhoicas/teaestate-api/internal/domain/entity"
	"github.com/jhoicas/teaestate-api/internal/domain/repository"
)

// backfillLogMsg mensaje de log por cada ítem reparado (la reparación no crea ajustes).
const backfillLogMsg = "backfill: lote sin costo para existencias sin lote"

const backfillPageSize = 200

// BackfillUseCase reparación única de datos legados: ítems cuya suma de lotes es menor
// que QtyOnHand reciben un lote de costo cero por la diferencia, al inicio de la cola
// (las existencias sin lote son las más antiguas). Los ítems con suma de lotes mayor que
// QtyOnHand solo se reportan.
type BackfillUseCase struct {
	txRunner TxRunner
	locker   ItemLocker
	itemRepo repository.StockItemRepository
	log      zerolog.Logger
	now      func() time.Time
}

// NewBackfillUseCase construye el caso de uso.
func NewBackfillUseCase(txRunner TxRunner, locker ItemLocker, itemRepo repository.StockItemRepository, log zerolog.Logger) *BackfillUseCase {
	return &BackfillUseCase{
		txRunner: txRunner,
		locker:   locker,
		itemRepo: itemRepo,
		log:      log,
		now:      time.Now,
	}
}

// Run recorre todos los ítems. Con dryRun solo reporta.
func (uc *BackfillUseCase) Run(ctx context.Context, dryRun bool) (*dto.BackfillResult, error) {
	result := &dto.BackfillResult{DryRun: dryRun, Repaired: []dto.BackfillItem{}, Inconsistent: []dto.BackfillItem{}}
	log := uc.log.With().Str("run_id", uuid.New().String()).Bool("dry_run", dryRun).Logger()

	for offset := 0; ; offset += backfillPageSize {
		page, err := uc.itemRepo.List(ctx, repository.StockItemFilter{Limit: backfillPageSize, Offset: offset})
		if err != nil {
			return nil, err
		}
		for _, item := range page {
			result.Scanned++
			sum := decimal.Zero
			for _, b := range item.Batches {
				sum = sum.Add(b.Qty)
			}
			gap := item.QtyOnHand.Sub(sum)
			detail := dto.BackfillItem{ItemID: item.ID, Name: item.Name, QtyOnHand: item.QtyOnHand, BatchSum: sum, Gap: gap}
			switch {
			case gap.IsZero():
				continue
			case gap.IsNegative():
				result.Inconsistent = append(result.Inconsistent, detail)
				log.Warn().Str("item_id", item.ID).Str("gap", gap.String()).Msg("suma de lotes mayor que existencias")
				continue
			}
			if !dryRun {
				if err := uc.repair(ctx, log, item.ID); err != nil {
					if errors.Is(err, domain.ErrConflict) {
						log.Warn().Err(err).Str("item_id", item.ID).Msg("backfill omitido por escritura concurrente")
						continue
					}
					return nil, err
				}
			}
			result.Repaired = append(result.Repaired, detail)
		}
		if len(page) < backfillPageSize {
			break
		}
	}
	return result, nil
}

// repair vuelve a leer el ítem bajo bloqueo y antepone el lote de costo cero.
// No genera ajuste en la bitácora: QtyOnHand no cambia.
func (uc *BackfillUseCase) repair(ctx context.Context, log zerolog.Logger, itemID string) error {
	unlock, err := uc.locker.Lock(ctx, itemID)
	if err != nil {
		return err
	}
	defer unlock()

	return uc.txRunner.Run(ctx, func(itemRepo repository.StockItemRepository, _ repository.AdjustmentRepository) error {
		item, err := itemRepo.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		sum := decimal.Zero
		for _, b := range item.Batches {
			sum = sum.Add(b.Qty)
		}
		gap := item.QtyOnHand.Sub(sum)
		if !gap.IsPositive() {
			return nil
		}
		acquiredAt := item.CreatedAt
		if acquiredAt.IsZero() {
			acquiredAt = uc.now()
		}
		batches := make([]entity.Batch, 0, len(item.Batches)+1)
		batches = append(batches, entity.Batch{Qty: gap, UnitCost: decimal.Zero, AcquiredAt: acquiredAt})
		batches = append(batches, item.Batches...)
		item.Batches = batches
		item.UpdatedAt = uc.now()
		log.Info().Str("item_id", item.ID).Str("gap", gap.String()).Msg(backfillLogMsg)
		return itemRepo.SaveLedger(ctx, item, item.Version)
	})
}

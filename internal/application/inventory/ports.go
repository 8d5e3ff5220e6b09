package inventory

import (
	"context"

	"github.com/jhoicas/teaestate-api/internal/application/dto"
	"github.com/jhoicas/teaestate-api/internal/domain/entity"
	"github.com/jhoicas/teaestate-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.StockItemRepository,
		adjRepo repository.AdjustmentRepository,
	) error) error
}

// ItemLocker exclusión mutua por ítem: un solo escritor a la vez por item_id.
// Ítems distintos no se bloquean entre sí.
type ItemLocker interface {
	Lock(ctx context.Context, itemID string) (unlock func(), err error)
}

// ValuationPDFRenderer genera la representación PDF del reporte de valorización.
type ValuationPDFRenderer interface {
	RenderValuation(ctx context.Context, report *dto.ValuationReport) ([]byte, error)
}

// AdjustmentExporter exporta la bitácora de ajustes de un ítem (p. ej. XLSX).
type AdjustmentExporter interface {
	ExportAdjustments(ctx context.Context, item *entity.StockItem, adjustments []*entity.Adjustment) ([]byte, error)
}

package repository

import (
	"context"

	"github.com/jhoicas/teaestate-api/internal/domain/entity"
)

// StockItemFilter filtros para el listado de ítems.
type StockItemFilter struct {
	Category entity.Category // vacío = todas
	LowStock bool            // solo ítems en o bajo MinQty
	Limit    int
	Offset   int
}

// StockItemRepository define el puerto de persistencia para StockItem (DIP).
// Los lotes y QtyOnHand solo se escriben mediante SaveLedger.
type StockItemRepository interface {
	Create(ctx context.Context, item *entity.StockItem) error
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	// GetForUpdate bloquea el ítem hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error)
	List(ctx context.Context, filter StockItemFilter) ([]*entity.StockItem, error)
	// UpdateMetadata actualiza name, unit, min_qty y note; nunca lotes ni existencias.
	UpdateMetadata(ctx context.Context, item *entity.StockItem) error
	// SaveLedger persiste lotes y QtyOnHand si la versión almacenada sigue siendo
	// expectedVersion; en caso contrario devuelve *domain.ConflictError.
	// Al guardar incrementa item.Version.
	SaveLedger(ctx context.Context, item *entity.StockItem, expectedVersion int64) error
	// Delete elimina el ítem solo si QtyOnHand es cero (domain.ErrStockNotEmpty si no).
	Delete(ctx context.Context, id string) error
}

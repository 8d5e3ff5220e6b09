package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/teaestate-api/internal/application/dto"
	"github.com/jhoicas/teaestate-api/internal/domain"
	"github.com/jhoicas/teaestate-api/internal/domain/entity"
	"github.com/jhoicas/teaestate-api/internal/domain/inventory"
	"github.com/jhoicas/teaestate-api/internal/domain/repository"
)

// openingNote nota del ajuste generado por el saldo inicial.
const openingNote = "saldo inicial"

// ItemUseCase casos de uso CRUD de ítems FNI. Lotes y existencias solo cambian vía ajustes.
type ItemUseCase struct {
	txRunner TxRunner
	locker   ItemLocker
	itemRepo repository.StockItemRepository
	adjRepo  repository.AdjustmentRepository
	now      func() time.Time
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(
	txRunner TxRunner,
	locker ItemLocker,
	itemRepo repository.StockItemRepository,
	adjRepo repository.AdjustmentRepository,
) *ItemUseCase {
	return &ItemUseCase{
		txRunner: txRunner,
		locker:   locker,
		itemRepo: itemRepo,
		adjRepo:  adjRepo,
		now:      time.Now,
	}
}

// Create registra un ítem. Si OpeningQty > 0 se aplica una entrada inicial al costo indicado,
// en la misma transacción que la creación.
func (uc *ItemUseCase) Create(ctx context.Context, userID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	category, unit := entity.Category(in.Category), entity.Unit(in.Unit)
	if in.Name == "" || !category.Valid() || !unit.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if in.OpeningQty.IsNegative() || !inventory.FitsScale(in.OpeningQty) {
		return nil, domain.ErrInvalidQuantity
	}
	if in.Cost.IsNegative() || !inventory.FitsScale(in.Cost) {
		return nil, domain.ErrInvalidCost
	}
	minQty := decimal.Zero
	if in.MinQty != nil {
		if in.MinQty.IsNegative() || !inventory.FitsScale(*in.MinQty) {
			return nil, domain.ErrInvalidInput
		}
		minQty = *in.MinQty
	}

	now := uc.now()
	item := &entity.StockItem{
		ID:         uuid.New().String(),
		Name:       in.Name,
		Category:   category,
		Unit:       unit,
		OpeningQty: in.OpeningQty,
		QtyOnHand:  decimal.Zero,
		MinQty:     minQty,
		Note:       in.Note,
		Batches:    []entity.Batch{},
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var opening *entity.Adjustment
	if in.OpeningQty.GreaterThan(decimal.Zero) {
		ledger := inventory.NewLedger(item, inventory.WithClock(func() time.Time { return now }))
		res, err := ledger.Receive(inventory.ReceiveInput{
			Quantity: in.OpeningQty,
			UnitCost: in.Cost,
			Reason:   entity.ReasonPurchase,
			Note:     openingNote,
		})
		if err != nil {
			return nil, err
		}
		item = res.Item
		adj := res.Adjustment
		adj.ID = uuid.New().String()
		adj.CreatedBy = userID
		opening = &adj
	}

	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.StockItemRepository,
		adjRepo repository.AdjustmentRepository,
	) error {
		if err := itemRepo.Create(ctx, item); err != nil {
			return err
		}
		if opening != nil {
			return adjRepo.Create(ctx, opening)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un ítem con sus lotes. nil, nil si no existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toItemResponse(item), nil
}

// List lista ítems con filtros y paginación.
func (uc *ItemUseCase) List(ctx context.Context, filter repository.StockItemFilter) (*dto.ItemListResponse, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.itemRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// Update actualiza metadatos (name, unit, min_qty, note). nil, nil si no existe.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = *in.Name
	}
	if in.Unit != nil {
		unit := entity.Unit(*in.Unit)
		if !unit.Valid() {
			return nil, domain.ErrInvalidInput
		}
		item.Unit = unit
	}
	if in.MinQty != nil {
		if in.MinQty.IsNegative() || !inventory.FitsScale(*in.MinQty) {
			return nil, domain.ErrInvalidInput
		}
		item.MinQty = *in.MinQty
	}
	if in.Note != nil {
		item.Note = *in.Note
	}
	item.UpdatedAt = uc.now()
	if err := uc.itemRepo.UpdateMetadata(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Delete elimina un ítem solo si no tiene existencias (domain.ErrStockNotEmpty en otro caso).
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	unlock, err := uc.locker.Lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	return uc.txRunner.Run(ctx, func(
		itemRepo repository.StockItemRepository,
		_ repository.AdjustmentRepository,
	) error {
		item, err := itemRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if !item.QtyOnHand.IsZero() {
			return domain.ErrStockNotEmpty
		}
		return itemRepo.Delete(ctx, id)
	})
}

// ListAdjustments devuelve la bitácora de un ítem (más recientes primero).
func (uc *ItemUseCase) ListAdjustments(ctx context.Context, itemID string, filter repository.AdjustmentFilter) (*dto.AdjustmentListResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.adjRepo.ListByItem(ctx, itemID, filter)
	if err != nil {
		return nil, err
	}
	return &dto.AdjustmentListResponse{
		Items: toAdjustmentResponses(list),
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

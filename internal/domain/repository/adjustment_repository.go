package repository

import (
	"context"
	"time"

	"github.com/jhoicas/teaestate-api/internal/domain/entity"
)

// AdjustmentFilter rango y paginación para consultar la bitácora de ajustes.
type AdjustmentFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// AdjustmentRepository bitácora de ajustes (solo inserción; sin Update ni Delete).
type AdjustmentRepository interface {
	Create(ctx context.Context, adj *entity.Adjustment) error
	ListByItem(ctx context.Context, itemID string, filter AdjustmentFilter) ([]*entity.Adjustment, error)
}

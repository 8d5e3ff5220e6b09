package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/teaestate-api/internal/domain/entity"
	"github.com/jhoicas/teaestate-api/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo bitácora de ajustes sobre PostgreSQL (solo inserción).
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

// Create registra un ajuste.
func (r *AdjustmentRepo) Create(ctx context.Context, adj *entity.Adjustment) error {
	query := `
		INSERT INTO fni_adjustments (id, item_id, delta, reason, note, unit_cost, total_cost, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		adj.ID, adj.ItemID, adj.Delta, adj.Reason, adj.Note, adj.UnitCost, adj.TotalCost, adj.CreatedBy, adj.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create adjustment: %w", err)
	}
	return nil
}

// ListByItem lista los ajustes de un ítem, más recientes primero.
func (r *AdjustmentRepo) ListByItem(ctx context.Context, itemID string, filter repository.AdjustmentFilter) ([]*entity.Adjustment, error) {
	args := []any{itemID}
	where := []string{"item_id = $1"}
	if filter.From != nil {
		args = append(args, *filter.From)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT id, item_id, delta, reason, note, unit_cost, total_cost, created_by, created_at
		FROM fni_adjustments WHERE `)
	sb.WriteString(strings.Join(where, " AND "))
	sb.WriteString(" ORDER BY created_at DESC, id")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()

	var list []*entity.Adjustment
	for rows.Next() {
		var a entity.Adjustment
		if err := rows.Scan(&a.ID, &a.ItemID, &a.Delta, &a.Reason, &a.Note, &a.UnitCost, &a.TotalCost, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

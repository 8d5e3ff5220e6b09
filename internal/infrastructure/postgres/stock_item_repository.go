package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/teaestate-api/internal/domain"
	"github.com/jhoicas/teaestate-api/internal/domain/entity"
	"github.com/jhoicas/teaestate-api/internal/domain/inventory"
	"github.com/jhoicas/teaestate-api/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

const stockItemColumns = `id, name, category, unit, opening_qty, qty_on_hand, min_qty, note, batches, version, created_at, updated_at`

// StockItemRepo implementación de StockItemRepository sobre PostgreSQL (usable con pool o tx).
// Los lotes se guardan como JSONB en orden FIFO.
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

// Create inserta un ítem nuevo.
func (r *StockItemRepo) Create(ctx context.Context, item *entity.StockItem) error {
	batches, err := encodeBatches(item.Batches)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO fni_items (` + stockItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = r.q.Exec(ctx, query,
		item.ID, item.Name, item.Category, item.Unit, item.OpeningQty, item.QtyOnHand,
		item.MinQty, item.Note, batches, item.Version, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create stock item %s: %w", item.ID, domain.ErrConflict)
		}
		return fmt.Errorf("create stock item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID. nil, nil si no existe.
func (r *StockItemRepo) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM fni_items WHERE id = $1`
	item, err := scanStockItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return item, nil
}

// GetForUpdate obtiene el ítem y bloquea la fila hasta el fin de la tx (SELECT FOR UPDATE).
func (r *StockItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM fni_items WHERE id = $1 FOR UPDATE`
	item, err := scanStockItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item for update: %w", err)
	}
	return item, nil
}

// List lista ítems, más recientes primero.
func (r *StockItemRepo) List(ctx context.Context, filter repository.StockItemFilter) ([]*entity.StockItem, error) {
	var (
		where []string
		args  []any
	)
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.LowStock {
		where = append(where, "min_qty > 0 AND qty_on_hand <= min_qty")
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + stockItemColumns + ` FROM fni_items`)
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
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
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockItem
	for rows.Next() {
		item, err := scanStockItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// UpdateMetadata actualiza solo los campos descriptivos; no toca lotes ni version.
func (r *StockItemRepo) UpdateMetadata(ctx context.Context, item *entity.StockItem) error {
	query := `
		UPDATE fni_items SET name = $2, unit = $3, min_qty = $4, note = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, item.ID, item.Name, item.Unit, item.MinQty, item.Note, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SaveLedger guarda lotes y existencias con compare-and-swap sobre version.
func (r *StockItemRepo) SaveLedger(ctx context.Context, item *entity.StockItem, expectedVersion int64) error {
	if err := inventory.CheckInvariants(item); err != nil {
		return err
	}
	batches, err := encodeBatches(item.Batches)
	if err != nil {
		return err
	}
	query := `
		UPDATE fni_items
		SET qty_on_hand = $3, batches = $4, updated_at = $5, version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING version`
	var version int64
	err = r.q.QueryRow(ctx, query, item.ID, expectedVersion, item.QtyOnHand, batches, item.UpdatedAt).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			exists, existsErr := r.exists(ctx, item.ID)
			if existsErr != nil {
				return existsErr
			}
			if !exists {
				return domain.ErrNotFound
			}
			return &domain.ConflictError{ItemID: item.ID, ExpectedVersion: expectedVersion}
		}
		return fmt.Errorf("save ledger: %w", err)
	}
	item.Version = version
	return nil
}

// Delete elimina el ítem si no tiene existencias.
func (r *StockItemRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM fni_items WHERE id = $1 AND qty_on_hand = 0`, id)
	if err != nil {
		return fmt.Errorf("delete stock item: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	exists, err := r.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrStockNotEmpty
}

func (r *StockItemRepo) exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM fni_items WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("check stock item: %w", err)
	}
	return ok, nil
}

func scanStockItem(row pgx.Row) (*entity.StockItem, error) {
	var (
		item entity.StockItem
		raw  []byte
	)
	err := row.Scan(
		&item.ID, &item.Name, &item.Category, &item.Unit, &item.OpeningQty, &item.QtyOnHand,
		&item.MinQty, &item.Note, &raw, &item.Version, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Batches, err = decodeBatches(raw)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func encodeBatches(batches []entity.Batch) ([]byte, error) {
	if batches == nil {
		batches = []entity.Batch{}
	}
	b, err := json.Marshal(batches)
	if err != nil {
		return nil, fmt.Errorf("encode batches: %w", err)
	}
	return b, nil
}

func decodeBatches(raw []byte) ([]entity.Batch, error) {
	batches := []entity.Batch{}
	if len(raw) == 0 {
		return batches, nil
	}
	if err := json.Unmarshal(raw, &batches); err != nil {
		return nil, fmt.Errorf("decode batches: %w", err)
	}
	return batches, nil
}

// isUniqueViolation indica si err es una violación de unicidad (23505), p. ej. id duplicado.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Package memory implementa los puertos de persistencia en memoria (tests y STORAGE_DRIVER=memory).
//
// Las transacciones se serializan entre sí y aplican sus escrituras al confirmar;
// las escrituras fuera de transacción se aplican de inmediato. SaveLedger valida la
// versión tanto al preparar como al confirmar, igual que el UPDATE ... WHERE version
// del adaptador PostgreSQL.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/teaestate-api/internal/application/inventory"
	"github.com/jhoicas/teaestate-api/internal/domain"
	"github.com/jhoicas/teaestate-api/internal/domain/entity"
	domaininv "github.com/jhoicas/teaestate-api/internal/domain/inventory"
	"github.com/jhoicas/teaestate-api/internal/domain/repository"
)

var (
	_ repository.StockItemRepository  = (*ItemRepo)(nil)
	_ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)
	_ inventory.TxRunner              = (*TxRunner)(nil)
)

// Store estado compartido de los repositorios en memoria.
type Store struct {
	mu          sync.RWMutex
	txMu        sync.Mutex
	items       map[string]*entity.StockItem
	adjustments []*entity.Adjustment
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{items: make(map[string]*entity.StockItem)}
}

// Items repositorio de ítems sin transacción.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Adjustments repositorio de ajustes sin transacción.
func (s *Store) Adjustments() *AdjustmentRepo { return &AdjustmentRepo{s: s} }

// txState escrituras pendientes de una transacción.
type txState struct {
	items       map[string]*entity.StockItem
	created     map[string]bool
	deleted     map[string]bool
	base        map[string]int64 // versión leída antes del primer SaveLedger
	adjustments []*entity.Adjustment
}

func newTxState() *txState {
	return &txState{
		items:   make(map[string]*entity.StockItem),
		created: make(map[string]bool),
		deleted: make(map[string]bool),
		base:    make(map[string]int64),
	}
}

// TxRunner ejecuta callbacks con repositorios atados a una transacción en memoria.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner { return &TxRunner{s: s} }

// Run ejecuta fn y confirma sus escrituras si no devuelve error.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.StockItemRepository,
	adjRepo repository.AdjustmentRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	tx := newTxState()
	if err := fn(&ItemRepo{s: r.s, tx: tx}, &AdjustmentRepo{s: r.s, tx: tx}); err != nil {
		return err
	}
	return r.s.commit(tx)
}

func (s *Store) commit(tx *txState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, expected := range tx.base {
		cur, ok := s.items[id]
		if !ok || cur.Version != expected {
			return &domain.ConflictError{ItemID: id, ExpectedVersion: expected}
		}
	}
	for id := range tx.created {
		if _, ok := s.items[id]; ok {
			return domain.ErrConflict
		}
	}
	for id, item := range tx.items {
		s.items[id] = item
	}
	for id := range tx.deleted {
		delete(s.items, id)
	}
	s.adjustments = append(s.adjustments, tx.adjustments...)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Ítems
// ──────────────────────────────────────────────────────────────────────────────

// ItemRepo implementación en memoria de StockItemRepository.
type ItemRepo struct {
	s  *Store
	tx *txState
}

// lookup devuelve el ítem visible (pendiente en la tx o confirmado). Requiere s.mu tomado.
func (r *ItemRepo) lookup(id string) (*entity.StockItem, bool) {
	if r.tx != nil {
		if r.tx.deleted[id] {
			return nil, false
		}
		if it, ok := r.tx.items[id]; ok {
			return it, true
		}
	}
	it, ok := r.s.items[id]
	return it, ok
}

func (r *ItemRepo) Create(_ context.Context, item *entity.StockItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.lookup(item.ID); ok {
		return domain.ErrConflict
	}
	if r.tx != nil {
		r.tx.items[item.ID] = item.Clone()
		r.tx.created[item.ID] = true
		delete(r.tx.deleted, item.ID)
		return nil
	}
	r.s.items[item.ID] = item.Clone()
	return nil
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.StockItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.lookup(id)
	if !ok {
		return nil, nil
	}
	return it.Clone(), nil
}

// GetForUpdate equivale a GetByID: las transacciones ya están serializadas.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.GetByID(ctx, id)
}

func (r *ItemRepo) List(_ context.Context, filter repository.StockItemFilter) ([]*entity.StockItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[string]bool)
	var all []*entity.StockItem
	add := func(it *entity.StockItem) {
		if seen[it.ID] {
			return
		}
		seen[it.ID] = true
		if filter.Category != "" && it.Category != filter.Category {
			return
		}
		if filter.LowStock && !it.BelowMinimum() {
			return
		}
		all = append(all, it.Clone())
	}
	if r.tx != nil {
		for id, it := range r.tx.items {
			if !r.tx.deleted[id] {
				add(it)
			}
		}
	}
	for id, it := range r.s.items {
		if r.tx != nil && r.tx.deleted[id] {
			continue
		}
		add(it)
	}

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return paginate(all, filter.Limit, filter.Offset), nil
}

func (r *ItemRepo) UpdateMetadata(_ context.Context, item *entity.StockItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.lookup(item.ID)
	if !ok {
		return domain.ErrNotFound
	}
	next := cur.Clone()
	next.Name = item.Name
	next.Unit = item.Unit
	next.MinQty = item.MinQty
	next.Note = item.Note
	next.UpdatedAt = item.UpdatedAt
	if r.tx != nil {
		r.tx.items[item.ID] = next
		return nil
	}
	r.s.items[item.ID] = next
	return nil
}

func (r *ItemRepo) SaveLedger(_ context.Context, item *entity.StockItem, expectedVersion int64) error {
	if err := domaininv.CheckInvariants(item); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.lookup(item.ID)
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != expectedVersion {
		return &domain.ConflictError{ItemID: item.ID, ExpectedVersion: expectedVersion}
	}
	next := cur.Clone()
	next.QtyOnHand = item.QtyOnHand
	next.Batches = append([]entity.Batch{}, item.Batches...)
	next.UpdatedAt = item.UpdatedAt
	next.Version = expectedVersion + 1
	item.Version = next.Version

	if r.tx != nil {
		if _, seen := r.tx.base[item.ID]; !seen && !r.tx.created[item.ID] {
			r.tx.base[item.ID] = expectedVersion
		}
		r.tx.items[item.ID] = next
		return nil
	}
	r.s.items[item.ID] = next
	return nil
}

func (r *ItemRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.lookup(id)
	if !ok {
		return domain.ErrNotFound
	}
	if !cur.QtyOnHand.IsZero() {
		return domain.ErrStockNotEmpty
	}
	if r.tx != nil {
		delete(r.tx.items, id)
		r.tx.deleted[id] = true
		return nil
	}
	delete(r.s.items, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes
// ──────────────────────────────────────────────────────────────────────────────

// AdjustmentRepo implementación en memoria (solo inserción) de AdjustmentRepository.
type AdjustmentRepo struct {
	s  *Store
	tx *txState
}

func (r *AdjustmentRepo) Create(_ context.Context, adj *entity.Adjustment) error {
	if adj.Delta.IsZero() {
		return domain.ErrInvalidQuantity
	}
	cp := *adj
	if r.tx != nil {
		r.tx.adjustments = append(r.tx.adjustments, &cp)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.adjustments = append(r.s.adjustments, &cp)
	return nil
}

func (r *AdjustmentRepo) ListByItem(_ context.Context, itemID string, filter repository.AdjustmentFilter) ([]*entity.Adjustment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	source := r.s.adjustments
	if r.tx != nil {
		source = append(append([]*entity.Adjustment{}, source...), r.tx.adjustments...)
	}
	var out []*entity.Adjustment
	for i := len(source) - 1; i >= 0; i-- {
		a := source[i]
		if a.ItemID != itemID {
			continue
		}
		if filter.From != nil && a.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && a.CreatedAt.After(*filter.To) {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, filter.Limit, filter.Offset), nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

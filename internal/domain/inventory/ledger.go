// Package inventory contiene el libro FIFO de existencias de insumos FNI.
//
// Cada StockItem mantiene una cola de lotes de compra (cantidad + costo unitario).
// Las entradas agregan un lote al final; las salidas consumen desde el lote más
// antiguo y devuelven el costo FIFO de lo consumido. Toda operación es de todo o nada:
// si falla, el ítem queda exactamente como estaba.
package inventory

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/teaestate-api/internal/domain"
	"github.com/jhoicas/teaestate-api/internal/domain/entity"
)

// ErrInvariantViolation el estado del ítem no cumple las invariantes del libro.
var ErrInvariantViolation = errors.New("invariante del libro de existencias violada")

// Scale decimales admitidos en cantidades y costos unitarios; coincide con NUMERIC(18,4).
const Scale = 4

// FitsScale indica si v no tiene más de Scale decimales distintos de cero.
func FitsScale(v decimal.Decimal) bool {
	return v.Equal(v.Round(Scale))
}

// Ledger aplica entradas y salidas sobre una copia privada de un StockItem.
// No es seguro para uso concurrente; la exclusión por ítem la garantiza el llamador.
type Ledger struct {
	item *entity.StockItem
	now  func() time.Time
}

// Option configura el Ledger.
type Option func(*Ledger)

// WithClock fija el reloj usado para AcquiredAt, CreatedAt y UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// NewLedger construye un libro sobre una copia de item.
func NewLedger(item *entity.StockItem, opts ...Option) *Ledger {
	l := &Ledger{item: item.Clone(), now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	if l.item.Batches == nil {
		l.item.Batches = []entity.Batch{}
	}
	return l
}

// Item devuelve una copia del estado actual.
func (l *Ledger) Item() *entity.StockItem { return l.item.Clone() }

// Result salida de una operación exitosa.
type Result struct {
	Item         *entity.StockItem
	Adjustment   entity.Adjustment
	CostConsumed decimal.Decimal // costo FIFO de la salida; cero en entradas
}

// ReceiveInput datos de una entrada. Reason vacío equivale a purchase.
type ReceiveInput struct {
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	AcquiredAt time.Time
	Reason     entity.Reason
	Note       string
}

// Receive agrega un lote nuevo al final de la cola e incrementa QtyOnHand.
func (l *Ledger) Receive(in ReceiveInput) (*Result, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) || !FitsScale(in.Quantity) {
		return nil, domain.ErrInvalidQuantity
	}
	if in.UnitCost.LessThan(decimal.Zero) || !FitsScale(in.UnitCost) {
		return nil, domain.ErrInvalidCost
	}
	reason := in.Reason
	if reason == "" {
		reason = entity.ReasonPurchase
	}
	if !reason.AllowsIncrease() {
		return nil, domain.ErrInvalidReason
	}

	now := l.now()
	acquiredAt := in.AcquiredAt
	if acquiredAt.IsZero() {
		acquiredAt = now
	}

	queue := NewBatchQueue(l.item.Batches)
	queue.PushBack(entity.Batch{Qty: in.Quantity, UnitCost: in.UnitCost, AcquiredAt: acquiredAt})

	l.item.Batches = queue.Snapshot()
	l.item.QtyOnHand = l.item.QtyOnHand.Add(in.Quantity)
	l.item.UpdatedAt = now

	return &Result{
		Item: l.item.Clone(),
		Adjustment: entity.Adjustment{
			ItemID:    l.item.ID,
			Delta:     in.Quantity,
			Reason:    reason,
			Note:      in.Note,
			UnitCost:  in.UnitCost,
			TotalCost: in.Quantity.Mul(in.UnitCost),
			CreatedAt: now,
		},
		CostConsumed: decimal.Zero,
	}, nil
}

// Consume retira quantity siguiendo el orden FIFO y devuelve el costo consumido.
// La factibilidad se valida antes de tocar la cola: un consumo que excede QtyOnHand
// devuelve InsufficientStockError sin modificar nada.
func (l *Ledger) Consume(quantity decimal.Decimal, reason entity.Reason, note string) (*Result, error) {
	if !quantity.GreaterThan(decimal.Zero) || !FitsScale(quantity) {
		return nil, domain.ErrInvalidQuantity
	}
	if !reason.AllowsDecrease() {
		return nil, domain.ErrInvalidReason
	}
	if quantity.GreaterThan(l.item.QtyOnHand) {
		return nil, &domain.InsufficientStockError{
			ItemID:    l.item.ID,
			Available: l.item.QtyOnHand,
			Requested: quantity,
		}
	}

	// La cola es una copia: solo se confirma si el recorrido satisface la solicitud.
	queue := NewBatchQueue(l.item.Batches)
	remaining := quantity
	totalCost := decimal.Zero
	for remaining.GreaterThan(decimal.Zero) {
		front, ok := queue.Front()
		if !ok {
			break
		}
		if front.Qty.LessThanOrEqual(remaining) {
			totalCost = totalCost.Add(front.Qty.Mul(front.UnitCost))
			remaining = remaining.Sub(front.Qty)
			queue.PopFront()
			continue
		}
		totalCost = totalCost.Add(remaining.Mul(front.UnitCost))
		queue.ShrinkFront(remaining)
		remaining = decimal.Zero
	}
	if remaining.GreaterThan(decimal.Zero) {
		// Lotes agotados antes que QtyOnHand: estado inconsistente, no se confirma.
		return nil, &domain.InsufficientStockError{
			ItemID:    l.item.ID,
			Available: quantity.Sub(remaining),
			Requested: quantity,
		}
	}

	now := l.now()
	l.item.Batches = queue.Snapshot()
	l.item.QtyOnHand = l.item.QtyOnHand.Sub(quantity)
	l.item.UpdatedAt = now

	return &Result{
		Item: l.item.Clone(),
		Adjustment: entity.Adjustment{
			ItemID:    l.item.ID,
			Delta:     quantity.Neg(),
			Reason:    reason,
			Note:      note,
			UnitCost:  decimal.Zero,
			TotalCost: totalCost,
			CreatedAt: now,
		},
		CostConsumed: totalCost,
	}, nil
}

// Adjust ajuste libre por signo: toda entrada pasa por Receive (costo 0 si no se indica)
// y toda salida por Consume. purchase solo vale para entradas; usage y wastage solo para salidas.
func (l *Ledger) Adjust(delta decimal.Decimal, reason entity.Reason, note string, unitCost *decimal.Decimal) (*Result, error) {
	if delta.IsZero() {
		return nil, domain.ErrInvalidQuantity
	}
	if !reason.Valid() {
		return nil, domain.ErrInvalidReason
	}
	if delta.GreaterThan(decimal.Zero) {
		if !reason.AllowsIncrease() {
			return nil, domain.ErrInvalidReason
		}
		cost := decimal.Zero
		if unitCost != nil {
			cost = *unitCost
		} else if reason == entity.ReasonPurchase {
			// purchase exige costo explícito.
			return nil, domain.ErrInvalidCost
		}
		return l.Receive(ReceiveInput{Quantity: delta, UnitCost: cost, Reason: reason, Note: note})
	}
	return l.Consume(delta.Neg(), reason, note)
}

// CheckInvariants valida QtyOnHand == Σ lotes, cantidades positivas, costos no negativos
// y que nada exceda Scale decimales.
func CheckInvariants(item *entity.StockItem) error {
	if item.QtyOnHand.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: qty_on_hand negativo (%s)", ErrInvariantViolation, item.QtyOnHand)
	}
	if !FitsScale(item.QtyOnHand) {
		return fmt.Errorf("%w: qty_on_hand %s excede %d decimales", ErrInvariantViolation, item.QtyOnHand, Scale)
	}
	sum := decimal.Zero
	for i, b := range item.Batches {
		if !b.Qty.GreaterThan(decimal.Zero) {
			return fmt.Errorf("%w: lote %d con cantidad %s", ErrInvariantViolation, i, b.Qty)
		}
		if b.UnitCost.LessThan(decimal.Zero) {
			return fmt.Errorf("%w: lote %d con costo negativo", ErrInvariantViolation, i)
		}
		if !FitsScale(b.Qty) || !FitsScale(b.UnitCost) {
			return fmt.Errorf("%w: lote %d excede %d decimales", ErrInvariantViolation, i, Scale)
		}
		sum = sum.Add(b.Qty)
	}
	if !sum.Equal(item.QtyOnHand) {
		return fmt.Errorf("%w: suma de lotes %s distinta de qty_on_hand %s", ErrInvariantViolation, sum, item.QtyOnHand)
	}
	return nil
}

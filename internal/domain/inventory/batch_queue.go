package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/teaestate-api/internal/domain/entity"
)

// BatchQueue cola FIFO de lotes. Las únicas mutaciones posibles son PushBack (entrada),
// PopFront y ShrinkFront (salida), de modo que el orden de consumo no puede alterarse.
type BatchQueue struct {
	batches []entity.Batch
}

// NewBatchQueue construye la cola copiando los lotes recibidos.
func NewBatchQueue(batches []entity.Batch) *BatchQueue {
	b := make([]entity.Batch, len(batches))
	copy(b, batches)
	return &BatchQueue{batches: b}
}

// Len número de lotes vivos.
func (q *BatchQueue) Len() int { return len(q.batches) }

// Front devuelve el lote más antiguo.
func (q *BatchQueue) Front() (entity.Batch, bool) {
	if len(q.batches) == 0 {
		return entity.Batch{}, false
	}
	return q.batches[0], true
}

// PushBack agrega un lote al final (se consumirá de último). Lotes vacíos se ignoran.
func (q *BatchQueue) PushBack(b entity.Batch) {
	if !b.Qty.GreaterThan(decimal.Zero) {
		return
	}
	q.batches = append(q.batches, b)
}

// PopFront retira el lote más antiguo.
func (q *BatchQueue) PopFront() (entity.Batch, bool) {
	if len(q.batches) == 0 {
		return entity.Batch{}, false
	}
	b := q.batches[0]
	q.batches = q.batches[1:]
	return b, true
}

// ShrinkFront descuenta qty del lote más antiguo. qty debe ser menor que la cantidad del lote;
// si lo iguala o supera, el lote se retira completo.
func (q *BatchQueue) ShrinkFront(qty decimal.Decimal) {
	if len(q.batches) == 0 {
		return
	}
	rest := q.batches[0].Qty.Sub(qty)
	if !rest.GreaterThan(decimal.Zero) {
		q.batches = q.batches[1:]
		return
	}
	q.batches[0].Qty = rest
}

// Total suma de cantidades de todos los lotes.
func (q *BatchQueue) Total() decimal.Decimal {
	total := decimal.Zero
	for _, b := range q.batches {
		total = total.Add(b.Qty)
	}
	return total
}

// Snapshot copia de los lotes en orden FIFO (nunca nil).
func (q *BatchQueue) Snapshot() []entity.Batch {
	out := make([]entity.Batch, len(q.batches))
	copy(out, q.batches)
	return out
}

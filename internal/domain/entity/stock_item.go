package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category clasifica los insumos FNI (fertilizantes e insecticidas).
type Category string

const (
	CategoryFertilizer  Category = "fertilizer"
	CategoryInsecticide Category = "insecticide"
)

// Valid indica si la categoría es conocida.
func (c Category) Valid() bool {
	return c == CategoryFertilizer || c == CategoryInsecticide
}

// Unit unidad de medida del ítem.
type Unit string

const (
	UnitKg    Unit = "kg"
	UnitLitre Unit = "L"
)

// Valid indica si la unidad es conocida.
func (u Unit) Valid() bool {
	return u == UnitKg || u == UnitLitre
}

// Batch es un lote de compra: cantidad restante y costo unitario de adquisición.
// El orden dentro de StockItem.Batches (no AcquiredAt) define el orden FIFO.
type Batch struct {
	Qty        decimal.Decimal `json:"qty"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	AcquiredAt time.Time       `json:"acquired_at"`
}

// StockItem representa un insumo FNI con sus lotes de costo.
// QtyOnHand siempre es igual a la suma de Batches[i].Qty.
type StockItem struct {
	ID         string
	Name       string
	Category   Category
	Unit       Unit
	OpeningQty decimal.Decimal // cantidad registrada al crear; no se modifica
	QtyOnHand  decimal.Decimal
	MinQty     decimal.Decimal // punto de reorden, solo informativo
	Note       string
	Batches    []Batch // del más antiguo (índice 0) al más reciente
	Version    int64   // control de concurrencia optimista
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Clone devuelve una copia profunda (el slice de lotes no se comparte).
func (s *StockItem) Clone() *StockItem {
	if s == nil {
		return nil
	}
	c := *s
	if s.Batches != nil {
		c.Batches = make([]Batch, len(s.Batches))
		copy(c.Batches, s.Batches)
	}
	return &c
}

// BelowMinimum indica si las existencias están en o por debajo del punto de reorden.
func (s *StockItem) BelowMinimum() bool {
	return s.MinQty.GreaterThan(decimal.Zero) && s.QtyOnHand.LessThanOrEqual(s.MinQty)
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reason motivo de un ajuste de existencias.
type Reason string

const (
	ReasonPurchase   Reason = "purchase"   // entrada con costo conocido
	ReasonUsage      Reason = "usage"      // aplicación en campo
	ReasonWastage    Reason = "wastage"    // merma o vencimiento
	ReasonCorrection Reason = "correction" // conteo físico (ambos sentidos)
)

// Valid indica si el motivo es conocido.
func (r Reason) Valid() bool {
	switch r {
	case ReasonPurchase, ReasonUsage, ReasonWastage, ReasonCorrection:
		return true
	}
	return false
}

// AllowsDecrease indica si el motivo puede usarse para una salida FIFO.
func (r Reason) AllowsDecrease() bool {
	return r == ReasonUsage || r == ReasonWastage || r == ReasonCorrection
}

// AllowsIncrease indica si el motivo puede usarse para una entrada.
func (r Reason) AllowsIncrease() bool {
	return r == ReasonPurchase || r == ReasonCorrection
}

// Adjustment registro de auditoría inmutable; uno por cada mutación exitosa.
type Adjustment struct {
	ID        string
	ItemID    string
	Delta     decimal.Decimal // con signo, nunca cero
	Reason    Reason
	Note      string
	UnitCost  decimal.Decimal // costo del lote creado (solo entradas)
	TotalCost decimal.Decimal // costo FIFO consumido o costo de la entrada
	CreatedBy string
	CreatedAt time.Time
}

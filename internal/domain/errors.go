package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidQuantity   = errors.New("cantidad inválida: debe ser mayor que cero")
	ErrInvalidCost       = errors.New("costo unitario inválido: no puede ser negativo")
	ErrInvalidReason     = errors.New("motivo incompatible con el sentido del ajuste")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrStockNotEmpty     = errors.New("el ítem aún tiene existencias")
)

// InsufficientStockError detalla un consumo que excede las existencias.
type InsufficientStockError struct {
	ItemID    string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente en %s: disponible %s, solicitado %s",
		e.ItemID, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ConflictError indica que otro escritor guardó el ítem entre la lectura y la escritura.
// El llamador debe repetir el ciclo completo de lectura-modificación-escritura.
type ConflictError struct {
	ItemID          string
	ExpectedVersion int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicto de escritura en %s (versión esperada %d)", e.ItemID, e.ExpectedVersion)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// IsClientError indica si el error se debe a una entrada inválida del llamador.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidCost) ||
		errors.Is(err, ErrInvalidReason)
}

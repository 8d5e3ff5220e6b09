// Package xlsx exporta la bitácora de ajustes a hojas de cálculo (excelize).
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/teaestate-api/internal/application/inventory"
	"github.com/jhoicas/teaestate-api/internal/domain/entity"
)

var _ inventory.AdjustmentExporter = (*AdjustmentExporter)(nil)

const (
	sheetAdjustments = "Ajustes"
	sheetBatches     = "Lotes"
)

var adjustmentHeadings = []string{"Fecha", "Motivo", "Cantidad", "Costo unitario", "Costo total", "Nota", "Usuario", "ID"}

var batchHeadings = []string{"Orden FIFO", "Fecha ingreso", "Cantidad", "Costo unitario", "Valor"}

// AdjustmentExporter genera un libro con la bitácora y los lotes vigentes del ítem.
type AdjustmentExporter struct{}

// NewAdjustmentExporter construye el exportador.
func NewAdjustmentExporter() *AdjustmentExporter { return &AdjustmentExporter{} }

// ExportAdjustments devuelve el archivo .xlsx en memoria.
func (e *AdjustmentExporter) ExportAdjustments(_ context.Context, item *entity.StockItem, adjustments []*entity.Adjustment) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetAdjustments); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if _, err := f.NewSheet(sheetBatches); err != nil {
		return nil, fmt.Errorf("xlsx: crear hoja: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	if err := writeRow(f, sheetAdjustments, 1, toAny(adjustmentHeadings)); err != nil {
		return nil, err
	}
	for i, a := range adjustments {
		values := []any{
			a.CreatedAt.Format("2006-01-02 15:04:05"),
			string(a.Reason),
			a.Delta.InexactFloat64(),
			a.UnitCost.InexactFloat64(),
			a.TotalCost.InexactFloat64(),
			a.Note,
			a.CreatedBy,
			a.ID,
		}
		if err := writeRow(f, sheetAdjustments, i+2, values); err != nil {
			return nil, err
		}
	}

	if err := writeRow(f, sheetBatches, 1, toAny(batchHeadings)); err != nil {
		return nil, err
	}
	for i, b := range item.Batches {
		values := []any{
			i + 1,
			b.AcquiredAt.Format("2006-01-02"),
			b.Qty.InexactFloat64(),
			b.UnitCost.InexactFloat64(),
			b.Qty.Mul(b.UnitCost).InexactFloat64(),
		}
		if err := writeRow(f, sheetBatches, i+2, values); err != nil {
			return nil, err
		}
	}

	for _, sheet := range []string{sheetAdjustments, sheetBatches} {
		if err := f.SetRowStyle(sheet, 1, 1, header); err != nil {
			return nil, fmt.Errorf("xlsx: estilo cabecera: %w", err)
		}
	}
	if err := f.SetDocProps(&excelize.DocProperties{Title: item.Name, Subject: "Bitácora FNI " + item.ID}); err != nil {
		return nil, fmt.Errorf("xlsx: propiedades: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, rowNo int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("xlsx: fila %d de %s: %w", rowNo, sheet, err)
	}
	return nil
}

func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

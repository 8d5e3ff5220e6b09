// Package pdf genera el reporte de valorización FIFO de un ítem FNI.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del ítem + categoría │ Periodo + generado   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EXISTENCIAS: cantidad │ valor │ costo promedio │ mínimo     │
//	│  LOTES FIFO: Fecha | Cantidad | Costo unit. | Valor          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MOVIMIENTOS: Fecha | Motivo | Delta | Costo unit. | Total   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Entradas / Salidas / Costo consumido por motivo    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/teaestate-api/internal/application/dto"
	"github.com/jhoicas/teaestate-api/internal/application/inventory"
)

var _ inventory.ValuationPDFRenderer = (*MarotoValuationReport)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 34, Green: 96, Blue: 52} // verde té
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var reasonLabels = map[string]string{
	"purchase":   "Compra",
	"usage":      "Aplicación",
	"wastage":    "Merma",
	"correction": "Corrección",
}

var categoryLabels = map[string]string{
	"fertilizer":  "Fertilizante",
	"insecticide": "Insecticida",
}

// printer formatea cifras con separadores es (1.234,50).
var printer = message.NewPrinter(language.Spanish)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoValuationReport implementa inventory.ValuationPDFRenderer usando Maroto v2.
type MarotoValuationReport struct{}

// NewMarotoValuationReport construye el generador.
func NewMarotoValuationReport() *MarotoValuationReport { return &MarotoValuationReport{} }

// RenderValuation genera el PDF y devuelve sus bytes.
func (g *MarotoValuationReport) RenderValuation(_ context.Context, report *dto.ValuationReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Valorización FNI "+report.Item.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(stockRow(report.Item))

	m.AddRows(sectionTitle("LOTES FIFO (más antiguo primero)"))
	m.AddRows(tableHeaderRow("Fecha ingreso", "Cantidad", "Costo unit.", "Valor"))
	m.AddRows(batchRows(report.Item)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionTitle("MOVIMIENTOS DEL PERIODO"))
	m.AddRows(adjustmentHeaderRow())
	m.AddRows(adjustmentRows(report.Adjustments)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(report)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report *dto.ValuationReport) core.Row {
	item := report.Item
	return row.New(18).Add(
		col.New(7).Add(
			text.New(item.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s  |  unidad: %s", label(categoryLabels, item.Category), item.Unit), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("VALORIZACIÓN FIFO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(report.From.Format("02/01/2006")+" - "+report.To.Format("02/01/2006"), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func stockRow(item dto.ItemResponse) core.Row {
	cell := func(title, value string, c *props.Color) core.Col {
		return col.New(3).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 7, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 5, Color: c}),
		)
	}
	qtyColor := (*props.Color)(nil)
	if item.LowStock {
		qtyColor = colorRed
	}
	return row.New(14).Add(
		cell("EXISTENCIAS", formatQty(item.QtyOnHand)+" "+item.Unit, qtyColor),
		cell("VALOR EN BODEGA", formatMoney(item.StockValue), nil),
		cell("COSTO PROMEDIO", formatMoney(item.AverageUnitCost), nil),
		cell("MÍNIMO", formatQty(item.MinQty)+" "+item.Unit, nil),
	)
}

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func tableHeaderRow(labels ...string) core.Row {
	size := 12 / len(labels)
	cols := make([]core.Col, 0, len(labels))
	for i, l := range labels {
		a := align.Right
		if i == 0 {
			a = align.Left
		}
		cols = append(cols, col.New(size).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(6).Add(cols...)
}

func batchRows(item dto.ItemResponse) []core.Row {
	if len(item.Batches) == 0 {
		return []core.Row{emptyRow("Sin lotes en bodega")}
	}
	rows := make([]core.Row, 0, len(item.Batches))
	for _, b := range item.Batches {
		rows = append(rows, row.New(5).Add(
			col.New(3).Add(text.New(b.AcquiredAt.Format("02/01/2006"), props.Text{Size: 8, Left: 1})),
			col.New(3).Add(text.New(formatQty(b.Qty), props.Text{Size: 8, Align: align.Right, Right: 1})),
			col.New(3).Add(text.New(formatMoney(b.UnitCost), props.Text{Size: 8, Align: align.Right, Right: 1})),
			col.New(3).Add(text.New(formatMoney(b.Qty.Mul(b.UnitCost)), props.Text{Size: 8, Align: align.Right, Right: 1})),
		))
	}
	return rows
}

func adjustmentHeaderRow() core.Row {
	h := func(l string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("Fecha", 2, align.Left),
		h("Motivo", 2, align.Left),
		h("Cantidad", 2, align.Right),
		h("Costo unit.", 2, align.Right),
		h("Costo total", 2, align.Right),
		h("Nota", 2, align.Left),
	)
}

func adjustmentRows(adjs []dto.AdjustmentResponse) []core.Row {
	if len(adjs) == 0 {
		return []core.Row{emptyRow("Sin movimientos en el periodo")}
	}
	rows := make([]core.Row, 0, len(adjs))
	for _, a := range adjs {
		var c *props.Color
		if a.Delta.IsNegative() {
			c = colorRed
		}
		rows = append(rows, row.New(5).Add(
			col.New(2).Add(text.New(a.CreatedAt.Format("02/01/2006"), props.Text{Size: 7.5, Left: 1})),
			col.New(2).Add(text.New(label(reasonLabels, a.Reason), props.Text{Size: 7.5, Left: 1})),
			col.New(2).Add(text.New(formatQty(a.Delta), props.Text{Size: 7.5, Align: align.Right, Right: 1, Color: c})),
			col.New(2).Add(text.New(formatMoney(a.UnitCost), props.Text{Size: 7.5, Align: align.Right, Right: 1})),
			col.New(2).Add(text.New(formatMoney(a.TotalCost), props.Text{Size: 7.5, Align: align.Right, Right: 1})),
			col.New(2).Add(text.New(a.Note, props.Text{Size: 7, Left: 1, Color: colorGray})),
		))
	}
	return rows
}

func totalsRows(report *dto.ValuationReport) []core.Row {
	total := func(l, v string, bold bool) core.Row {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		return row.New(5).Add(
			col.New(6),
			col.New(3).Add(text.New(l, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})),
			col.New(3).Add(text.New(v, props.Text{Style: style, Size: 9, Align: align.Right, Right: 1})),
		)
	}
	rows := []core.Row{
		total("Entradas:", formatQty(report.Received)+" "+report.Item.Unit, false),
		total("Costo de entradas:", formatMoney(report.ReceivedCost), false),
		total("Salidas:", formatQty(report.Consumed)+" "+report.Item.Unit, false),
	}
	for _, rt := range report.ConsumedByCause {
		rows = append(rows, total(label(reasonLabels, rt.Reason)+":", formatMoney(rt.Cost), false))
	}
	rows = append(rows, total("COSTO CONSUMIDO:", formatMoney(report.ConsumedCost), true))
	return rows
}

func emptyRow(msg string) core.Row {
	return row.New(5).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: colorGray, Left: 1}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func label(labels map[string]string, key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}

func formatMoney(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return printer.Sprintf("$%.2f", f)
}

func formatQty(d decimal.Decimal) string {
	f, _ := d.Round(3).Float64()
	return printer.Sprintf("%.3f", f)
}

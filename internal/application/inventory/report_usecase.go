package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/teaestate-api/internal/application/dto"
	"github.com/jhoicas/teaestate-api/internal/domain"
	"github.com/jhoicas/teaestate-api/internal/domain/entity"
	"github.com/jhoicas/teaestate-api/internal/domain/repository"
)

// reportMaxAdjustments tope de ajustes incluidos en un reporte o exportación.
const reportMaxAdjustments = 5000

// ReportUseCase arma la valorización FIFO de un ítem y sus representaciones PDF/XLSX.
type ReportUseCase struct {
	itemRepo repository.StockItemRepository
	adjRepo  repository.AdjustmentRepository
	pdf      ValuationPDFRenderer
	exporter AdjustmentExporter
	now      func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	itemRepo repository.StockItemRepository,
	adjRepo repository.AdjustmentRepository,
	pdf ValuationPDFRenderer,
	exporter AdjustmentExporter,
) *ReportUseCase {
	return &ReportUseCase{
		itemRepo: itemRepo,
		adjRepo:  adjRepo,
		pdf:      pdf,
		exporter: exporter,
		now:      time.Now,
	}
}

// Valuation resume entradas, salidas y costo FIFO consumido de un ítem en [from, to].
// Con from/to cero se usan los últimos 30 días.
func (uc *ReportUseCase) Valuation(ctx context.Context, itemID string, from, to time.Time) (*dto.ValuationReport, error) {
	now := uc.now()
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	if to.Before(from) {
		return nil, domain.ErrInvalidInput
	}

	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	adjs, err := uc.adjRepo.ListByItem(ctx, itemID, repository.AdjustmentFilter{
		From: &from, To: &to, Limit: reportMaxAdjustments,
	})
	if err != nil {
		return nil, err
	}

	report := &dto.ValuationReport{
		Item:         *toItemResponse(item),
		From:         from,
		To:           to,
		Received:     decimal.Zero,
		ReceivedCost: decimal.Zero,
		Consumed:     decimal.Zero,
		ConsumedCost: decimal.Zero,
		Adjustments:  toAdjustmentResponses(adjs),
		GeneratedAt:  now,
	}

	byReason := map[entity.Reason]*dto.ReasonTotal{}
	var order []entity.Reason
	for _, a := range adjs {
		if a.Delta.IsPositive() {
			report.Received = report.Received.Add(a.Delta)
			report.ReceivedCost = report.ReceivedCost.Add(a.TotalCost)
			continue
		}
		qty := a.Delta.Neg()
		report.Consumed = report.Consumed.Add(qty)
		report.ConsumedCost = report.ConsumedCost.Add(a.TotalCost)
		rt, ok := byReason[a.Reason]
		if !ok {
			rt = &dto.ReasonTotal{Reason: string(a.Reason), Qty: decimal.Zero, Cost: decimal.Zero}
			byReason[a.Reason] = rt
			order = append(order, a.Reason)
		}
		rt.Qty = rt.Qty.Add(qty)
		rt.Cost = rt.Cost.Add(a.TotalCost)
	}
	report.ConsumedByCause = make([]dto.ReasonTotal, 0, len(order))
	for _, r := range order {
		report.ConsumedByCause = append(report.ConsumedByCause, *byReason[r])
	}
	return report, nil
}

// ValuationPDF genera el reporte de valorización en PDF.
func (uc *ReportUseCase) ValuationPDF(ctx context.Context, itemID string, from, to time.Time) ([]byte, error) {
	report, err := uc.Valuation(ctx, itemID, from, to)
	if err != nil {
		return nil, err
	}
	b, err := uc.pdf.RenderValuation(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("render valuation pdf: %w", err)
	}
	return b, nil
}

// ExportAdjustments exporta la bitácora completa de un ítem (XLSX).
func (uc *ReportUseCase) ExportAdjustments(ctx context.Context, itemID string) ([]byte, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	adjs, err := uc.adjRepo.ListByItem(ctx, itemID, repository.AdjustmentFilter{Limit: reportMaxAdjustments})
	if err != nil {
		return nil, err
	}
	b, err := uc.exporter.ExportAdjustments(ctx, item, adjs)
	if err != nil {
		return nil, fmt.Errorf("export adjustments: %w", err)
	}
	return b, nil
}

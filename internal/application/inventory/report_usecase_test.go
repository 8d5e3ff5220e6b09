package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/teaestate-api/internal/application/dto"
	"github.com/jhoicas/teaestate-api/internal/application/inventory"
	"github.com/jhoicas/teaestate-api/internal/domain"
	"github.com/jhoicas/teaestate-api/internal/domain/entity"
)

type stubPDF struct {
	got *dto.ValuationReport
	err error
}

func (s *stubPDF) RenderValuation(_ context.Context, r *dto.ValuationReport) ([]byte, error) {
	s.got = r
	return []byte("%PDF-stub"), s.err
}

type stubExporter struct {
	rows int
}

func (s *stubExporter) ExportAdjustments(_ context.Context, _ *entity.StockItem, adjs []*entity.Adjustment) ([]byte, error) {
	s.rows = len(adjs)
	return []byte("xlsx"), nil
}

func TestValuation_TotalesPorMotivo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.create(t, "100", "10", "0")
	for _, a := range []inventory.AdjustInput{
		{ItemID: item.ID, Delta: d("-30"), Reason: entity.ReasonUsage},
		{ItemID: item.ID, Delta: d("-5"), Reason: entity.ReasonWastage},
		{ItemID: item.ID, Delta: d("-10"), Reason: entity.ReasonUsage},
		{ItemID: item.ID, Delta: d("20"), Reason: entity.ReasonPurchase, UnitCost: dp("11")},
	} {
		_, err := f.adjust.Adjust(ctx, a)
		require.NoError(t, err)
	}

	pdf, xlsx := &stubPDF{}, &stubExporter{}
	uc := inventory.NewReportUseCase(f.store.Items(), f.store.Adjustments(), pdf, xlsx)
	report, err := uc.Valuation(ctx, item.ID, time.Time{}, time.Time{})
	require.NoError(t, err)

	assertDec(t, "120", report.Received)
	assertDec(t, "1220", report.ReceivedCost)
	assertDec(t, "45", report.Consumed)
	assertDec(t, "450", report.ConsumedCost)
	assert.Len(t, report.Adjustments, 5)
	assertDec(t, "75", report.Item.QtyOnHand)

	totals := map[string]dto.ReasonTotal{}
	for _, rt := range report.ConsumedByCause {
		totals[rt.Reason] = rt
	}
	require.Len(t, totals, 2)
	assertDec(t, "40", totals["usage"].Qty)
	assertDec(t, "400", totals["usage"].Cost)
	assertDec(t, "50", totals["wastage"].Cost)

	b, err := uc.ValuationPDF(ctx, item.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-stub", string(b))
	require.NotNil(t, pdf.got)
	assert.Equal(t, item.ID, pdf.got.Item.ID)

	_, err = uc.ExportAdjustments(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, xlsx.rows)
}

func TestValuation_Errores(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.create(t, "1", "1", "0")
	pdf := &stubPDF{err: errors.New("sin fuentes")}
	uc := inventory.NewReportUseCase(f.store.Items(), f.store.Adjustments(), pdf, &stubExporter{})

	now := time.Now()
	_, err := uc.Valuation(ctx, item.ID, now, now.Add(-time.Hour))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Valuation(ctx, "nope", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.ExportAdjustments(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.ValuationPDF(ctx, item.ID, time.Time{}, time.Time{})
	assert.ErrorContains(t, err, "sin fuentes")
}

// Un periodo anterior a los ajustes deja los totales en cero.
func TestValuation_PeriodoSinMovimientos(t *testing.T) {
	f := newFixture()
	item := f.create(t, "10", "2", "0")
	uc := inventory.NewReportUseCase(f.store.Items(), f.store.Adjustments(), &stubPDF{}, &stubExporter{})

	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	report, err := uc.Valuation(context.Background(), item.ID, from, from.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.True(t, report.Received.IsZero())
	assert.Empty(t, report.Adjustments)
	assert.Empty(t, report.ConsumedByCause)
	assertDec(t, "20", report.Item.StockValue)
}

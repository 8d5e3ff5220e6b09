package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/teaestate-api/internal/application/dto"
)

func sampleReport() *dto.ValuationReport {
	at := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	return &dto.ValuationReport{
		Item: dto.ItemResponse{
			ID: "i-1", Name: "Urea 46%", Category: "fertilizer", Unit: "kg",
			QtyOnHand: decimal.NewFromInt(70), MinQty: decimal.NewFromInt(20),
			StockValue: decimal.NewFromInt(910), AverageUnitCost: decimal.NewFromInt(13),
			Batches: []dto.BatchResponse{
				{Qty: decimal.NewFromInt(20), UnitCost: decimal.NewFromInt(10), AcquiredAt: at},
				{Qty: decimal.NewFromInt(50), UnitCost: decimal.NewFromFloat(14.2), AcquiredAt: at.AddDate(0, 0, 3)},
			},
		},
		From: at.AddDate(0, 0, -30), To: at,
		Received: decimal.NewFromInt(100), ReceivedCost: decimal.NewFromInt(1210),
		Consumed: decimal.NewFromInt(30), ConsumedCost: decimal.NewFromInt(300),
		ConsumedByCause: []dto.ReasonTotal{{Reason: "usage", Qty: decimal.NewFromInt(30), Cost: decimal.NewFromInt(300)}},
		Adjustments: []dto.AdjustmentResponse{
			{ID: "a-2", Delta: decimal.NewFromInt(-30), Reason: "usage", TotalCost: decimal.NewFromInt(300), CreatedAt: at},
			{ID: "a-1", Delta: decimal.NewFromInt(100), Reason: "purchase", UnitCost: decimal.NewFromInt(10), TotalCost: decimal.NewFromInt(1000), CreatedAt: at},
		},
		GeneratedAt: at,
	}
}

func TestRenderValuation_GeneraPDF(t *testing.T) {
	b, err := NewMarotoValuationReport().RenderValuation(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestRenderValuation_SinLotesNiMovimientos(t *testing.T) {
	r := sampleReport()
	r.Item.Batches = nil
	r.Adjustments = nil
	r.ConsumedByCause = nil

	b, err := NewMarotoValuationReport().RenderValuation(context.Background(), r)
	require.NoError(t, err)
	assert.NotEmpty(t, b)
}

func TestFormatMoney_SeparadorDecimalComa(t *testing.T) {
	assert.Contains(t, formatMoney(decimal.RequireFromString("1234567.5")), "567,50")
	assert.Contains(t, formatQty(decimal.RequireFromString("2.5")), "2,500")
}

func TestLabel_Desconocido(t *testing.T) {
	assert.Equal(t, "Compra", label(reasonLabels, "purchase"))
	assert.Equal(t, "otro", label(reasonLabels, "otro"))
}

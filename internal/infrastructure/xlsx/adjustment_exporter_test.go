package xlsx

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/teaestate-api/internal/domain/entity"
)

func TestExportAdjustments_HojasYFilas(t *testing.T) {
	at := time.Date(2024, 6, 1, 7, 30, 0, 0, time.UTC)
	item := &entity.StockItem{
		ID: "i-1", Name: "Clorpirifos", Category: entity.CategoryInsecticide, Unit: entity.UnitLitre,
		Batches: []entity.Batch{{Qty: decimal.NewFromInt(4), UnitCost: decimal.RequireFromString("22.5"), AcquiredAt: at}},
	}
	adjs := []*entity.Adjustment{
		{ID: "a-2", ItemID: "i-1", Delta: decimal.NewFromInt(-1), Reason: entity.ReasonUsage, TotalCost: decimal.RequireFromString("22.5"), CreatedAt: at.Add(time.Hour)},
		{ID: "a-1", ItemID: "i-1", Delta: decimal.NewFromInt(5), Reason: entity.ReasonPurchase, UnitCost: decimal.RequireFromString("22.5"), TotalCost: decimal.RequireFromString("112.5"), CreatedAt: at},
	}

	b, err := NewAdjustmentExporter().ExportAdjustments(context.Background(), item, adjs)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{sheetAdjustments, sheetBatches}, f.GetSheetList())

	rows, err := f.GetRows(sheetAdjustments)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Fecha", rows[0][0])
	assert.Equal(t, "usage", rows[1][1])
	assert.Equal(t, "-1", rows[1][2])
	assert.Equal(t, "a-1", rows[2][7])

	batches, err := f.GetRows(sheetBatches)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "90", batches[1][4])
}

func TestExportAdjustments_SinAjustes(t *testing.T) {
	item := &entity.StockItem{ID: "i-2", Name: "Vacío"}
	b, err := NewAdjustmentExporter().ExportAdjustments(context.Background(), item, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetAdjustments)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/teaestate-api/internal/domain/entity"
)

func TestEncodeDecodeBatches_ConservaOrdenYPrecision(t *testing.T) {
	at := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	in := []entity.Batch{
		{Qty: decimal.RequireFromString("12.3456"), UnitCost: decimal.RequireFromString("0.1"), AcquiredAt: at},
		{Qty: decimal.RequireFromString("5"), UnitCost: decimal.RequireFromString("17.25"), AcquiredAt: at.Add(time.Hour)},
	}

	raw, err := encodeBatches(in)
	require.NoError(t, err)
	out, err := decodeBatches(raw)
	require.NoError(t, err)

	require.Len(t, out, 2)
	for i := range in {
		assert.True(t, in[i].Qty.Equal(out[i].Qty))
		assert.True(t, in[i].UnitCost.Equal(out[i].UnitCost))
		assert.True(t, in[i].AcquiredAt.Equal(out[i].AcquiredAt))
	}
}

func TestEncodeBatches_NilComoArregloVacio(t *testing.T) {
	raw, err := encodeBatches(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	out, err := decodeBatches(nil)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestDecodeBatches_JSONInvalido(t *testing.T) {
	_, err := decodeBatches([]byte(`{"qty":`))
	assert.Error(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	dup := fmt.Errorf("insert fni_items: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, isUniqueViolation(dup))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("duplicate 23505 en el texto")))
}

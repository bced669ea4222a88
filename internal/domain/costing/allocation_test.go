package costing_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/andyshop-api/internal/domain"
	"github.com/jhoicas/andyshop-api/internal/domain/costing"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// ──────────────────────────────────────────────────────────────────────────────
// Reparto proporcional
// ──────────────────────────────────────────────────────────────────────────────

// Lote 100000 + 10000 de gastos, líneas 10×500 y 5×1000 → ratio 11.
func TestAllocate_EscenarioCompleto(t *testing.T) {
	res, err := costing.Allocate(d(100000), d(10000), []costing.LineInput{
		{Quantity: 10, BaseUnitCost: d(500)},
		{Quantity: 5, BaseUnitCost: d(1000)},
	})
	require.NoError(t, err)
	require.Len(t, res.Lines, 2)

	assert.True(t, res.Lines[0].UnitCost.Equal(d(5500)))
	assert.True(t, res.Lines[0].TotalCost.Equal(d(55000)))
	assert.True(t, res.Lines[1].UnitCost.Equal(d(11000)))
	assert.True(t, res.Lines[1].TotalCost.Equal(d(55000)))
	assert.True(t, res.Allocated.Equal(d(110000)))
	assert.True(t, res.Drift.IsZero(), "sin redondeo no debe haber diferencia")
	assert.False(t, res.Equal)
}

func TestAllocate_ConservacionConRedondeo(t *testing.T) {
	lines := []costing.LineInput{
		{Quantity: 3, BaseUnitCost: d(333)},
		{Quantity: 7, BaseUnitCost: d(125)},
		{Quantity: 1, BaseUnitCost: d(999)},
	}
	res, err := costing.Allocate(d(10001), d(777), lines)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, l := range res.Lines {
		sum = sum.Add(l.TotalCost)
	}
	assert.True(t, sum.Equal(res.Allocated))
	assert.True(t, res.Drift.Equal(sum.Sub(d(10778))))
	// tolerancia: ±(unidades por línea redondeadas) → |drift| <= Σ cantidad/2
	assert.True(t, res.Drift.Abs().LessThanOrEqual(d(11)), "drift %s", res.Drift)
}

func TestAllocate_LineaConCantidadCero(t *testing.T) {
	res, err := costing.Allocate(d(1000), d(0), []costing.LineInput{
		{Quantity: 0, BaseUnitCost: d(50)},
		{Quantity: 10, BaseUnitCost: d(50)},
	})
	require.NoError(t, err)
	assert.True(t, res.Lines[0].TotalCost.IsZero())
	assert.True(t, res.Lines[1].UnitCost.Equal(d(100)))
	assert.True(t, res.Lines[1].TotalCost.Equal(d(1000)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Caso degenerado (sin costos base)
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocate_SinCostosBase_RepartoIgual(t *testing.T) {
	res, err := costing.Allocate(d(10000), d(0), []costing.LineInput{
		{Quantity: 1, BaseUnitCost: d(0)},
		{Quantity: 2, BaseUnitCost: d(0)},
	})
	require.NoError(t, err)
	assert.True(t, res.Equal)

	// 10000 / 3 = 3333.33 → 3333 por unidad
	for _, l := range res.Lines {
		assert.True(t, l.UnitCost.Equal(d(3333)), "todas las líneas reciben el mismo costo unitario")
	}
	assert.True(t, res.Lines[0].TotalCost.Equal(d(3333)))
	assert.True(t, res.Lines[1].TotalCost.Equal(d(6667)), "round(3333.33 × 2)")
	assert.True(t, res.Drift.Abs().LessThanOrEqual(d(2)))
}

func TestAllocate_CantidadTotalCero_Error(t *testing.T) {
	_, err := costing.Allocate(d(50000), d(1000), []costing.LineInput{
		{Quantity: 0, BaseUnitCost: d(0)},
		{Quantity: 0, BaseUnitCost: d(0)},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAllocation))
}

func TestAllocate_SinLineas_ResultadoVacio(t *testing.T) {
	res, err := costing.Allocate(d(500), d(0), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Lines)
	assert.True(t, res.Allocated.IsZero())
}

func TestAllocate_Idempotente(t *testing.T) {
	lines := []costing.LineInput{{Quantity: 4, BaseUnitCost: d(1234)}, {Quantity: 9, BaseUnitCost: d(77)}}
	a, err := costing.Allocate(d(99999), d(4321), lines)
	require.NoError(t, err)
	b, err := costing.Allocate(d(99999), d(4321), lines)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// ──────────────────────────────────────────────────────────────────────────────
// Corrección manual
// ──────────────────────────────────────────────────────────────────────────────

func TestOverride_RecalculaTotalYDrift(t *testing.T) {
	res, err := costing.Allocate(d(100000), d(10000), []costing.LineInput{
		{Quantity: 10, BaseUnitCost: d(500)},
		{Quantity: 5, BaseUnitCost: d(1000)},
	})
	require.NoError(t, err)

	fixed, err := res.Override(0, d(5600))
	require.NoError(t, err)
	assert.True(t, fixed.Lines[0].TotalCost.Equal(d(56000)))
	assert.True(t, fixed.Lines[0].Overridden)
	assert.True(t, fixed.Drift.Equal(d(1000)))

	// el original no cambia
	assert.True(t, res.Lines[0].UnitCost.Equal(d(5500)))
	assert.False(t, res.Lines[0].Overridden)
}

func TestOverride_Invalido(t *testing.T) {
	res, err := costing.Allocate(d(100), d(0), []costing.LineInput{{Quantity: 1, BaseUnitCost: d(1)}})
	require.NoError(t, err)

	_, err = res.Override(3, d(10))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = res.Override(0, d(-1))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

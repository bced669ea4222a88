package report_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/andyshop-api/internal/domain/entity"
	"github.com/jhoicas/andyshop-api/internal/domain/report"
)

func amt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func at(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 12, 0, 0, 0, time.UTC) }

func sampleSales() []entity.Sale {
	return []entity.Sale{
		{ID: "v1", Date: at(2025, 3, 15), TotalAmount: amt(3000), AmountPaid: amt(3000)},
		{ID: "v2", Date: at(2025, 3, 20), TotalAmount: amt(5000), AmountPaid: amt(2000)},
		{ID: "v3", Date: at(2025, 1, 5), TotalAmount: amt(1000), AmountPaid: amt(0)},
	}
}

func TestRevenue_PorMes(t *testing.T) {
	buckets := report.Revenue(sampleSales(), report.PeriodMonth)
	require.Len(t, buckets, 2)

	assert.Equal(t, "2025-01", buckets[0].PeriodKey)
	assert.Equal(t, "2025-03", buckets[1].PeriodKey)

	mar := buckets[1]
	assert.True(t, mar.TotalValue.Equal(amt(8000)))
	assert.Equal(t, 2, mar.TransactionCount)
	assert.True(t, mar.Collected.Equal(amt(5000)))
	assert.True(t, mar.Outstanding.Equal(amt(3000)))
}

func TestRevenue_Trimestre(t *testing.T) {
	buckets := report.Revenue(sampleSales(), report.PeriodQuarter)
	require.Len(t, buckets, 1)
	assert.Equal(t, "2025-T1", buckets[0].PeriodKey)
	assert.Equal(t, 3, buckets[0].TransactionCount)
}

func TestRevenueTotals(t *testing.T) {
	tot := report.RevenueTotals(sampleSales())
	assert.True(t, tot.Total.Equal(amt(9000)))
	assert.True(t, tot.Collected.Equal(amt(5000)))
	assert.True(t, tot.Pending.Equal(amt(4000)))
	assert.Equal(t, 3, tot.Count)
}

func TestInRange(t *testing.T) {
	got := report.InRange(sampleSales(), at(2025, 3, 1), time.Time{})
	assert.Len(t, got, 2)
}

// Línea 3 × 1000 ligada a una línea de lote con costo 600 → margen 1200, ingresos 3000.
func TestMargin_LineaConLote(t *testing.T) {
	sales := []entity.Sale{{ID: "v1", Date: at(2025, 3, 15), TotalAmount: amt(3000)}}
	lines := []entity.SaleLine{{SaleID: "v1", ArticleID: "a1", LotLineID: "ll1", Quantity: 3, UnitPrice: amt(1000)}}
	lots := []entity.LotLine{{ID: "ll1", ArticleID: "a1", InitialQuantity: 10, AllocatedUnitCost: amt(600)}}

	buckets := report.Margin(sales, lines, lots, report.PeriodMonth)
	require.Len(t, buckets, 1)
	b := buckets[0]
	assert.True(t, b.TotalValue.Equal(amt(1200)))
	assert.True(t, b.Revenue.Equal(amt(3000)))
	assert.True(t, b.Cost.Equal(amt(1800)))
	assert.Equal(t, 0, b.UnknownCostLines)
}

func TestMargin_CostoDesconocidoSeSenala(t *testing.T) {
	sales := []entity.Sale{{ID: "v1", Date: at(2025, 3, 15)}}
	lines := []entity.SaleLine{
		{SaleID: "v1", ArticleID: "a1", Quantity: 2, UnitPrice: amt(500)},
		{SaleID: "v1", ArticleID: "a2", LotLineID: "no-existe", Quantity: 1, UnitPrice: amt(700)},
	}

	buckets := report.Margin(sales, lines, nil, report.PeriodDay)
	require.Len(t, buckets, 1)
	b := buckets[0]
	assert.True(t, b.TotalValue.Equal(amt(1700)), "sin costo resoluble el margen es el ingreso completo")
	assert.Equal(t, 2, b.UnknownCostLines)
	assert.True(t, b.UnknownCostRevenue.Equal(amt(1700)))
	assert.True(t, report.MarginRate(buckets).Equal(amt(100)))
}

func TestMargin_Idempotente(t *testing.T) {
	sales := sampleSales()
	lines := []entity.SaleLine{{SaleID: "v2", LotLineID: "ll1", Quantity: 5, UnitPrice: amt(1000)}}
	lots := []entity.LotLine{{ID: "ll1", AllocatedUnitCost: amt(400)}}
	assert.Equal(t,
		report.Margin(sales, lines, lots, report.PeriodWeek),
		report.Margin(sales, lines, lots, report.PeriodWeek))
}

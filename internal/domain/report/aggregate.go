package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/andyshop-api/internal/domain/entity"
)

// Bucket valor agregado de un período.
type Bucket struct {
	PeriodKey        string
	TotalValue       decimal.Decimal
	TransactionCount int
}

// RevenueBucket ingresos del período separando lo cobrado al vender de lo pendiente.
type RevenueBucket struct {
	Bucket
	Collected   decimal.Decimal
	Outstanding decimal.Decimal
}

// MarginBucket margen bruto del período. TotalValue = Revenue − Cost.
// Las líneas sin línea de lote resoluble cuentan con costo cero y quedan señaladas en
// UnknownCostLines / UnknownCostRevenue.
type MarginBucket struct {
	Bucket
	Revenue            decimal.Decimal
	Cost               decimal.Decimal
	UnknownCostLines   int
	UnknownCostRevenue decimal.Decimal
}

// Totals resumen de ingresos de un conjunto de ventas.
type Totals struct {
	Total     decimal.Decimal
	Collected decimal.Decimal
	Pending   decimal.Decimal
	Count     int
}

// InRange filtra ventas con from <= fecha <= to; un extremo cero no limita.
func InRange(sales []entity.Sale, from, to time.Time) []entity.Sale {
	out := make([]entity.Sale, 0, len(sales))
	for _, s := range sales {
		if !from.IsZero() && s.Date.Before(from) {
			continue
		}
		if !to.IsZero() && s.Date.After(to) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// RevenueTotals total vendido, cobrado al vender y pendiente.
func RevenueTotals(sales []entity.Sale) Totals {
	t := Totals{Total: decimal.Zero, Collected: decimal.Zero}
	for _, s := range sales {
		t.Total = t.Total.Add(s.TotalAmount)
		t.Collected = t.Collected.Add(s.AmountPaid)
	}
	t.Pending = t.Total.Sub(t.Collected)
	t.Count = len(sales)
	return t
}

// Revenue agrupa Σ sale.TotalAmount por período, ordenado por clave ascendente.
func Revenue(sales []entity.Sale, p Period) []RevenueBucket {
	groups := make(map[string]*RevenueBucket)
	for _, s := range sales {
		k := Key(s.Date, p)
		b, ok := groups[k]
		if !ok {
			b = &RevenueBucket{
				Bucket:      Bucket{PeriodKey: k, TotalValue: decimal.Zero},
				Collected:   decimal.Zero,
				Outstanding: decimal.Zero,
			}
			groups[k] = b
		}
		b.TotalValue = b.TotalValue.Add(s.TotalAmount)
		b.Collected = b.Collected.Add(s.AmountPaid)
		b.Outstanding = b.Outstanding.Add(s.Outstanding())
		b.TransactionCount++
	}

	out := make([]RevenueBucket, 0, len(groups))
	for _, b := range groups {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodKey < out[j].PeriodKey })
	return out
}

// Margin cruza cada línea de venta con su línea de lote para restar el costo asignado.
func Margin(sales []entity.Sale, saleLines []entity.SaleLine, lotLines []entity.LotLine, p Period) []MarginBucket {
	costByLotLine := make(map[string]decimal.Decimal, len(lotLines))
	for _, ll := range lotLines {
		costByLotLine[ll.ID] = ll.AllocatedUnitCost
	}
	linesBySale := make(map[string][]entity.SaleLine)
	for _, l := range saleLines {
		linesBySale[l.SaleID] = append(linesBySale[l.SaleID], l)
	}

	groups := make(map[string]*MarginBucket)
	for _, s := range sales {
		k := Key(s.Date, p)
		b, ok := groups[k]
		if !ok {
			b = &MarginBucket{
				Bucket:             Bucket{PeriodKey: k, TotalValue: decimal.Zero},
				Revenue:            decimal.Zero,
				Cost:               decimal.Zero,
				UnknownCostRevenue: decimal.Zero,
			}
			groups[k] = b
		}
		b.TransactionCount++
		for _, l := range linesBySale[s.ID] {
			revenue := l.Total()
			b.Revenue = b.Revenue.Add(revenue)
			unit, found := costByLotLine[l.LotLineID]
			if l.LotLineID == "" || !found {
				b.UnknownCostLines++
				b.UnknownCostRevenue = b.UnknownCostRevenue.Add(revenue)
				continue
			}
			b.Cost = b.Cost.Add(unit.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		b.TotalValue = b.Revenue.Sub(b.Cost)
	}

	out := make([]MarginBucket, 0, len(groups))
	for _, b := range groups {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodKey < out[j].PeriodKey })
	return out
}

// MarginRate margen total / ingresos totales × 100 (0 si no hay ingresos), a 2 decimales.
func MarginRate(buckets []MarginBucket) decimal.Decimal {
	margin, revenue := decimal.Zero, decimal.Zero
	for _, b := range buckets {
		margin = margin.Add(b.TotalValue)
		revenue = revenue.Add(b.Revenue)
	}
	if revenue.IsZero() {
		return decimal.Zero
	}
	return margin.Div(revenue).Mul(decimal.NewFromInt(100)).Round(2)
}

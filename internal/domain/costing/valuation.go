package costing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/andyshop-api/internal/domain/entity"
)

// WeightedAverage costo promedio ponderado tras una entrada.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func WeightedAverage(stockQty, currentCost, inQty, inCost decimal.Decimal) decimal.Decimal {
	sum := stockQty.Add(inQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockQty.Mul(currentCost).Add(inQty.Mul(inCost))
	return num.Div(sum)
}

// Niveles de stock (rupture / faible / ok).
const (
	StockOut = "out"
	StockLow = "low"
	StockOK  = "ok"
)

// ArticleStock valorización del stock de un artículo.
type ArticleStock struct {
	ArticleID       string
	Purchased       int
	Sold            int
	Remaining       int
	AverageUnitCost decimal.Decimal // promedio ponderado de los costos asignados, redondeado a la unidad
	StockValue      decimal.Decimal // max(Remaining, 0) × AverageUnitCost
	LowStock        bool            // Remaining <= umbral
	Level           string
}

// Valuate agrupa líneas de lote y de venta por artículo. El resultado se ordena por ArticleID.
func Valuate(lotLines []entity.LotLine, saleLines []entity.SaleLine, lowStockThreshold int) []ArticleStock {
	type acc struct {
		purchased int
		sold      int
		avg       decimal.Decimal
	}
	byArticle := make(map[string]*acc)
	get := func(id string) *acc {
		a, ok := byArticle[id]
		if !ok {
			a = &acc{avg: decimal.Zero}
			byArticle[id] = a
		}
		return a
	}

	for _, l := range lotLines {
		if l.ArticleID == "" {
			continue
		}
		a := get(l.ArticleID)
		a.avg = WeightedAverage(
			decimal.NewFromInt(int64(a.purchased)), a.avg,
			decimal.NewFromInt(int64(l.InitialQuantity)), l.AllocatedUnitCost,
		)
		a.purchased += l.InitialQuantity
	}
	for _, s := range saleLines {
		if s.ArticleID == "" {
			continue
		}
		get(s.ArticleID).sold += s.Quantity
	}

	out := make([]ArticleStock, 0, len(byArticle))
	for id, a := range byArticle {
		remaining := a.purchased - a.sold
		avg := a.avg.Round(0)
		value := decimal.Zero
		if remaining > 0 {
			value = avg.Mul(decimal.NewFromInt(int64(remaining)))
		}
		out = append(out, ArticleStock{
			ArticleID:       id,
			Purchased:       a.purchased,
			Sold:            a.sold,
			Remaining:       remaining,
			AverageUnitCost: avg,
			StockValue:      value,
			LowStock:        remaining <= lowStockThreshold,
			Level:           stockLevel(remaining, lowStockThreshold),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ArticleID < out[j].ArticleID })
	return out
}

// TotalValue suma StockValue de todos los artículos.
func TotalValue(items []ArticleStock) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.StockValue)
	}
	return total
}

func stockLevel(remaining, threshold int) string {
	switch {
	case remaining <= 0:
		return StockOut
	case remaining <= threshold:
		return StockLow
	default:
		return StockOK
	}
}

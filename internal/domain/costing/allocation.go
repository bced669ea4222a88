// Package costing reparte el costo de un lote entre sus líneas y valoriza el stock resultante.
// Funciones puras: sin I/O ni estado entre llamadas.
package costing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/andyshop-api/internal/domain"
)

// LineInput datos de una línea antes del reparto. Se asume ya validada (valores >= 0).
type LineInput struct {
	Quantity     int
	BaseUnitCost decimal.Decimal
}

// AllocatedLine resultado del reparto para una línea.
type AllocatedLine struct {
	Quantity     int
	BaseUnitCost decimal.Decimal
	UnitCost     decimal.Decimal
	TotalCost    decimal.Decimal
	Overridden   bool // costo corregido manualmente
}

// Allocation resultado completo. Drift = Σ TotalCost − Target; se informa pero no se corrige.
type Allocation struct {
	Lines     []AllocatedLine
	Target    decimal.Decimal
	Allocated decimal.Decimal
	Drift     decimal.Decimal
	Equal     bool // true si se repartió por unidad (sin costos base)
}

// Allocate distribuye globalAmount + miscFees entre las líneas.
//
// Caso normal: ratio = (global + gastos) / Σ(cantidad × costoBase); costo unitario = round(base × ratio),
// total = unitario × cantidad.
// Caso degenerado (Σ costos base = 0): costo por unidad = (global + gastos) / Σ cantidad; cada línea recibe
// round(costoPorUnidad) y total round(costoPorUnidad × cantidad).
// Si además Σ cantidad = 0 devuelve domain.ErrAllocation. Sin líneas devuelve un resultado vacío.
func Allocate(globalAmount, miscFees decimal.Decimal, lines []LineInput) (Allocation, error) {
	target := globalAmount.Add(miscFees)
	res := Allocation{Target: target, Lines: make([]AllocatedLine, 0, len(lines))}
	if len(lines) == 0 {
		res.Drift = target.Neg()
		return res, nil
	}

	totalBase := decimal.Zero
	totalQty := int64(0)
	for _, l := range lines {
		q := decimal.NewFromInt(int64(l.Quantity))
		totalBase = totalBase.Add(l.BaseUnitCost.Mul(q))
		totalQty += int64(l.Quantity)
	}

	if totalBase.IsZero() {
		if totalQty == 0 {
			return Allocation{}, fmt.Errorf("%w (%d líneas)", domain.ErrAllocation, len(lines))
		}
		res.Equal = true
		perUnit := target.Div(decimal.NewFromInt(totalQty))
		unit := perUnit.Round(0)
		for _, l := range lines {
			q := decimal.NewFromInt(int64(l.Quantity))
			res.Lines = append(res.Lines, AllocatedLine{
				Quantity:     l.Quantity,
				BaseUnitCost: l.BaseUnitCost,
				UnitCost:     unit,
				TotalCost:    perUnit.Mul(q).Round(0),
			})
		}
		res.recompute()
		return res, nil
	}

	ratio := target.Div(totalBase)
	for _, l := range lines {
		unit := l.BaseUnitCost.Mul(ratio).Round(0)
		res.Lines = append(res.Lines, AllocatedLine{
			Quantity:     l.Quantity,
			BaseUnitCost: l.BaseUnitCost,
			UnitCost:     unit,
			TotalCost:    unit.Mul(decimal.NewFromInt(int64(l.Quantity))),
		})
	}
	res.recompute()
	return res, nil
}

// Override reemplaza el costo unitario calculado de la línea i por uno manual y recalcula
// su total y el drift. Devuelve una copia; el receptor no se modifica.
func (a Allocation) Override(i int, unitCost decimal.Decimal) (Allocation, error) {
	if i < 0 || i >= len(a.Lines) {
		return a, &domain.ValidationError{Field: "line", Err: fmt.Errorf("índice %d fuera de rango", i)}
	}
	if unitCost.IsNegative() {
		return a, domain.NewValidationError("unit_cost", "el costo unitario no puede ser negativo")
	}
	out := a
	out.Lines = append([]AllocatedLine(nil), a.Lines...)
	out.Lines[i].UnitCost = unitCost
	out.Lines[i].TotalCost = unitCost.Mul(decimal.NewFromInt(int64(out.Lines[i].Quantity)))
	out.Lines[i].Overridden = true
	out.recompute()
	return out, nil
}

func (a *Allocation) recompute() {
	sum := decimal.Zero
	for _, l := range a.Lines {
		sum = sum.Add(l.TotalCost)
	}
	a.Allocated = sum
	a.Drift = sum.Sub(a.Target)
}

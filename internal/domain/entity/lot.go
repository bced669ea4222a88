package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lugar de compra de un lote.
const (
	PurchaseLocal   = "Local"
	PurchaseForeign = "Extérieur"
)

// Lot una compra al por mayor a un proveedor. Sus líneas se crean en la misma operación.
// Invariante: GlobalAmount >= 0 y MiscFees >= 0.
type Lot struct {
	ID           string
	Reference    string
	SupplierID   string
	PurchaseDate time.Time
	Location     string // Local | Extérieur
	Currency     string
	GlobalAmount decimal.Decimal // pagado al proveedor
	MiscFees     decimal.Decimal // transporte, aduana, comisión
	Notes        string
	CreatedAt    time.Time
}

// TotalCost monto a repartir entre las líneas (global + gastos).
func (l *Lot) TotalCost() decimal.Decimal {
	return l.GlobalAmount.Add(l.MiscFees)
}

// LotLine porción de un lote correspondiente a un artículo.
// AllocatedUnitCost es el costo unitario final tras repartir los gastos del lote.
type LotLine struct {
	ID                string
	LotID             string
	ArticleID         string
	InitialQuantity   int
	BaseUnitCost      decimal.Decimal
	AllocatedUnitCost decimal.Decimal
	DesiredSalePrice  decimal.NullDecimal
}

// AllocatedTotalCost costo total asignado a la línea.
func (l *LotLine) AllocatedTotalCost() decimal.Decimal {
	return l.AllocatedUnitCost.Mul(decimal.NewFromInt(int64(l.InitialQuantity)))
}

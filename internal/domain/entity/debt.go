package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtStatus estado derivado de una deuda; nunca se persiste como fuente de verdad.
type DebtStatus string

const (
	DebtActive  DebtStatus = "active"
	DebtOverdue DebtStatus = "overdue"
	DebtSettled DebtStatus = "settled"
)

// Installment una cuota del calendario de pagos (fecha calendario a las 00:00 UTC).
type Installment struct {
	Date   time.Time
	Amount decimal.Decimal
}

// Debt dinero adeudado por un cliente tras una venta no pagada por completo.
// Invariante: 0 <= RemainingAmount <= InitialAmount.
type Debt struct {
	ID              string
	SaleID          string
	ClientID        string
	InitialAmount   decimal.Decimal
	RemainingAmount decimal.Decimal
	Schedule        []Installment
	Notes           string
	CreatedAt       time.Time
}

// Paid monto ya abonado.
func (d *Debt) Paid() decimal.Decimal {
	return d.InitialAmount.Sub(d.RemainingAmount)
}

// IsOpen indica si aún queda saldo.
func (d *Debt) IsOpen() bool {
	return d.RemainingAmount.IsPositive()
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modos de pago aceptados.
const (
	PaymentCash        = "Cash"
	PaymentMobileMoney = "Mobile Money"
	PaymentTransfer    = "Virement"
	PaymentOther       = "Autre"
)

// Payment pago recibido de un cliente; se reparte sobre sus deudas abiertas.
type Payment struct {
	ID        string
	Reference string
	ClientID  string
	Amount    decimal.Decimal
	Method    string
	Date      time.Time
	ProofURL  string
	Notes     string
}

// DebtAllocation parte de un pago aplicada a una deuda concreta.
type DebtAllocation struct {
	DebtID       string
	Amount       decimal.Decimal
	RemainingNow decimal.Decimal
}

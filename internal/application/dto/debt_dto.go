package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ListDebtsRequest query de GET /api/debts.
type ListDebtsRequest struct {
	Status   string `query:"status"` // active | overdue | settled
	ClientID string `query:"client_id"`
}

// DebtDTO deuda con sus vistas derivadas a la fecha de la consulta.
type DebtDTO struct {
	ID                  string           `json:"id"`
	SaleID              string           `json:"sale_id,omitempty"`
	ClientID            string           `json:"client_id"`
	InitialAmount       decimal.Decimal  `json:"initial_amount"`
	RemainingAmount     decimal.Decimal  `json:"remaining_amount"`
	Paid                decimal.Decimal  `json:"paid"`
	Status              string           `json:"status"`
	Schedule            []InstallmentDTO `json:"schedule"`
	NextInstallment     *InstallmentDTO  `json:"next_installment"`
	OverdueInstallments []InstallmentDTO `json:"overdue_installments"`
	DaysOverdue         int              `json:"days_overdue"`
	Notes               string           `json:"notes,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
}

// DebtSummaryDTO cartera abierta.
type DebtSummaryDTO struct {
	OpenTotal    decimal.Decimal `json:"open_total"`
	OpenCount    int             `json:"open_count"`
	OverdueCount int             `json:"overdue_count"`
}

// RecordPaymentRequest body para POST /api/payments.
type RecordPaymentRequest struct {
	ClientID string          `json:"client_id"`
	Amount   decimal.Decimal `json:"amount"`
	Method   string          `json:"method,omitempty"`
	Date     string          `json:"date,omitempty"` // RFC3339 o YYYY-MM-DD; por defecto ahora
	ProofURL string          `json:"proof_url,omitempty"`
	Notes    string          `json:"notes,omitempty"`
}

// DebtAllocationDTO parte del pago aplicada a una deuda.
type DebtAllocationDTO struct {
	DebtID    string          `json:"debt_id"`
	Amount    decimal.Decimal `json:"amount"`
	Remaining decimal.Decimal `json:"remaining"`
}

// PaymentDTO pago registrado y su reparto.
type PaymentDTO struct {
	ID          string              `json:"id"`
	Reference   string              `json:"reference"`
	ClientID    string              `json:"client_id"`
	Amount      decimal.Decimal     `json:"amount"`
	Method      string              `json:"method"`
	Date        time.Time           `json:"date"`
	ProofURL    string              `json:"proof_url,omitempty"`
	Notes       string              `json:"notes,omitempty"`
	Allocations []DebtAllocationDTO `json:"allocations,omitempty"`
	NewBalance  decimal.Decimal     `json:"new_balance"`
	Receipt     *MessageDTO         `json:"receipt,omitempty"`
}

// RelanceRequest body para POST /api/relances.
// Type vacío → se sugiere según el estado de las deudas del cliente.
type RelanceRequest struct {
	ClientID string `json:"client_id"`
	DebtID   string `json:"debt_id,omitempty"`
	Type     string `json:"type,omitempty"` // amicable | firm | due-date
	Channel  string `json:"channel,omitempty"`
}

// RelanceDTO recordatorio registrado.
type RelanceDTO struct {
	ID       string     `json:"id"`
	DebtID   string     `json:"debt_id"`
	ClientID string     `json:"client_id"`
	Type     string     `json:"type"`
	Channel  string     `json:"channel"`
	Status   string     `json:"status"`
	Message  string     `json:"message"`
	SentAt   *time.Time `json:"sent_at,omitempty"`
	Link     string     `json:"link,omitempty"`
}

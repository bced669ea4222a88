package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta. LotLineID es opcional (trazabilidad de stock).
type SaleLineRequest struct {
	ArticleID string          `json:"article_id"`
	LotLineID string          `json:"lot_line_id,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// InstallmentDTO cuota del calendario (fecha YYYY-MM-DD).
type InstallmentDTO struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	ClientID   string            `json:"client_id"`
	Lines      []SaleLineRequest `json:"lines"`
	AmountPaid decimal.Decimal   `json:"amount_paid"`
	Schedule   []InstallmentDTO  `json:"schedule,omitempty"`
	Notes      string            `json:"notes,omitempty"`
}

// SaleLineDTO línea de venta persistida.
type SaleLineDTO struct {
	ID        string          `json:"id"`
	ArticleID string          `json:"article_id"`
	LotLineID string          `json:"lot_line_id,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// SaleDTO venta; Debt presente cuando quedó saldo pendiente.
type SaleDTO struct {
	ID          string          `json:"id"`
	Reference   string          `json:"reference"`
	ClientID    string          `json:"client_id"`
	Date        time.Time       `json:"date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Lines       []SaleLineDTO   `json:"lines,omitempty"`
	Debt        *DebtDTO        `json:"debt,omitempty"`
}

// ListSalesRequest query de GET /api/sales.
type ListSalesRequest struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}

// MessageDTO mensaje listo para enviar y su enlace wa.me.
type MessageDTO struct {
	Phone string `json:"phone,omitempty"`
	Text  string `json:"text"`
	Link  string `json:"link,omitempty"`
}

// ReceiptLineDTO línea del recibo PDF.
type ReceiptLineDTO struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// ReceiptDTO datos para renderizar el recibo de una venta.
type ReceiptDTO struct {
	ShopName    string
	Currency    string
	Reference   string
	Date        time.Time
	ClientName  string
	ClientPhone string
	Lines       []ReceiptLineDTO
	Total       decimal.Decimal
	Paid        decimal.Decimal
	Remaining   decimal.Decimal
	Schedule    []InstallmentDTO
}

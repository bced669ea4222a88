package dto

import "github.com/shopspring/decimal"

// ReportRequest query común de los reportes por período.
type ReportRequest struct {
	Period    string `query:"period"`     // day | week | month | quarter | year
	StartDate string `query:"start_date"` // YYYY-MM-DD
	EndDate   string `query:"end_date"`   // YYYY-MM-DD
	Limit     int    `query:"limit"`      // solo top artículos
}

// RevenueBucketDTO ingresos de un período.
type RevenueBucketDTO struct {
	PeriodKey        string          `json:"period_key"`
	TotalValue       decimal.Decimal `json:"total_value"`
	TransactionCount int             `json:"transaction_count"`
	Collected        decimal.Decimal `json:"collected"`
	Outstanding      decimal.Decimal `json:"outstanding"`
}

// RevenueReportDTO respuesta de GET /api/reports/revenue.
type RevenueReportDTO struct {
	Period    string             `json:"period"`
	StartDate string             `json:"start_date,omitempty"`
	EndDate   string             `json:"end_date,omitempty"`
	Buckets   []RevenueBucketDTO `json:"buckets"`
	Total     decimal.Decimal    `json:"total"`
	Collected decimal.Decimal    `json:"collected"`
	Pending   decimal.Decimal    `json:"pending"`
	Count     int                `json:"count"`
}

// MarginBucketDTO margen de un período; TotalValue es el margen bruto.
type MarginBucketDTO struct {
	PeriodKey          string          `json:"period_key"`
	TotalValue         decimal.Decimal `json:"total_value"`
	TransactionCount   int             `json:"transaction_count"`
	Revenue            decimal.Decimal `json:"revenue"`
	Cost               decimal.Decimal `json:"cost"`
	UnknownCostLines   int             `json:"unknown_cost_lines"`
	UnknownCostRevenue decimal.Decimal `json:"unknown_cost_revenue"`
}

// MarginReportDTO respuesta de GET /api/reports/margin.
type MarginReportDTO struct {
	Period           string            `json:"period"`
	StartDate        string            `json:"start_date,omitempty"`
	EndDate          string            `json:"end_date,omitempty"`
	Buckets          []MarginBucketDTO `json:"buckets"`
	TotalMargin      decimal.Decimal   `json:"total_margin"`
	TotalRevenue     decimal.Decimal   `json:"total_revenue"`
	MarginPct        decimal.Decimal   `json:"margin_pct"`
	UnknownCostLines int               `json:"unknown_cost_lines"`
}

// TopArticleDTO posición en el ranking de artículos.
type TopArticleDTO struct {
	Rank      int             `json:"rank"`
	ArticleID string          `json:"article_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category,omitempty"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// ClientBalanceDTO saldo adeudado por un cliente.
type ClientBalanceDTO struct {
	ClientID string          `json:"client_id"`
	Name     string          `json:"name"`
	Phone    string          `json:"phone,omitempty"`
	Balance  decimal.Decimal `json:"balance"`
	Debts    int             `json:"debts"`
}

// ExportTableDTO tabla genérica para exportar (una hoja de cálculo por reporte).
type ExportTableDTO struct {
	Title   string
	Sheet   string
	Headers []string
	Rows    [][]any
	Totals  []any // fila final opcional
}

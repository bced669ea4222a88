package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// KPIs de hoy, semana, mes y últimos 30 días, más el top 5 de artículos del mes y la cartera.
type DashboardSummaryDTO struct {
	TodaySales      decimal.Decimal `json:"today_sales"`
	WeekSales       decimal.Decimal `json:"week_sales"`
	MonthlySales    decimal.Decimal `json:"monthly_sales"`
	Last30DaysSales decimal.Decimal `json:"last_30_days_sales"`

	MonthlyCollected decimal.Decimal `json:"monthly_collected"`
	MonthlyMargin    decimal.Decimal `json:"monthly_margin"` // ingresos - costo asignado

	TopArticles []TopArticleDTO `json:"top_articles"`
	Debts       DebtSummaryDTO  `json:"debts"`

	DateLabel string `json:"date_label"` // ej: "Mars 2025"
}

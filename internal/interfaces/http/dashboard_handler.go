package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/andyshop-api/internal/application/report"
)

// DashboardHandler maneja el tablero de inicio.
type DashboardHandler struct {
	uc *report.UseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *report.UseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve las ventas de hoy, la semana, el mes y los últimos 30 días.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (today_sales, week_sales, monthly_sales,
// last_30_days_sales, monthly_collected, monthly_margin, top_articles[5], debts, date_label).
// No requiere parámetros; las fechas se calculan con el reloj del servidor.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.Dashboard(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

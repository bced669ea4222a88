package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/andyshop-api/internal/application/dto"
	"github.com/jhoicas/andyshop-api/internal/application/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler maneja los reportes por período y la exportación a Excel.
type ReportHandler struct {
	uc *report.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func parseReport(c *fiber.Ctx) (dto.ReportRequest, error) {
	var in dto.ReportRequest
	err := c.QueryParser(&in)
	return in, err
}

// Revenue godoc
// @Summary      Ingresos por período
// @Tags         reports
// @Produce      json
// @Param        period      query  string  false  "day | week | month | quarter | year"  default(month)
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.RevenueReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/revenue [get]
func (h *ReportHandler) Revenue(c *fiber.Ctx) error {
	in, err := parseReport(c)
	if err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Revenue(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Margin godoc
// @Summary      Margen bruto por período
// @Description  Las líneas sin costo conocido se cuentan aparte y no suman costo.
// @Tags         reports
// @Produce      json
// @Param        period      query  string  false  "day | week | month | quarter | year"  default(month)
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.MarginReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/margin [get]
func (h *ReportHandler) Margin(c *fiber.Ctx) error {
	in, err := parseReport(c)
	if err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Margin(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// TopArticles godoc
// @Summary      Artículos más vendidos
// @Tags         reports
// @Produce      json
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit       query  int     false  "Cantidad de posiciones"  default(10)
// @Success      200  {array}   dto.TopArticleDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/top-articles [get]
func (h *ReportHandler) TopArticles(c *fiber.Ctx) error {
	in, err := parseReport(c)
	if err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.TopArticles(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Balances godoc
// @Summary      Saldo adeudado por cliente
// @Tags         reports
// @Produce      json
// @Success      200  {array}  dto.ClientBalanceDTO
// @Router       /api/reports/balances [get]
func (h *ReportHandler) Balances(c *fiber.Ctx) error {
	out, err := h.uc.ClientBalances(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar reportes a Excel
// @Description  Una hoja por reporte; sin "kinds" se exportan todos.
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        kinds       query  string  false  "revenue,margin,top-articles,balances"
// @Param        period      query  string  false  "day | week | month | quarter | year"
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/export [get]
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	in, err := parseReport(c)
	if err != nil {
		return invalidBody(c)
	}
	var kinds []string
	if raw := strings.TrimSpace(c.Query("kinds")); raw != "" {
		kinds = strings.Split(raw, ",")
	}
	book, err := h.uc.Export(c.Context(), in, kinds...)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="rapports.xlsx"`)
	return c.Send(book)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/andyshop-api/internal/application/dto"
	"github.com/jhoicas/andyshop-api/internal/application/lot"
)

// LotHandler maneja lotes de compra y la valorización del stock.
type LotHandler struct {
	uc *lot.UseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(uc *lot.UseCase) *LotHandler {
	return &LotHandler{uc: uc}
}

// Preview godoc
// @Summary      Previsualizar reparto de costos
// @Description  Calcula el costo asignado por línea sin guardar nada.
// @Tags         lots
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocationPreviewRequest  true  "Montos y líneas"
// @Success      200   {object}  dto.AllocationPreviewDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/lots/preview [post]
func (h *LotHandler) Preview(c *fiber.Ctx) error {
	var in dto.AllocationPreviewRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.PreviewAllocation(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear lote
// @Description  Guarda el lote y sus líneas con el costo repartido (prorrata o partes iguales).
// @Tags         lots
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLotRequest  true  "Datos del lote"
// @Success      201   {object}  dto.LotDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/lots [post]
func (h *LotHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLotRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateLot(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar lotes
// @Tags         lots
// @Produce      json
// @Success      200  {array}  dto.LotDTO
// @Router       /api/lots [get]
func (h *LotHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListLots(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener lote con sus líneas
// @Tags         lots
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.LotDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [get]
func (h *LotHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetLot(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// OverrideLineCost godoc
// @Summary      Corregir costo unitario de una línea
// @Tags         lots
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la línea de lote"
// @Param        body  body  dto.OverrideLineCostRequest  true  "Nuevo costo unitario"
// @Success      200   {object}  dto.LotLineDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/lots/lines/{id}/cost [patch]
func (h *LotHandler) OverrideLineCost(c *fiber.Ctx) error {
	var in dto.OverrideLineCostRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.OverrideLineCost(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StockValuation devuelve comprado, vendido, restante y valor de stock por artículo.
// GET /api/stock/valuation
func (h *LotHandler) StockValuation(c *fiber.Ctx) error {
	out, err := h.uc.StockValuation(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

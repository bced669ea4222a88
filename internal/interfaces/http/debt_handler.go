package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/andyshop-api/internal/application/debt"
	"github.com/jhoicas/andyshop-api/internal/application/dto"
)

// DebtHandler maneja deudas, pagos y recordatorios.
type DebtHandler struct {
	uc *debt.UseCase
}

// NewDebtHandler construye el handler.
func NewDebtHandler(uc *debt.UseCase) *DebtHandler {
	return &DebtHandler{uc: uc}
}

// List godoc
// @Summary      Listar deudas
// @Description  Estado derivado a la fecha: active, overdue o settled.
// @Tags         debts
// @Produce      json
// @Param        status     query  string  false  "active | overdue | settled"
// @Param        client_id  query  string  false  "ID del cliente"
// @Success      200  {array}   dto.DebtDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/debts [get]
func (h *DebtHandler) List(c *fiber.Ctx) error {
	var in dto.ListDebtsRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.ListDebts(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de la cartera abierta
// @Tags         debts
// @Produce      json
// @Success      200  {object}  dto.DebtSummaryDTO
// @Router       /api/debts/summary [get]
func (h *DebtHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.DebtSummary(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener deuda
// @Tags         debts
// @Produce      json
// @Param        id   path  string  true  "ID de la deuda"
// @Success      200  {object}  dto.DebtDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/debts/{id} [get]
func (h *DebtHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetDebt(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListRelances godoc
// @Summary      Historial de recordatorios de una deuda
// @Tags         relances
// @Produce      json
// @Param        id   path  string  true  "ID de la deuda"
// @Success      200  {array}  dto.RelanceDTO
// @Router       /api/debts/{id}/relances [get]
func (h *DebtHandler) ListRelances(c *fiber.Ctx) error {
	out, err := h.uc.ListRelances(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RecordPayment godoc
// @Summary      Registrar pago
// @Description  Reparte el monto entre las deudas abiertas del cliente, de la más antigua a la más reciente.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordPaymentRequest  true  "Pago"
// @Success      201   {object}  dto.PaymentDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/payments [post]
func (h *DebtHandler) RecordPayment(c *fiber.Ctx) error {
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.RecordPayment(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UploadProof godoc
// @Summary      Subir comprobante de pago
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Imagen del comprobante"
// @Success      201   {object}  dto.UploadResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/payments/proof [post]
func (h *DebtHandler) UploadProof(c *fiber.Ctx) error {
	img, err := readImage(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UploadProof(c.Context(), img)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ClientPayments godoc
// @Summary      Pagos de un cliente
// @Tags         payments
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {array}  dto.PaymentDTO
// @Router       /api/clients/{id}/payments [get]
func (h *DebtHandler) ClientPayments(c *fiber.Ctx) error {
	out, err := h.uc.ClientPayments(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SuggestRelance tipo de recordatorio sugerido según las deudas del cliente.
// GET /api/clients/:id/relance-type
func (h *DebtHandler) SuggestRelance(c *fiber.Ctx) error {
	t, err := h.uc.SuggestRelanceType(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"type": t})
}

// PreviewRelance godoc
// @Summary      Previsualizar recordatorio
// @Description  Arma el mensaje y el enlace wa.me sin registrarlo.
// @Tags         relances
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RelanceRequest  true  "Cliente y tipo"
// @Success      200   {object}  dto.RelanceDTO
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/relances/preview [post]
func (h *DebtHandler) PreviewRelance(c *fiber.Ctx) error {
	var in dto.RelanceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.BuildRelance(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SendRelance godoc
// @Summary      Registrar recordatorio enviado
// @Tags         relances
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RelanceRequest  true  "Cliente y tipo"
// @Success      201   {object}  dto.RelanceDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/relances [post]
func (h *DebtHandler) SendRelance(c *fiber.Ctx) error {
	var in dto.RelanceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SendRelance(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

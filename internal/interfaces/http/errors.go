package http

import (
	"context"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/andyshop-api/internal/application/dto"
	"github.com/jhoicas/andyshop-api/internal/application/ports"
	"github.com/jhoicas/andyshop-api/internal/domain"
)

// writeError traduce los errores de dominio a códigos HTTP y a un ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrAllocation):
		status, code = fiber.StatusUnprocessableEntity, "ALLOCATION"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrPaymentExceedsDebt):
		status, code = fiber.StatusConflict, "PAYMENT_EXCEEDS_DEBT"
	case errors.Is(err, domain.ErrNoOpenDebt):
		status, code = fiber.StatusUnprocessableEntity, "NO_OPEN_DEBT"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrStoreUnavailable):
		status, code = fiber.StatusServiceUnavailable, "STORE_UNAVAILABLE"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = fiber.StatusRequestTimeout, "TIMEOUT"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

// invalidBody respuesta estándar cuando el JSON no se puede parsear.
func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo de la petición inválido"})
}

// ErrorHandler manejador de errores de Fiber (rutas inexistentes, body demasiado grande, panics recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "HTTP_ERROR"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusRequestEntityTooLarge:
			code = "FILE_TOO_LARGE"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return writeError(c, err)
}

// readImage lee el archivo multipart "file" como ports.Image.
func readImage(c *fiber.Ctx) (ports.Image, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return ports.Image{}, domain.NewValidationError("file", "no se seleccionó ningún archivo")
	}
	f, err := fh.Open()
	if err != nil {
		return ports.Image{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return ports.Image{}, err
	}
	return ports.Image{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

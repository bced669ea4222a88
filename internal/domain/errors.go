package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrAllocation         = errors.New("no se puede repartir el costo: cantidad total igual a cero")
	ErrPaymentExceedsDebt = errors.New("el pago supera la deuda pendiente del cliente")
	ErrNoOpenDebt         = errors.New("el cliente no tiene deudas abiertas")
	ErrStoreUnavailable   = errors.New("almacén de registros no disponible")
)

// ValidationError indica qué campo de la entrada no cumple las precondiciones.
// errors.Is(err, ErrInvalidInput) es verdadero para cualquier ValidationError.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Field, ErrInvalidInput)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Is permite comparar también contra la causa concreta.
func (e *ValidationError) Is(target error) bool {
	return e.Err != nil && errors.Is(e.Err, target)
}

// NewValidationError atajo para construir un ValidationError con mensaje libre.
func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Err: errors.New(msg)}
}

package tools

import (
	"errors"

	"github.com/farmops/agrostock/internal/application/dto"
	"github.com/farmops/agrostock/internal/domain"
)

// CallError error de herramienta con código y detalles para el caller.
type CallError struct {
	Code    string
	Message string
	Details map[string]any
}

func (e *CallError) Error() string { return e.Code + ": " + e.Message }

// Response translada el error al DTO del wire.
func (e *CallError) Response() *dto.ErrorResponse {
	return &dto.ErrorResponse{Code: e.Code, Message: e.Message, Details: e.Details}
}

// asCallError mapea errores de dominio a CallError; detalles específicos
// (entrada rechazada, stock disponible) los aporta cada handler antes de llegar acá.
func asCallError(err error) *CallError {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce
	}
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return &CallError{Code: dto.CodeInvalidQuantity, Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return &CallError{Code: dto.CodeValidation, Message: err.Error()}
	case errors.Is(err, domain.ErrInsufficientStock):
		return &CallError{Code: dto.CodeInsufficientStock, Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return &CallError{Code: dto.CodeNotFound, Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return &CallError{Code: dto.CodeConflict, Message: err.Error()}
	default:
		return &CallError{Code: dto.CodeInternal, Message: err.Error()}
	}
}

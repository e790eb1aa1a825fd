package dto

// Códigos de error expuestos por la capa de herramientas.
const (
	CodeValidation        = "VALIDATION"
	CodeInvalidQuantity   = "INVALID_QUANTITY"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInternal          = "INTERNAL"
)

// ErrorResponse error tipado devuelto al caller de una herramienta.
// Details lleva contexto accionable: la entrada rechazada tal cual llegó
// (INVALID_QUANTITY) o el stock disponible (INSUFFICIENT_STOCK).
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
// Code distingue errores de validación accionables de errores genéricos de
// servidor, para que el cliente pueda renderizar mensajes concretos.
type APIError struct {
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string { return e.Detail }

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// WithCode crea un error con código legible por máquina.
func WithCode(code, msg string) *APIError {
	return &APIError{Code: code, Detail: msg}
}

// Códigos de validación que el frontend conoce.
const (
	CodeFechaInvalida   = "fecha_invalida"
	CodeSinItems        = "sin_items"
	CodePayloadInvalido = "payload_invalido"
)

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Code   string            `json:"code"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Code: CodePayloadInvalido, Detail: "Error de validacion", Fields: fields}
}

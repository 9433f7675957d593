// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package so that database
// errors and stack traces never reach the dashboard.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError carries one message per rejected request field.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// NewCampo reports a business rule rejected on a single field, such as an
// overpayment on "importe".
func NewCampo(detail, campo, mensaje string) *ValidationError {
	return &ValidationError{Detail: detail, Fields: map[string]string{campo: mensaje}}
}

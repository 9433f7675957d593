package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Domain errors. Handlers map them to HTTP status codes; everything else is
// reported without internal detail.
var (
	ErrNoEncontrado      = errors.New("no encontrado")
	ErrSobrepago         = errors.New("el importe excede el saldo pendiente")
	ErrStockInsuficiente = errors.New("existencia insuficiente")
	ErrDatosInvalidos    = errors.New("datos inválidos")
	ErrFacturaDuplicada  = errors.New("el número de factura ya existe")
	ErrConPagos          = errors.New("el documento tiene pagos registrados")
	ErrConMovimientos    = errors.New("la materia prima tiene movimientos registrados")
)

// CampoError is a validation failure on a single request field.
type CampoError struct {
	Campo   string
	Mensaje string
	base    error
}

func (e *CampoError) Error() string { return e.Campo + ": " + e.Mensaje }
func (e *CampoError) Unwrap() error { return e.base }

// invalido reports a bad field; errors.Is(err, ErrDatosInvalidos) holds.
func invalido(campo, formato string, args ...interface{}) error {
	return &CampoError{Campo: campo, Mensaje: fmt.Sprintf(formato, args...), base: ErrDatosInvalidos}
}

// rechazo reports a business-rule rejection tied to a field, wrapping base.
func rechazo(base error, campo, formato string, args ...interface{}) error {
	return &CampoError{Campo: campo, Mensaje: fmt.Sprintf(formato, args...), base: base}
}

// noEncontrado normalizes gorm's not-found into ErrNoEncontrado.
func noEncontrado(err error, que string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", que, ErrNoEncontrado)
	}
	return err
}

// duplicado reports a unique-constraint violation, translated or not.
func duplicado(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}

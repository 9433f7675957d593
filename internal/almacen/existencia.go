// Package almacen folds inventory ledgers into current stock levels.
package almacen

import "github.com/shopspring/decimal"

// Direccion is the sign of a ledger entry.
type Direccion string

const (
	Entrada Direccion = "entrada"
	Salida  Direccion = "salida"
)

// Valida reports whether d is entrada or salida.
func (d Direccion) Valida() bool { return d == Entrada || d == Salida }

// Movimiento is one ledger row reduced to what the fold needs.
type Movimiento struct {
	Direccion Direccion
	Cantidad  decimal.Decimal
}

// Existencia returns Σ entradas − Σ salidas. The result is not clamped, so
// inconsistent ledgers show up as negative stock. Rows with an unknown
// direction contribute nothing.
func Existencia(movs []Movimiento) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movs {
		total = Aplicar(total, m)
	}
	return total
}

// Aplicar applies a single movement to a running balance.
func Aplicar(saldo decimal.Decimal, m Movimiento) decimal.Decimal {
	switch m.Direccion {
	case Entrada:
		return saldo.Add(m.Cantidad)
	case Salida:
		return saldo.Sub(m.Cantidad)
	}
	return saldo
}

package almacen

import "github.com/shopspring/decimal"

// Material is the finished-goods family. It decides the unit stock is
// counted in.
type Material string

const (
	Celofan     Material = "celofan"
	Polietileno Material = "polietileno"
)

func (m Material) Valido() bool { return m == Celofan || m == Polietileno }

// Unidad returns the display unit for m: thousands of sheets for celofán,
// kilograms for polietileno.
func (m Material) Unidad() string {
	if m == Celofan {
		return "millares"
	}
	return "kg"
}

// Etiqueta is the capitalised material name used in product names.
func (m Material) Etiqueta() string {
	switch m {
	case Celofan:
		return "Celofán"
	case Polietileno:
		return "Polietileno"
	}
	return string(m)
}

// EstadoStock flags raw materials at or below their minimum.
type EstadoStock string

const (
	StockBajo EstadoStock = "BAJO"
	StockOK   EstadoStock = "OK"
)

// Clasificar returns StockBajo when existencia <= minimo.
func Clasificar(existencia, minimo decimal.Decimal) EstadoStock {
	if existencia.LessThanOrEqual(minimo) {
		return StockBajo
	}
	return StockOK
}

package infra

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var impresor = message.NewPrinter(language.MustParse("es-MX"))

// FormatoMXN renders an amount as "$12,345.60" for statements and emails.
func FormatoMXN(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	if f < 0 {
		return "-$" + impresor.Sprint(number.Decimal(-f, number.Scale(2)))
	}
	return "$" + impresor.Sprint(number.Decimal(f, number.Scale(2)))
}

// FormatoCantidad renders a quantity with up to three decimals and its unit.
func FormatoCantidad(d decimal.Decimal, unidad string) string {
	f, _ := d.Round(3).Float64()
	return impresor.Sprint(number.Decimal(f, number.MaxFractionDigits(3))) + " " + unidad
}

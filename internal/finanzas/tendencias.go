package finanzas

import (
	"time"

	"github.com/shopspring/decimal"
)

var cien = decimal.NewFromInt(100)

// Dia is an amount summed over one calendar date.
type Dia struct {
	Fecha time.Time
	Total decimal.Decimal
}

// Series holds the daily totals a trend is built from. Gastos are operating
// expenses only; supplier payments are already counted in Compras.
type Series struct {
	Ventas  []Dia
	Cobrado []Dia
	Compras []Dia
	Gastos  []Dia
}

// TendenciaMensual is one month of the trend, keyed "YYYY-MM".
type TendenciaMensual struct {
	Periodo  string          `json:"periodo"`
	Ventas   decimal.Decimal `json:"ventas"`
	Cobrado  decimal.Decimal `json:"cobrado"`
	Compras  decimal.Decimal `json:"compras"`
	Gastos   decimal.Decimal `json:"gastos"`
	Utilidad decimal.Decimal `json:"utilidad"`
	Margen   decimal.Decimal `json:"margen"`
}

// Ventana returns the first day of the month meses-1 months before al's
// month. Together with al it bounds a trend of meses months.
func Ventana(al time.Time, meses int) time.Time {
	if meses < 1 {
		meses = 1
	}
	return time.Date(al.Year(), al.Month()-time.Month(meses-1), 1, 0, 0, 0, 0, time.UTC)
}

// Tendencias buckets the series into meses months ending with al's month,
// oldest first. Months without movement are present with zeros. Days outside
// the window are ignored.
func Tendencias(al time.Time, meses int, s Series) []TendenciaMensual {
	inicio := Ventana(al, meses)
	out := make([]TendenciaMensual, 0, meses)
	idx := make(map[string]int, meses)
	for m := inicio; !m.After(al); m = m.AddDate(0, 1, 0) {
		p := m.Format("2006-01")
		idx[p] = len(out)
		out = append(out, TendenciaMensual{
			Periodo: p, Ventas: decimal.Zero, Cobrado: decimal.Zero,
			Compras: decimal.Zero, Gastos: decimal.Zero,
		})
	}

	sumar := func(dias []Dia, campo func(*TendenciaMensual) *decimal.Decimal) {
		for _, d := range dias {
			i, ok := idx[d.Fecha.Format("2006-01")]
			if !ok {
				continue
			}
			c := campo(&out[i])
			*c = c.Add(d.Total)
		}
	}
	sumar(s.Ventas, func(t *TendenciaMensual) *decimal.Decimal { return &t.Ventas })
	sumar(s.Cobrado, func(t *TendenciaMensual) *decimal.Decimal { return &t.Cobrado })
	sumar(s.Compras, func(t *TendenciaMensual) *decimal.Decimal { return &t.Compras })
	sumar(s.Gastos, func(t *TendenciaMensual) *decimal.Decimal { return &t.Gastos })

	for i := range out {
		t := &out[i]
		t.Utilidad = t.Ventas.Sub(t.Compras).Sub(t.Gastos)
		t.Margen = porcentaje(t.Utilidad, t.Ventas)
	}
	return out
}

// Totales adds up every month of a trend. Utilidad and Margen are computed
// over the sums, Periodo is left empty.
func Totales(meses []TendenciaMensual) TendenciaMensual {
	t := TendenciaMensual{Ventas: decimal.Zero, Cobrado: decimal.Zero, Compras: decimal.Zero, Gastos: decimal.Zero}
	for _, m := range meses {
		t.Ventas = t.Ventas.Add(m.Ventas)
		t.Cobrado = t.Cobrado.Add(m.Cobrado)
		t.Compras = t.Compras.Add(m.Compras)
		t.Gastos = t.Gastos.Add(m.Gastos)
	}
	t.Utilidad = t.Ventas.Sub(t.Compras).Sub(t.Gastos)
	t.Margen = porcentaje(t.Utilidad, t.Ventas)
	return t
}

// porcentaje is parte/base*100 to one decimal, zero when base is not positive.
func porcentaje(parte, base decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}
	return parte.Mul(cien).Div(base).Round(1)
}

package finanzas

import (
	"github.com/shopspring/decimal"
)

// Estado of a health indicator.
const (
	Excelente = "excelente"
	Bueno     = "bueno"
	Critico   = "critico"
)

type Indicador struct {
	Valor  decimal.Decimal `json:"valor"`
	Estado string          `json:"estado"`
}

type Recomendacion struct {
	Tipo        string `json:"tipo"`
	Area        string `json:"area"`
	Titulo      string `json:"titulo"`
	Descripcion string `json:"descripcion"`
}

// Salud scores the company out of 100 from three indicators:
//
//	liquidez      receivables / payables
//	rentabilidad  (ventas - compras - gastos) / ventas, in %
//	eficiencia    (ventas - gastos) / ventas, in %
//
// Ventas are the sales of the evaluated window. SinPasivos is set when
// nothing is owed to suppliers; liquidity then scores as excellent and its
// Valor stays at zero.
type Salud struct {
	Score           int             `json:"score"`
	Ventas          decimal.Decimal `json:"ventas_periodo"`
	Liquidez        Indicador       `json:"liquidez"`
	Rentabilidad    Indicador       `json:"rentabilidad"`
	Eficiencia      Indicador       `json:"eficiencia_operativa"`
	SinPasivos      bool            `json:"sin_pasivos"`
	Recomendaciones []Recomendacion `json:"recomendaciones"`
}

// escala maps an indicator to its estado and score. umbrales are the lower
// bounds of excelente, bueno and the third score band; puntos holds the
// points of each band plus the floor.
type escala struct {
	umbrales [3]decimal.Decimal
	puntos   [4]int
}

var (
	escalaLiquidez = escala{
		umbrales: [3]decimal.Decimal{decimal.RequireFromString("1.5"), decimal.NewFromInt(1), decimal.RequireFromString("0.5")},
		puntos:   [4]int{33, 25, 15, 5},
	}
	escalaRentabilidad = escala{
		umbrales: [3]decimal.Decimal{decimal.NewFromInt(20), decimal.NewFromInt(10), decimal.NewFromInt(5)},
		puntos:   [4]int{33, 25, 15, 5},
	}
	escalaEficiencia = escala{
		umbrales: [3]decimal.Decimal{decimal.NewFromInt(25), decimal.NewFromInt(15), decimal.NewFromInt(5)},
		puntos:   [4]int{34, 25, 15, 5},
	}
)

func (e escala) evaluar(v decimal.Decimal) (Indicador, int) {
	switch {
	case v.GreaterThanOrEqual(e.umbrales[0]):
		return Indicador{Valor: v, Estado: Excelente}, e.puntos[0]
	case v.GreaterThanOrEqual(e.umbrales[1]):
		return Indicador{Valor: v, Estado: Bueno}, e.puntos[1]
	case v.GreaterThanOrEqual(e.umbrales[2]):
		return Indicador{Valor: v, Estado: Critico}, e.puntos[2]
	}
	return Indicador{Valor: v, Estado: Critico}, e.puntos[3]
}

// ScoreCrecimiento is the score from which growth is recommended.
const ScoreCrecimiento = 75

// Evaluar computes the health indicators from the totals of a trend window
// and the outstanding receivable and payable balances.
func Evaluar(periodo TendenciaMensual, porCobrar, porPagar decimal.Decimal) Salud {
	s := Salud{Ventas: periodo.Ventas}
	var pts [3]int

	if porPagar.IsPositive() {
		s.Liquidez, pts[0] = escalaLiquidez.evaluar(porCobrar.Div(porPagar).Round(2))
	} else {
		s.SinPasivos = true
		s.Liquidez = Indicador{Valor: decimal.Zero, Estado: Excelente}
		pts[0] = escalaLiquidez.puntos[0]
	}
	s.Rentabilidad, pts[1] = escalaRentabilidad.evaluar(periodo.Margen)
	s.Eficiencia, pts[2] = escalaEficiencia.evaluar(porcentaje(periodo.Ventas.Sub(periodo.Gastos), periodo.Ventas))
	s.Score = pts[0] + pts[1] + pts[2]
	s.Recomendaciones = recomendar(s)
	return s
}

// LiquidezBaja reports a receivable/payable ratio under 1.
func (s Salud) LiquidezBaja() bool {
	return !s.SinPasivos && s.Liquidez.Valor.LessThan(escalaLiquidez.umbrales[1])
}

func recomendar(s Salud) []Recomendacion {
	out := []Recomendacion{}
	if s.LiquidezBaja() {
		out = append(out, Recomendacion{
			Tipo: "urgente", Area: "Liquidez", Titulo: "Mejorar flujo de efectivo",
			Descripcion: "Acelerar cobranza y gestionar mejor los pagos a proveedores",
		})
	}
	if s.Rentabilidad.Valor.LessThan(escalaRentabilidad.umbrales[1]) {
		out = append(out, Recomendacion{
			Tipo: "importante", Area: "Rentabilidad", Titulo: "Optimizar márgenes",
			Descripcion: "Revisar estructura de costos y precios de venta",
		})
	}
	if s.Eficiencia.Valor.LessThan(escalaEficiencia.umbrales[1]) {
		out = append(out, Recomendacion{
			Tipo: "mejora", Area: "Operaciones", Titulo: "Optimizar procesos operativos",
			Descripcion: "Reducir costos operativos y mejorar eficiencia",
		})
	}
	if s.Score >= ScoreCrecimiento {
		out = append(out, Recomendacion{
			Tipo: "crecimiento", Area: "Expansión", Titulo: "Considerar crecimiento",
			Descripcion: "Buena posición financiera para invertir en expansión",
		})
	}
	return out
}

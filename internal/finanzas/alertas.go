package finanzas

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/victor-varac/AIKZ-sub001/internal/cartera"
)

// Prioridad of an alert, highest first when sorted.
const (
	Critica = "critica"
	Alta    = "alta"
	Media   = "media"
	Baja    = "baja"
)

var ordenPrioridad = map[string]int{Critica: 3, Alta: 2, Media: 1, Baja: 0}

type Alerta struct {
	Tipo      string           `json:"tipo"`
	Titulo    string           `json:"titulo"`
	Mensaje   string           `json:"mensaje"`
	Monto     *decimal.Decimal `json:"monto,omitempty"`
	Prioridad string           `json:"prioridad"`
	Area      string           `json:"area"`
}

// Situacion is everything the alert rules look at.
type Situacion struct {
	Cobrar    cartera.Resumen
	Pagar     cartera.Resumen
	PorVencer cartera.Bucket // current payables due within DiasAviso
	DiasAviso int
	MPBaja    int
	// Salud is nil when the trend could not be loaded; the liquidity and
	// margin rules are then skipped.
	Salud *Salud
}

// MargenMinimo and MargenOportunidad bound the profit margin alerts, in %.
var (
	MargenMinimo      = decimal.NewFromInt(10)
	MargenOportunidad = decimal.NewFromInt(20)
	liquidezHolgada   = decimal.RequireFromString("1.5")
)

// Alertas evaluates the rules and returns the raised alerts, most urgent
// first. Alerts of equal priority keep rule order.
func Alertas(s Situacion) []Alerta {
	out := []Alerta{}
	if b := s.Cobrar.Vencidas(); b.Cantidad > 0 {
		out = append(out, Alerta{
			Tipo: "warning", Titulo: "Cuentas por Cobrar Vencidas",
			Mensaje:   fmt.Sprintf("%d facturas vencidas por cobrar", b.Cantidad),
			Monto:     monto(b.Monto),
			Prioridad: Alta, Area: "cobranza",
		})
	}
	if b := s.Pagar.Vencidas(); b.Cantidad > 0 {
		out = append(out, Alerta{
			Tipo: "error", Titulo: "Cuentas por Pagar Vencidas",
			Mensaje:   fmt.Sprintf("%d facturas vencidas por pagar", b.Cantidad),
			Monto:     monto(b.Monto),
			Prioridad: Critica, Area: "pagos",
		})
	}
	if s.PorVencer.Cantidad > 0 {
		out = append(out, Alerta{
			Tipo: "info", Titulo: "Próximos Vencimientos",
			Mensaje:   fmt.Sprintf("%d facturas vencen en los próximos %d días", s.PorVencer.Cantidad, s.DiasAviso),
			Monto:     monto(s.PorVencer.Monto),
			Prioridad: Media, Area: "pagos",
		})
	}
	if s.Salud != nil && s.Salud.LiquidezBaja() {
		out = append(out, Alerta{
			Tipo: "warning", Titulo: "Liquidez Comprometida",
			Mensaje:   fmt.Sprintf("Ratio de liquidez: %s (recomendado: >1.2)", s.Salud.Liquidez.Valor.StringFixed(2)),
			Prioridad: Alta, Area: "liquidez",
		})
	}
	if s.Salud != nil && s.Salud.Rentabilidad.Valor.LessThan(MargenMinimo) && s.Salud.Ventas.IsPositive() {
		out = append(out, Alerta{
			Tipo: "warning", Titulo: "Margen de Utilidad Bajo",
			Mensaje: fmt.Sprintf("Margen actual: %s%% (mínimo recomendado: %s%%)",
				s.Salud.Rentabilidad.Valor.StringFixed(1), MargenMinimo.String()),
			Prioridad: Alta, Area: "rentabilidad",
		})
	}
	if s.MPBaja > 0 {
		out = append(out, Alerta{
			Tipo: "info", Titulo: "Stock Bajo Detectado",
			Mensaje:   fmt.Sprintf("%d materias primas con stock por debajo del mínimo", s.MPBaja),
			Prioridad: Media, Area: "inventario",
		})
	}
	if s.Salud != nil && s.Salud.Rentabilidad.Valor.GreaterThan(MargenOportunidad) &&
		(s.Salud.SinPasivos || s.Salud.Liquidez.Valor.GreaterThan(liquidezHolgada)) {
		out = append(out, Alerta{
			Tipo: "success", Titulo: "Oportunidad de Crecimiento",
			Mensaje:   "Excelente posición financiera para considerar expansión o inversión",
			Prioridad: Baja, Area: "oportunidad",
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return ordenPrioridad[out[i].Prioridad] > ordenPrioridad[out[j].Prioridad]
	})
	return out
}

func monto(d decimal.Decimal) *decimal.Decimal { return &d }

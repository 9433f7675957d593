package dto

import (
	"github.com/shopspring/decimal"

	"github.com/victor-varac/AIKZ-sub001/internal/cartera"
	"github.com/victor-varac/AIKZ-sub001/internal/finanzas"
)

// Widget carries the settled result of one dashboard loader. A failed
// loader leaves Datos at its zero value and sets Error.
type Widget[T any] struct {
	Datos T      `json:"datos"`
	Error string `json:"error,omitempty"`
}

type KPIs struct {
	VentasMes       decimal.Decimal `json:"ventas_mes"`
	NotasMes        int             `json:"notas_mes"`
	CobradoMes      decimal.Decimal `json:"cobrado_mes"`
	GastosMes       decimal.Decimal `json:"gastos_mes"`
	ClientesActivos int             `json:"clientes_activos"`
}

type DashboardResponse struct {
	Al                    string                              `json:"al"`
	KPIs                  Widget[KPIs]                        `json:"kpis"`
	CuentasPorCobrar      Widget[cartera.Resumen]             `json:"cuentas_por_cobrar"`
	CuentasPorPagar       Widget[cartera.Resumen]             `json:"cuentas_por_pagar"`
	InventarioCelofan     Widget[[]ExistenciaResponse]        `json:"inventario_celofan"`
	InventarioPolietileno Widget[[]ExistenciaResponse]        `json:"inventario_polietileno"`
	MateriaPrimaBajo      Widget[[]InventarioMPItem]          `json:"materia_prima_bajo"`
	GastosCategoria       Widget[[]GastoPorCategoria]         `json:"gastos_categoria"`
	TopClientes           Widget[[]cartera.TotalContraparte]  `json:"top_clientes"`
	TendenciasMensuales   Widget[[]finanzas.TendenciaMensual] `json:"tendencias_mensuales"`
	IndicadoresSalud      Widget[finanzas.Salud]              `json:"indicadores_salud"`
	Alertas               Widget[[]finanzas.Alerta]           `json:"alertas"`
}

// Completo reports whether every widget loaded without error.
func (d *DashboardResponse) Completo() bool {
	for _, e := range []string{
		d.KPIs.Error, d.CuentasPorCobrar.Error, d.CuentasPorPagar.Error,
		d.InventarioCelofan.Error, d.InventarioPolietileno.Error,
		d.MateriaPrimaBajo.Error, d.GastosCategoria.Error, d.TopClientes.Error,
		d.TendenciasMensuales.Error, d.IndicadoresSalud.Error, d.Alertas.Error,
	} {
		if e != "" {
			return false
		}
	}
	return true
}

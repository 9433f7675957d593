package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/victor-varac/AIKZ-sub001/internal/almacen"
	"github.com/victor-varac/AIKZ-sub001/internal/cartera"
	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/finanzas"
	"github.com/victor-varac/AIKZ-sub001/internal/infra"
	"github.com/victor-varac/AIKZ-sub001/internal/model"
	"github.com/victor-varac/AIKZ-sub001/internal/repository"
)

const (
	topClientes             = 5
	dashboardConcurrDefault = 4
	mesesTendencia          = 12
	diasAvisoPagos          = 7
)

// errParcial keeps a dashboard with failed widgets out of the cache.
var errParcial = errors.New("dashboard parcial")

type DashboardService interface {
	Obtener(ctx context.Context, al string) (*dto.DashboardResponse, error)
}

// DashboardDeps groups the sources the dashboard reads from.
type DashboardDeps struct {
	Cobranza     CobranzaService
	CuentasPagar CuentasPagarService
	Inventario   InventarioService
	MateriaPrima MateriaPrimaService
	Gastos       GastoService
	Notas        repository.NotaVentaRepository
	Clientes     repository.ClienteRepository
	Compras      repository.CompraRepository
	GastoRepo    repository.GastoRepository
	Cache        *infra.Cache
}

type dashboardService struct {
	deps         DashboardDeps
	concurrencia int
	reloj        Reloj
	ubicacion    *time.Location
}

func NewDashboardService(deps DashboardDeps, concurrencia int, cfg CarteraConfig) DashboardService {
	if concurrencia <= 0 {
		concurrencia = dashboardConcurrDefault
	}
	return &dashboardService{deps: deps, concurrencia: concurrencia, reloj: cfg.Reloj, ubicacion: cfg.Ubicacion}
}

// Obtener builds the dashboard as of al. Complete responses are cached per
// date; partial ones are returned but never cached.
func (s *dashboardService) Obtener(ctx context.Context, al string) (*dto.DashboardResponse, error) {
	fecha, err := parseAl(al, s.reloj, s.ubicacion)
	if err != nil {
		return nil, err
	}
	var cargado *dto.DashboardResponse
	loader := func(ctx context.Context) (interface{}, error) {
		cargado = s.cargar(ctx, fecha)
		if !cargado.Completo() {
			return nil, errParcial
		}
		return cargado, nil
	}

	var resp dto.DashboardResponse
	key, err := s.deps.Cache.BuildKey(ctx, "dashboard", fechaStr(fecha))
	if err == nil {
		err = s.deps.Cache.FetchJSON(ctx, key, &resp, loader)
	}
	switch {
	case err == nil:
		return &resp, nil
	case errors.Is(err, errParcial):
		return cargado, nil
	}
	log.Warn().Err(err).Msg("dashboard: sin caché")
	if cargado == nil {
		cargado = s.cargar(ctx, fecha)
	}
	return cargado, nil
}

// cargar runs every widget loader with bounded concurrency. Each result is
// settled on its own: a failing loader only fills its widget's Error. Sources
// read by more than one widget are loaded once and shared.
func (s *dashboardService) cargar(ctx context.Context, al time.Time) *dto.DashboardResponse {
	resp := &dto.DashboardResponse{Al: fechaStr(al)}
	alStr := fechaStr(al)
	desde := time.Date(al.Year(), al.Month(), 1, 0, 0, 0, 0, time.UTC)
	mes := dto.RangoFechas{Desde: fechaStr(desde), Hasta: alStr}

	cobrar := sync.OnceValues(func() (cartera.Resumen, error) {
		r, err := s.deps.Cobranza.Resumen(ctx, alStr)
		if err != nil {
			return cartera.Resumen{}, err
		}
		return r.Resumen, nil
	})
	pagar := sync.OnceValues(func() (cartera.Resumen, error) {
		r, err := s.deps.CuentasPagar.Resumen(ctx, alStr)
		if err != nil {
			return cartera.Resumen{}, err
		}
		return r.Resumen, nil
	})
	mpBajo := sync.OnceValues(func() ([]dto.InventarioMPItem, error) {
		items, err := s.deps.MateriaPrima.Inventario(ctx, "")
		if err != nil {
			return nil, err
		}
		bajo := []dto.InventarioMPItem{}
		for _, it := range items {
			if it.EstadoStock == string(almacen.StockBajo) {
				bajo = append(bajo, it)
			}
		}
		return bajo, nil
	})
	tendencias := sync.OnceValues(func() ([]finanzas.TendenciaMensual, error) {
		return s.tendencias(ctx, al)
	})
	salud := sync.OnceValues(func() (finanzas.Salud, error) {
		meses, err := tendencias()
		if err != nil {
			return finanzas.Salud{}, err
		}
		cxc, err := cobrar()
		if err != nil {
			return finanzas.Salud{}, err
		}
		cxp, err := pagar()
		if err != nil {
			return finanzas.Salud{}, err
		}
		return finanzas.Evaluar(finanzas.Totales(meses), cxc.TotalPendiente, cxp.TotalPendiente), nil
	})

	g := new(errgroup.Group)
	g.SetLimit(s.concurrencia)

	widget(ctx, g, "kpis", &resp.KPIs, func(ctx context.Context) (dto.KPIs, error) {
		return s.kpis(ctx, desde, al, mes)
	})
	widget(ctx, g, "cuentas_por_cobrar", &resp.CuentasPorCobrar, func(context.Context) (cartera.Resumen, error) {
		return cobrar()
	})
	widget(ctx, g, "cuentas_por_pagar", &resp.CuentasPorPagar, func(context.Context) (cartera.Resumen, error) {
		return pagar()
	})
	widget(ctx, g, "inventario_celofan", &resp.InventarioCelofan, func(ctx context.Context) ([]dto.ExistenciaResponse, error) {
		return s.deps.Inventario.Existencias(ctx, string(almacen.Celofan))
	})
	widget(ctx, g, "inventario_polietileno", &resp.InventarioPolietileno, func(ctx context.Context) ([]dto.ExistenciaResponse, error) {
		return s.deps.Inventario.Existencias(ctx, string(almacen.Polietileno))
	})
	widget(ctx, g, "materia_prima_bajo", &resp.MateriaPrimaBajo, func(context.Context) ([]dto.InventarioMPItem, error) {
		return mpBajo()
	})
	widget(ctx, g, "gastos_categoria", &resp.GastosCategoria, func(ctx context.Context) ([]dto.GastoPorCategoria, error) {
		return s.deps.Gastos.PorCategoria(ctx, mes)
	})
	widget(ctx, g, "top_clientes", &resp.TopClientes, func(ctx context.Context) ([]cartera.TotalContraparte, error) {
		todos, err := s.deps.Cobranza.PorCliente(ctx, alStr)
		if err != nil {
			return nil, err
		}
		if len(todos) > topClientes {
			todos = todos[:topClientes]
		}
		return todos, nil
	})
	widget(ctx, g, "tendencias_mensuales", &resp.TendenciasMensuales, func(context.Context) ([]finanzas.TendenciaMensual, error) {
		return tendencias()
	})
	widget(ctx, g, "indicadores_salud", &resp.IndicadoresSalud, func(context.Context) (finanzas.Salud, error) {
		return salud()
	})
	widget(ctx, g, "alertas", &resp.Alertas, func(ctx context.Context) ([]finanzas.Alerta, error) {
		return s.alertas(ctx, alStr, cobrar, pagar, mpBajo, salud)
	})

	_ = g.Wait()
	return resp
}

// tendencias loads the daily sales, collections, purchases and operating
// expenses of the trend window and buckets them by month.
func (s *dashboardService) tendencias(ctx context.Context, al time.Time) ([]finanzas.TendenciaMensual, error) {
	desde := finanzas.Ventana(al, mesesTendencia)
	var (
		series finanzas.Series
		err    error
	)
	if series.Ventas, err = porDia(s.deps.Notas.VentasPorDia(ctx, desde, al)); err != nil {
		return nil, err
	}
	if series.Cobrado, err = porDia(s.deps.Notas.CobradoPorDia(ctx, desde, al)); err != nil {
		return nil, err
	}
	if series.Compras, err = porDia(s.deps.Compras.ComprasPorDia(ctx, desde, al)); err != nil {
		return nil, err
	}
	if series.Gastos, err = porDia(s.deps.GastoRepo.GastosPorDia(ctx, desde, al, model.CategoriaPagoProveedores)); err != nil {
		return nil, err
	}
	return finanzas.Tendencias(al, mesesTendencia, series), nil
}

// alertas degrades when the health indicators fail: the portfolio and stock
// rules still run.
func (s *dashboardService) alertas(
	ctx context.Context,
	alStr string,
	cobrar, pagar func() (cartera.Resumen, error),
	mpBajo func() ([]dto.InventarioMPItem, error),
	salud func() (finanzas.Salud, error),
) ([]finanzas.Alerta, error) {
	sit := finanzas.Situacion{DiasAviso: diasAvisoPagos}
	var err error
	if sit.Cobrar, err = cobrar(); err != nil {
		return nil, err
	}
	if sit.Pagar, err = pagar(); err != nil {
		return nil, err
	}
	bajo, err := mpBajo()
	if err != nil {
		return nil, err
	}
	sit.MPBaja = len(bajo)
	proximos, err := s.deps.CuentasPagar.ProyeccionPagos(ctx, diasAvisoPagos, alStr)
	if err != nil {
		return nil, err
	}
	sit.PorVencer = cartera.Bucket{Monto: proximos.Total, Cantidad: len(proximos.Cuentas)}
	if h, err := salud(); err == nil {
		sit.Salud = &h
	} else {
		log.Warn().Err(err).Msg("dashboard: alertas sin indicadores de salud")
	}
	return finanzas.Alertas(sit), nil
}

func porDia(filas []repository.FilaDia, err error) ([]finanzas.Dia, error) {
	if err != nil {
		return nil, err
	}
	out := make([]finanzas.Dia, len(filas))
	for i, f := range filas {
		out[i] = finanzas.Dia{Fecha: f.Fecha, Total: f.Total}
	}
	return out, nil
}

func (s *dashboardService) kpis(ctx context.Context, desde, hasta time.Time, mes dto.RangoFechas) (dto.KPIs, error) {
	k := dto.KPIs{GastosMes: decimal.Zero}
	ventas, notas, err := s.deps.Notas.SumVentas(ctx, desde, hasta)
	if err != nil {
		return k, err
	}
	cobrado, err := s.deps.Notas.SumCobrado(ctx, desde, hasta)
	if err != nil {
		return k, err
	}
	gastos, err := s.deps.Gastos.Resumen(ctx, mes)
	if err != nil {
		return k, err
	}
	clientes, err := s.deps.Clientes.CountActivos(ctx)
	if err != nil {
		return k, err
	}
	k.VentasMes = ventas
	k.NotasMes = int(notas)
	k.CobradoMes = cobrado
	k.GastosMes = gastos.Total
	k.ClientesActivos = int(clientes)
	return k, nil
}

// widget schedules one loader on g and settles its outcome into w. The
// goroutine never returns an error, so one failure cannot cancel the rest.
func widget[T any](ctx context.Context, g *errgroup.Group, nombre string, w *dto.Widget[T], fn func(context.Context) (T, error)) {
	g.Go(func() error {
		datos, err := fn(ctx)
		if err != nil {
			log.Error().Err(err).Str("widget", nombre).Msg("dashboard: widget falló")
			w.Error = err.Error()
			return nil
		}
		w.Datos = datos
		return nil
	})
}

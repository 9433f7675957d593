package router

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/victor-varac/AIKZ-sub001/internal/config"
	"github.com/victor-varac/AIKZ-sub001/internal/infra"
	"github.com/victor-varac/AIKZ-sub001/internal/repository"
	"github.com/victor-varac/AIKZ-sub001/internal/service"
	"github.com/victor-varac/AIKZ-sub001/internal/worker"
)

// Servicios is the composition root shared by the HTTP server, the worker
// pool and the CLI.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
type Servicios struct {
	Clientes     service.ClienteService
	Vendedores   service.VendedorService
	Proveedores  service.ProveedorService
	Productos    service.ProductoService
	NotasVenta   service.NotaVentaService
	Cobranza     service.CobranzaService
	CuentasPagar service.CuentasPagarService
	Inventario   service.InventarioService
	MateriaPrima service.MateriaPrimaService
	Gastos       service.GastoService
	Dashboard    service.DashboardService

	Dispatcher *worker.Dispatcher
}

// CarteraConfig derives the ledger settings from the runtime config.
func CarteraConfig(cfg *config.Config) service.CarteraConfig {
	return service.CarteraConfig{
		Empresa:   cfg.EmpresaNombre,
		TasaIVA:   cfg.TasaIVA(),
		Ubicacion: cfg.Ubicacion(),
	}
}

// NuevosServicios builds every service. rdb may be nil: the cache then
// always reads through and reminders cannot be enqueued.
func NuevosServicios(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Servicios {
	cc := CarteraConfig(cfg)

	// ── Infrastructure ───────────────────────────────────────────────────────
	var (
		cache      *infra.Cache
		dispatcher *worker.Dispatcher
	)
	if rdb != nil {
		cache = infra.NewCache(rdb, cfg.CacheTTL())
		dispatcher = worker.NewDispatcher(rdb)
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	clienteRepo := repository.NewClienteRepository(db)
	vendedorRepo := repository.NewVendedorRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	notaRepo := repository.NewNotaVentaRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	movRepo := repository.NewMovimientoStockRepository(db)
	materiaRepo := repository.NewMateriaPrimaRepository(db)
	gastoRepo := repository.NewGastoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	s := &Servicios{
		Clientes:     service.NewClienteService(clienteRepo, vendedorRepo, notaRepo, cache, cc),
		Vendedores:   service.NewVendedorService(vendedorRepo, notaRepo, cc),
		Proveedores:  service.NewProveedorService(proveedorRepo),
		Productos:    service.NewProductoService(productoRepo, cache),
		NotasVenta:   service.NewNotaVentaService(notaRepo, clienteRepo, vendedorRepo, productoRepo, movRepo, cache, cc),
		Cobranza:     service.NewCobranzaService(notaRepo, clienteRepo, cache, dispatcher, cc),
		CuentasPagar: service.NewCuentasPagarService(compraRepo, proveedorRepo, gastoRepo, cache, cc),
		Inventario:   service.NewInventarioService(movRepo, productoRepo, cache),
		MateriaPrima: service.NewMateriaPrimaService(materiaRepo, proveedorRepo, cache),
		Gastos:       service.NewGastoService(gastoRepo, cache),
		Dispatcher:   dispatcher,
	}
	s.Dashboard = service.NewDashboardService(service.DashboardDeps{
		Cobranza:     s.Cobranza,
		CuentasPagar: s.CuentasPagar,
		Inventario:   s.Inventario,
		MateriaPrima: s.MateriaPrima,
		Gastos:       s.Gastos,
		Notas:        notaRepo,
		Clientes:     clienteRepo,
		Compras:      compraRepo,
		GastoRepo:    gastoRepo,
		Cache:        cache,
	}, cfg.DashboardConcur, cc)
	return s
}

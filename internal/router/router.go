package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/victor-varac/AIKZ-sub001/internal/config"
	"github.com/victor-varac/AIKZ-sub001/internal/handler"
	"github.com/victor-varac/AIKZ-sub001/internal/middleware"
)

// New returns a configured Gin engine serving svcs.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, svcs *Servicios) *gin.Engine {
	if cfg.EsProduccion() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigenes()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))
	r.Use(middleware.RateLimiter(120, time.Minute, http.MethodPost, http.MethodPut, http.MethodDelete))

	// ── Handlers ─────────────────────────────────────────────────────────────
	clientesH := handler.NewClientesHandler(svcs.Clientes)
	vendedoresH := handler.NewVendedoresHandler(svcs.Vendedores)
	proveedoresH := handler.NewProveedoresHandler(svcs.Proveedores)
	productosH := handler.NewProductosHandler(svcs.Productos)
	notasH := handler.NewNotasVentaHandler(svcs.NotasVenta)
	cobranzaH := handler.NewCobranzaHandler(svcs.Cobranza)
	pagarH := handler.NewCuentasPagarHandler(svcs.CuentasPagar)
	inventarioH := handler.NewInventarioHandler(svcs.Inventario)
	materiasH := handler.NewMateriasPrimasHandler(svcs.MateriaPrima)
	gastosH := handler.NewGastosHandler(svcs.Gastos)
	dashboardH := handler.NewDashboardHandler(svcs.Dashboard)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		v1.GET("/dashboard", dashboardH.Obtener)

		clientes := v1.Group("/clientes")
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.Detalle)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", clientesH.Desactivar)
		}

		vendedores := v1.Group("/vendedores")
		{
			vendedores.POST("", vendedoresH.Crear)
			vendedores.GET("", vendedoresH.Listar)
			vendedores.GET("/ranking", vendedoresH.Ranking)
			vendedores.GET("/:id", vendedoresH.ObtenerPorID)
			vendedores.PUT("/:id", vendedoresH.Actualizar)
			vendedores.DELETE("/:id", vendedoresH.Desactivar)
		}

		prov := v1.Group("/proveedores")
		{
			prov.POST("", proveedoresH.Crear)
			prov.GET("", proveedoresH.Listar)
			prov.GET("/:id", proveedoresH.ObtenerPorID)
			prov.PUT("/:id", proveedoresH.Actualizar)
			prov.DELETE("/:id", proveedoresH.Eliminar)
		}

		prods := v1.Group("/productos")
		{
			prods.POST("", productosH.Crear)
			prods.GET("", productosH.Listar)
			prods.GET("/catalogo", productosH.Catalogo)
			prods.GET("/:id", productosH.ObtenerPorID)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
		}

		notas := v1.Group("/notas-venta")
		{
			notas.POST("", notasH.Crear)
			notas.GET("", notasH.Listar)
			notas.GET("/:id", notasH.ObtenerPorID)
			notas.DELETE("/:id", notasH.Eliminar)
			notas.POST("/:id/entregas", notasH.RegistrarEntregas)
			notas.POST("/:id/entregar-todo", notasH.EntregarTodo)
		}

		cxc := v1.Group("/cuentas-por-cobrar")
		{
			cxc.GET("", cobranzaH.ListarCuentas)
			cxc.GET("/resumen", cobranzaH.Resumen)
			cxc.GET("/por-cliente", cobranzaH.PorCliente)
			cxc.POST("/pagos", cobranzaH.RegistrarPago)
			cxc.POST("/recordatorios", cobranzaH.EncolarRecordatorios)
			cxc.GET("/clientes/:id/pagos", cobranzaH.HistorialPagosCliente)
			cxc.GET("/clientes/:id/estado-cuenta.pdf", cobranzaH.EstadoCuentaPDF)
			cxc.GET("/:numero_factura", cobranzaH.Detalle)
		}

		cxp := v1.Group("/cuentas-por-pagar")
		{
			cxp.GET("", pagarH.ListarCuentas)
			cxp.GET("/resumen", pagarH.Resumen)
			cxp.GET("/proyeccion", pagarH.ProyeccionPagos)
			cxp.GET("/historial", pagarH.HistorialPagos)
			cxp.GET("/por-proveedor", pagarH.GastosPorProveedor)
			cxp.POST("/pagos", pagarH.RegistrarPago)

			compras := cxp.Group("/compras")
			{
				compras.POST("", pagarH.CrearCompra)
				compras.GET("", pagarH.ListarCompras)
				compras.GET("/:id", pagarH.ObtenerCompra)
				compras.PUT("/:id", pagarH.ActualizarCompra)
				compras.DELETE("/:id", pagarH.EliminarCompra)
			}
		}

		alm := v1.Group("/almacen")
		{
			alm.POST("/movimientos", inventarioH.RegistrarMovimiento)
			alm.GET("/movimientos", inventarioH.ListarMovimientos)
			alm.DELETE("/movimientos/:id", inventarioH.EliminarMovimiento)
			alm.GET("/existencias", inventarioH.Existencias)
			alm.GET("/existencias/:id", inventarioH.ExistenciaProducto)
		}

		mp := v1.Group("/materias-primas")
		{
			mp.POST("", materiasH.Crear)
			mp.GET("", materiasH.Listar)
			mp.GET("/inventario", materiasH.Inventario)
			mp.POST("/movimientos", materiasH.RegistrarMovimiento)
			mp.GET("/movimientos", materiasH.ListarMovimientos)
			mp.GET("/:id", materiasH.ObtenerPorID)
			mp.PUT("/:id", materiasH.Actualizar)
			mp.DELETE("/:id", materiasH.Eliminar)
			mp.GET("/:id/disponibilidad", materiasH.Disponibilidad)
		}

		gastos := v1.Group("/gastos")
		{
			gastos.POST("", gastosH.Crear)
			gastos.GET("", gastosH.Listar)
			gastos.GET("/resumen", gastosH.Resumen)
			gastos.GET("/por-categoria", gastosH.PorCategoria)
			gastos.GET("/:id", gastosH.ObtenerPorID)
			gastos.PUT("/:id", gastosH.Actualizar)
			gastos.DELETE("/:id", gastosH.Eliminar)
		}
	}

	// Swagger UI, outside production only
	if !cfg.EsProduccion() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

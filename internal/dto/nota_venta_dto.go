package dto

import (
	"github.com/shopspring/decimal"

	"github.com/victor-varac/AIKZ-sub001/internal/cartera"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PedidoInput struct {
	ProductoID     string          `json:"producto_id"     validate:"required,uuid"`
	Cantidad       decimal.Decimal `json:"cantidad"        validate:"required,gt=0"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
}

// CrearNotaVentaRequest registers a sale. DiasCredito defaults to the
// client's term and IVA to subtotal × TASA_IVA when omitted.
type CrearNotaVentaRequest struct {
	NumeroFactura string           `json:"numero_factura" validate:"required,max=40"`
	ClienteID     string           `json:"cliente_id"     validate:"required,uuid"`
	VendedorID    *string          `json:"vendedor_id"    validate:"omitempty,uuid"`
	Fecha         string           `json:"fecha"          validate:"required,datetime=2006-01-02"`
	DiasCredito   *int             `json:"dias_credito"   validate:"omitempty,min=0,max=365"`
	IVA           *decimal.Decimal `json:"iva"`
	Descuento     decimal.Decimal  `json:"descuento"      validate:"min=0"`
	Notas         *string          `json:"notas"`
	Pedidos       []PedidoInput    `json:"pedidos"        validate:"required,min=1,dive"`
}

type EntregaInput struct {
	PedidoID string          `json:"pedido_id" validate:"required,uuid"`
	Cantidad decimal.Decimal `json:"cantidad"  validate:"required,gt=0"`
}

type RegistrarEntregasRequest struct {
	Fecha    string         `json:"fecha"    validate:"required,datetime=2006-01-02"`
	Entregas []EntregaInput `json:"entregas" validate:"required,min=1,dive"`
}

type EntregarTodoRequest struct {
	Fecha string `json:"fecha" validate:"required,datetime=2006-01-02"`
}

type NotaVentaFilter struct {
	NumeroFactura string `form:"numero_factura"`
	ClienteID     string `form:"cliente_id"`
	VendedorID    string `form:"vendedor_id"`
	FechaDesde    string `form:"fecha_desde"`
	FechaHasta    string `form:"fecha_hasta"`
	Al            string `form:"al"`
	Paginacion
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PedidoResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Unidad         string          `json:"unidad"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Importe        decimal.Decimal `json:"importe"`
	Entregado      decimal.Decimal `json:"entregado"`
	Pendiente      decimal.Decimal `json:"pendiente"`
}

type EntregaResponse struct {
	ID         string          `json:"id"`
	PedidoID   string          `json:"pedido_id"`
	Cantidad   decimal.Decimal `json:"cantidad"`
	Fecha      string          `json:"fecha"`
	Movimiento string          `json:"movimiento_id"`
}

type NotaVentaResponse struct {
	ID            string           `json:"id"`
	NumeroFactura string           `json:"numero_factura"`
	ClienteID     string           `json:"cliente_id"`
	Cliente       string           `json:"cliente"`
	VendedorID    *string          `json:"vendedor_id"`
	Fecha         string           `json:"fecha"`
	DiasCredito   int              `json:"dias_credito"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	IVA           decimal.Decimal  `json:"iva"`
	Descuento     decimal.Decimal  `json:"descuento"`
	Notas         *string          `json:"notas"`
	Pedidos       []PedidoResponse `json:"pedidos,omitempty"`
	Pagos         []PagoResponse   `json:"pagos,omitempty"`
	cartera.Antiguedad
}

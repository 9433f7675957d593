package dto

import (
	"github.com/shopspring/decimal"

	"github.com/victor-varac/AIKZ-sub001/internal/cartera"
)

// ─── Filter ──────────────────────────────────────────────────────────────────

// CarteraFilter shapes the receivable and payable lists. Contraparte is a
// case-insensitive substring over the counterparty and contact names. Al
// overrides "today" for the whole page.
type CarteraFilter struct {
	Contraparte   string `form:"contraparte"`
	ContraparteID string `form:"contraparte_id"`
	Estado        string `form:"estado"`
	FechaDesde    string `form:"fecha_desde"`
	FechaHasta    string `form:"fecha_hasta"`
	MontoMin      string `form:"monto_min"`
	MontoMax      string `form:"monto_max"`
	SoloConSaldo  bool   `form:"solo_con_saldo"`
	Al            string `form:"al"`
	Paginacion
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// RegistrarPagoRequest identifies the invoice either by id or by its
// invoice number (quick payment).
type RegistrarPagoRequest struct {
	DocumentoID    string          `json:"documento_id"    validate:"required_without=NumeroFactura"`
	NumeroFactura  string          `json:"numero_factura"  validate:"required_without=DocumentoID"`
	Fecha          string          `json:"fecha"           validate:"required,datetime=2006-01-02"`
	Importe        decimal.Decimal `json:"importe"         validate:"required,gt=0"`
	MetodoPago     string          `json:"metodo_pago"     validate:"required,oneof=efectivo transferencia cheque tarjeta_credito tarjeta_debito deposito otro"`
	Referencia     *string         `json:"referencia"`
	ComprobanteURL *string         `json:"comprobante_url" validate:"omitempty,url"`
	Notas          *string         `json:"notas"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// CuentaResponse is one aged invoice as shown in the receivable or payable
// table.
type CuentaResponse struct {
	ID            string  `json:"id"`
	NumeroFactura string  `json:"numero_factura"`
	ContraparteID string  `json:"contraparte_id"`
	Contraparte   string  `json:"contraparte"`
	Contacto      *string `json:"contacto,omitempty"`
	Correo        *string `json:"correo,omitempty"`
	Telefono      *string `json:"telefono,omitempty"`
	Fecha         string  `json:"fecha"`
	DiasCredito   int     `json:"dias_credito"`
	cartera.Antiguedad
}

type ResumenCarteraResponse struct {
	Al string `json:"al"`
	cartera.Resumen
}

type PagoResponse struct {
	ID             string          `json:"id"`
	DocumentoID    string          `json:"documento_id"`
	NumeroFactura  string          `json:"numero_factura,omitempty"`
	Contraparte    string          `json:"contraparte,omitempty"`
	Fecha          string          `json:"fecha"`
	Importe        decimal.Decimal `json:"importe"`
	MetodoPago     string          `json:"metodo_pago"`
	Referencia     *string         `json:"referencia"`
	ComprobanteURL *string         `json:"comprobante_url"`
	Notas          *string         `json:"notas"`
}

type RegistrarPagoResponse struct {
	Pago   PagoResponse   `json:"pago"`
	Cuenta CuentaResponse `json:"cuenta"`
}

type DetalleCuentaResponse struct {
	CuentaResponse
	Pagos []PagoResponse `json:"pagos"`
}

type ProyeccionPagosResponse struct {
	Dias    int              `json:"dias"`
	Total   decimal.Decimal  `json:"total"`
	Cuentas []CuentaResponse `json:"cuentas"`
}

type GastoPorProveedor struct {
	ProveedorID   string          `json:"proveedor_id"`
	Nombre        string          `json:"nombre"`
	TotalFacturas int             `json:"total_facturas"`
	MontoTotal    decimal.Decimal `json:"monto_total"`
	Promedio      decimal.Decimal `json:"promedio"`
}

type RangoFechas struct {
	Desde string `form:"desde"`
	Hasta string `form:"hasta"`
}

type RecordatoriosResponse struct {
	Encolados int `json:"encolados"`
}

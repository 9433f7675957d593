package dto

import "github.com/shopspring/decimal"

// CrearCompraRequest registers a supplier invoice. Total is computed as
// subtotal + iva − descuento.
type CrearCompraRequest struct {
	NumeroFactura string           `json:"numero_factura" validate:"required,max=40"`
	ProveedorID   string           `json:"proveedor_id"   validate:"required,uuid"`
	Fecha         string           `json:"fecha"          validate:"required,datetime=2006-01-02"`
	DiasPago      *int             `json:"dias_pago"      validate:"omitempty,min=0,max=365"`
	Subtotal      decimal.Decimal  `json:"subtotal"       validate:"required,gt=0"`
	IVA           *decimal.Decimal `json:"iva"`
	Descuento     decimal.Decimal  `json:"descuento"      validate:"min=0"`
	Concepto      *string          `json:"concepto"`
}

type ActualizarCompraRequest struct {
	NumeroFactura *string          `json:"numero_factura" validate:"omitempty,max=40"`
	Subtotal      *decimal.Decimal `json:"subtotal"`
	IVA           *decimal.Decimal `json:"iva"`
	Descuento     *decimal.Decimal `json:"descuento"`
	Concepto      *string          `json:"concepto"`
}

type CompraResponse struct {
	ID            string          `json:"id"`
	NumeroFactura string          `json:"numero_factura"`
	ProveedorID   string          `json:"proveedor_id"`
	Proveedor     string          `json:"proveedor"`
	Fecha         string          `json:"fecha"`
	DiasPago      int             `json:"dias_pago"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	IVA           decimal.Decimal `json:"iva"`
	Descuento     decimal.Decimal `json:"descuento"`
	Concepto      *string         `json:"concepto"`
	Cuenta        CuentaResponse  `json:"cuenta"`
}

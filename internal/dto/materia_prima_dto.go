package dto

import "github.com/shopspring/decimal"

type CrearMateriaPrimaRequest struct {
	Nombre       string          `json:"nombre"        validate:"required,min=2,max=120"`
	Tipo         string          `json:"tipo"          validate:"required,oneof=resina_virgen_natural resina_virgen_color arana_bolsas pellet_reciclado celofan_rollo"`
	UnidadMedida string          `json:"unidad_medida" validate:"required,oneof=kg toneladas litros unidades"`
	StockMinimo  decimal.Decimal `json:"stock_minimo"  validate:"min=0"`
	ProveedorID  *string         `json:"proveedor_id"  validate:"omitempty,uuid"`
}

type ActualizarMateriaPrimaRequest struct {
	Nombre       *string          `json:"nombre"        validate:"omitempty,min=2,max=120"`
	UnidadMedida *string          `json:"unidad_medida" validate:"omitempty,oneof=kg toneladas litros unidades"`
	StockMinimo  *decimal.Decimal `json:"stock_minimo"`
	ProveedorID  *string          `json:"proveedor_id"  validate:"omitempty,uuid"`
	Activo       *bool            `json:"activo"`
}

type MateriaPrimaFilter struct {
	Tipo   string `form:"tipo"`
	Nombre string `form:"nombre"`
	Estado string `form:"estado"`
	Paginacion
}

type RegistrarMovimientoMPRequest struct {
	MateriaPrimaID string          `json:"materia_prima_id" validate:"required,uuid"`
	Fecha          string          `json:"fecha"            validate:"required,datetime=2006-01-02"`
	Cantidad       decimal.Decimal `json:"cantidad"         validate:"required,gt=0"`
	Movimiento     string          `json:"movimiento"       validate:"required,oneof=entrada salida"`
	Referencia     *string         `json:"referencia"`
	Notas          *string         `json:"notas"`
}

type MovimientoMPFilter struct {
	MateriaPrimaID string `form:"materia_prima_id"`
	Tipo           string `form:"tipo"`
	Movimiento     string `form:"movimiento"`
	FechaDesde     string `form:"fecha_desde"`
	FechaHasta     string `form:"fecha_hasta"`
	Paginacion
}

type MateriaPrimaResponse struct {
	ID           string          `json:"id"`
	Nombre       string          `json:"nombre"`
	Tipo         string          `json:"tipo"`
	UnidadMedida string          `json:"unidad_medida"`
	StockMinimo  decimal.Decimal `json:"stock_minimo"`
	ProveedorID  *string         `json:"proveedor_id"`
	Activo       bool            `json:"activo"`
}

type MovimientoMPResponse struct {
	ID             string          `json:"id"`
	MateriaPrimaID string          `json:"materia_prima_id"`
	MateriaPrima   string          `json:"materia_prima"`
	Fecha          string          `json:"fecha"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	UnidadMedida   string          `json:"unidad_medida"`
	Movimiento     string          `json:"movimiento"`
	Referencia     *string         `json:"referencia"`
	Notas          *string         `json:"notas"`
}

type InventarioMPItem struct {
	MateriaPrimaResponse
	Existencia  decimal.Decimal `json:"existencia"`
	EstadoStock string          `json:"estado_stock"`
}

type DisponibilidadResponse struct {
	Disponible bool            `json:"disponible"`
	Existencia decimal.Decimal `json:"existencia"`
	Solicitado decimal.Decimal `json:"solicitado"`
	Faltante   decimal.Decimal `json:"faltante"`
}

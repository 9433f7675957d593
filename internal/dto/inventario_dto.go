package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarMovimientoRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Fecha      string          `json:"fecha"       validate:"required,datetime=2006-01-02"`
	Cantidad   decimal.Decimal `json:"cantidad"    validate:"required,gt=0"`
	Movimiento string          `json:"movimiento"  validate:"required,oneof=entrada salida"`
	Referencia *string         `json:"referencia"`
	Notas      *string         `json:"notas"`
}

type MovimientoFilter struct {
	ProductoID string `form:"producto_id"`
	Material   string `form:"material"`
	Movimiento string `form:"movimiento"`
	FechaDesde string `form:"fecha_desde"`
	FechaHasta string `form:"fecha_hasta"`
	Paginacion
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimientoResponse struct {
	ID         string          `json:"id"`
	ProductoID string          `json:"producto_id"`
	Producto   string          `json:"producto"`
	Material   string          `json:"material"`
	Fecha      string          `json:"fecha"`
	Cantidad   decimal.Decimal `json:"cantidad"`
	Unidad     string          `json:"unidad"`
	Movimiento string          `json:"movimiento"`
	EntregaID  *string         `json:"entrega_id"`
	Referencia *string         `json:"referencia"`
	Notas      *string         `json:"notas"`
}

type ExistenciaResponse struct {
	ProductoID   string          `json:"producto_id"`
	Nombre       string          `json:"nombre"`
	Material     string          `json:"material"`
	Presentacion string          `json:"presentacion"`
	Tipo         string          `json:"tipo"`
	Existencia   decimal.Decimal `json:"existencia"`
	Unidad       string          `json:"unidad"`
}

package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearProductoRequest leaves Nombre optional: when blank it is generated
// from the other attributes.
type CrearProductoRequest struct {
	Material     string           `json:"material"     validate:"required,oneof=celofan polietileno"`
	Presentacion string           `json:"presentacion" validate:"required"`
	Tipo         string           `json:"tipo"         validate:"required"`
	AnchoCm      *decimal.Decimal `json:"ancho_cm"`
	LargoCm      *decimal.Decimal `json:"largo_cm"`
	MicrajeUm    *decimal.Decimal `json:"micraje_um"`
	Nombre       string           `json:"nombre"       validate:"omitempty,max=150"`
}

type ActualizarProductoRequest struct {
	Presentacion *string          `json:"presentacion"`
	Tipo         *string          `json:"tipo"`
	AnchoCm      *decimal.Decimal `json:"ancho_cm"`
	LargoCm      *decimal.Decimal `json:"largo_cm"`
	MicrajeUm    *decimal.Decimal `json:"micraje_um"`
	Nombre       *string          `json:"nombre"       validate:"omitempty,max=150"`
	Activo       *bool            `json:"activo"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Material     string `form:"material"`
	Presentacion string `form:"presentacion"`
	Tipo         string `form:"tipo"`
	Nombre       string `form:"nombre"`
	AnchoCm      string `form:"ancho_cm"`
	LargoCm      string `form:"largo_cm"`
	MicrajeUm    string `form:"micraje_um"`
	Estado       string `form:"estado"`
	Paginacion
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID           string           `json:"id"`
	Material     string           `json:"material"`
	Presentacion string           `json:"presentacion"`
	Tipo         string           `json:"tipo"`
	AnchoCm      *decimal.Decimal `json:"ancho_cm"`
	LargoCm      *decimal.Decimal `json:"largo_cm"`
	MicrajeUm    *decimal.Decimal `json:"micraje_um"`
	Nombre       string           `json:"nombre"`
	Unidad       string           `json:"unidad"`
	Activo       bool             `json:"activo"`
}

type CatalogoResponse struct {
	Material       string              `json:"material"`
	Presentaciones map[string][]string `json:"presentaciones"`
}

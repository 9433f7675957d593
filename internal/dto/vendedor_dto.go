package dto

import "github.com/shopspring/decimal"

type CrearVendedorRequest struct {
	Nombre      string          `json:"nombre"       validate:"required,min=2,max=120"`
	Correo      *string         `json:"correo"       validate:"omitempty,email"`
	Telefono    *string         `json:"telefono"`
	ComisionPct decimal.Decimal `json:"comision_pct" validate:"min=0,max=100"`
}

type VendedorFilter struct {
	Nombre string `form:"nombre"`
	Estado string `form:"estado"`
	Paginacion
}

type VendedorResponse struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	Correo      *string         `json:"correo"`
	Telefono    *string         `json:"telefono"`
	ComisionPct decimal.Decimal `json:"comision_pct"`
	Activo      bool            `json:"activo"`
}

type RankingVendedor struct {
	VendedorID   string          `json:"vendedor_id"`
	Nombre       string          `json:"nombre"`
	Notas        int             `json:"notas"`
	TotalVendido decimal.Decimal `json:"total_vendido"`
	Comision     decimal.Decimal `json:"comision"`
}

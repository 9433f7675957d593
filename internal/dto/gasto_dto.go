package dto

import "github.com/shopspring/decimal"

type CrearGastoRequest struct {
	Fecha     string          `json:"fecha"     validate:"required,datetime=2006-01-02"`
	Concepto  string          `json:"concepto"  validate:"required,min=2,max=200"`
	Importe   decimal.Decimal `json:"importe"   validate:"required,gt=0"`
	Categoria string          `json:"categoria" validate:"max=60"`
}

type GastoFilter struct {
	Desde     string `form:"desde"`
	Hasta     string `form:"hasta"`
	Categoria string `form:"categoria"`
	Concepto  string `form:"concepto"`
	Paginacion
}

type GastoResponse struct {
	ID        string          `json:"id"`
	Fecha     string          `json:"fecha"`
	Concepto  string          `json:"concepto"`
	Importe   decimal.Decimal `json:"importe"`
	Categoria string          `json:"categoria"`
	CompraID  *string         `json:"compra_id,omitempty"`
}

type ResumenGastosResponse struct {
	Total        decimal.Decimal            `json:"total"`
	PorCategoria map[string]decimal.Decimal `json:"por_categoria"`
	Registros    int                        `json:"registros"`
}

type GastoPorCategoria struct {
	Categoria  string          `json:"categoria"`
	Total      decimal.Decimal `json:"total"`
	Registros  int             `json:"registros"`
	Porcentaje decimal.Decimal `json:"porcentaje"`
}

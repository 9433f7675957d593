package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearClienteRequest struct {
	Empresa        string  `json:"empresa"         validate:"required,min=2,max=150"`
	NombreContacto *string `json:"nombre_contacto"`
	Correo         *string `json:"correo"          validate:"omitempty,email"`
	Telefono       *string `json:"telefono"`
	Direccion      *string `json:"direccion"`
	DiasCredito    int     `json:"dias_credito"    validate:"min=0,max=365"`
	VendedorID     *string `json:"vendedor_id"     validate:"omitempty,uuid"`
}

type ActualizarClienteRequest struct {
	Empresa        *string `json:"empresa"         validate:"omitempty,min=2,max=150"`
	NombreContacto *string `json:"nombre_contacto"`
	Correo         *string `json:"correo"          validate:"omitempty,email"`
	Telefono       *string `json:"telefono"`
	Direccion      *string `json:"direccion"`
	DiasCredito    *int    `json:"dias_credito"    validate:"omitempty,min=0,max=365"`
	VendedorID     *string `json:"vendedor_id"     validate:"omitempty,uuid"`
	Activo         *bool   `json:"activo"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type ClienteFilter struct {
	Empresa        string `form:"empresa"`
	NombreContacto string `form:"nombre_contacto"`
	Correo         string `form:"correo"`
	Telefono       string `form:"telefono"`
	VendedorID     string `form:"vendedor_id"`
	Estado         string `form:"estado"` // activo | inactivo
	DiasCreditoMin *int   `form:"dias_credito_min"`
	DiasCreditoMax *int   `form:"dias_credito_max"`
	Paginacion
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClienteResponse struct {
	ID             string  `json:"id"`
	Empresa        string  `json:"empresa"`
	NombreContacto *string `json:"nombre_contacto"`
	Correo         *string `json:"correo"`
	Telefono       *string `json:"telefono"`
	Direccion      *string `json:"direccion"`
	DiasCredito    int     `json:"dias_credito"`
	Activo         bool    `json:"activo"`
	VendedorID     *string `json:"vendedor_id"`
	VendedorNombre *string `json:"vendedor_nombre,omitempty"`
}

type EstadisticasCliente struct {
	TotalFacturado   decimal.Decimal `json:"total_facturado"`
	TotalPagado      decimal.Decimal `json:"total_pagado"`
	Saldo            decimal.Decimal `json:"saldo"`
	FacturasTotales  int             `json:"facturas_totales"`
	FacturasVencidas int             `json:"facturas_vencidas"`
	SaldoVencido     decimal.Decimal `json:"saldo_vencido"`
}

type ClienteDetalleResponse struct {
	ClienteResponse
	Estadisticas EstadisticasCliente `json:"estadisticas"`
}

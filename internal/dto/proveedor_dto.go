package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProveedorRequest struct {
	Nombre    string  `json:"nombre"    validate:"required,min=2,max=150"`
	Contacto  *string `json:"contacto"`
	Correo    *string `json:"correo"    validate:"omitempty,email"`
	Telefono  *string `json:"telefono"`
	Direccion *string `json:"direccion"`
	DiasPago  int     `json:"dias_pago" validate:"min=0,max=365"`
}

type ProveedorFilter struct {
	Nombre string `form:"nombre"`
	Estado string `form:"estado"`
	Paginacion
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProveedorResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	Contacto  *string `json:"contacto"`
	Correo    *string `json:"correo"`
	Telefono  *string `json:"telefono"`
	Direccion *string `json:"direccion"`
	DiasPago  int     `json:"dias_pago"`
	Activo    bool    `json:"activo"`
}

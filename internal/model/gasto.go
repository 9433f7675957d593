package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const CategoriaSinCategoria = "Sin categoría"

// CategoriaPagoProveedores is assigned to the expense created when a
// supplier invoice is paid.
const CategoriaPagoProveedores = "Pago a Proveedores"

// Gasto is an operating expense.
type Gasto struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Fecha     time.Time       `gorm:"type:date;not null;index"`
	Concepto  string          `gorm:"not null"`
	Importe   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Categoria string          `gorm:"not null;index"`
	CompraID  *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (g *Gasto) BeforeCreate(*gorm.DB) error { asignarID(&g.ID); return nil }

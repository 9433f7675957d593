package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Vendedor is a salesperson; clients and sales notes may be assigned to one.
type Vendedor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre      string    `gorm:"not null;index"`
	Correo      *string
	Telefono    *string
	ComisionPct decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Vendedor) TableName() string { return "vendedores" }

func (v *Vendedor) BeforeCreate(*gorm.DB) error { asignarID(&v.ID); return nil }

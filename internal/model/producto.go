package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Producto is a catalog item. Presentacion and Tipo are constrained by
// Material (see service.ValidarCatalogo). Stock is never stored here; it is
// folded from movimientos_almacen.
type Producto struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Material     string           `gorm:"type:varchar(20);not null;index"`
	Presentacion string           `gorm:"type:varchar(20);not null"`
	Tipo         string           `gorm:"type:varchar(30);not null"`
	AnchoCm      *decimal.Decimal `gorm:"type:decimal(8,2)"`
	LargoCm      *decimal.Decimal `gorm:"type:decimal(8,2)"`
	MicrajeUm    *decimal.Decimal `gorm:"type:decimal(8,2)"`
	Nombre       string           `gorm:"not null;index"`
	Activo       bool             `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p *Producto) BeforeCreate(*gorm.DB) error { asignarID(&p.ID); return nil }

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MovimientoStock is an append-only finished-goods ledger row. Cantidad is
// always positive; Movimiento carries the sign ("entrada" | "salida").
// Salidas created by a delivery point back to it through EntregaID.
type MovimientoStock struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Material   string          `gorm:"type:varchar(20);not null;index"`
	Fecha      time.Time       `gorm:"type:date;not null"`
	Cantidad   decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Movimiento string          `gorm:"type:varchar(10);not null"`
	EntregaID  *uuid.UUID      `gorm:"type:uuid;index"`
	Referencia *string
	Notas      *string
	CreatedAt  time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_almacen).
func (MovimientoStock) TableName() string { return "movimientos_almacen" }

func (m *MovimientoStock) BeforeCreate(*gorm.DB) error { asignarID(&m.ID); return nil }

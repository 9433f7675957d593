package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Proveedor is a supplier of raw material or services. DiasPago is the
// credit term it grants on purchases.
type Proveedor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre    string    `gorm:"not null;index"`
	Contacto  *string
	Correo    *string
	Telefono  *string
	Direccion *string
	DiasPago  int  `gorm:"not null;default:0"`
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Compras []Compra `gorm:"foreignKey:ProveedorID"`
}

func (Proveedor) TableName() string { return "proveedores" }

func (p *Proveedor) BeforeCreate(*gorm.DB) error { asignarID(&p.ID); return nil }

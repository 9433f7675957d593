package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cliente is a customer company. DiasCredito is the default credit term
// copied onto every new sales note.
type Cliente struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Empresa        string    `gorm:"not null;index"`
	NombreContacto *string
	Correo         *string
	Telefono       *string
	Direccion      *string
	DiasCredito    int        `gorm:"not null;default:0"`
	Activo         bool       `gorm:"not null;default:true"`
	VendedorID     *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Vendedor *Vendedor `gorm:"foreignKey:VendedorID"`
}

func (c *Cliente) BeforeCreate(*gorm.DB) error { asignarID(&c.ID); return nil }

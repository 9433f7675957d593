package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MateriaPrima is a raw material used by the polyethylene line.
type MateriaPrima struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Nombre       string          `gorm:"not null;index"`
	Tipo         string          `gorm:"type:varchar(30);not null;index"`
	UnidadMedida string          `gorm:"type:varchar(15);not null"`
	StockMinimo  decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	ProveedorID  *uuid.UUID      `gorm:"type:uuid;index"`
	Activo       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
}

func (MateriaPrima) TableName() string { return "materias_primas" }

func (m *MateriaPrima) BeforeCreate(*gorm.DB) error { asignarID(&m.ID); return nil }

// MovimientoMateriaPrima is the raw-material counterpart of MovimientoStock.
type MovimientoMateriaPrima struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	MateriaPrimaID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Fecha          time.Time       `gorm:"type:date;not null"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Movimiento     string          `gorm:"type:varchar(10);not null"`
	Referencia     *string
	Notas          *string
	CreatedAt      time.Time

	MateriaPrima *MateriaPrima `gorm:"foreignKey:MateriaPrimaID"`
}

func (MovimientoMateriaPrima) TableName() string { return "movimientos_materia_prima" }

func (m *MovimientoMateriaPrima) BeforeCreate(*gorm.DB) error { asignarID(&m.ID); return nil }

// TiposMateriaPrima lists the accepted raw-material kinds.
var TiposMateriaPrima = []string{
	"resina_virgen_natural", "resina_virgen_color", "arana_bolsas", "pellet_reciclado", "celofan_rollo",
}

var UnidadesMedida = []string{"kg", "toneladas", "litros", "unidades"}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Compra is a payable invoice from a Proveedor.
type Compra struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	NumeroFactura    string          `gorm:"not null;uniqueIndex:idx_compra_proveedor_factura"`
	ProveedorID      uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_compra_proveedor_factura"`
	Fecha            time.Time       `gorm:"type:date;not null"`
	DiasPago         int             `gorm:"not null;default:0"`
	FechaVencimiento time.Time       `gorm:"type:date;not null;index"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IVA              decimal.Decimal `gorm:"column:iva;type:decimal(12,2);not null"`
	Descuento        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Concepto         *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Proveedor *Proveedor   `gorm:"foreignKey:ProveedorID"`
	Pagos     []PagoCompra `gorm:"foreignKey:CompraID"`
}

func (c *Compra) BeforeCreate(*gorm.DB) error { asignarID(&c.ID); return nil }

// PagoCompra is a payment made to a supplier against a Compra.
type PagoCompra struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompraID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Fecha          time.Time       `gorm:"type:date;not null"`
	Importe        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago     string          `gorm:"type:varchar(20);not null"`
	Referencia     *string
	ComprobanteURL *string
	Notas          *string
	CreatedAt      time.Time

	Compra *Compra `gorm:"foreignKey:CompraID"`
}

func (PagoCompra) TableName() string { return "pagos_compra" }

func (p *PagoCompra) BeforeCreate(*gorm.DB) error { asignarID(&p.ID); return nil }

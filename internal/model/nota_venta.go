package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NotaVenta is a receivable invoice. FechaVencimiento is written once at
// creation from Fecha + DiasCredito; both are immutable afterwards, so the
// stored value never drifts. Balance and status are always derived.
type NotaVenta struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	NumeroFactura    string          `gorm:"uniqueIndex;not null"`
	ClienteID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	VendedorID       *uuid.UUID      `gorm:"type:uuid;index"`
	Fecha            time.Time       `gorm:"type:date;not null"`
	DiasCredito      int             `gorm:"not null;default:0"`
	FechaVencimiento time.Time       `gorm:"type:date;not null;index"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IVA              decimal.Decimal `gorm:"column:iva;type:decimal(12,2);not null"`
	Descuento        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notas            *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Cliente  *Cliente  `gorm:"foreignKey:ClienteID"`
	Vendedor *Vendedor `gorm:"foreignKey:VendedorID"`
	Pedidos  []Pedido  `gorm:"foreignKey:NotaVentaID"`
	Pagos    []Pago    `gorm:"foreignKey:NotaVentaID"`
}

func (NotaVenta) TableName() string { return "notas_venta" }

func (n *NotaVenta) BeforeCreate(*gorm.DB) error { asignarID(&n.ID); return nil }

// Pedido is one product line of a sales note.
type Pedido struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	NotaVentaID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Importe        decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Entregas []Entrega `gorm:"foreignKey:PedidoID"`
}

func (p *Pedido) BeforeCreate(*gorm.DB) error { asignarID(&p.ID); return nil }

// Entrega records a (possibly partial) delivery of a Pedido.
type Entrega struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PedidoID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad  decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Fecha     time.Time       `gorm:"type:date;not null"`
	CreatedAt time.Time
}

func (e *Entrega) BeforeCreate(*gorm.DB) error { asignarID(&e.ID); return nil }

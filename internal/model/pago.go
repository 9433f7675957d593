package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MetodosPago lists the accepted payment methods for both ledgers.
var MetodosPago = []string{
	"efectivo", "transferencia", "cheque", "tarjeta_credito", "tarjeta_debito", "deposito", "otro",
}

// Pago is a customer payment against a NotaVenta. Rows are append-only.
type Pago struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	NotaVentaID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Fecha          time.Time       `gorm:"type:date;not null"`
	Importe        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago     string          `gorm:"type:varchar(20);not null"`
	Referencia     *string
	ComprobanteURL *string
	Notas          *string
	CreatedAt      time.Time

	NotaVenta *NotaVenta `gorm:"foreignKey:NotaVentaID"`
}

func (p *Pago) BeforeCreate(*gorm.DB) error { asignarID(&p.ID); return nil }

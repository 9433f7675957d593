package cartera

import (
	"time"

	"github.com/shopspring/decimal"
)

const dia = 24 * time.Hour

// Documento is the immutable part of an invoice needed to age it.
type Documento struct {
	Total       decimal.Decimal
	Fecha       time.Time
	DiasCredito int
}

// Abono is a single payment applied to a Documento.
type Abono struct {
	Importe decimal.Decimal
	Fecha   time.Time
}

// Antiguedad holds the fields derived from a Documento and its Abonos at a
// given reference date.
type Antiguedad struct {
	Total            decimal.Decimal `json:"total"`
	TotalPagado      decimal.Decimal `json:"total_pagado"`
	Saldo            decimal.Decimal `json:"saldo"`
	FechaVencimiento time.Time       `json:"fecha_vencimiento"`
	DiasVencido      int             `json:"dias_vencido"`
	DiasRestantes    int             `json:"dias_restantes"`
	Estado           Estado          `json:"estado"`
}

// Dia truncates t to its calendar date, expressed as midnight UTC.
func Dia(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FechaVencimiento returns the due date of a document issued on fecha with
// the given credit term. Negative terms count as zero.
func FechaVencimiento(fecha time.Time, diasCredito int) time.Time {
	if diasCredito < 0 {
		diasCredito = 0
	}
	return Dia(fecha).AddDate(0, 0, diasCredito)
}

// Calcular ages doc against al. Payments are summed as-is: an overpaid
// document ends with a negative Saldo and is reported as Pagada.
func Calcular(doc Documento, abonos []Abono, al time.Time) Antiguedad {
	pagado := decimal.Zero
	for _, a := range abonos {
		pagado = pagado.Add(a.Importe)
	}
	saldo := doc.Total.Sub(pagado)
	vence := FechaVencimiento(doc.Fecha, doc.DiasCredito)
	hoy := Dia(al)

	// Both operands are UTC midnights, so the division is exact.
	dias := int(hoy.Sub(vence) / dia)

	a := Antiguedad{
		Total:            doc.Total,
		TotalPagado:      pagado,
		Saldo:            saldo,
		FechaVencimiento: vence,
	}
	if dias > 0 {
		a.DiasVencido = dias
	} else {
		a.DiasRestantes = -dias
	}

	switch {
	case !saldo.IsPositive():
		a.Estado = Pagada
	case hoy.After(vence):
		a.Estado = Vencida
	default:
		a.Estado = Vigente
	}
	return a
}

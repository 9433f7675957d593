package cartera

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func fecha(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── Calcular ──────────────────────────────────────────────────────────────────

func TestCalcular_PagoParcial_AntesDelVencimiento(t *testing.T) {
	doc := Documento{Total: dec("15000.00"), Fecha: fecha("2024-01-15"), DiasCredito: 30}
	abonos := []Abono{{Importe: dec("5000.00"), Fecha: fecha("2024-01-20")}}

	a := Calcular(doc, abonos, fecha("2024-02-01"))

	assert.Equal(t, fecha("2024-02-14"), a.FechaVencimiento)
	assert.True(t, a.TotalPagado.Equal(dec("5000")))
	assert.True(t, a.Saldo.Equal(dec("10000")))
	assert.Equal(t, Vigente, a.Estado)
	assert.Equal(t, 0, a.DiasVencido)
	assert.Equal(t, 13, a.DiasRestantes)
}

func TestCalcular_PagoParcial_DespuesDelVencimiento(t *testing.T) {
	doc := Documento{Total: dec("15000.00"), Fecha: fecha("2024-01-15"), DiasCredito: 30}
	abonos := []Abono{{Importe: dec("5000.00"), Fecha: fecha("2024-01-20")}}

	a := Calcular(doc, abonos, fecha("2024-02-20"))

	assert.Equal(t, Vencida, a.Estado)
	assert.Equal(t, 6, a.DiasVencido)
	assert.Equal(t, 0, a.DiasRestantes)
}

func TestCalcular_PagadaSinImportarFecha(t *testing.T) {
	doc := Documento{Total: dec("25000.00"), Fecha: fecha("2024-01-10"), DiasCredito: 15}
	abonos := []Abono{
		{Importe: dec("20000.00"), Fecha: fecha("2024-01-20")},
		{Importe: dec("5000.00"), Fecha: fecha("2024-01-20")},
	}

	for _, al := range []string{"2024-01-12", "2024-01-25", "2024-06-30"} {
		a := Calcular(doc, abonos, fecha(al))
		assert.Equal(t, fecha("2024-01-25"), a.FechaVencimiento)
		assert.True(t, a.Saldo.IsZero(), al)
		assert.Equal(t, Pagada, a.Estado, al)
	}
}

func TestCalcular_ElDiaDelVencimientoSigueVigente(t *testing.T) {
	doc := Documento{Total: dec("100"), Fecha: fecha("2024-03-01"), DiasCredito: 10}

	a := Calcular(doc, nil, fecha("2024-03-11"))
	assert.Equal(t, Vigente, a.Estado)
	assert.Equal(t, 0, a.DiasVencido)

	a = Calcular(doc, nil, fecha("2024-03-12"))
	assert.Equal(t, Vencida, a.Estado)
	assert.Equal(t, 1, a.DiasVencido)
}

func TestCalcular_SobrepagoDejaSaldoNegativo(t *testing.T) {
	doc := Documento{Total: dec("1000"), Fecha: fecha("2024-01-01"), DiasCredito: 0}
	a := Calcular(doc, []Abono{{Importe: dec("1200")}}, fecha("2024-02-01"))

	assert.True(t, a.Saldo.Equal(dec("-200")))
	assert.Equal(t, Pagada, a.Estado)
}

func TestCalcular_SinAbonosYCreditoNegativo(t *testing.T) {
	doc := Documento{Total: dec("500"), Fecha: fecha("2024-05-10"), DiasCredito: -4}
	a := Calcular(doc, nil, fecha("2024-05-10"))

	assert.Equal(t, fecha("2024-05-10"), a.FechaVencimiento)
	assert.True(t, a.TotalPagado.IsZero())
	assert.True(t, a.Saldo.Equal(dec("500")))
	assert.Equal(t, Vigente, a.Estado)
}

func TestCalcular_IgnoraLaHoraDelDia(t *testing.T) {
	doc := Documento{Total: dec("10"), Fecha: time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC), DiasCredito: 1}
	a := Calcular(doc, nil, time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC))
	assert.Equal(t, Vigente, a.Estado)
}

func TestCalcular_SaldoSiempreEsTotalMenosPagos(t *testing.T) {
	doc := Documento{Total: dec("9999.99"), Fecha: fecha("2024-01-01"), DiasCredito: 30}
	var abonos []Abono
	for i := 0; i < 12; i++ {
		abonos = append(abonos, Abono{Importe: dec("833.33")})
		a := Calcular(doc, abonos, fecha("2024-01-15"))

		suma := decimal.Zero
		for _, ab := range abonos {
			suma = suma.Add(ab.Importe)
		}
		assert.True(t, a.Saldo.Equal(doc.Total.Sub(suma)))
		if a.Saldo.IsPositive() {
			assert.NotEqual(t, Pagada, a.Estado)
		} else {
			assert.Equal(t, Pagada, a.Estado)
		}
	}
}

func TestEstado_Valido(t *testing.T) {
	assert.True(t, Vigente.Valido())
	assert.True(t, Vencida.Valido())
	assert.True(t, Pagada.Valido())
	assert.False(t, Estado("CURRENT").Valido())
	assert.False(t, Estado("").Valido())
}

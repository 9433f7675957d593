package infra_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victor-varac/AIKZ-sub001/internal/infra"
)

func TestFormatoMXN(t *testing.T) {
	casos := map[string]string{
		"12345.6":   "$12,345.60",
		"0":         "$0.00",
		"300.005":   "$300.01",
		"-1000":     "-$1,000.00",
		"1234567.8": "$1,234,567.80",
	}
	for entrada, esperado := range casos {
		assert.Equal(t, esperado, infra.FormatoMXN(decimal.RequireFromString(entrada)), entrada)
	}
}

func TestFormatoCantidad(t *testing.T) {
	assert.Equal(t, "1,234.5 kg", infra.FormatoCantidad(decimal.RequireFromString("1234.5"), "kg"))
	assert.Equal(t, "12 millares", infra.FormatoCantidad(decimal.RequireFromString("12"), "millares"))
}

func TestEstadoCuentaPDF(t *testing.T) {
	al := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	ec := infra.EstadoCuenta{
		Empresa: "AIKZ",
		Cliente: "Dulces Roma",
		Correo:  "compras@dulcesroma.mx",
		Al:      al,
		Filas: []infra.FilaEstadoCuenta{{
			NumeroFactura:    "NV-1",
			Fecha:            al.AddDate(0, 0, -60),
			FechaVencimiento: al.AddDate(0, 0, -30),
			Total:            decimal.RequireFromString("500"),
			Pagado:           decimal.RequireFromString("200"),
			Saldo:            decimal.RequireFromString("300"),
			Estado:           "VENCIDA",
			DiasVencido:      30,
		}},
		TotalSaldo:   decimal.RequireFromString("300"),
		TotalVencido: decimal.RequireFromString("300"),
	}

	contenido, err := infra.GenerarEstadoCuentaPDF(ec)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(contenido, []byte("%PDF")))

	dir := filepath.Join(t.TempDir(), "estados")
	ruta, err := infra.GuardarPDF(dir, "NV-1.pdf", contenido)
	require.NoError(t, err)
	guardado, err := os.ReadFile(ruta)
	require.NoError(t, err)
	assert.Equal(t, contenido, guardado)
}

func TestMailer_SinHostNoEnvia(t *testing.T) {
	var m *infra.Mailer
	assert.False(t, m.Configurado())
	assert.Error(t, m.Enviar("a@b.mx", "x", "y"))
}

package infra

// pdf.go: customer statement (estado de cuenta) using go-pdf/fpdf.
// Letter-size page with:
//   - Company header and statement date
//   - Customer block
//   - One row per open invoice (número, fecha, vencimiento, total, pagado,
//     saldo, estado, días vencido)
//   - Totals: saldo pendiente and saldo vencido

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// FilaEstadoCuenta is one invoice line of the statement.
type FilaEstadoCuenta struct {
	NumeroFactura    string
	Fecha            time.Time
	FechaVencimiento time.Time
	Total            decimal.Decimal
	Pagado           decimal.Decimal
	Saldo            decimal.Decimal
	Estado           string
	DiasVencido      int
}

// EstadoCuenta is everything the statement prints.
type EstadoCuenta struct {
	Empresa      string
	Cliente      string
	Contacto     string
	Correo       string
	Al           time.Time
	Filas        []FilaEstadoCuenta
	TotalSaldo   decimal.Decimal
	TotalVencido decimal.Decimal
}

// EscribirEstadoCuentaPDF renders the statement into w.
func EscribirEstadoCuentaPDF(w io.Writer, ec EstadoCuenta) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(contentW, 8, tr(ec.Empresa), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, tr("Estado de cuenta al "+ec.Al.Format("02/01/2006")), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Customer ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, tr(ec.Cliente), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if ec.Contacto != "" {
		pdf.CellFormat(contentW, 5, tr("Atención: "+ec.Contacto), "", 1, "L", false, 0, "")
	}
	if ec.Correo != "" {
		pdf.CellFormat(contentW, 5, tr(ec.Correo), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// ── Invoice table ─────────────────────────────────────────────────────────
	cols := []struct {
		titulo string
		ancho  float64
		alinea string
	}{
		{"Factura", 0.14, "L"},
		{"Fecha", 0.11, "C"},
		{"Vence", 0.11, "C"},
		{"Total", 0.14, "R"},
		{"Pagado", 0.14, "R"},
		{"Saldo", 0.14, "R"},
		{"Estado", 0.12, "C"},
		{"Días", 0.10, "R"},
	}
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, c := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		pdf.CellFormat(contentW*c.ancho, 6, tr(c.titulo), "B", ln, c.alinea, true, 0, "")
	}

	pdf.SetFont("Helvetica", "", 8)
	for _, f := range ec.Filas {
		valores := []string{
			f.NumeroFactura,
			f.Fecha.Format("02/01/2006"),
			f.FechaVencimiento.Format("02/01/2006"),
			FormatoMXN(f.Total),
			FormatoMXN(f.Pagado),
			FormatoMXN(f.Saldo),
			f.Estado,
			fmt.Sprintf("%d", f.DiasVencido),
		}
		for i, c := range cols {
			ln := 0
			if i == len(cols)-1 {
				ln = 1
			}
			pdf.CellFormat(contentW*c.ancho, 5, tr(valores[i]), "", ln, c.alinea, false, 0, "")
		}
	}
	if len(ec.Filas) == 0 {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(contentW, 6, "Sin saldos pendientes", "", 1, "C", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	etiqueta := contentW * 0.70
	monto := contentW * 0.30
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(etiqueta, 6, "Saldo vencido:", "", 0, "R", false, 0, "")
	pdf.CellFormat(monto, 6, FormatoMXN(ec.TotalVencido), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(etiqueta, 7, "SALDO TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(monto, 7, FormatoMXN(ec.TotalSaldo), "", 1, "R", false, 0, "")

	return pdf.Output(w)
}

// GenerarEstadoCuentaPDF renders the statement in memory.
func GenerarEstadoCuentaPDF(ec EstadoCuenta) ([]byte, error) {
	var buf bytes.Buffer
	if err := EscribirEstadoCuentaPDF(&buf, ec); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// GuardarPDF writes content to storagePath/fileName (the directory is created
// if needed) and returns the full path.
func GuardarPDF(storagePath, fileName string, content []byte) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fileName)
	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

package repository

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/victor-varac/AIKZ-sub001/internal/cartera"
	"github.com/victor-varac/AIKZ-sub001/internal/dto"
)

// ── Query shaping shared by every list ────────────────────────────────────────
// Filters combine with AND; empty values add no condition. Substring matches
// are case-insensitive and portable between Postgres and sqlite.

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// contiene builds the LIKE pattern for a case-insensitive substring match.
func contiene(s string) string {
	return "%" + strings.ToLower(likeEscaper.Replace(strings.TrimSpace(s))) + "%"
}

func ilike(col string) string {
	return "LOWER(" + col + `) LIKE ? ESCAPE '\'`
}

// algunoContiene matches s against any of cols.
func algunoContiene(q *gorm.DB, s string, cols ...string) *gorm.DB {
	if strings.TrimSpace(s) == "" {
		return q
	}
	conds := make([]string, len(cols))
	args := make([]interface{}, len(cols))
	p := contiene(s)
	for i, c := range cols {
		conds[i] = ilike(c)
		args[i] = p
	}
	return q.Where("("+strings.Join(conds, " OR ")+")", args...)
}

// filtrarActivo maps the estado query param: "inactivo" lists inactive rows,
// "todos" lists every row, anything else lists active rows only.
func filtrarActivo(q *gorm.DB, col, estado string) *gorm.DB {
	switch estado {
	case "inactivo":
		return q.Where(col+" = ?", false)
	case "todos":
		return q
	default:
		return q.Where(col+" = ?", true)
	}
}

func rangoFechas(q *gorm.DB, col string, desde, hasta *time.Time) *gorm.DB {
	if desde != nil {
		q = q.Where(col+" >= ?", *desde)
	}
	if hasta != nil {
		q = q.Where(col+" <= ?", *hasta)
	}
	return q
}

func paginar(q *gorm.DB, p dto.Paginacion) *gorm.DB {
	p = p.Normalizada()
	return q.Offset(p.Offset).Limit(p.Limit)
}

// FilaDia is the sum of one amount column over the rows of one date.
type FilaDia struct {
	Fecha time.Time
	Total decimal.Decimal
}

// totalesPorDia groups q by its date column between desde and hasta, oldest
// first. Grouping by the raw date keeps the query portable; callers bucket
// the days into months.
func totalesPorDia(q *gorm.DB, fecha, importe string, desde, hasta time.Time) ([]FilaDia, error) {
	var filas []FilaDia
	err := q.Select(fecha+" AS fecha, COALESCE(SUM("+importe+"), 0) AS total").
		Where(fecha+" >= ? AND "+fecha+" <= ?", desde, hasta).
		Group(fecha).
		Order(fecha + " ASC").
		Scan(&filas).Error
	return filas, err
}

// ── Aging ledgers ─────────────────────────────────────────────────────────────

// FiltroCartera is the parsed form of dto.CarteraFilter.
type FiltroCartera struct {
	Contraparte   string
	ContraparteID *uuid.UUID
	Estado        cartera.Estado
	FechaDesde    *time.Time
	FechaHasta    *time.Time
	MontoMin      *decimal.Decimal
	MontoMax      *decimal.Decimal
	SoloConSaldo  bool
	Al            time.Time
	Pagina        dto.Paginacion
}

// libro describes one invoice ledger (receivable or payable) so that both
// share the same filter semantics. saldo is a SQL expression equal to
// total − Σ payments, the same figure cartera.Calcular derives in Go.
type libro struct {
	tabla    string
	saldo    string
	join     string
	fk       string
	busqueda []string
}

var libroCobrar = libro{
	tabla:    "notas_venta",
	saldo:    "(notas_venta.total - COALESCE((SELECT SUM(pagos.importe) FROM pagos WHERE pagos.nota_venta_id = notas_venta.id), 0))",
	join:     "JOIN clientes ON clientes.id = notas_venta.cliente_id",
	fk:       "notas_venta.cliente_id",
	busqueda: []string{"clientes.empresa", "clientes.nombre_contacto"},
}

var libroPagar = libro{
	tabla:    "compras",
	saldo:    "(compras.total - COALESCE((SELECT SUM(pagos_compra.importe) FROM pagos_compra WHERE pagos_compra.compra_id = compras.id), 0))",
	join:     "JOIN proveedores ON proveedores.id = compras.proveedor_id",
	fk:       "compras.proveedor_id",
	busqueda: []string{"proveedores.nombre", "proveedores.contacto"},
}

// monto casts a bound amount so sqlite compares it numerically.
const monto = "CAST(? AS DECIMAL(12,2))"

func (l libro) filtrar(q *gorm.DB, f FiltroCartera) *gorm.DB {
	q = q.Joins(l.join)
	q = algunoContiene(q, f.Contraparte, l.busqueda...)
	if f.ContraparteID != nil {
		q = q.Where(l.fk+" = ?", *f.ContraparteID)
	}
	q = rangoFechas(q, l.tabla+".fecha", f.FechaDesde, f.FechaHasta)
	if f.MontoMin != nil {
		q = q.Where(l.saldo+" >= "+monto, f.MontoMin.String())
	}
	if f.MontoMax != nil {
		q = q.Where(l.saldo+" <= "+monto, f.MontoMax.String())
	}
	if f.SoloConSaldo {
		q = q.Where(l.saldo + " > 0")
	}

	// Same priority as cartera.Calcular: settled first, then overdue.
	switch f.Estado {
	case cartera.Pagada:
		q = q.Where(l.saldo + " <= 0")
	case cartera.Vencida:
		q = q.Where(l.saldo+" > 0 AND "+l.tabla+".fecha_vencimiento < ?", cartera.Dia(f.Al))
	case cartera.Vigente:
		q = q.Where(l.saldo+" > 0 AND "+l.tabla+".fecha_vencimiento >= ?", cartera.Dia(f.Al))
	}
	return q
}

// ordenar sorts by due date with the id as a stable tie-break, so offset
// pages never overlap.
func (l libro) ordenar(q *gorm.DB) *gorm.DB {
	return q.Order(l.tabla + ".fecha_vencimiento ASC").Order(l.tabla + ".id ASC")
}

// seleccionar restricts the projection to the ledger table so the join does
// not clobber its columns.
func (l libro) seleccionar(q *gorm.DB) *gorm.DB {
	return q.Select(l.tabla + ".*")
}

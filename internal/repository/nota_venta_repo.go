package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/model"
)

// FiltroNotas is the parsed form of dto.NotaVentaFilter.
type FiltroNotas struct {
	NumeroFactura string
	ClienteID     *uuid.UUID
	VendedorID    *uuid.UUID
	FechaDesde    *time.Time
	FechaHasta    *time.Time
	Pagina        dto.Paginacion
}

// FilaVendedor is one row of the salesperson ranking.
type FilaVendedor struct {
	VendedorID  uuid.UUID
	Nombre      string
	ComisionPct decimal.Decimal
	Notas       int
	Total       decimal.Decimal
}

// NotaVentaRepository is the receivable ledger: sales notes, their lines,
// deliveries and customer payments.
type NotaVentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, n *model.NotaVenta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.NotaVenta, error)
	FindByNumero(ctx context.Context, numero string) (*model.NotaVenta, error)
	List(ctx context.Context, f FiltroNotas) ([]model.NotaVenta, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ListCuentas is the receivable table: aged rows ordered by due date.
	ListCuentas(ctx context.Context, f FiltroCartera) ([]model.NotaVenta, error)
	// ListParaAntiguedad loads every note with its payments, optionally for a
	// single client, for in-memory aging.
	ListParaAntiguedad(ctx context.Context, clienteID *uuid.UUID) ([]model.NotaVenta, error)

	// Payments. The *Tx methods must run inside the caller's transaction.
	LockForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.NotaVenta, error)
	SumPagosTx(tx *gorm.DB, notaID uuid.UUID) (decimal.Decimal, error)
	CreatePagoTx(tx *gorm.DB, p *model.Pago) error
	CountPagos(ctx context.Context, notaID uuid.UUID) (int64, error)
	ListPagos(ctx context.Context, clienteID *uuid.UUID, desde, hasta *time.Time) ([]model.Pago, error)

	// Deliveries
	CreateEntregaTx(tx *gorm.DB, e *model.Entrega) error

	// Aggregates for the dashboard and rankings
	SumVentas(ctx context.Context, desde, hasta time.Time) (decimal.Decimal, int64, error)
	SumCobrado(ctx context.Context, desde, hasta time.Time) (decimal.Decimal, error)
	VentasPorDia(ctx context.Context, desde, hasta time.Time) ([]FilaDia, error)
	CobradoPorDia(ctx context.Context, desde, hasta time.Time) ([]FilaDia, error)
	RankingVendedores(ctx context.Context, desde, hasta time.Time) ([]FilaVendedor, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type notaVentaRepo struct{ db *gorm.DB }

func NewNotaVentaRepository(db *gorm.DB) NotaVentaRepository { return &notaVentaRepo{db: db} }

func (r *notaVentaRepo) DB() *gorm.DB { return r.db }

func (r *notaVentaRepo) Create(ctx context.Context, tx *gorm.DB, n *model.NotaVenta) error {
	return tx.WithContext(ctx).Create(n).Error
}

func (r *notaVentaRepo) detalle(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Pedidos.Producto").
		Preload("Pedidos.Entregas").
		Preload("Pagos", func(db *gorm.DB) *gorm.DB { return db.Order("fecha ASC") })
}

func (r *notaVentaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.NotaVenta, error) {
	var n model.NotaVenta
	err := r.detalle(ctx).Where("id = ?", id).First(&n).Error
	return &n, err
}

func (r *notaVentaRepo) FindByNumero(ctx context.Context, numero string) (*model.NotaVenta, error) {
	var n model.NotaVenta
	err := r.detalle(ctx).Where("numero_factura = ?", numero).First(&n).Error
	return &n, err
}

func (r *notaVentaRepo) List(ctx context.Context, f FiltroNotas) ([]model.NotaVenta, error) {
	q := r.db.WithContext(ctx).Model(&model.NotaVenta{}).
		Preload("Cliente").
		Preload("Pagos")
	if f.NumeroFactura != "" {
		q = q.Where(ilike("numero_factura"), contiene(f.NumeroFactura))
	}
	if f.ClienteID != nil {
		q = q.Where("cliente_id = ?", *f.ClienteID)
	}
	if f.VendedorID != nil {
		q = q.Where("vendedor_id = ?", *f.VendedorID)
	}
	q = rangoFechas(q, "fecha", f.FechaDesde, f.FechaHasta)

	var notas []model.NotaVenta
	err := paginar(q, f.Pagina).Order("fecha DESC").Order("id ASC").Find(&notas).Error
	return notas, err
}

// Delete removes a note together with its lines and deliveries. Callers must
// check first that it has no payments.
func (r *notaVentaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pedidos := tx.Model(&model.Pedido{}).Select("id").Where("nota_venta_id = ?", id)
		if err := tx.Where("entrega_id IN (?)", tx.Model(&model.Entrega{}).Select("id").Where("pedido_id IN (?)", pedidos)).
			Delete(&model.MovimientoStock{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pedido_id IN (?)", pedidos).Delete(&model.Entrega{}).Error; err != nil {
			return err
		}
		if err := tx.Where("nota_venta_id = ?", id).Delete(&model.Pedido{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.NotaVenta{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *notaVentaRepo) ListCuentas(ctx context.Context, f FiltroCartera) ([]model.NotaVenta, error) {
	q := r.db.WithContext(ctx).Model(&model.NotaVenta{}).
		Preload("Cliente").
		Preload("Pagos")
	q = libroCobrar.seleccionar(libroCobrar.filtrar(q, f))

	var notas []model.NotaVenta
	err := paginar(libroCobrar.ordenar(q), f.Pagina).Find(&notas).Error
	return notas, err
}

func (r *notaVentaRepo) ListParaAntiguedad(ctx context.Context, clienteID *uuid.UUID) ([]model.NotaVenta, error) {
	q := r.db.WithContext(ctx).Model(&model.NotaVenta{}).
		Preload("Cliente").
		Preload("Pagos")
	if clienteID != nil {
		q = q.Where("cliente_id = ?", *clienteID)
	}
	var notas []model.NotaVenta
	err := q.Order("fecha_vencimiento ASC").Order("id ASC").Find(&notas).Error
	return notas, err
}

// ── Payments ──────────────────────────────────────────────────────────────────

// LockForUpdateTx reads the note with SELECT … FOR UPDATE so concurrent
// payment registrations against it are serialized until the caller's
// transaction ends.
func (r *notaVentaRepo) LockForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.NotaVenta, error) {
	var n model.NotaVenta
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&n).Error
	return &n, err
}

func (r *notaVentaRepo) SumPagosTx(tx *gorm.DB, notaID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.Model(&model.Pago{}).
		Select("COALESCE(SUM(importe), 0)").
		Where("nota_venta_id = ?", notaID).
		Row().Scan(&total)
	return total, err
}

func (r *notaVentaRepo) CreatePagoTx(tx *gorm.DB, p *model.Pago) error {
	return tx.Create(p).Error
}

func (r *notaVentaRepo) CountPagos(ctx context.Context, notaID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Pago{}).Where("nota_venta_id = ?", notaID).Count(&n).Error
	return n, err
}

func (r *notaVentaRepo) ListPagos(ctx context.Context, clienteID *uuid.UUID, desde, hasta *time.Time) ([]model.Pago, error) {
	q := r.db.WithContext(ctx).Model(&model.Pago{}).
		Preload("NotaVenta.Cliente").
		Joins("JOIN notas_venta ON notas_venta.id = pagos.nota_venta_id").
		Select("pagos.*")
	if clienteID != nil {
		q = q.Where("notas_venta.cliente_id = ?", *clienteID)
	}
	q = rangoFechas(q, "pagos.fecha", desde, hasta)

	var pagos []model.Pago
	err := q.Order("pagos.fecha DESC").Order("pagos.id ASC").Find(&pagos).Error
	return pagos, err
}

func (r *notaVentaRepo) CreateEntregaTx(tx *gorm.DB, e *model.Entrega) error {
	return tx.Create(e).Error
}

// ── Aggregates ────────────────────────────────────────────────────────────────

func (r *notaVentaRepo) SumVentas(ctx context.Context, desde, hasta time.Time) (decimal.Decimal, int64, error) {
	var fila struct {
		Total decimal.Decimal
		Notas int64
	}
	err := r.db.WithContext(ctx).Model(&model.NotaVenta{}).
		Select("COALESCE(SUM(total), 0) AS total, COUNT(*) AS notas").
		Where("fecha >= ? AND fecha <= ?", desde, hasta).
		Scan(&fila).Error
	return fila.Total, fila.Notas, err
}

func (r *notaVentaRepo) SumCobrado(ctx context.Context, desde, hasta time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Pago{}).
		Select("COALESCE(SUM(importe), 0)").
		Where("fecha >= ? AND fecha <= ?", desde, hasta).
		Row().Scan(&total)
	return total, err
}

func (r *notaVentaRepo) VentasPorDia(ctx context.Context, desde, hasta time.Time) ([]FilaDia, error) {
	return totalesPorDia(r.db.WithContext(ctx).Model(&model.NotaVenta{}), "fecha", "total", desde, hasta)
}

func (r *notaVentaRepo) CobradoPorDia(ctx context.Context, desde, hasta time.Time) ([]FilaDia, error) {
	return totalesPorDia(r.db.WithContext(ctx).Model(&model.Pago{}), "fecha", "importe", desde, hasta)
}

func (r *notaVentaRepo) RankingVendedores(ctx context.Context, desde, hasta time.Time) ([]FilaVendedor, error) {
	var filas []FilaVendedor
	err := r.db.WithContext(ctx).Table("notas_venta").
		Select("vendedores.id AS vendedor_id, vendedores.nombre AS nombre, vendedores.comision_pct AS comision_pct, COUNT(notas_venta.id) AS notas, COALESCE(SUM(notas_venta.total), 0) AS total").
		Joins("JOIN vendedores ON vendedores.id = notas_venta.vendedor_id").
		Where("notas_venta.fecha >= ? AND notas_venta.fecha <= ?", desde, hasta).
		Group("vendedores.id, vendedores.nombre, vendedores.comision_pct").
		Order("total DESC").
		Scan(&filas).Error
	return filas, err
}

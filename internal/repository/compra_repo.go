package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/victor-varac/AIKZ-sub001/internal/model"
)

// FilaProveedor aggregates the purchases made from one supplier.
type FilaProveedor struct {
	ProveedorID   uuid.UUID
	Nombre        string
	TotalFacturas int
	MontoTotal    decimal.Decimal
}

// CompraRepository is the payable ledger: supplier invoices and the
// payments made against them.
type CompraRepository interface {
	Create(ctx context.Context, c *model.Compra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error)
	FindByNumero(ctx context.Context, numero string) (*model.Compra, error)
	UpdateTx(tx *gorm.DB, c *model.Compra) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	ListCuentas(ctx context.Context, f FiltroCartera) ([]model.Compra, error)
	ListParaAntiguedad(ctx context.Context, proveedorID *uuid.UUID) ([]model.Compra, error)

	LockForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Compra, error)
	SumPagosTx(tx *gorm.DB, compraID uuid.UUID) (decimal.Decimal, error)
	CreatePagoTx(tx *gorm.DB, p *model.PagoCompra) error
	CountPagosTx(tx *gorm.DB, compraID uuid.UUID) (int64, error)
	ListPagos(ctx context.Context, desde, hasta *time.Time) ([]model.PagoCompra, error)

	TotalesPorProveedor(ctx context.Context, desde, hasta *time.Time) ([]FilaProveedor, error)
	ComprasPorDia(ctx context.Context, desde, hasta time.Time) ([]FilaDia, error)

	DB() *gorm.DB
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) DB() *gorm.DB { return r.db }

func (r *compraRepo) Create(ctx context.Context, c *model.Compra) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).
		Preload("Proveedor").
		Preload("Pagos", func(db *gorm.DB) *gorm.DB { return db.Order("fecha ASC") }).
		Where("id = ?", id).First(&c).Error
	return &c, err
}

// FindByNumero returns the most recent purchase carrying numero. Invoice
// numbers are only unique per supplier.
func (r *compraRepo) FindByNumero(ctx context.Context, numero string) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).
		Preload("Proveedor").
		Preload("Pagos").
		Where("numero_factura = ?", numero).
		Order("fecha DESC").First(&c).Error
	return &c, err
}

// UpdateTx and DeleteTx run under the row lock of LockForUpdateTx so that
// the payment count they were checked against cannot change underneath.
func (r *compraRepo) UpdateTx(tx *gorm.DB, c *model.Compra) error {
	return tx.Omit(clause.Associations).Save(c).Error
}

func (r *compraRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Where("id = ?", id).Delete(&model.Compra{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *compraRepo) ListCuentas(ctx context.Context, f FiltroCartera) ([]model.Compra, error) {
	q := r.db.WithContext(ctx).Model(&model.Compra{}).
		Preload("Proveedor").
		Preload("Pagos")
	q = libroPagar.seleccionar(libroPagar.filtrar(q, f))

	var compras []model.Compra
	err := paginar(libroPagar.ordenar(q), f.Pagina).Find(&compras).Error
	return compras, err
}

func (r *compraRepo) ListParaAntiguedad(ctx context.Context, proveedorID *uuid.UUID) ([]model.Compra, error) {
	q := r.db.WithContext(ctx).Model(&model.Compra{}).
		Preload("Proveedor").
		Preload("Pagos")
	if proveedorID != nil {
		q = q.Where("proveedor_id = ?", *proveedorID)
	}
	var compras []model.Compra
	err := q.Order("fecha_vencimiento ASC").Order("id ASC").Find(&compras).Error
	return compras, err
}

func (r *compraRepo) LockForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Proveedor").
		Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *compraRepo) SumPagosTx(tx *gorm.DB, compraID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.Model(&model.PagoCompra{}).
		Select("COALESCE(SUM(importe), 0)").
		Where("compra_id = ?", compraID).
		Row().Scan(&total)
	return total, err
}

func (r *compraRepo) CreatePagoTx(tx *gorm.DB, p *model.PagoCompra) error {
	return tx.Create(p).Error
}

func (r *compraRepo) CountPagosTx(tx *gorm.DB, compraID uuid.UUID) (int64, error) {
	var n int64
	err := tx.Model(&model.PagoCompra{}).Where("compra_id = ?", compraID).Count(&n).Error
	return n, err
}

func (r *compraRepo) ListPagos(ctx context.Context, desde, hasta *time.Time) ([]model.PagoCompra, error) {
	q := r.db.WithContext(ctx).Model(&model.PagoCompra{}).Preload("Compra.Proveedor")
	q = rangoFechas(q, "fecha", desde, hasta)

	var pagos []model.PagoCompra
	err := q.Order("fecha DESC").Order("id ASC").Find(&pagos).Error
	return pagos, err
}

func (r *compraRepo) TotalesPorProveedor(ctx context.Context, desde, hasta *time.Time) ([]FilaProveedor, error) {
	q := r.db.WithContext(ctx).Table("compras").
		Select("proveedores.id AS proveedor_id, proveedores.nombre AS nombre, COUNT(compras.id) AS total_facturas, COALESCE(SUM(compras.total), 0) AS monto_total").
		Joins("JOIN proveedores ON proveedores.id = compras.proveedor_id")
	q = rangoFechas(q, "compras.fecha", desde, hasta)

	var filas []FilaProveedor
	err := q.Group("proveedores.id, proveedores.nombre").
		Order("monto_total DESC").
		Scan(&filas).Error
	return filas, err
}

func (r *compraRepo) ComprasPorDia(ctx context.Context, desde, hasta time.Time) ([]FilaDia, error) {
	return totalesPorDia(r.db.WithContext(ctx).Model(&model.Compra{}), "fecha", "total", desde, hasta)
}

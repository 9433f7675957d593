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

// FiltroMovimientos is the parsed form of dto.MovimientoFilter.
type FiltroMovimientos struct {
	ProductoID *uuid.UUID
	Material   string
	Movimiento string
	FechaDesde *time.Time
	FechaHasta *time.Time
	Pagina     dto.Paginacion
}

// FilaMovimiento is the per-direction total of one item's ledger, ready to
// be folded with almacen.Existencia.
type FilaMovimiento struct {
	ID         uuid.UUID
	Movimiento string
	Cantidad   decimal.Decimal
}

// FilaExistencia is one active product with its stock folded in SQL.
type FilaExistencia struct {
	ProductoID   uuid.UUID
	Nombre       string
	Material     string
	Presentacion string
	Tipo         string
	Existencia   decimal.Decimal
}

// existenciaSQL mirrors almacen.Aplicar: unknown directions add nothing.
const existenciaSQL = "COALESCE(SUM(CASE movimientos_almacen.movimiento " +
	"WHEN 'entrada' THEN movimientos_almacen.cantidad " +
	"WHEN 'salida' THEN -movimientos_almacen.cantidad ELSE 0 END), 0)"

type MovimientoStockRepository interface {
	Create(ctx context.Context, m *model.MovimientoStock) error
	CreateTx(tx *gorm.DB, m *model.MovimientoStock) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MovimientoStock, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f FiltroMovimientos) ([]model.MovimientoStock, error)
	ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.MovimientoStock, error)
	// ListByProductoTx locks the producto row before reading its ledger, so
	// two deliveries of the same product fold the stock one after the other.
	ListByProductoTx(tx *gorm.DB, productoID uuid.UUID) ([]model.MovimientoStock, error)
	// Existencias lists every active product of a material (all materials
	// when empty) with its current stock, ordered by nombre.
	Existencias(ctx context.Context, material string) ([]FilaExistencia, error)
}

type movimientoStockRepo struct{ db *gorm.DB }

func NewMovimientoStockRepository(db *gorm.DB) MovimientoStockRepository {
	return &movimientoStockRepo{db: db}
}

func (r *movimientoStockRepo) Create(ctx context.Context, m *model.MovimientoStock) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movimientoStockRepo) CreateTx(tx *gorm.DB, m *model.MovimientoStock) error {
	return tx.Create(m).Error
}

func (r *movimientoStockRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MovimientoStock, error) {
	var m model.MovimientoStock
	err := r.db.WithContext(ctx).Preload("Producto").Where("id = ?", id).First(&m).Error
	return &m, err
}

func (r *movimientoStockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.MovimientoStock{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *movimientoStockRepo) List(ctx context.Context, f FiltroMovimientos) ([]model.MovimientoStock, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoStock{}).
		Preload("Producto")
	if f.ProductoID != nil {
		q = q.Where("producto_id = ?", *f.ProductoID)
	}
	if f.Material != "" {
		q = q.Where("material = ?", f.Material)
	}
	if f.Movimiento != "" {
		q = q.Where("movimiento = ?", f.Movimiento)
	}
	q = rangoFechas(q, "fecha", f.FechaDesde, f.FechaHasta)

	var movimientos []model.MovimientoStock
	err := paginar(q, f.Pagina).Order("fecha DESC").Order("id ASC").Find(&movimientos).Error
	return movimientos, err
}

func (r *movimientoStockRepo) ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.MovimientoStock, error) {
	var movimientos []model.MovimientoStock
	err := r.db.WithContext(ctx).
		Where("producto_id = ?", productoID).
		Order("fecha ASC").Order("id ASC").
		Find(&movimientos).Error
	return movimientos, err
}

func (r *movimientoStockRepo) ListByProductoTx(tx *gorm.DB, productoID uuid.UUID) ([]model.MovimientoStock, error) {
	var p model.Producto
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").Where("id = ?", productoID).First(&p).Error; err != nil {
		return nil, err
	}
	var movimientos []model.MovimientoStock
	err := tx.Where("producto_id = ?", productoID).
		Order("fecha ASC").Order("id ASC").
		Find(&movimientos).Error
	return movimientos, err
}

func (r *movimientoStockRepo) Existencias(ctx context.Context, material string) ([]FilaExistencia, error) {
	q := r.db.WithContext(ctx).Table("productos").
		Select("productos.id AS producto_id, productos.nombre, productos.material, productos.presentacion, productos.tipo, "+existenciaSQL+" AS existencia").
		Joins("LEFT JOIN movimientos_almacen ON movimientos_almacen.producto_id = productos.id").
		Where("productos.activo = ?", true)
	if material != "" {
		q = q.Where("productos.material = ?", material)
	}
	var filas []FilaExistencia
	err := q.Group("productos.id, productos.nombre, productos.material, productos.presentacion, productos.tipo").
		Order("productos.nombre ASC").
		Order("productos.id ASC").
		Scan(&filas).Error
	return filas, err
}

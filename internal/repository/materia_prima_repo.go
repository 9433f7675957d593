package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/model"
)

// FiltroMovimientosMP is the parsed form of dto.MovimientoMPFilter.
type FiltroMovimientosMP struct {
	MateriaPrimaID *uuid.UUID
	Tipo           string
	Movimiento     string
	FechaDesde     *time.Time
	FechaHasta     *time.Time
	Pagina         dto.Paginacion
}

type MateriaPrimaRepository interface {
	Create(ctx context.Context, m *model.MateriaPrima) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MateriaPrima, error)
	List(ctx context.Context, filter dto.MateriaPrimaFilter) ([]model.MateriaPrima, error)
	// ListActivas returns every active material, for inventory reports.
	ListActivas(ctx context.Context, tipo string) ([]model.MateriaPrima, error)
	Update(ctx context.Context, m *model.MateriaPrima) error
	Delete(ctx context.Context, id uuid.UUID) error

	CountMovimientos(ctx context.Context, id uuid.UUID) (int64, error)
	CreateMovimiento(ctx context.Context, m *model.MovimientoMateriaPrima) error
	ListMovimientos(ctx context.Context, f FiltroMovimientosMP) ([]model.MovimientoMateriaPrima, error)
	MovimientosDe(ctx context.Context, id uuid.UUID) ([]model.MovimientoMateriaPrima, error)
	// Totales groups the raw-material ledger by material and direction.
	Totales(ctx context.Context, tipo string) ([]FilaMovimiento, error)
}

type materiaPrimaRepo struct{ db *gorm.DB }

func NewMateriaPrimaRepository(db *gorm.DB) MateriaPrimaRepository {
	return &materiaPrimaRepo{db: db}
}

func (r *materiaPrimaRepo) Create(ctx context.Context, m *model.MateriaPrima) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *materiaPrimaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MateriaPrima, error) {
	var m model.MateriaPrima
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	return &m, err
}

func (r *materiaPrimaRepo) List(ctx context.Context, filter dto.MateriaPrimaFilter) ([]model.MateriaPrima, error) {
	q := r.db.WithContext(ctx).Model(&model.MateriaPrima{})
	q = filtrarActivo(q, "activo", filter.Estado)
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	q = algunoContiene(q, filter.Nombre, "nombre")

	var materias []model.MateriaPrima
	err := paginar(q, filter.Paginacion).Order("nombre ASC").Order("id ASC").Find(&materias).Error
	return materias, err
}

func (r *materiaPrimaRepo) ListActivas(ctx context.Context, tipo string) ([]model.MateriaPrima, error) {
	q := r.db.WithContext(ctx).Where("activo = ?", true)
	if tipo != "" {
		q = q.Where("tipo = ?", tipo)
	}
	var materias []model.MateriaPrima
	err := q.Order("nombre ASC").Order("id ASC").Find(&materias).Error
	return materias, err
}

func (r *materiaPrimaRepo) Update(ctx context.Context, m *model.MateriaPrima) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(m).Error
}

func (r *materiaPrimaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.MateriaPrima{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *materiaPrimaRepo) CountMovimientos(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.MovimientoMateriaPrima{}).
		Where("materia_prima_id = ?", id).Count(&n).Error
	return n, err
}

func (r *materiaPrimaRepo) CreateMovimiento(ctx context.Context, m *model.MovimientoMateriaPrima) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *materiaPrimaRepo) ListMovimientos(ctx context.Context, f FiltroMovimientosMP) ([]model.MovimientoMateriaPrima, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoMateriaPrima{}).
		Preload("MateriaPrima").
		Joins("JOIN materias_primas ON materias_primas.id = movimientos_materia_prima.materia_prima_id").
		Select("movimientos_materia_prima.*")
	if f.MateriaPrimaID != nil {
		q = q.Where("movimientos_materia_prima.materia_prima_id = ?", *f.MateriaPrimaID)
	}
	if f.Tipo != "" {
		q = q.Where("materias_primas.tipo = ?", f.Tipo)
	}
	if f.Movimiento != "" {
		q = q.Where("movimientos_materia_prima.movimiento = ?", f.Movimiento)
	}
	q = rangoFechas(q, "movimientos_materia_prima.fecha", f.FechaDesde, f.FechaHasta)

	var movimientos []model.MovimientoMateriaPrima
	err := paginar(q, f.Pagina).
		Order("movimientos_materia_prima.fecha DESC").
		Order("movimientos_materia_prima.id ASC").
		Find(&movimientos).Error
	return movimientos, err
}

func (r *materiaPrimaRepo) MovimientosDe(ctx context.Context, id uuid.UUID) ([]model.MovimientoMateriaPrima, error) {
	var movimientos []model.MovimientoMateriaPrima
	err := r.db.WithContext(ctx).
		Where("materia_prima_id = ?", id).
		Order("fecha ASC").Order("id ASC").
		Find(&movimientos).Error
	return movimientos, err
}

func (r *materiaPrimaRepo) Totales(ctx context.Context, tipo string) ([]FilaMovimiento, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoMateriaPrima{}).
		Select("movimientos_materia_prima.materia_prima_id AS id, movimientos_materia_prima.movimiento AS movimiento, SUM(movimientos_materia_prima.cantidad) AS cantidad")
	if tipo != "" {
		q = q.Joins("JOIN materias_primas ON materias_primas.id = movimientos_materia_prima.materia_prima_id").
			Where("materias_primas.tipo = ?", tipo)
	}
	var filas []FilaMovimiento
	err := q.Group("movimientos_materia_prima.materia_prima_id, movimientos_materia_prima.movimiento").Scan(&filas).Error
	return filas, err
}

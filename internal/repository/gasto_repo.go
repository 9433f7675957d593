package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/model"
)

// FiltroGastos is the parsed form of dto.GastoFilter.
type FiltroGastos struct {
	Desde     *time.Time
	Hasta     *time.Time
	Categoria string
	Concepto  string
	Pagina    dto.Paginacion
}

// FilaCategoria is one row of the expense breakdown.
type FilaCategoria struct {
	Categoria string
	Total     decimal.Decimal
	Cantidad  int64
}

type GastoRepository interface {
	Create(ctx context.Context, g *model.Gasto) error
	CreateTx(tx *gorm.DB, g *model.Gasto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Gasto, error)
	List(ctx context.Context, f FiltroGastos) ([]model.Gasto, error)
	Update(ctx context.Context, g *model.Gasto) error
	Delete(ctx context.Context, id uuid.UUID) error
	// SumarPorCategoria totals expenses per category, largest first.
	SumarPorCategoria(ctx context.Context, desde, hasta *time.Time) ([]FilaCategoria, error)
	// GastosPorDia leaves out the categories in excluir.
	GastosPorDia(ctx context.Context, desde, hasta time.Time, excluir ...string) ([]FilaDia, error)
}

type gastoRepo struct{ db *gorm.DB }

func NewGastoRepository(db *gorm.DB) GastoRepository { return &gastoRepo{db: db} }

func (r *gastoRepo) Create(ctx context.Context, g *model.Gasto) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *gastoRepo) CreateTx(tx *gorm.DB, g *model.Gasto) error {
	return tx.Create(g).Error
}

func (r *gastoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Gasto, error) {
	var g model.Gasto
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&g).Error
	return &g, err
}

func (r *gastoRepo) List(ctx context.Context, f FiltroGastos) ([]model.Gasto, error) {
	q := r.db.WithContext(ctx).Model(&model.Gasto{})
	q = rangoFechas(q, "fecha", f.Desde, f.Hasta)
	if f.Categoria != "" {
		q = q.Where("categoria = ?", f.Categoria)
	}
	q = algunoContiene(q, f.Concepto, "concepto")

	var gastos []model.Gasto
	err := paginar(q, f.Pagina).Order("fecha DESC").Order("id ASC").Find(&gastos).Error
	return gastos, err
}

func (r *gastoRepo) Update(ctx context.Context, g *model.Gasto) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *gastoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Gasto{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gastoRepo) GastosPorDia(ctx context.Context, desde, hasta time.Time, excluir ...string) ([]FilaDia, error) {
	q := r.db.WithContext(ctx).Model(&model.Gasto{})
	if len(excluir) > 0 {
		q = q.Where("categoria NOT IN ?", excluir)
	}
	return totalesPorDia(q, "fecha", "importe", desde, hasta)
}

func (r *gastoRepo) SumarPorCategoria(ctx context.Context, desde, hasta *time.Time) ([]FilaCategoria, error) {
	q := r.db.WithContext(ctx).Model(&model.Gasto{}).
		Select("categoria, SUM(importe) AS total, COUNT(*) AS cantidad")
	q = rangoFechas(q, "fecha", desde, hasta)
	var filas []FilaCategoria
	err := q.Group("categoria").Order("total DESC").Order("categoria ASC").Scan(&filas).Error
	return filas, err
}

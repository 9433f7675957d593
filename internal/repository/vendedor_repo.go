package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/model"
)

type VendedorRepository interface {
	Create(ctx context.Context, v *model.Vendedor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Vendedor, error)
	List(ctx context.Context, filter dto.VendedorFilter) ([]model.Vendedor, error)
	Update(ctx context.Context, v *model.Vendedor) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type vendedorRepo struct{ db *gorm.DB }

func NewVendedorRepository(db *gorm.DB) VendedorRepository { return &vendedorRepo{db: db} }

func (r *vendedorRepo) Create(ctx context.Context, v *model.Vendedor) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *vendedorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Vendedor, error) {
	var v model.Vendedor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error
	return &v, err
}

func (r *vendedorRepo) List(ctx context.Context, filter dto.VendedorFilter) ([]model.Vendedor, error) {
	q := r.db.WithContext(ctx).Model(&model.Vendedor{})
	q = filtrarActivo(q, "activo", filter.Estado)
	q = algunoContiene(q, filter.Nombre, "nombre")

	var vendedores []model.Vendedor
	err := paginar(q, filter.Paginacion).Order("nombre ASC").Order("id ASC").Find(&vendedores).Error
	return vendedores, err
}

func (r *vendedorRepo) Update(ctx context.Context, v *model.Vendedor) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *vendedorRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Vendedor{}).Where("id = ?", id).Update("activo", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

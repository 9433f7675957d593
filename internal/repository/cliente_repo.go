package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/model"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	List(ctx context.Context, filter dto.ClienteFilter) ([]model.Cliente, error)
	Update(ctx context.Context, c *model.Cliente) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	CountActivos(ctx context.Context) (int64, error)
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).Preload("Vendedor").Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *clienteRepo) List(ctx context.Context, filter dto.ClienteFilter) ([]model.Cliente, error) {
	q := r.db.WithContext(ctx).Model(&model.Cliente{}).Preload("Vendedor")
	q = filtrarActivo(q, "activo", filter.Estado)
	q = algunoContiene(q, filter.Empresa, "empresa")
	q = algunoContiene(q, filter.NombreContacto, "nombre_contacto")
	q = algunoContiene(q, filter.Correo, "correo")
	q = algunoContiene(q, filter.Telefono, "telefono")
	if id, err := uuid.Parse(filter.VendedorID); err == nil {
		q = q.Where("vendedor_id = ?", id)
	}
	if filter.DiasCreditoMin != nil {
		q = q.Where("dias_credito >= ?", *filter.DiasCreditoMin)
	}
	if filter.DiasCreditoMax != nil {
		q = q.Where("dias_credito <= ?", *filter.DiasCreditoMax)
	}

	var clientes []model.Cliente
	err := paginar(q, filter.Paginacion).Order("empresa ASC").Order("id ASC").Find(&clientes).Error
	return clientes, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error
}

func (r *clienteRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Cliente{}).Where("id = ?", id).Update("activo", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *clienteRepo) CountActivos(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Cliente{}).Where("activo = ?", true).Count(&n).Error
	return n, err
}

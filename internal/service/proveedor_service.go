package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/model"
	"github.com/victor-varac/AIKZ-sub001/internal/repository"
)

type ProveedorService interface {
	Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context, filter dto.ProveedorFilter) (*dto.Pagina[dto.ProveedorResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type proveedorService struct {
	repo repository.ProveedorRepository
}

func NewProveedorService(repo repository.ProveedorRepository) ProveedorService {
	return &proveedorService{repo: repo}
}

func (s *proveedorService) Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	p := &model.Proveedor{Activo: true}
	if err := aplicarProveedor(p, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := proveedorResponse(p)
	return &resp, nil
}

func (s *proveedorService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "proveedor")
	}
	resp := proveedorResponse(p)
	return &resp, nil
}

func (s *proveedorService) Listar(ctx context.Context, filter dto.ProveedorFilter) (*dto.Pagina[dto.ProveedorResponse], error) {
	filter.Paginacion = filter.Paginacion.Normalizada()
	proveedores, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProveedorResponse, len(proveedores))
	for i := range proveedores {
		out[i] = proveedorResponse(&proveedores[i])
	}
	pagina := dto.NuevaPagina(out, filter.Paginacion)
	return &pagina, nil
}

// Actualizar replaces every editable field. Existing purchases keep their
// due dates.
func (s *proveedorService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "proveedor")
	}
	if err := aplicarProveedor(p, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	resp := proveedorResponse(p)
	return &resp, nil
}

// Eliminar is a soft delete.
func (s *proveedorService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return noEncontrado(err, "proveedor")
	}
	return nil
}

func aplicarProveedor(p *model.Proveedor, req dto.CrearProveedorRequest) error {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return invalido("nombre", "es obligatorio")
	}
	if req.DiasPago < 0 {
		return invalido("dias_pago", "no puede ser negativo")
	}
	p.Nombre = nombre
	p.Contacto = req.Contacto
	p.Correo = req.Correo
	p.Telefono = req.Telefono
	p.Direccion = req.Direccion
	p.DiasPago = req.DiasPago
	return nil
}

func proveedorResponse(p *model.Proveedor) dto.ProveedorResponse {
	return dto.ProveedorResponse{
		ID:        p.ID.String(),
		Nombre:    p.Nombre,
		Contacto:  p.Contacto,
		Correo:    p.Correo,
		Telefono:  p.Telefono,
		Direccion: p.Direccion,
		DiasPago:  p.DiasPago,
		Activo:    p.Activo,
	}
}

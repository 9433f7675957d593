package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/victor-varac/AIKZ-sub001/internal/almacen"
	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/infra"
	"github.com/victor-varac/AIKZ-sub001/internal/model"
	"github.com/victor-varac/AIKZ-sub001/internal/repository"
)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.Pagina[dto.ProductoResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Catalogo(ctx context.Context, material string) (*dto.CatalogoResponse, error)
}

type productoService struct {
	repo  repository.ProductoRepository
	cache *infra.Cache
}

func NewProductoService(repo repository.ProductoRepository, cache *infra.Cache) ProductoService {
	return &productoService{repo: repo, cache: cache}
}

// ValidarCatalogo checks that presentacion and tipo are allowed for material.
func ValidarCatalogo(material, presentacion, tipo string) error {
	m := almacen.Material(material)
	if !m.Valido() {
		return invalido("material", "debe ser celofan o polietileno")
	}
	if almacen.Tipos(m, presentacion) == nil {
		return invalido("presentacion", "%s admite: %s", material, strings.Join(almacen.Presentaciones(m), ", "))
	}
	if !almacen.TipoValido(m, presentacion, tipo) {
		return invalido("tipo", "%s %s admite: %s", material, presentacion, strings.Join(almacen.Tipos(m, presentacion), ", "))
	}
	return nil
}

func validarMedida(campo string, d *decimal.Decimal) error {
	if d != nil && !d.IsPositive() {
		return invalido(campo, "debe ser mayor a cero")
	}
	return nil
}

func validarMedidas(ancho, largo, micraje *decimal.Decimal) error {
	if err := validarMedida("ancho_cm", ancho); err != nil {
		return err
	}
	if err := validarMedida("largo_cm", largo); err != nil {
		return err
	}
	return validarMedida("micraje_um", micraje)
}

func nombreGenerado(p *model.Producto) string {
	return almacen.NombreProducto(almacen.Material(p.Material), p.Presentacion, p.Tipo, p.AnchoCm, p.LargoCm, p.MicrajeUm)
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if err := ValidarCatalogo(req.Material, req.Presentacion, req.Tipo); err != nil {
		return nil, err
	}
	if err := validarMedidas(req.AnchoCm, req.LargoCm, req.MicrajeUm); err != nil {
		return nil, err
	}
	p := &model.Producto{
		Material:     req.Material,
		Presentacion: req.Presentacion,
		Tipo:         req.Tipo,
		AnchoCm:      req.AnchoCm,
		LargoCm:      req.LargoCm,
		MicrajeUm:    req.MicrajeUm,
		Nombre:       strings.TrimSpace(req.Nombre),
		Activo:       true,
	}
	if p.Nombre == "" {
		p.Nombre = nombreGenerado(p)
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	invalidarCache(ctx, s.cache, "productos")
	resp := productoResponse(p)
	return &resp, nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "producto")
	}
	resp := productoResponse(p)
	return &resp, nil
}

// Listar always scopes to one material.
func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.Pagina[dto.ProductoResponse], error) {
	if !almacen.Material(filter.Material).Valido() {
		return nil, invalido("material", "debe ser celofan o polietileno")
	}
	for campo, v := range map[string]string{"ancho_cm": filter.AnchoCm, "largo_cm": filter.LargoCm, "micraje_um": filter.MicrajeUm} {
		if _, err := parseDecimalOpc(campo, v); err != nil {
			return nil, err
		}
	}
	filter.Paginacion = filter.Paginacion.Normalizada()
	productos, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		out[i] = productoResponse(&productos[i])
	}
	pagina := dto.NuevaPagina(out, filter.Paginacion)
	return &pagina, nil
}

// Actualizar keeps a generated name in sync with the attributes. A custom
// name is kept unless the request replaces it; a blank one regenerates it.
func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "producto")
	}
	generado := p.Nombre == nombreGenerado(p)

	if req.Presentacion != nil {
		p.Presentacion = *req.Presentacion
	}
	if req.Tipo != nil {
		p.Tipo = *req.Tipo
	}
	if req.AnchoCm != nil {
		p.AnchoCm = req.AnchoCm
	}
	if req.LargoCm != nil {
		p.LargoCm = req.LargoCm
	}
	if req.MicrajeUm != nil {
		p.MicrajeUm = req.MicrajeUm
	}
	if req.Activo != nil {
		p.Activo = *req.Activo
	}
	if err := ValidarCatalogo(p.Material, p.Presentacion, p.Tipo); err != nil {
		return nil, err
	}
	if err := validarMedidas(p.AnchoCm, p.LargoCm, p.MicrajeUm); err != nil {
		return nil, err
	}

	switch {
	case req.Nombre != nil && strings.TrimSpace(*req.Nombre) != "":
		p.Nombre = strings.TrimSpace(*req.Nombre)
	case req.Nombre != nil, generado:
		p.Nombre = nombreGenerado(p)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	invalidarCache(ctx, s.cache, "productos")
	resp := productoResponse(p)
	return &resp, nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return noEncontrado(err, "producto")
	}
	invalidarCache(ctx, s.cache, "productos")
	return nil
}

func (s *productoService) Catalogo(_ context.Context, material string) (*dto.CatalogoResponse, error) {
	m := almacen.Material(material)
	if !m.Valido() {
		return nil, invalido("material", "debe ser celofan o polietileno")
	}
	return &dto.CatalogoResponse{Material: material, Presentaciones: almacen.Catalogo(m)}, nil
}

func productoResponse(p *model.Producto) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:           p.ID.String(),
		Material:     p.Material,
		Presentacion: p.Presentacion,
		Tipo:         p.Tipo,
		AnchoCm:      p.AnchoCm,
		LargoCm:      p.LargoCm,
		MicrajeUm:    p.MicrajeUm,
		Nombre:       p.Nombre,
		Unidad:       almacen.Material(p.Material).Unidad(),
		Activo:       p.Activo,
	}
}

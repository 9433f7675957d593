package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/victor-varac/AIKZ-sub001/internal/almacen"
	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/infra"
	"github.com/victor-varac/AIKZ-sub001/internal/model"
	"github.com/victor-varac/AIKZ-sub001/internal/repository"
)

// InventarioService defines the contract for the finished-goods ledger.
type InventarioService interface {
	RegistrarMovimiento(ctx context.Context, req dto.RegistrarMovimientoRequest) (*dto.MovimientoResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.Pagina[dto.MovimientoResponse], error)
	Existencias(ctx context.Context, material string) ([]dto.ExistenciaResponse, error)
	ExistenciaProducto(ctx context.Context, productoID uuid.UUID) (*dto.ExistenciaResponse, error)
	EliminarMovimiento(ctx context.Context, id uuid.UUID) error
}

type inventarioService struct {
	repo         repository.MovimientoStockRepository
	productoRepo repository.ProductoRepository
	cache        *infra.Cache
}

func NewInventarioService(repo repository.MovimientoStockRepository, productoRepo repository.ProductoRepository, cache *infra.Cache) InventarioService {
	return &inventarioService{repo: repo, productoRepo: productoRepo, cache: cache}
}

// RegistrarMovimiento appends a row to the ledger. A salida larger than the
// current stock is refused; the check reads the ledger without locking it.
func (s *inventarioService) RegistrarMovimiento(ctx context.Context, req dto.RegistrarMovimientoRequest) (*dto.MovimientoResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, invalido("producto_id", "identificador inválido")
	}
	fecha, err := parseFecha("fecha", req.Fecha)
	if err != nil {
		return nil, err
	}
	dir := almacen.Direccion(req.Movimiento)
	if !dir.Valida() {
		return nil, invalido("movimiento", "debe ser entrada o salida")
	}
	if !req.Cantidad.IsPositive() {
		return nil, invalido("cantidad", "debe ser mayor a cero")
	}
	p, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, noEncontrado(err, "producto")
	}

	if dir == almacen.Salida {
		actual, err := s.existencia(ctx, productoID)
		if err != nil {
			return nil, err
		}
		if req.Cantidad.GreaterThan(actual) {
			unidad := almacen.Material(p.Material).Unidad()
			return nil, rechazo(ErrStockInsuficiente, "cantidad", "existencia de %s: %s %s",
				p.Nombre, actual.String(), unidad)
		}
	}

	m := &model.MovimientoStock{
		ProductoID: productoID,
		Material:   p.Material,
		Fecha:      fecha,
		Cantidad:   req.Cantidad,
		Movimiento: req.Movimiento,
		Referencia: req.Referencia,
		Notas:      req.Notas,
		Producto:   p,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	invalidarCache(ctx, s.cache, "almacen")
	log.Info().
		Str("producto_id", productoID.String()).
		Str("movimiento", req.Movimiento).
		Str("cantidad", req.Cantidad.String()).
		Msg("movimiento de almacén registrado")

	resp := movimientoResponse(m)
	return &resp, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.Pagina[dto.MovimientoResponse], error) {
	f := repository.FiltroMovimientos{Pagina: filter.Paginacion.Normalizada()}
	var err error
	if f.ProductoID, err = parseUUIDOpc("producto_id", filter.ProductoID); err != nil {
		return nil, err
	}
	if filter.Material != "" {
		if !almacen.Material(filter.Material).Valido() {
			return nil, invalido("material", "debe ser celofan o polietileno")
		}
		f.Material = filter.Material
	}
	if filter.Movimiento != "" {
		if !almacen.Direccion(filter.Movimiento).Valida() {
			return nil, invalido("movimiento", "debe ser entrada o salida")
		}
		f.Movimiento = filter.Movimiento
	}
	if f.FechaDesde, err = parseFechaOpc("fecha_desde", filter.FechaDesde); err != nil {
		return nil, err
	}
	if f.FechaHasta, err = parseFechaOpc("fecha_hasta", filter.FechaHasta); err != nil {
		return nil, err
	}

	movs, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovimientoResponse, len(movs))
	for i := range movs {
		out[i] = movimientoResponse(&movs[i])
	}
	pagina := dto.NuevaPagina(out, f.Pagina)
	return &pagina, nil
}

// Existencias lists the stock of every active product of material, folded
// in SQL.
func (s *inventarioService) Existencias(ctx context.Context, material string) ([]dto.ExistenciaResponse, error) {
	if material != "" && !almacen.Material(material).Valido() {
		return nil, invalido("material", "debe ser celofan o polietileno")
	}
	filas, err := s.repo.Existencias(ctx, material)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExistenciaResponse, len(filas))
	for i, f := range filas {
		out[i] = dto.ExistenciaResponse{
			ProductoID:   f.ProductoID.String(),
			Nombre:       f.Nombre,
			Material:     f.Material,
			Presentacion: f.Presentacion,
			Tipo:         f.Tipo,
			Existencia:   f.Existencia,
			Unidad:       almacen.Material(f.Material).Unidad(),
		}
	}
	return out, nil
}

func (s *inventarioService) ExistenciaProducto(ctx context.Context, productoID uuid.UUID) (*dto.ExistenciaResponse, error) {
	p, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, noEncontrado(err, "producto")
	}
	actual, err := s.existencia(ctx, productoID)
	if err != nil {
		return nil, err
	}
	return &dto.ExistenciaResponse{
		ProductoID:   p.ID.String(),
		Nombre:       p.Nombre,
		Material:     p.Material,
		Presentacion: p.Presentacion,
		Tipo:         p.Tipo,
		Existencia:   actual,
		Unidad:       almacen.Material(p.Material).Unidad(),
	}, nil
}

func (s *inventarioService) EliminarMovimiento(ctx context.Context, id uuid.UUID) error {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return noEncontrado(err, "movimiento")
	}
	if m.EntregaID != nil {
		return invalido("id", "el movimiento pertenece a una entrega; elimine la nota de venta")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return noEncontrado(err, "movimiento")
	}
	invalidarCache(ctx, s.cache, "almacen")
	return nil
}

// existencia folds the product's ledger in Go.
func (s *inventarioService) existencia(ctx context.Context, productoID uuid.UUID) (decimal.Decimal, error) {
	movs, err := s.repo.ListByProducto(ctx, productoID)
	if err != nil {
		return decimal.Zero, err
	}
	return almacen.Existencia(movimientosAlmacen(movs)), nil
}

func movimientosAlmacen(movs []model.MovimientoStock) []almacen.Movimiento {
	out := make([]almacen.Movimiento, len(movs))
	for i, m := range movs {
		out[i] = almacen.Movimiento{Direccion: almacen.Direccion(m.Movimiento), Cantidad: m.Cantidad}
	}
	return out
}

func movimientoResponse(m *model.MovimientoStock) dto.MovimientoResponse {
	r := dto.MovimientoResponse{
		ID:         m.ID.String(),
		ProductoID: m.ProductoID.String(),
		Material:   m.Material,
		Fecha:      fechaStr(m.Fecha),
		Cantidad:   m.Cantidad,
		Unidad:     almacen.Material(m.Material).Unidad(),
		Movimiento: m.Movimiento,
		EntregaID:  uuidStr(m.EntregaID),
		Referencia: m.Referencia,
		Notas:      m.Notas,
	}
	if m.Producto != nil {
		r.Producto = m.Producto.Nombre
	}
	return r
}

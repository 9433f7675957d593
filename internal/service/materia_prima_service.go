package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/victor-varac/AIKZ-sub001/internal/almacen"
	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/infra"
	"github.com/victor-varac/AIKZ-sub001/internal/model"
	"github.com/victor-varac/AIKZ-sub001/internal/repository"
)

// MateriaPrimaService manages raw materials and their own stock ledger.
type MateriaPrimaService interface {
	Crear(ctx context.Context, req dto.CrearMateriaPrimaRequest) (*dto.MateriaPrimaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.MateriaPrimaResponse, error)
	Listar(ctx context.Context, filter dto.MateriaPrimaFilter) (*dto.Pagina[dto.MateriaPrimaResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMateriaPrimaRequest) (*dto.MateriaPrimaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error

	RegistrarMovimiento(ctx context.Context, req dto.RegistrarMovimientoMPRequest) (*dto.MovimientoMPResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoMPFilter) (*dto.Pagina[dto.MovimientoMPResponse], error)
	Inventario(ctx context.Context, tipo string) ([]dto.InventarioMPItem, error)
	ValidarDisponibilidad(ctx context.Context, id uuid.UUID, cantidad decimal.Decimal) (*dto.DisponibilidadResponse, error)
}

type materiaPrimaService struct {
	repo          repository.MateriaPrimaRepository
	proveedorRepo repository.ProveedorRepository
	cache         *infra.Cache
}

func NewMateriaPrimaService(repo repository.MateriaPrimaRepository, proveedorRepo repository.ProveedorRepository, cache *infra.Cache) MateriaPrimaService {
	return &materiaPrimaService{repo: repo, proveedorRepo: proveedorRepo, cache: cache}
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

func (s *materiaPrimaService) Crear(ctx context.Context, req dto.CrearMateriaPrimaRequest) (*dto.MateriaPrimaResponse, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return nil, invalido("nombre", "es obligatorio")
	}
	if !enLista(req.Tipo, model.TiposMateriaPrima) {
		return nil, invalido("tipo", "tipo %q no soportado", req.Tipo)
	}
	if !enLista(req.UnidadMedida, model.UnidadesMedida) {
		return nil, invalido("unidad_medida", "unidad %q no soportada", req.UnidadMedida)
	}
	if req.StockMinimo.IsNegative() {
		return nil, invalido("stock_minimo", "no puede ser negativo")
	}
	proveedorID, err := s.proveedor(ctx, req.ProveedorID)
	if err != nil {
		return nil, err
	}

	m := &model.MateriaPrima{
		Nombre:       nombre,
		Tipo:         req.Tipo,
		UnidadMedida: req.UnidadMedida,
		StockMinimo:  req.StockMinimo,
		ProveedorID:  proveedorID,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	invalidarCache(ctx, s.cache, "materia prima")
	resp := materiaPrimaResponse(m)
	return &resp, nil
}

func (s *materiaPrimaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.MateriaPrimaResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "materia prima")
	}
	resp := materiaPrimaResponse(m)
	return &resp, nil
}

func (s *materiaPrimaService) Listar(ctx context.Context, filter dto.MateriaPrimaFilter) (*dto.Pagina[dto.MateriaPrimaResponse], error) {
	if filter.Tipo != "" && !enLista(filter.Tipo, model.TiposMateriaPrima) {
		return nil, invalido("tipo", "tipo %q no soportado", filter.Tipo)
	}
	filter.Paginacion = filter.Paginacion.Normalizada()
	materias, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MateriaPrimaResponse, len(materias))
	for i := range materias {
		out[i] = materiaPrimaResponse(&materias[i])
	}
	pagina := dto.NuevaPagina(out, filter.Paginacion)
	return &pagina, nil
}

func (s *materiaPrimaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMateriaPrimaRequest) (*dto.MateriaPrimaResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "materia prima")
	}
	if req.Nombre != nil {
		if m.Nombre = strings.TrimSpace(*req.Nombre); m.Nombre == "" {
			return nil, invalido("nombre", "es obligatorio")
		}
	}
	if req.UnidadMedida != nil {
		if !enLista(*req.UnidadMedida, model.UnidadesMedida) {
			return nil, invalido("unidad_medida", "unidad %q no soportada", *req.UnidadMedida)
		}
		m.UnidadMedida = *req.UnidadMedida
	}
	if req.StockMinimo != nil {
		if req.StockMinimo.IsNegative() {
			return nil, invalido("stock_minimo", "no puede ser negativo")
		}
		m.StockMinimo = *req.StockMinimo
	}
	if req.ProveedorID != nil {
		if m.ProveedorID, err = s.proveedor(ctx, req.ProveedorID); err != nil {
			return nil, err
		}
	}
	if req.Activo != nil {
		m.Activo = *req.Activo
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	invalidarCache(ctx, s.cache, "materia prima")
	resp := materiaPrimaResponse(m)
	return &resp, nil
}

// Eliminar deletes a material that never moved; otherwise deactivate it.
func (s *materiaPrimaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.CountMovimientos(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return rechazo(ErrConMovimientos, "id", "tiene %d movimientos; desactívela en su lugar", n)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return noEncontrado(err, "materia prima")
	}
	invalidarCache(ctx, s.cache, "materia prima")
	return nil
}

func (s *materiaPrimaService) proveedor(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := parseUUIDOpc("proveedor_id", *raw)
	if err != nil || id == nil {
		return nil, err
	}
	if _, err := s.proveedorRepo.FindByID(ctx, *id); err != nil {
		return nil, noEncontrado(err, "proveedor")
	}
	return id, nil
}

// ── Movimientos ───────────────────────────────────────────────────────────────

func (s *materiaPrimaService) RegistrarMovimiento(ctx context.Context, req dto.RegistrarMovimientoMPRequest) (*dto.MovimientoMPResponse, error) {
	id, err := uuid.Parse(req.MateriaPrimaID)
	if err != nil {
		return nil, invalido("materia_prima_id", "identificador inválido")
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
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "materia prima")
	}
	if dir == almacen.Salida {
		d, err := s.disponibilidad(ctx, id, req.Cantidad)
		if err != nil {
			return nil, err
		}
		if !d.Disponible {
			return nil, rechazo(ErrStockInsuficiente, "cantidad", "existencia de %s: %s %s",
				m.Nombre, d.Existencia.String(), m.UnidadMedida)
		}
	}

	mov := &model.MovimientoMateriaPrima{
		MateriaPrimaID: id,
		Fecha:          fecha,
		Cantidad:       req.Cantidad,
		Movimiento:     req.Movimiento,
		Referencia:     req.Referencia,
		Notas:          req.Notas,
		MateriaPrima:   m,
	}
	if err := s.repo.CreateMovimiento(ctx, mov); err != nil {
		return nil, err
	}
	invalidarCache(ctx, s.cache, "materia prima")
	log.Info().
		Str("materia_prima_id", id.String()).
		Str("movimiento", req.Movimiento).
		Str("cantidad", req.Cantidad.String()).
		Msg("movimiento de materia prima registrado")

	resp := movimientoMPResponse(mov)
	return &resp, nil
}

func (s *materiaPrimaService) ListarMovimientos(ctx context.Context, filter dto.MovimientoMPFilter) (*dto.Pagina[dto.MovimientoMPResponse], error) {
	f := repository.FiltroMovimientosMP{Tipo: filter.Tipo, Pagina: filter.Paginacion.Normalizada()}
	var err error
	if f.MateriaPrimaID, err = parseUUIDOpc("materia_prima_id", filter.MateriaPrimaID); err != nil {
		return nil, err
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

	movs, err := s.repo.ListMovimientos(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovimientoMPResponse, len(movs))
	for i := range movs {
		out[i] = movimientoMPResponse(&movs[i])
	}
	pagina := dto.NuevaPagina(out, f.Pagina)
	return &pagina, nil
}

// Inventario folds the grouped ledger of every active material and flags
// the ones at or below their minimum.
func (s *materiaPrimaService) Inventario(ctx context.Context, tipo string) ([]dto.InventarioMPItem, error) {
	if tipo != "" && !enLista(tipo, model.TiposMateriaPrima) {
		return nil, invalido("tipo", "tipo %q no soportado", tipo)
	}
	materias, err := s.repo.ListActivas(ctx, tipo)
	if err != nil {
		return nil, err
	}
	totales, err := s.repo.Totales(ctx, tipo)
	if err != nil {
		return nil, err
	}
	movs := make(map[uuid.UUID][]almacen.Movimiento)
	for _, t := range totales {
		movs[t.ID] = append(movs[t.ID], almacen.Movimiento{Direccion: almacen.Direccion(t.Movimiento), Cantidad: t.Cantidad})
	}

	out := make([]dto.InventarioMPItem, len(materias))
	for i := range materias {
		m := &materias[i]
		existencia := almacen.Existencia(movs[m.ID])
		out[i] = dto.InventarioMPItem{
			MateriaPrimaResponse: materiaPrimaResponse(m),
			Existencia:           existencia,
			EstadoStock:          string(almacen.Clasificar(existencia, m.StockMinimo)),
		}
	}
	return out, nil
}

func (s *materiaPrimaService) ValidarDisponibilidad(ctx context.Context, id uuid.UUID, cantidad decimal.Decimal) (*dto.DisponibilidadResponse, error) {
	if !cantidad.IsPositive() {
		return nil, invalido("cantidad", "debe ser mayor a cero")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, noEncontrado(err, "materia prima")
	}
	return s.disponibilidad(ctx, id, cantidad)
}

func (s *materiaPrimaService) disponibilidad(ctx context.Context, id uuid.UUID, cantidad decimal.Decimal) (*dto.DisponibilidadResponse, error) {
	movs, err := s.repo.MovimientosDe(ctx, id)
	if err != nil {
		return nil, err
	}
	fold := make([]almacen.Movimiento, len(movs))
	for i, m := range movs {
		fold[i] = almacen.Movimiento{Direccion: almacen.Direccion(m.Movimiento), Cantidad: m.Cantidad}
	}
	existencia := almacen.Existencia(fold)
	faltante := cantidad.Sub(existencia)
	if faltante.IsNegative() {
		faltante = decimal.Zero
	}
	return &dto.DisponibilidadResponse{
		Disponible: existencia.GreaterThanOrEqual(cantidad),
		Existencia: existencia,
		Solicitado: cantidad,
		Faltante:   faltante,
	}, nil
}

// ── Model → DTO ───────────────────────────────────────────────────────────────

func materiaPrimaResponse(m *model.MateriaPrima) dto.MateriaPrimaResponse {
	return dto.MateriaPrimaResponse{
		ID:           m.ID.String(),
		Nombre:       m.Nombre,
		Tipo:         m.Tipo,
		UnidadMedida: m.UnidadMedida,
		StockMinimo:  m.StockMinimo,
		ProveedorID:  uuidStr(m.ProveedorID),
		Activo:       m.Activo,
	}
}

func movimientoMPResponse(m *model.MovimientoMateriaPrima) dto.MovimientoMPResponse {
	r := dto.MovimientoMPResponse{
		ID:             m.ID.String(),
		MateriaPrimaID: m.MateriaPrimaID.String(),
		Fecha:          fechaStr(m.Fecha),
		Cantidad:       m.Cantidad,
		Movimiento:     m.Movimiento,
		Referencia:     m.Referencia,
		Notas:          m.Notas,
	}
	if m.MateriaPrima != nil {
		r.MateriaPrima = m.MateriaPrima.Nombre
		r.UnidadMedida = m.MateriaPrima.UnidadMedida
	}
	return r
}

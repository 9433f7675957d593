package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/victor-varac/AIKZ-sub001/internal/cartera"
	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/infra"
	"github.com/victor-varac/AIKZ-sub001/internal/model"
	"github.com/victor-varac/AIKZ-sub001/internal/repository"
)

type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.Pagina[dto.ClienteResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Detalle(ctx context.Context, id uuid.UUID, al string) (*dto.ClienteDetalleResponse, error)
}

type clienteService struct {
	repo         repository.ClienteRepository
	vendedorRepo repository.VendedorRepository
	notaRepo     repository.NotaVentaRepository
	cache        *infra.Cache
	reloj        Reloj
	ubicacion    *time.Location
}

func NewClienteService(
	repo repository.ClienteRepository,
	vendedorRepo repository.VendedorRepository,
	notaRepo repository.NotaVentaRepository,
	cache *infra.Cache,
	cfg CarteraConfig,
) ClienteService {
	return &clienteService{
		repo:         repo,
		vendedorRepo: vendedorRepo,
		notaRepo:     notaRepo,
		cache:        cache,
		reloj:        cfg.Reloj,
		ubicacion:    cfg.Ubicacion,
	}
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	empresa := strings.TrimSpace(req.Empresa)
	if empresa == "" {
		return nil, invalido("empresa", "es obligatoria")
	}
	if req.DiasCredito < 0 {
		return nil, invalido("dias_credito", "no puede ser negativo")
	}
	vendedor, err := s.vendedor(ctx, req.VendedorID)
	if err != nil {
		return nil, err
	}
	c := &model.Cliente{
		Empresa:        empresa,
		NombreContacto: req.NombreContacto,
		Correo:         req.Correo,
		Telefono:       req.Telefono,
		Direccion:      req.Direccion,
		DiasCredito:    req.DiasCredito,
		Activo:         true,
		Vendedor:       vendedor,
	}
	if vendedor != nil {
		c.VendedorID = &vendedor.ID
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	invalidarCache(ctx, s.cache, "clientes")
	resp := clienteResponse(c)
	return &resp, nil
}

func (s *clienteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "cliente")
	}
	resp := clienteResponse(c)
	return &resp, nil
}

func (s *clienteService) Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.Pagina[dto.ClienteResponse], error) {
	if _, err := parseUUIDOpc("vendedor_id", filter.VendedorID); err != nil {
		return nil, err
	}
	if filter.DiasCreditoMin != nil && filter.DiasCreditoMax != nil && *filter.DiasCreditoMin > *filter.DiasCreditoMax {
		return nil, invalido("dias_credito_max", "debe ser mayor o igual a dias_credito_min")
	}
	filter.Paginacion = filter.Paginacion.Normalizada()
	clientes, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClienteResponse, len(clientes))
	for i := range clientes {
		out[i] = clienteResponse(&clientes[i])
	}
	pagina := dto.NuevaPagina(out, filter.Paginacion)
	return &pagina, nil
}

// Actualizar changes the client. A new credit term only applies to notes
// created afterwards; existing due dates never move.
func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "cliente")
	}
	if req.Empresa != nil {
		if c.Empresa = strings.TrimSpace(*req.Empresa); c.Empresa == "" {
			return nil, invalido("empresa", "es obligatoria")
		}
	}
	if req.NombreContacto != nil {
		c.NombreContacto = req.NombreContacto
	}
	if req.Correo != nil {
		c.Correo = req.Correo
	}
	if req.Telefono != nil {
		c.Telefono = req.Telefono
	}
	if req.Direccion != nil {
		c.Direccion = req.Direccion
	}
	if req.DiasCredito != nil {
		if *req.DiasCredito < 0 {
			return nil, invalido("dias_credito", "no puede ser negativo")
		}
		c.DiasCredito = *req.DiasCredito
	}
	if req.VendedorID != nil {
		v, err := s.vendedor(ctx, req.VendedorID)
		if err != nil {
			return nil, err
		}
		c.Vendedor, c.VendedorID = v, nil
		if v != nil {
			c.VendedorID = &v.ID
		}
	}
	if req.Activo != nil {
		c.Activo = *req.Activo
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	invalidarCache(ctx, s.cache, "clientes")
	resp := clienteResponse(c)
	return &resp, nil
}

func (s *clienteService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return noEncontrado(err, "cliente")
	}
	invalidarCache(ctx, s.cache, "clientes")
	return nil
}

// Detalle adds the client's receivable statistics as of al.
func (s *clienteService) Detalle(ctx context.Context, id uuid.UUID, al string) (*dto.ClienteDetalleResponse, error) {
	fecha, err := parseAl(al, s.reloj, s.ubicacion)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "cliente")
	}
	notas, err := s.notaRepo.ListParaAntiguedad(ctx, &id)
	if err != nil {
		return nil, err
	}

	est := dto.EstadisticasCliente{
		TotalFacturado: decimal.Zero,
		TotalPagado:    decimal.Zero,
		Saldo:          decimal.Zero,
		SaldoVencido:   decimal.Zero,
	}
	for i := range notas {
		a := antiguedadNota(&notas[i], fecha)
		est.FacturasTotales++
		est.TotalFacturado = est.TotalFacturado.Add(a.Total)
		est.TotalPagado = est.TotalPagado.Add(a.TotalPagado)
		if !a.Saldo.IsPositive() {
			continue
		}
		est.Saldo = est.Saldo.Add(a.Saldo)
		if a.Estado == cartera.Vencida {
			est.FacturasVencidas++
			est.SaldoVencido = est.SaldoVencido.Add(a.Saldo)
		}
	}
	return &dto.ClienteDetalleResponse{ClienteResponse: clienteResponse(c), Estadisticas: est}, nil
}

// vendedor resolves an optional salesperson id; a blank id clears it.
func (s *clienteService) vendedor(ctx context.Context, raw *string) (*model.Vendedor, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := parseUUIDOpc("vendedor_id", *raw)
	if err != nil || id == nil {
		return nil, err
	}
	v, err := s.vendedorRepo.FindByID(ctx, *id)
	if err != nil {
		return nil, noEncontrado(err, "vendedor")
	}
	return v, nil
}

func clienteResponse(c *model.Cliente) dto.ClienteResponse {
	r := dto.ClienteResponse{
		ID:             c.ID.String(),
		Empresa:        c.Empresa,
		NombreContacto: c.NombreContacto,
		Correo:         c.Correo,
		Telefono:       c.Telefono,
		Direccion:      c.Direccion,
		DiasCredito:    c.DiasCredito,
		Activo:         c.Activo,
		VendedorID:     uuidStr(c.VendedorID),
	}
	if c.Vendedor != nil {
		nombre := c.Vendedor.Nombre
		r.VendedorNombre = &nombre
	}
	return r
}

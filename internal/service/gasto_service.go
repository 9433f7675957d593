package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/infra"
	"github.com/victor-varac/AIKZ-sub001/internal/model"
	"github.com/victor-varac/AIKZ-sub001/internal/repository"
)

type GastoService interface {
	Crear(ctx context.Context, req dto.CrearGastoRequest) (*dto.GastoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.GastoResponse, error)
	Listar(ctx context.Context, filter dto.GastoFilter) (*dto.Pagina[dto.GastoResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearGastoRequest) (*dto.GastoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	Resumen(ctx context.Context, rango dto.RangoFechas) (*dto.ResumenGastosResponse, error)
	PorCategoria(ctx context.Context, rango dto.RangoFechas) ([]dto.GastoPorCategoria, error)
}

type gastoService struct {
	repo  repository.GastoRepository
	cache *infra.Cache
}

func NewGastoService(repo repository.GastoRepository, cache *infra.Cache) GastoService {
	return &gastoService{repo: repo, cache: cache}
}

func (s *gastoService) Crear(ctx context.Context, req dto.CrearGastoRequest) (*dto.GastoResponse, error) {
	g := &model.Gasto{}
	if err := aplicarGasto(g, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	invalidarCache(ctx, s.cache, "gastos")
	resp := gastoResponse(g)
	return &resp, nil
}

func (s *gastoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.GastoResponse, error) {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "gasto")
	}
	resp := gastoResponse(g)
	return &resp, nil
}

func (s *gastoService) Listar(ctx context.Context, filter dto.GastoFilter) (*dto.Pagina[dto.GastoResponse], error) {
	desde, hasta, err := parseRango(dto.RangoFechas{Desde: filter.Desde, Hasta: filter.Hasta})
	if err != nil {
		return nil, err
	}
	f := repository.FiltroGastos{
		Desde:     desde,
		Hasta:     hasta,
		Categoria: strings.TrimSpace(filter.Categoria),
		Concepto:  filter.Concepto,
		Pagina:    filter.Paginacion.Normalizada(),
	}
	gastos, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GastoResponse, len(gastos))
	for i := range gastos {
		out[i] = gastoResponse(&gastos[i])
	}
	pagina := dto.NuevaPagina(out, f.Pagina)
	return &pagina, nil
}

// Actualizar and Eliminar refuse expenses generated by supplier payments;
// those follow the payment.
func (s *gastoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearGastoRequest) (*dto.GastoResponse, error) {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "gasto")
	}
	if g.CompraID != nil {
		return nil, invalido("id", "el gasto proviene de un pago a proveedor")
	}
	if err := aplicarGasto(g, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, g); err != nil {
		return nil, err
	}
	invalidarCache(ctx, s.cache, "gastos")
	resp := gastoResponse(g)
	return &resp, nil
}

func (s *gastoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return noEncontrado(err, "gasto")
	}
	if g.CompraID != nil {
		return invalido("id", "el gasto proviene de un pago a proveedor")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return noEncontrado(err, "gasto")
	}
	invalidarCache(ctx, s.cache, "gastos")
	return nil
}

func (s *gastoService) Resumen(ctx context.Context, rango dto.RangoFechas) (*dto.ResumenGastosResponse, error) {
	filas, err := s.categorias(ctx, rango)
	if err != nil {
		return nil, err
	}
	resp := &dto.ResumenGastosResponse{Total: decimal.Zero, PorCategoria: make(map[string]decimal.Decimal, len(filas))}
	for _, f := range filas {
		resp.Total = resp.Total.Add(f.Total)
		resp.PorCategoria[f.Categoria] = f.Total
		resp.Registros += int(f.Cantidad)
	}
	return resp, nil
}

// PorCategoria breaks expenses down by category, largest first, with each
// category's share of the total rounded to one decimal.
func (s *gastoService) PorCategoria(ctx context.Context, rango dto.RangoFechas) ([]dto.GastoPorCategoria, error) {
	filas, err := s.categorias(ctx, rango)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, f := range filas {
		total = total.Add(f.Total)
	}
	out := make([]dto.GastoPorCategoria, len(filas))
	for i, f := range filas {
		out[i] = dto.GastoPorCategoria{
			Categoria:  f.Categoria,
			Total:      f.Total,
			Registros:  int(f.Cantidad),
			Porcentaje: decimal.Zero,
		}
		if total.IsPositive() {
			out[i].Porcentaje = f.Total.Mul(cien).Div(total).Round(1)
		}
	}
	return out, nil
}

func (s *gastoService) categorias(ctx context.Context, rango dto.RangoFechas) ([]repository.FilaCategoria, error) {
	desde, hasta, err := parseRango(rango)
	if err != nil {
		return nil, err
	}
	return s.repo.SumarPorCategoria(ctx, desde, hasta)
}

func aplicarGasto(g *model.Gasto, req dto.CrearGastoRequest) error {
	fecha, err := parseFecha("fecha", req.Fecha)
	if err != nil {
		return err
	}
	concepto := strings.TrimSpace(req.Concepto)
	if concepto == "" {
		return invalido("concepto", "es obligatorio")
	}
	if !req.Importe.IsPositive() {
		return invalido("importe", "debe ser mayor a cero")
	}
	categoria := strings.TrimSpace(req.Categoria)
	if categoria == "" {
		categoria = model.CategoriaSinCategoria
	}
	g.Fecha = fecha
	g.Concepto = concepto
	g.Importe = req.Importe
	g.Categoria = categoria
	return nil
}

func gastoResponse(g *model.Gasto) dto.GastoResponse {
	return dto.GastoResponse{
		ID:        g.ID.String(),
		Fecha:     fechaStr(g.Fecha),
		Concepto:  g.Concepto,
		Importe:   g.Importe,
		Categoria: g.Categoria,
		CompraID:  uuidStr(g.CompraID),
	}
}

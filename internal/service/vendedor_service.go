package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/model"
	"github.com/victor-varac/AIKZ-sub001/internal/repository"
)

var cien = decimal.NewFromInt(100)

type VendedorService interface {
	Crear(ctx context.Context, req dto.CrearVendedorRequest) (*dto.VendedorResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VendedorResponse, error)
	Listar(ctx context.Context, filter dto.VendedorFilter) (*dto.Pagina[dto.VendedorResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearVendedorRequest) (*dto.VendedorResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Ranking(ctx context.Context, rango dto.RangoFechas) ([]dto.RankingVendedor, error)
}

type vendedorService struct {
	repo      repository.VendedorRepository
	notaRepo  repository.NotaVentaRepository
	reloj     Reloj
	ubicacion *time.Location
}

func NewVendedorService(repo repository.VendedorRepository, notaRepo repository.NotaVentaRepository, cfg CarteraConfig) VendedorService {
	return &vendedorService{repo: repo, notaRepo: notaRepo, reloj: cfg.Reloj, ubicacion: cfg.Ubicacion}
}

func (s *vendedorService) Crear(ctx context.Context, req dto.CrearVendedorRequest) (*dto.VendedorResponse, error) {
	v := &model.Vendedor{Activo: true}
	if err := aplicarVendedor(v, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	resp := vendedorResponse(v)
	return &resp, nil
}

func (s *vendedorService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VendedorResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "vendedor")
	}
	resp := vendedorResponse(v)
	return &resp, nil
}

func (s *vendedorService) Listar(ctx context.Context, filter dto.VendedorFilter) (*dto.Pagina[dto.VendedorResponse], error) {
	filter.Paginacion = filter.Paginacion.Normalizada()
	vendedores, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VendedorResponse, len(vendedores))
	for i := range vendedores {
		out[i] = vendedorResponse(&vendedores[i])
	}
	pagina := dto.NuevaPagina(out, filter.Paginacion)
	return &pagina, nil
}

func (s *vendedorService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearVendedorRequest) (*dto.VendedorResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "vendedor")
	}
	if err := aplicarVendedor(v, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	resp := vendedorResponse(v)
	return &resp, nil
}

func (s *vendedorService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return noEncontrado(err, "vendedor")
	}
	return nil
}

// Ranking totals sales per salesperson. The range defaults to the current
// month up to today.
func (s *vendedorService) Ranking(ctx context.Context, rango dto.RangoFechas) ([]dto.RankingVendedor, error) {
	desde, hasta, err := parseRango(rango)
	if err != nil {
		return nil, err
	}
	d, h := rangoMes(hoy(s.reloj, s.ubicacion), desde, hasta)
	filas, err := s.notaRepo.RankingVendedores(ctx, d, h)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RankingVendedor, len(filas))
	for i, f := range filas {
		out[i] = dto.RankingVendedor{
			VendedorID:   f.VendedorID.String(),
			Nombre:       f.Nombre,
			Notas:        f.Notas,
			TotalVendido: f.Total,
			Comision:     redondear(f.Total.Mul(f.ComisionPct).Div(cien)),
		}
	}
	return out, nil
}

// rangoMes fills a missing bound with the first day of hoy's month or hoy.
func rangoMes(hoy time.Time, desde, hasta *time.Time) (time.Time, time.Time) {
	d := time.Date(hoy.Year(), hoy.Month(), 1, 0, 0, 0, 0, time.UTC)
	h := hoy
	if desde != nil {
		d = *desde
	}
	if hasta != nil {
		h = *hasta
	}
	return d, h
}

func aplicarVendedor(v *model.Vendedor, req dto.CrearVendedorRequest) error {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return invalido("nombre", "es obligatorio")
	}
	if req.ComisionPct.IsNegative() || req.ComisionPct.GreaterThan(cien) {
		return invalido("comision_pct", "debe estar entre 0 y 100")
	}
	v.Nombre = nombre
	v.Correo = req.Correo
	v.Telefono = req.Telefono
	v.ComisionPct = req.ComisionPct
	return nil
}

func vendedorResponse(v *model.Vendedor) dto.VendedorResponse {
	return dto.VendedorResponse{
		ID:          v.ID.String(),
		Nombre:      v.Nombre,
		Correo:      v.Correo,
		Telefono:    v.Telefono,
		ComisionPct: v.ComisionPct,
		Activo:      v.Activo,
	}
}

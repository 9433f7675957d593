package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/victor-varac/AIKZ-sub001/internal/cartera"
	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/infra"
	"github.com/victor-varac/AIKZ-sub001/internal/repository"
)

const formatoFecha = "2006-01-02"

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// invalidarCache bumps the dashboard cache version after a committed write.
// A Redis failure only leaves the widgets stale until the TTL, so it is
// logged and swallowed.
func invalidarCache(ctx context.Context, cache *infra.Cache, origen string) {
	if err := cache.Bump(ctx); err != nil {
		log.Warn().Err(err).Str("origen", origen).Msg("no se pudo invalidar la caché")
	}
}

// Reloj returns the current instant; tests replace it.
type Reloj func() time.Time

// hoy is today's calendar date in loc.
func hoy(reloj Reloj, loc *time.Location) time.Time {
	if reloj == nil {
		reloj = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return cartera.Dia(reloj().In(loc))
}

// parseFecha parses a YYYY-MM-DD field.
func parseFecha(campo, s string) (time.Time, error) {
	t, err := time.Parse(formatoFecha, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, invalido(campo, "fecha inválida %q, se espera AAAA-MM-DD", s)
	}
	return t, nil
}

// parseFechaOpc parses an optional date; blank yields nil.
func parseFechaOpc(campo, s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := parseFecha(campo, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseAl resolves the "as of" date of an aging read, defaulting to today.
func parseAl(s string, reloj Reloj, loc *time.Location) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return hoy(reloj, loc), nil
	}
	return parseFecha("al", s)
}

func parseUUIDOpc(campo, s string) (*uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, invalido(campo, "identificador inválido")
	}
	return &id, nil
}

func parseDecimalOpc(campo, s string) (*decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, invalido(campo, "número inválido %q", s)
	}
	return &d, nil
}

// parseFiltroCartera converts the query string into the repository filter.
func parseFiltroCartera(f dto.CarteraFilter, reloj Reloj, loc *time.Location) (repository.FiltroCartera, error) {
	var out repository.FiltroCartera
	var err error
	if out.Al, err = parseAl(f.Al, reloj, loc); err != nil {
		return out, err
	}
	if f.Estado != "" {
		out.Estado = cartera.Estado(strings.ToUpper(f.Estado))
		if !out.Estado.Valido() {
			return out, invalido("estado", "debe ser VIGENTE, VENCIDA o PAGADA")
		}
	}
	if out.ContraparteID, err = parseUUIDOpc("contraparte_id", f.ContraparteID); err != nil {
		return out, err
	}
	if out.FechaDesde, err = parseFechaOpc("fecha_desde", f.FechaDesde); err != nil {
		return out, err
	}
	if out.FechaHasta, err = parseFechaOpc("fecha_hasta", f.FechaHasta); err != nil {
		return out, err
	}
	if out.MontoMin, err = parseDecimalOpc("monto_min", f.MontoMin); err != nil {
		return out, err
	}
	if out.MontoMax, err = parseDecimalOpc("monto_max", f.MontoMax); err != nil {
		return out, err
	}
	out.Contraparte = f.Contraparte
	out.SoloConSaldo = f.SoloConSaldo
	out.Pagina = f.Paginacion.Normalizada()
	return out, nil
}

func fechaStr(t time.Time) string { return t.Format(formatoFecha) }

func uuidStr(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// redondear rounds money to cents.
func redondear(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// parseRango parses an optional desde/hasta pair.
func parseRango(r dto.RangoFechas) (desde, hasta *time.Time, err error) {
	if desde, err = parseFechaOpc("desde", r.Desde); err != nil {
		return nil, nil, err
	}
	if hasta, err = parseFechaOpc("hasta", r.Hasta); err != nil {
		return nil, nil, err
	}
	if desde != nil && hasta != nil && desde.After(*hasta) {
		return nil, nil, invalido("hasta", "debe ser posterior a desde")
	}
	return desde, hasta, nil
}

// totalDocumento is subtotal + iva − descuento, which may not go negative.
func totalDocumento(subtotal, iva, descuento decimal.Decimal) (decimal.Decimal, error) {
	if iva.IsNegative() {
		return decimal.Zero, invalido("iva", "no puede ser negativo")
	}
	if descuento.IsNegative() {
		return decimal.Zero, invalido("descuento", "no puede ser negativo")
	}
	total := redondear(subtotal.Add(iva).Sub(descuento))
	if total.IsNegative() {
		return decimal.Zero, invalido("descuento", "el total no puede ser negativo")
	}
	return total, nil
}

func enLista(v string, lista []string) bool {
	for _, x := range lista {
		if x == v {
			return true
		}
	}
	return false
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/victor-varac/AIKZ-sub001/internal/cartera"
	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/infra"
	"github.com/victor-varac/AIKZ-sub001/internal/model"
	"github.com/victor-varac/AIKZ-sub001/internal/repository"
	"github.com/victor-varac/AIKZ-sub001/internal/worker"
)

// CobranzaService is the accounts-receivable side: aged sales notes,
// customer payments and collection reminders.
type CobranzaService interface {
	ListarCuentas(ctx context.Context, filter dto.CarteraFilter) (*dto.Pagina[dto.CuentaResponse], error)
	Resumen(ctx context.Context, al string) (*dto.ResumenCarteraResponse, error)
	PorCliente(ctx context.Context, al string) ([]cartera.TotalContraparte, error)
	Detalle(ctx context.Context, numeroFactura, al string) (*dto.DetalleCuentaResponse, error)
	RegistrarPago(ctx context.Context, req dto.RegistrarPagoRequest) (*dto.RegistrarPagoResponse, error)
	HistorialPagosCliente(ctx context.Context, clienteID uuid.UUID) ([]dto.PagoResponse, error)
	EstadoCuenta(ctx context.Context, clienteID uuid.UUID, al time.Time) (*infra.EstadoCuenta, error)
	EstadoCuentaPDF(ctx context.Context, clienteID uuid.UUID, al string) ([]byte, error)
	EncolarRecordatorios(ctx context.Context, al time.Time) (int, error)
}

// CarteraConfig carries the settings shared by both ledgers.
type CarteraConfig struct {
	Empresa   string
	TasaIVA   decimal.Decimal
	Ubicacion *time.Location
	Reloj     Reloj
}

type cobranzaService struct {
	repo        repository.NotaVentaRepository
	clienteRepo repository.ClienteRepository
	cache       *infra.Cache
	dispatcher  *worker.Dispatcher
	cfg         CarteraConfig
}

func NewCobranzaService(
	repo repository.NotaVentaRepository,
	clienteRepo repository.ClienteRepository,
	cache *infra.Cache,
	dispatcher *worker.Dispatcher,
	cfg CarteraConfig,
) CobranzaService {
	return &cobranzaService{
		repo:        repo,
		clienteRepo: clienteRepo,
		cache:       cache,
		dispatcher:  dispatcher,
		cfg:         cfg,
	}
}

// ── Lecturas ──────────────────────────────────────────────────────────────────

func (s *cobranzaService) ListarCuentas(ctx context.Context, filter dto.CarteraFilter) (*dto.Pagina[dto.CuentaResponse], error) {
	f, err := parseFiltroCartera(filter, s.cfg.Reloj, s.cfg.Ubicacion)
	if err != nil {
		return nil, err
	}
	notas, err := s.repo.ListCuentas(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CuentaResponse, len(notas))
	for i := range notas {
		out[i] = cuentaDeNota(&notas[i], f.Al)
	}
	pagina := dto.NuevaPagina(out, f.Pagina)
	return &pagina, nil
}

func (s *cobranzaService) Resumen(ctx context.Context, al string) (*dto.ResumenCarteraResponse, error) {
	fecha, err := parseAl(al, s.cfg.Reloj, s.cfg.Ubicacion)
	if err != nil {
		return nil, err
	}
	loader := func(ctx context.Context) (interface{}, error) { return s.resumir(ctx, fecha) }

	var r cartera.Resumen
	key, err := s.cache.BuildKey(ctx, "cobrar", "resumen", fechaStr(fecha))
	if err == nil {
		err = s.cache.FetchJSON(ctx, key, &r, loader)
	}
	if err != nil {
		log.Warn().Err(err).Msg("cobranza: resumen sin caché")
		if r, err = s.resumir(ctx, fecha); err != nil {
			return nil, err
		}
	}
	return &dto.ResumenCarteraResponse{Al: fechaStr(fecha), Resumen: r}, nil
}

func (s *cobranzaService) resumir(ctx context.Context, al time.Time) (cartera.Resumen, error) {
	notas, err := s.repo.ListParaAntiguedad(ctx, nil)
	if err != nil {
		return cartera.Resumen{}, err
	}
	r := cartera.NuevoResumen()
	for i := range notas {
		r.Agregar(antiguedadNota(&notas[i], al))
	}
	return r, nil
}

func (s *cobranzaService) PorCliente(ctx context.Context, al string) ([]cartera.TotalContraparte, error) {
	fecha, err := parseAl(al, s.cfg.Reloj, s.cfg.Ubicacion)
	if err != nil {
		return nil, err
	}
	notas, err := s.repo.ListParaAntiguedad(ctx, nil)
	if err != nil {
		return nil, err
	}
	items := make([]cartera.ConContraparte, len(notas))
	for i := range notas {
		items[i] = cartera.ConContraparte{
			ContraparteID: notas[i].ClienteID.String(),
			Antiguedad:    antiguedadNota(&notas[i], fecha),
		}
		if notas[i].Cliente != nil {
			items[i].Nombre = notas[i].Cliente.Empresa
		}
	}
	return cartera.AgruparPorContraparte(items), nil
}

func (s *cobranzaService) Detalle(ctx context.Context, numeroFactura, al string) (*dto.DetalleCuentaResponse, error) {
	fecha, err := parseAl(al, s.cfg.Reloj, s.cfg.Ubicacion)
	if err != nil {
		return nil, err
	}
	n, err := s.repo.FindByNumero(ctx, numeroFactura)
	if err != nil {
		return nil, noEncontrado(err, "nota de venta "+numeroFactura)
	}
	resp := &dto.DetalleCuentaResponse{
		CuentaResponse: cuentaDeNota(n, fecha),
		Pagos:          make([]dto.PagoResponse, len(n.Pagos)),
	}
	for i := range n.Pagos {
		resp.Pagos[i] = pagoResponse(&n.Pagos[i])
		resp.Pagos[i].NumeroFactura = n.NumeroFactura
	}
	return resp, nil
}

// ── RegistrarPago ─────────────────────────────────────────────────────────────
// The guard and the insert share one transaction: the note row is locked,
// its payments summed, and the insert refused when it would overpay.

func (s *cobranzaService) RegistrarPago(ctx context.Context, req dto.RegistrarPagoRequest) (*dto.RegistrarPagoResponse, error) {
	fecha, err := validarPago(req)
	if err != nil {
		return nil, err
	}
	notaID, err := s.resolverNota(ctx, req)
	if err != nil {
		return nil, err
	}

	pago := model.Pago{
		NotaVentaID:    notaID,
		Fecha:          fecha,
		Importe:        req.Importe,
		MetodoPago:     req.MetodoPago,
		Referencia:     req.Referencia,
		ComprobanteURL: req.ComprobanteURL,
		Notas:          req.Notas,
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		n, err := s.repo.LockForUpdateTx(tx, notaID)
		if err != nil {
			return noEncontrado(err, "nota de venta")
		}
		pagado, err := s.repo.SumPagosTx(tx, notaID)
		if err != nil {
			return err
		}
		if pagado.Add(req.Importe).GreaterThan(n.Total) {
			return rechazo(ErrSobrepago, "importe", "el saldo pendiente de %s es %s",
				n.NumeroFactura, infra.FormatoMXN(n.Total.Sub(pagado)))
		}
		return s.repo.CreatePagoTx(tx, &pago)
	})
	if txErr != nil {
		return nil, txErr
	}

	if err := s.cache.Bump(ctx); err != nil {
		log.Warn().Err(err).Msg("cobranza: no se pudo invalidar la caché")
	}
	log.Info().
		Str("nota_venta_id", notaID.String()).
		Str("importe", req.Importe.StringFixed(2)).
		Str("metodo", req.MetodoPago).
		Msg("pago registrado")

	n, err := s.repo.FindByID(ctx, notaID)
	if err != nil {
		return nil, err
	}
	resp := &dto.RegistrarPagoResponse{
		Pago:   pagoResponse(&pago),
		Cuenta: cuentaDeNota(n, hoy(s.cfg.Reloj, s.cfg.Ubicacion)),
	}
	resp.Pago.NumeroFactura = n.NumeroFactura
	resp.Pago.Contraparte = resp.Cuenta.Contraparte
	return resp, nil
}

func (s *cobranzaService) resolverNota(ctx context.Context, req dto.RegistrarPagoRequest) (uuid.UUID, error) {
	if req.DocumentoID != "" {
		id, err := uuid.Parse(req.DocumentoID)
		if err != nil {
			return uuid.Nil, invalido("documento_id", "identificador inválido")
		}
		return id, nil
	}
	n, err := s.repo.FindByNumero(ctx, req.NumeroFactura)
	if err != nil {
		return uuid.Nil, noEncontrado(err, "nota de venta "+req.NumeroFactura)
	}
	return n.ID, nil
}

func (s *cobranzaService) HistorialPagosCliente(ctx context.Context, clienteID uuid.UUID) ([]dto.PagoResponse, error) {
	if _, err := s.clienteRepo.FindByID(ctx, clienteID); err != nil {
		return nil, noEncontrado(err, "cliente")
	}
	pagos, err := s.repo.ListPagos(ctx, &clienteID, nil, nil)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PagoResponse, len(pagos))
	for i := range pagos {
		out[i] = pagoResponse(&pagos[i])
	}
	return out, nil
}

// ── Estado de cuenta y recordatorios ──────────────────────────────────────────

// EstadoCuenta lists the client's notes with an open balance as of al.
func (s *cobranzaService) EstadoCuenta(ctx context.Context, clienteID uuid.UUID, al time.Time) (*infra.EstadoCuenta, error) {
	c, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil {
		return nil, noEncontrado(err, "cliente")
	}
	notas, err := s.repo.ListParaAntiguedad(ctx, &clienteID)
	if err != nil {
		return nil, err
	}

	ec := &infra.EstadoCuenta{
		Empresa:      s.cfg.Empresa,
		Cliente:      c.Empresa,
		Contacto:     strOrEmpty(c.NombreContacto),
		Correo:       strOrEmpty(c.Correo),
		Al:           al,
		TotalSaldo:   decimal.Zero,
		TotalVencido: decimal.Zero,
	}
	for i := range notas {
		a := antiguedadNota(&notas[i], al)
		if !a.Saldo.IsPositive() {
			continue
		}
		ec.Filas = append(ec.Filas, infra.FilaEstadoCuenta{
			NumeroFactura:    notas[i].NumeroFactura,
			Fecha:            notas[i].Fecha,
			FechaVencimiento: a.FechaVencimiento,
			Total:            a.Total,
			Pagado:           a.TotalPagado,
			Saldo:            a.Saldo,
			Estado:           string(a.Estado),
			DiasVencido:      a.DiasVencido,
		})
		ec.TotalSaldo = ec.TotalSaldo.Add(a.Saldo)
		if a.Estado == cartera.Vencida {
			ec.TotalVencido = ec.TotalVencido.Add(a.Saldo)
		}
	}
	return ec, nil
}

func (s *cobranzaService) EstadoCuentaPDF(ctx context.Context, clienteID uuid.UUID, al string) ([]byte, error) {
	fecha, err := parseAl(al, s.cfg.Reloj, s.cfg.Ubicacion)
	if err != nil {
		return nil, err
	}
	ec, err := s.EstadoCuenta(ctx, clienteID, fecha)
	if err != nil {
		return nil, err
	}
	return infra.GenerarEstadoCuentaPDF(*ec)
}

// EncolarRecordatorios enqueues one statement job per client holding at
// least one overdue note. It returns how many jobs were enqueued.
func (s *cobranzaService) EncolarRecordatorios(ctx context.Context, al time.Time) (int, error) {
	if s.dispatcher == nil {
		return 0, errors.New("cobranza: cola de trabajos no configurada")
	}
	notas, err := s.repo.ListParaAntiguedad(ctx, nil)
	if err != nil {
		return 0, err
	}

	vistos := make(map[uuid.UUID]bool)
	encolados := 0
	for i := range notas {
		n := &notas[i]
		if vistos[n.ClienteID] {
			continue
		}
		if antiguedadNota(n, al).Estado != cartera.Vencida {
			continue
		}
		vistos[n.ClienteID] = true
		job := worker.EstadoCuentaJob{ClienteID: n.ClienteID.String(), Al: fechaStr(al)}
		if err := s.dispatcher.EncolarEstadoCuenta(ctx, job); err != nil {
			return encolados, fmt.Errorf("encolar estado de cuenta %s: %w", n.ClienteID, err)
		}
		encolados++
	}
	log.Info().Int("encolados", encolados).Str("al", fechaStr(al)).Msg("recordatorios de cobranza encolados")
	return encolados, nil
}

package service

import (
	"context"
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
)

const (
	proyeccionDiasDefault = 30
	proyeccionDiasMaximo  = 365
)

// CuentasPagarService is the accounts-payable side: supplier invoices,
// payments to suppliers and the payment outlook.
type CuentasPagarService interface {
	Crear(ctx context.Context, req dto.CrearCompraRequest) (*dto.CompraResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID, al string) (*dto.CompraResponse, error)
	Listar(ctx context.Context, filter dto.CarteraFilter) (*dto.Pagina[dto.CompraResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCompraRequest) (*dto.CompraResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error

	ListarCuentas(ctx context.Context, filter dto.CarteraFilter) (*dto.Pagina[dto.CuentaResponse], error)
	Resumen(ctx context.Context, al string) (*dto.ResumenCarteraResponse, error)
	RegistrarPago(ctx context.Context, req dto.RegistrarPagoRequest) (*dto.RegistrarPagoResponse, error)
	HistorialPagos(ctx context.Context, rango dto.RangoFechas) ([]dto.PagoResponse, error)
	ProyeccionPagos(ctx context.Context, dias int, al string) (*dto.ProyeccionPagosResponse, error)
	GastosPorProveedor(ctx context.Context, rango dto.RangoFechas) ([]dto.GastoPorProveedor, error)
}

type cuentasPagarService struct {
	repo          repository.CompraRepository
	proveedorRepo repository.ProveedorRepository
	gastoRepo     repository.GastoRepository
	cache         *infra.Cache
	cfg           CarteraConfig
}

func NewCuentasPagarService(
	repo repository.CompraRepository,
	proveedorRepo repository.ProveedorRepository,
	gastoRepo repository.GastoRepository,
	cache *infra.Cache,
	cfg CarteraConfig,
) CuentasPagarService {
	return &cuentasPagarService{
		repo:          repo,
		proveedorRepo: proveedorRepo,
		gastoRepo:     gastoRepo,
		cache:         cache,
		cfg:           cfg,
	}
}

// ── Compras ───────────────────────────────────────────────────────────────────

func (s *cuentasPagarService) Crear(ctx context.Context, req dto.CrearCompraRequest) (*dto.CompraResponse, error) {
	proveedorID, err := uuid.Parse(req.ProveedorID)
	if err != nil {
		return nil, invalido("proveedor_id", "identificador inválido")
	}
	fecha, err := parseFecha("fecha", req.Fecha)
	if err != nil {
		return nil, err
	}
	prov, err := s.proveedorRepo.FindByID(ctx, proveedorID)
	if err != nil {
		return nil, noEncontrado(err, "proveedor")
	}

	dias := prov.DiasPago
	if req.DiasPago != nil {
		dias = *req.DiasPago
	}
	iva := redondear(req.Subtotal.Mul(s.cfg.TasaIVA))
	if req.IVA != nil {
		iva = *req.IVA
	}
	total, err := totalDocumento(req.Subtotal, iva, req.Descuento)
	if err != nil {
		return nil, err
	}

	c := &model.Compra{
		NumeroFactura:    req.NumeroFactura,
		ProveedorID:      proveedorID,
		Fecha:            fecha,
		DiasPago:         dias,
		FechaVencimiento: cartera.FechaVencimiento(fecha, dias),
		Subtotal:         req.Subtotal,
		IVA:              iva,
		Descuento:        req.Descuento,
		Total:            total,
		Concepto:         req.Concepto,
		Proveedor:        prov,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if duplicado(err) {
			return nil, rechazo(ErrFacturaDuplicada, "numero_factura", "%s ya está registrada para %s", req.NumeroFactura, prov.Nombre)
		}
		return nil, err
	}
	s.invalidar(ctx)
	log.Info().Str("compra_id", c.ID.String()).Str("numero_factura", c.NumeroFactura).Msg("compra registrada")

	resp := compraResponse(c, hoy(s.cfg.Reloj, s.cfg.Ubicacion))
	return &resp, nil
}

func (s *cuentasPagarService) ObtenerPorID(ctx context.Context, id uuid.UUID, al string) (*dto.CompraResponse, error) {
	fecha, err := parseAl(al, s.cfg.Reloj, s.cfg.Ubicacion)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "compra")
	}
	resp := compraResponse(c, fecha)
	return &resp, nil
}

func (s *cuentasPagarService) Listar(ctx context.Context, filter dto.CarteraFilter) (*dto.Pagina[dto.CompraResponse], error) {
	f, err := parseFiltroCartera(filter, s.cfg.Reloj, s.cfg.Ubicacion)
	if err != nil {
		return nil, err
	}
	compras, err := s.repo.ListCuentas(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompraResponse, len(compras))
	for i := range compras {
		out[i] = compraResponse(&compras[i], f.Al)
	}
	pagina := dto.NuevaPagina(out, f.Pagina)
	return &pagina, nil
}

// Actualizar edits an invoice. Amounts are frozen once it has payments; the
// check and the save share the row lock RegistrarPago takes.
func (s *cuentasPagarService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCompraRequest) (*dto.CompraResponse, error) {
	var c *model.Compra
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		if c, err = s.repo.LockForUpdateTx(tx, id); err != nil {
			return noEncontrado(err, "compra")
		}
		if req.NumeroFactura != nil {
			c.NumeroFactura = *req.NumeroFactura
		}
		if req.Concepto != nil {
			c.Concepto = req.Concepto
		}
		subtotal, iva, descuento := c.Subtotal, c.IVA, c.Descuento
		if req.Subtotal != nil {
			subtotal = *req.Subtotal
			if !subtotal.IsPositive() {
				return invalido("subtotal", "debe ser mayor a cero")
			}
			if req.IVA == nil {
				iva = redondear(subtotal.Mul(s.cfg.TasaIVA))
			}
		}
		if req.IVA != nil {
			iva = *req.IVA
		}
		if req.Descuento != nil {
			descuento = *req.Descuento
		}
		total, err := totalDocumento(subtotal, iva, descuento)
		if err != nil {
			return err
		}
		if !total.Equal(c.Total) {
			n, err := s.repo.CountPagosTx(tx, c.ID)
			if err != nil {
				return err
			}
			if n > 0 {
				return rechazo(ErrConPagos, "subtotal", "la factura %s tiene %d pagos; el total no puede cambiar", c.NumeroFactura, n)
			}
		}
		c.Subtotal, c.IVA, c.Descuento, c.Total = subtotal, iva, descuento, total

		if err := s.repo.UpdateTx(tx, c); err != nil {
			if duplicado(err) {
				return rechazo(ErrFacturaDuplicada, "numero_factura", "%s ya está registrada para este proveedor", c.NumeroFactura)
			}
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	s.invalidar(ctx)

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "compra")
	}
	resp := compraResponse(c, hoy(s.cfg.Reloj, s.cfg.Ubicacion))
	return &resp, nil
}

func (s *cuentasPagarService) Eliminar(ctx context.Context, id uuid.UUID) error {
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.repo.LockForUpdateTx(tx, id); err != nil {
			return noEncontrado(err, "compra")
		}
		n, err := s.repo.CountPagosTx(tx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return rechazo(ErrConPagos, "id", "la compra tiene %d pagos registrados", n)
		}
		if err := s.repo.DeleteTx(tx, id); err != nil {
			return noEncontrado(err, "compra")
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}
	s.invalidar(ctx)
	return nil
}

// ── Cartera ───────────────────────────────────────────────────────────────────

func (s *cuentasPagarService) ListarCuentas(ctx context.Context, filter dto.CarteraFilter) (*dto.Pagina[dto.CuentaResponse], error) {
	f, err := parseFiltroCartera(filter, s.cfg.Reloj, s.cfg.Ubicacion)
	if err != nil {
		return nil, err
	}
	compras, err := s.repo.ListCuentas(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CuentaResponse, len(compras))
	for i := range compras {
		out[i] = cuentaDeCompra(&compras[i], f.Al)
	}
	pagina := dto.NuevaPagina(out, f.Pagina)
	return &pagina, nil
}

// Resumen never fails on a storage error: the page shows an empty summary
// and the error is logged.
func (s *cuentasPagarService) Resumen(ctx context.Context, al string) (*dto.ResumenCarteraResponse, error) {
	fecha, err := parseAl(al, s.cfg.Reloj, s.cfg.Ubicacion)
	if err != nil {
		return nil, err
	}
	loader := func(ctx context.Context) (interface{}, error) { return s.resumir(ctx, fecha) }

	var r cartera.Resumen
	key, err := s.cache.BuildKey(ctx, "pagar", "resumen", fechaStr(fecha))
	if err == nil {
		err = s.cache.FetchJSON(ctx, key, &r, loader)
	}
	if err != nil {
		log.Warn().Err(err).Msg("cuentas por pagar: resumen sin caché")
		if r, err = s.resumir(ctx, fecha); err != nil {
			log.Error().Err(err).Msg("cuentas por pagar: resumen no disponible")
			r = cartera.NuevoResumen()
		}
	}
	return &dto.ResumenCarteraResponse{Al: fechaStr(fecha), Resumen: r}, nil
}

func (s *cuentasPagarService) resumir(ctx context.Context, al time.Time) (cartera.Resumen, error) {
	compras, err := s.repo.ListParaAntiguedad(ctx, nil)
	if err != nil {
		return cartera.Resumen{}, err
	}
	r := cartera.NuevoResumen()
	for i := range compras {
		r.Agregar(antiguedadCompra(&compras[i], al))
	}
	return r, nil
}

// ── RegistrarPago ─────────────────────────────────────────────────────────────
// Same guard as receivables. The payment also lands in the expense ledger
// under CategoriaPagoProveedores, inside the same transaction.

func (s *cuentasPagarService) RegistrarPago(ctx context.Context, req dto.RegistrarPagoRequest) (*dto.RegistrarPagoResponse, error) {
	fecha, err := validarPago(req)
	if err != nil {
		return nil, err
	}
	compraID, err := s.resolverCompra(ctx, req)
	if err != nil {
		return nil, err
	}

	pago := model.PagoCompra{
		CompraID:       compraID,
		Fecha:          fecha,
		Importe:        req.Importe,
		MetodoPago:     req.MetodoPago,
		Referencia:     req.Referencia,
		ComprobanteURL: req.ComprobanteURL,
		Notas:          req.Notas,
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err := s.repo.LockForUpdateTx(tx, compraID)
		if err != nil {
			return noEncontrado(err, "compra")
		}
		pagado, err := s.repo.SumPagosTx(tx, compraID)
		if err != nil {
			return err
		}
		if pagado.Add(req.Importe).GreaterThan(c.Total) {
			return rechazo(ErrSobrepago, "importe", "el saldo pendiente de %s es %s",
				c.NumeroFactura, infra.FormatoMXN(c.Total.Sub(pagado)))
		}
		if err := s.repo.CreatePagoTx(tx, &pago); err != nil {
			return err
		}
		return s.gastoRepo.CreateTx(tx, &model.Gasto{
			Fecha:     fecha,
			Concepto:  "Pago factura " + c.NumeroFactura,
			Importe:   req.Importe,
			Categoria: model.CategoriaPagoProveedores,
			CompraID:  &compraID,
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	s.invalidar(ctx)
	log.Info().
		Str("compra_id", compraID.String()).
		Str("importe", req.Importe.StringFixed(2)).
		Msg("pago a proveedor registrado")

	c, err := s.repo.FindByID(ctx, compraID)
	if err != nil {
		return nil, err
	}
	resp := &dto.RegistrarPagoResponse{
		Pago:   pagoCompraResponse(&pago),
		Cuenta: cuentaDeCompra(c, hoy(s.cfg.Reloj, s.cfg.Ubicacion)),
	}
	resp.Pago.NumeroFactura = c.NumeroFactura
	resp.Pago.Contraparte = resp.Cuenta.Contraparte
	return resp, nil
}

func (s *cuentasPagarService) resolverCompra(ctx context.Context, req dto.RegistrarPagoRequest) (uuid.UUID, error) {
	if req.DocumentoID != "" {
		id, err := uuid.Parse(req.DocumentoID)
		if err != nil {
			return uuid.Nil, invalido("documento_id", "identificador inválido")
		}
		return id, nil
	}
	c, err := s.repo.FindByNumero(ctx, req.NumeroFactura)
	if err != nil {
		return uuid.Nil, noEncontrado(err, "compra "+req.NumeroFactura)
	}
	return c.ID, nil
}

// ── Reportes ──────────────────────────────────────────────────────────────────

func (s *cuentasPagarService) HistorialPagos(ctx context.Context, rango dto.RangoFechas) ([]dto.PagoResponse, error) {
	desde, hasta, err := parseRango(rango)
	if err != nil {
		return nil, err
	}
	pagos, err := s.repo.ListPagos(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PagoResponse, len(pagos))
	for i := range pagos {
		out[i] = pagoCompraResponse(&pagos[i])
	}
	return out, nil
}

// ProyeccionPagos lists current payables falling due within dias of al,
// soonest first.
func (s *cuentasPagarService) ProyeccionPagos(ctx context.Context, dias int, al string) (*dto.ProyeccionPagosResponse, error) {
	if dias == 0 {
		dias = proyeccionDiasDefault
	}
	if dias < 0 || dias > proyeccionDiasMaximo {
		return nil, invalido("dias", "debe estar entre 1 y %d", proyeccionDiasMaximo)
	}
	fecha, err := parseAl(al, s.cfg.Reloj, s.cfg.Ubicacion)
	if err != nil {
		return nil, err
	}
	compras, err := s.repo.ListParaAntiguedad(ctx, nil)
	if err != nil {
		return nil, err
	}

	resp := &dto.ProyeccionPagosResponse{Dias: dias, Total: decimal.Zero, Cuentas: []dto.CuentaResponse{}}
	for i := range compras {
		cta := cuentaDeCompra(&compras[i], fecha)
		if cta.Estado != cartera.Vigente || cta.DiasRestantes > dias {
			continue
		}
		resp.Cuentas = append(resp.Cuentas, cta)
		resp.Total = resp.Total.Add(cta.Saldo)
	}
	return resp, nil
}

func (s *cuentasPagarService) GastosPorProveedor(ctx context.Context, rango dto.RangoFechas) ([]dto.GastoPorProveedor, error) {
	desde, hasta, err := parseRango(rango)
	if err != nil {
		return nil, err
	}
	filas, err := s.repo.TotalesPorProveedor(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GastoPorProveedor, len(filas))
	for i, f := range filas {
		out[i] = dto.GastoPorProveedor{
			ProveedorID:   f.ProveedorID.String(),
			Nombre:        f.Nombre,
			TotalFacturas: f.TotalFacturas,
			MontoTotal:    f.MontoTotal,
			Promedio:      decimal.Zero,
		}
		if f.TotalFacturas > 0 {
			out[i].Promedio = redondear(f.MontoTotal.Div(decimal.NewFromInt(int64(f.TotalFacturas))))
		}
	}
	return out, nil
}

func (s *cuentasPagarService) invalidar(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		log.Warn().Err(err).Msg("cuentas por pagar: no se pudo invalidar la caché")
	}
}

func compraResponse(c *model.Compra, al time.Time) dto.CompraResponse {
	r := dto.CompraResponse{
		ID:            c.ID.String(),
		NumeroFactura: c.NumeroFactura,
		ProveedorID:   c.ProveedorID.String(),
		Fecha:         fechaStr(c.Fecha),
		DiasPago:      c.DiasPago,
		Subtotal:      c.Subtotal,
		IVA:           c.IVA,
		Descuento:     c.Descuento,
		Concepto:      c.Concepto,
		Cuenta:        cuentaDeCompra(c, al),
	}
	if c.Proveedor != nil {
		r.Proveedor = c.Proveedor.Nombre
	}
	return r
}

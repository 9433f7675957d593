package service

import (
	"bytes"
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/victor-varac/AIKZ-sub001/internal/almacen"
	"github.com/victor-varac/AIKZ-sub001/internal/cartera"
	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/infra"
	"github.com/victor-varac/AIKZ-sub001/internal/model"
	"github.com/victor-varac/AIKZ-sub001/internal/repository"
)

type NotaVentaService interface {
	Crear(ctx context.Context, req dto.CrearNotaVentaRequest) (*dto.NotaVentaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID, al string) (*dto.NotaVentaResponse, error)
	Listar(ctx context.Context, filter dto.NotaVentaFilter) (*dto.Pagina[dto.NotaVentaResponse], error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	EntregarTodo(ctx context.Context, notaID uuid.UUID, req dto.EntregarTodoRequest) ([]dto.EntregaResponse, error)
	RegistrarEntregas(ctx context.Context, notaID uuid.UUID, req dto.RegistrarEntregasRequest) ([]dto.EntregaResponse, error)
}

type notaVentaService struct {
	repo         repository.NotaVentaRepository
	clienteRepo  repository.ClienteRepository
	vendedorRepo repository.VendedorRepository
	productoRepo repository.ProductoRepository
	movRepo      repository.MovimientoStockRepository
	cache        *infra.Cache
	cfg          CarteraConfig
}

func NewNotaVentaService(
	repo repository.NotaVentaRepository,
	clienteRepo repository.ClienteRepository,
	vendedorRepo repository.VendedorRepository,
	productoRepo repository.ProductoRepository,
	movRepo repository.MovimientoStockRepository,
	cache *infra.Cache,
	cfg CarteraConfig,
) NotaVentaService {
	return &notaVentaService{
		repo:         repo,
		clienteRepo:  clienteRepo,
		vendedorRepo: vendedorRepo,
		productoRepo: productoRepo,
		movRepo:      movRepo,
		cache:        cache,
		cfg:          cfg,
	}
}

// ── Crear ─────────────────────────────────────────────────────────────────────
//   1. Resolve client, salesperson and products (outside TX)
//   2. Price lines: importe = cantidad × precio_unitario
//   3. iva = subtotal × TASA_IVA unless given; total = subtotal + iva − descuento
//   4. Due date is written once from fecha + dias_credito

func (s *notaVentaService) Crear(ctx context.Context, req dto.CrearNotaVentaRequest) (*dto.NotaVentaResponse, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, invalido("cliente_id", "identificador inválido")
	}
	fecha, err := parseFecha("fecha", req.Fecha)
	if err != nil {
		return nil, err
	}
	if len(req.Pedidos) == 0 {
		return nil, invalido("pedidos", "la nota requiere al menos un pedido")
	}
	cliente, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil {
		return nil, noEncontrado(err, "cliente")
	}
	if !cliente.Activo {
		return nil, invalido("cliente_id", "el cliente %s está inactivo", cliente.Empresa)
	}

	vendedorID := cliente.VendedorID
	if req.VendedorID != nil && *req.VendedorID != "" {
		id, err := uuid.Parse(*req.VendedorID)
		if err != nil {
			return nil, invalido("vendedor_id", "identificador inválido")
		}
		if _, err := s.vendedorRepo.FindByID(ctx, id); err != nil {
			return nil, noEncontrado(err, "vendedor")
		}
		vendedorID = &id
	}

	pedidos, subtotal, err := s.preciar(ctx, req.Pedidos)
	if err != nil {
		return nil, err
	}

	dias := cliente.DiasCredito
	if req.DiasCredito != nil {
		dias = *req.DiasCredito
	}
	if dias < 0 {
		return nil, invalido("dias_credito", "no puede ser negativo")
	}
	iva := redondear(subtotal.Mul(s.cfg.TasaIVA))
	if req.IVA != nil {
		iva = *req.IVA
	}
	total, err := totalDocumento(subtotal, iva, req.Descuento)
	if err != nil {
		return nil, err
	}

	nota := model.NotaVenta{
		NumeroFactura:    req.NumeroFactura,
		ClienteID:        clienteID,
		VendedorID:       vendedorID,
		Fecha:            fecha,
		DiasCredito:      dias,
		FechaVencimiento: cartera.FechaVencimiento(fecha, dias),
		Subtotal:         subtotal,
		IVA:              iva,
		Descuento:        req.Descuento,
		Total:            total,
		Notas:            req.Notas,
		Pedidos:          pedidos,
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, &nota)
	})
	if txErr != nil {
		if duplicado(txErr) {
			return nil, rechazo(ErrFacturaDuplicada, "numero_factura", "la factura %s ya existe", req.NumeroFactura)
		}
		return nil, txErr
	}
	if err := s.cache.Bump(ctx); err != nil {
		log.Warn().Err(err).Msg("notas de venta: no se pudo invalidar la caché")
	}
	log.Info().
		Str("nota_venta_id", nota.ID.String()).
		Str("numero_factura", nota.NumeroFactura).
		Str("total", nota.Total.StringFixed(2)).
		Msg("nota de venta registrada")

	nota.Cliente = cliente
	resp := notaVentaResponse(&nota, hoy(s.cfg.Reloj, s.cfg.Ubicacion), true)
	return &resp, nil
}

// preciar resolves every line's product and prices it. Products keep the
// pointer so the response can show their name and unit.
func (s *notaVentaService) preciar(ctx context.Context, in []dto.PedidoInput) ([]model.Pedido, decimal.Decimal, error) {
	ids := make([]uuid.UUID, len(in))
	for i, p := range in {
		id, err := uuid.Parse(p.ProductoID)
		if err != nil {
			return nil, decimal.Zero, invalido("pedidos", "producto_id inválido en la línea %d", i+1)
		}
		ids[i] = id
	}
	productos, err := s.productoRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, err
	}
	porID := make(map[uuid.UUID]*model.Producto, len(productos))
	for i := range productos {
		porID[productos[i].ID] = &productos[i]
	}

	pedidos := make([]model.Pedido, len(in))
	subtotal := decimal.Zero
	for i, p := range in {
		prod, ok := porID[ids[i]]
		if !ok {
			return nil, decimal.Zero, rechazo(ErrNoEncontrado, "pedidos", "producto de la línea %d no existe", i+1)
		}
		if !prod.Activo {
			return nil, decimal.Zero, invalido("pedidos", "el producto %s está inactivo", prod.Nombre)
		}
		if !p.Cantidad.IsPositive() {
			return nil, decimal.Zero, invalido("pedidos", "la cantidad de la línea %d debe ser mayor a cero", i+1)
		}
		if p.PrecioUnitario.IsNegative() {
			return nil, decimal.Zero, invalido("pedidos", "el precio de la línea %d no puede ser negativo", i+1)
		}
		importe := redondear(p.Cantidad.Mul(p.PrecioUnitario))
		pedidos[i] = model.Pedido{
			ProductoID:     prod.ID,
			Cantidad:       p.Cantidad,
			PrecioUnitario: p.PrecioUnitario,
			Importe:        importe,
			Producto:       prod,
		}
		subtotal = subtotal.Add(importe)
	}
	return pedidos, subtotal, nil
}

// ── Lecturas ──────────────────────────────────────────────────────────────────

func (s *notaVentaService) ObtenerPorID(ctx context.Context, id uuid.UUID, al string) (*dto.NotaVentaResponse, error) {
	fecha, err := parseAl(al, s.cfg.Reloj, s.cfg.Ubicacion)
	if err != nil {
		return nil, err
	}
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "nota de venta")
	}
	resp := notaVentaResponse(n, fecha, true)
	return &resp, nil
}

func (s *notaVentaService) Listar(ctx context.Context, filter dto.NotaVentaFilter) (*dto.Pagina[dto.NotaVentaResponse], error) {
	al, err := parseAl(filter.Al, s.cfg.Reloj, s.cfg.Ubicacion)
	if err != nil {
		return nil, err
	}
	f := repository.FiltroNotas{NumeroFactura: filter.NumeroFactura, Pagina: filter.Paginacion.Normalizada()}
	if f.ClienteID, err = parseUUIDOpc("cliente_id", filter.ClienteID); err != nil {
		return nil, err
	}
	if f.VendedorID, err = parseUUIDOpc("vendedor_id", filter.VendedorID); err != nil {
		return nil, err
	}
	if f.FechaDesde, err = parseFechaOpc("fecha_desde", filter.FechaDesde); err != nil {
		return nil, err
	}
	if f.FechaHasta, err = parseFechaOpc("fecha_hasta", filter.FechaHasta); err != nil {
		return nil, err
	}

	notas, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotaVentaResponse, len(notas))
	for i := range notas {
		out[i] = notaVentaResponse(&notas[i], al, false)
	}
	pagina := dto.NuevaPagina(out, f.Pagina)
	return &pagina, nil
}

// Eliminar removes a note that has not received any payment.
func (s *notaVentaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.CountPagos(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return rechazo(ErrConPagos, "id", "la nota tiene %d pagos registrados", n)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return noEncontrado(err, "nota de venta")
	}
	if err := s.cache.Bump(ctx); err != nil {
		log.Warn().Err(err).Msg("notas de venta: no se pudo invalidar la caché")
	}
	return nil
}

// ── Entregas ──────────────────────────────────────────────────────────────────
// Every delivery writes its entrega row and one salida in the stock ledger,
// all in one transaction.

func (s *notaVentaService) EntregarTodo(ctx context.Context, notaID uuid.UUID, req dto.EntregarTodoRequest) ([]dto.EntregaResponse, error) {
	fecha, err := parseFecha("fecha", req.Fecha)
	if err != nil {
		return nil, err
	}
	n, err := s.repo.FindByID(ctx, notaID)
	if err != nil {
		return nil, noEncontrado(err, "nota de venta")
	}
	var entregas []entregaPendiente
	for i := range n.Pedidos {
		p := &n.Pedidos[i]
		if pend := pendiente(p); pend.IsPositive() {
			entregas = append(entregas, entregaPendiente{pedido: p, cantidad: pend})
		}
	}
	if len(entregas) == 0 {
		return nil, invalido("pedidos", "la nota %s ya fue entregada por completo", n.NumeroFactura)
	}
	return s.entregar(ctx, entregas, fecha)
}

func (s *notaVentaService) RegistrarEntregas(ctx context.Context, notaID uuid.UUID, req dto.RegistrarEntregasRequest) ([]dto.EntregaResponse, error) {
	fecha, err := parseFecha("fecha", req.Fecha)
	if err != nil {
		return nil, err
	}
	if len(req.Entregas) == 0 {
		return nil, invalido("entregas", "se requiere al menos una entrega")
	}
	n, err := s.repo.FindByID(ctx, notaID)
	if err != nil {
		return nil, noEncontrado(err, "nota de venta")
	}
	porID := make(map[uuid.UUID]*model.Pedido, len(n.Pedidos))
	for i := range n.Pedidos {
		porID[n.Pedidos[i].ID] = &n.Pedidos[i]
	}

	solicitado := make(map[uuid.UUID]decimal.Decimal)
	entregas := make([]entregaPendiente, len(req.Entregas))
	for i, e := range req.Entregas {
		id, err := uuid.Parse(e.PedidoID)
		if err != nil {
			return nil, invalido("entregas", "pedido_id inválido en la entrega %d", i+1)
		}
		p, ok := porID[id]
		if !ok {
			return nil, rechazo(ErrNoEncontrado, "entregas", "el pedido %s no pertenece a la nota", e.PedidoID)
		}
		if !e.Cantidad.IsPositive() {
			return nil, invalido("entregas", "la cantidad de la entrega %d debe ser mayor a cero", i+1)
		}
		solicitado[id] = solicitado[id].Add(e.Cantidad)
		if pend := pendiente(p); solicitado[id].GreaterThan(pend) {
			return nil, invalido("entregas", "el pedido %s solo tiene %s pendiente", e.PedidoID, pend.String())
		}
		entregas[i] = entregaPendiente{pedido: p, cantidad: e.Cantidad}
	}
	return s.entregar(ctx, entregas, fecha)
}

type entregaPendiente struct {
	pedido   *model.Pedido
	cantidad decimal.Decimal
}

func (s *notaVentaService) entregar(ctx context.Context, entregas []entregaPendiente, fecha time.Time) ([]dto.EntregaResponse, error) {
	out := make([]dto.EntregaResponse, len(entregas))
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.verificarExistencias(tx, entregas); err != nil {
			return err
		}
		for i, e := range entregas {
			ent := model.Entrega{PedidoID: e.pedido.ID, Cantidad: e.cantidad, Fecha: fecha}
			if err := s.repo.CreateEntregaTx(tx, &ent); err != nil {
				return err
			}
			mov := model.MovimientoStock{
				ProductoID: e.pedido.ProductoID,
				Fecha:      fecha,
				Cantidad:   e.cantidad,
				Movimiento: string(almacen.Salida),
				EntregaID:  &ent.ID,
			}
			if e.pedido.Producto != nil {
				mov.Material = e.pedido.Producto.Material
			}
			if err := s.movRepo.CreateTx(tx, &mov); err != nil {
				return err
			}
			out[i] = dto.EntregaResponse{
				ID:         ent.ID.String(),
				PedidoID:   ent.PedidoID.String(),
				Cantidad:   ent.Cantidad,
				Fecha:      fechaStr(ent.Fecha),
				Movimiento: mov.ID.String(),
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	invalidarCache(ctx, s.cache, "entregas")
	log.Info().Int("entregas", len(out)).Str("fecha", fechaStr(fecha)).Msg("entregas registradas")
	return out, nil
}

// verificarExistencias folds each product's ledger under a row lock and
// refuses the batch when any product would go below zero. Products are
// locked in id order.
func (s *notaVentaService) verificarExistencias(tx *gorm.DB, entregas []entregaPendiente) error {
	solicitado := make(map[uuid.UUID]decimal.Decimal)
	nombres := make(map[uuid.UUID]*model.Producto)
	var ids []uuid.UUID
	for _, e := range entregas {
		id := e.pedido.ProductoID
		if _, ok := solicitado[id]; !ok {
			ids = append(ids, id)
			nombres[id] = e.pedido.Producto
		}
		solicitado[id] = solicitado[id].Add(e.cantidad)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })

	for _, id := range ids {
		movs, err := s.movRepo.ListByProductoTx(tx, id)
		if err != nil {
			return noEncontrado(err, "producto")
		}
		actual := almacen.Existencia(movimientosAlmacen(movs))
		if solicitado[id].LessThanOrEqual(actual) {
			continue
		}
		nombre, unidad := id.String(), ""
		if p := nombres[id]; p != nil {
			nombre, unidad = p.Nombre, almacen.Material(p.Material).Unidad()
		}
		return rechazo(ErrStockInsuficiente, "entregas", "se solicitan %s de %s y la existencia es %s %s",
			solicitado[id].String(), nombre, actual.String(), unidad)
	}
	return nil
}

func entregado(p *model.Pedido) decimal.Decimal {
	total := decimal.Zero
	for _, e := range p.Entregas {
		total = total.Add(e.Cantidad)
	}
	return total
}

func pendiente(p *model.Pedido) decimal.Decimal { return p.Cantidad.Sub(entregado(p)) }

// ── Model → DTO ───────────────────────────────────────────────────────────────

func notaVentaResponse(n *model.NotaVenta, al time.Time, detalle bool) dto.NotaVentaResponse {
	r := dto.NotaVentaResponse{
		ID:            n.ID.String(),
		NumeroFactura: n.NumeroFactura,
		ClienteID:     n.ClienteID.String(),
		VendedorID:    uuidStr(n.VendedorID),
		Fecha:         fechaStr(n.Fecha),
		DiasCredito:   n.DiasCredito,
		Subtotal:      n.Subtotal,
		IVA:           n.IVA,
		Descuento:     n.Descuento,
		Notas:         n.Notas,
		Antiguedad:    antiguedadNota(n, al),
	}
	if n.Cliente != nil {
		r.Cliente = n.Cliente.Empresa
	}
	if !detalle {
		return r
	}
	r.Pedidos = make([]dto.PedidoResponse, len(n.Pedidos))
	for i := range n.Pedidos {
		p := &n.Pedidos[i]
		ent := entregado(p)
		r.Pedidos[i] = dto.PedidoResponse{
			ID:             p.ID.String(),
			ProductoID:     p.ProductoID.String(),
			Cantidad:       p.Cantidad,
			PrecioUnitario: p.PrecioUnitario,
			Importe:        p.Importe,
			Entregado:      ent,
			Pendiente:      p.Cantidad.Sub(ent),
		}
		if p.Producto != nil {
			r.Pedidos[i].Producto = p.Producto.Nombre
			r.Pedidos[i].Unidad = almacen.Material(p.Producto.Material).Unidad()
		}
	}
	r.Pagos = make([]dto.PagoResponse, len(n.Pagos))
	for i := range n.Pagos {
		r.Pagos[i] = pagoResponse(&n.Pagos[i])
		r.Pagos[i].NumeroFactura = n.NumeroFactura
	}
	return r
}

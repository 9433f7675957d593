package service_test

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/model"
	"github.com/victor-varac/AIKZ-sub001/internal/repository"
)

// ── In-memory store shared by every stub repository ──────────────────────────

type memoria struct {
	clientes    map[uuid.UUID]*model.Cliente
	vendedores  map[uuid.UUID]*model.Vendedor
	proveedores map[uuid.UUID]*model.Proveedor
	productos   map[uuid.UUID]*model.Producto
	notas       map[uuid.UUID]*model.NotaVenta
	compras     map[uuid.UUID]*model.Compra
	materias    map[uuid.UUID]*model.MateriaPrima
	gastos      map[uuid.UUID]*model.Gasto
	movs        []model.MovimientoStock
	movsMP      []model.MovimientoMateriaPrima

	// bloqueos records every row handed out by a LockForUpdateTx.
	bloqueos []uuid.UUID

	// fallas makes the named method return the given error.
	fallas map[string]error
}

func nuevaMemoria() *memoria {
	return &memoria{
		clientes:    make(map[uuid.UUID]*model.Cliente),
		vendedores:  make(map[uuid.UUID]*model.Vendedor),
		proveedores: make(map[uuid.UUID]*model.Proveedor),
		productos:   make(map[uuid.UUID]*model.Producto),
		notas:       make(map[uuid.UUID]*model.NotaVenta),
		compras:     make(map[uuid.UUID]*model.Compra),
		materias:    make(map[uuid.UUID]*model.MateriaPrima),
		gastos:      make(map[uuid.UUID]*model.Gasto),
		fallas:      make(map[string]error),
	}
}

// dias accumulates amounts per date the way the repositories group them.
type dias map[time.Time]decimal.Decimal

func (d dias) sumar(f time.Time, v decimal.Decimal, desde, hasta time.Time) {
	if f.Before(desde) || f.After(hasta) {
		return
	}
	d[f] = d[f].Add(v)
}

func (d dias) filas() []repository.FilaDia {
	out := make([]repository.FilaDia, 0, len(d))
	for f, v := range d {
		out = append(out, repository.FilaDia{Fecha: f, Total: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha.Before(out[j].Fecha) })
	return out
}

func asignar(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// ── NotaVentaRepository ───────────────────────────────────────────────────────

type stubNotaVentaRepo struct{ m *memoria }

var _ repository.NotaVentaRepository = (*stubNotaVentaRepo)(nil)

func (r *stubNotaVentaRepo) DB() *gorm.DB { return nil }

func (r *stubNotaVentaRepo) Create(_ context.Context, _ *gorm.DB, n *model.NotaVenta) error {
	for _, existente := range r.m.notas {
		if existente.NumeroFactura == n.NumeroFactura {
			return gorm.ErrDuplicatedKey
		}
	}
	asignar(&n.ID)
	for i := range n.Pedidos {
		asignar(&n.Pedidos[i].ID)
		n.Pedidos[i].NotaVentaID = n.ID
	}
	copia := *n
	copia.Pedidos = append([]model.Pedido(nil), n.Pedidos...)
	r.m.notas[n.ID] = &copia
	return nil
}

func (r *stubNotaVentaRepo) cargar(n *model.NotaVenta) model.NotaVenta {
	copia := *n
	copia.Cliente = r.m.clientes[n.ClienteID]
	copia.Pagos = append([]model.Pago(nil), n.Pagos...)
	copia.Pedidos = make([]model.Pedido, len(n.Pedidos))
	for i, p := range n.Pedidos {
		p.Producto = r.m.productos[p.ProductoID]
		p.Entregas = append([]model.Entrega(nil), p.Entregas...)
		copia.Pedidos[i] = p
	}
	return copia
}

func (r *stubNotaVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.NotaVenta, error) {
	n, ok := r.m.notas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := r.cargar(n)
	return &c, nil
}

func (r *stubNotaVentaRepo) FindByNumero(_ context.Context, numero string) (*model.NotaVenta, error) {
	for _, n := range r.m.notas {
		if n.NumeroFactura == numero {
			c := r.cargar(n)
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubNotaVentaRepo) todas() []model.NotaVenta {
	out := make([]model.NotaVenta, 0, len(r.m.notas))
	for _, n := range r.m.notas {
		out = append(out, r.cargar(n))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].FechaVencimiento.Equal(out[j].FechaVencimiento) {
			return out[i].FechaVencimiento.Before(out[j].FechaVencimiento)
		}
		return out[i].NumeroFactura < out[j].NumeroFactura
	})
	return out
}

func (r *stubNotaVentaRepo) List(_ context.Context, f repository.FiltroNotas) ([]model.NotaVenta, error) {
	var out []model.NotaVenta
	for _, n := range r.todas() {
		if f.ClienteID != nil && n.ClienteID != *f.ClienteID {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *stubNotaVentaRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.m.notas[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.notas, id)
	return nil
}

func (r *stubNotaVentaRepo) ListCuentas(_ context.Context, _ repository.FiltroCartera) ([]model.NotaVenta, error) {
	if err := r.m.fallas["ListCuentas"]; err != nil {
		return nil, err
	}
	return r.todas(), nil
}

func (r *stubNotaVentaRepo) ListParaAntiguedad(_ context.Context, clienteID *uuid.UUID) ([]model.NotaVenta, error) {
	if err := r.m.fallas["NotaVenta.ListParaAntiguedad"]; err != nil {
		return nil, err
	}
	var out []model.NotaVenta
	for _, n := range r.todas() {
		if clienteID != nil && n.ClienteID != *clienteID {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *stubNotaVentaRepo) LockForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.NotaVenta, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubNotaVentaRepo) SumPagosTx(_ *gorm.DB, notaID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	if n, ok := r.m.notas[notaID]; ok {
		for _, p := range n.Pagos {
			total = total.Add(p.Importe)
		}
	}
	return total, nil
}

func (r *stubNotaVentaRepo) CreatePagoTx(_ *gorm.DB, p *model.Pago) error {
	n, ok := r.m.notas[p.NotaVentaID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	asignar(&p.ID)
	n.Pagos = append(n.Pagos, *p)
	return nil
}

func (r *stubNotaVentaRepo) CountPagos(_ context.Context, notaID uuid.UUID) (int64, error) {
	if n, ok := r.m.notas[notaID]; ok {
		return int64(len(n.Pagos)), nil
	}
	return 0, nil
}

func (r *stubNotaVentaRepo) ListPagos(_ context.Context, clienteID *uuid.UUID, _, _ *time.Time) ([]model.Pago, error) {
	var out []model.Pago
	for _, n := range r.todas() {
		if clienteID != nil && n.ClienteID != *clienteID {
			continue
		}
		for _, p := range n.Pagos {
			nota := n
			p.NotaVenta = &nota
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fecha.After(out[j].Fecha) })
	return out, nil
}

func (r *stubNotaVentaRepo) CreateEntregaTx(_ *gorm.DB, e *model.Entrega) error {
	for _, n := range r.m.notas {
		for i := range n.Pedidos {
			if n.Pedidos[i].ID == e.PedidoID {
				asignar(&e.ID)
				n.Pedidos[i].Entregas = append(n.Pedidos[i].Entregas, *e)
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubNotaVentaRepo) SumVentas(_ context.Context, desde, hasta time.Time) (decimal.Decimal, int64, error) {
	if err := r.m.fallas["SumVentas"]; err != nil {
		return decimal.Zero, 0, err
	}
	total, n := decimal.Zero, int64(0)
	for _, nota := range r.m.notas {
		if !nota.Fecha.Before(desde) && !nota.Fecha.After(hasta) {
			total = total.Add(nota.Total)
			n++
		}
	}
	return total, n, nil
}

func (r *stubNotaVentaRepo) SumCobrado(_ context.Context, desde, hasta time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, nota := range r.m.notas {
		for _, p := range nota.Pagos {
			if !p.Fecha.Before(desde) && !p.Fecha.After(hasta) {
				total = total.Add(p.Importe)
			}
		}
	}
	return total, nil
}

func (r *stubNotaVentaRepo) VentasPorDia(_ context.Context, desde, hasta time.Time) ([]repository.FilaDia, error) {
	if err := r.m.fallas["VentasPorDia"]; err != nil {
		return nil, err
	}
	d := dias{}
	for _, n := range r.m.notas {
		d.sumar(n.Fecha, n.Total, desde, hasta)
	}
	return d.filas(), nil
}

func (r *stubNotaVentaRepo) CobradoPorDia(_ context.Context, desde, hasta time.Time) ([]repository.FilaDia, error) {
	d := dias{}
	for _, n := range r.m.notas {
		for _, p := range n.Pagos {
			d.sumar(p.Fecha, p.Importe, desde, hasta)
		}
	}
	return d.filas(), nil
}

func (r *stubNotaVentaRepo) RankingVendedores(_ context.Context, desde, hasta time.Time) ([]repository.FilaVendedor, error) {
	idx := make(map[uuid.UUID]int)
	var out []repository.FilaVendedor
	for _, n := range r.todas() {
		if n.VendedorID == nil || n.Fecha.Before(desde) || n.Fecha.After(hasta) {
			continue
		}
		i, ok := idx[*n.VendedorID]
		if !ok {
			v := r.m.vendedores[*n.VendedorID]
			i = len(out)
			idx[v.ID] = i
			out = append(out, repository.FilaVendedor{VendedorID: v.ID, Nombre: v.Nombre, ComisionPct: v.ComisionPct, Total: decimal.Zero})
		}
		out[i].Notas++
		out[i].Total = out[i].Total.Add(n.Total)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total.GreaterThan(out[j].Total) })
	return out, nil
}

// ── CompraRepository ──────────────────────────────────────────────────────────

type stubCompraRepo struct{ m *memoria }

var _ repository.CompraRepository = (*stubCompraRepo)(nil)

func (r *stubCompraRepo) DB() *gorm.DB { return nil }

func (r *stubCompraRepo) Create(_ context.Context, c *model.Compra) error {
	for _, existente := range r.m.compras {
		if existente.ProveedorID == c.ProveedorID && existente.NumeroFactura == c.NumeroFactura {
			return gorm.ErrDuplicatedKey
		}
	}
	asignar(&c.ID)
	copia := *c
	r.m.compras[c.ID] = &copia
	return nil
}

func (r *stubCompraRepo) cargar(c *model.Compra) model.Compra {
	copia := *c
	copia.Proveedor = r.m.proveedores[c.ProveedorID]
	copia.Pagos = append([]model.PagoCompra(nil), c.Pagos...)
	return copia
}

func (r *stubCompraRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Compra, error) {
	c, ok := r.m.compras[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := r.cargar(c)
	return &copia, nil
}

func (r *stubCompraRepo) FindByNumero(_ context.Context, numero string) (*model.Compra, error) {
	for _, c := range r.m.compras {
		if c.NumeroFactura == numero {
			copia := r.cargar(c)
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCompraRepo) UpdateTx(_ *gorm.DB, c *model.Compra) error {
	existente, ok := r.m.compras[c.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	pagos := existente.Pagos
	*existente = *c
	existente.Pagos = pagos
	return nil
}

func (r *stubCompraRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.m.compras[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.compras, id)
	return nil
}

func (r *stubCompraRepo) todas() []model.Compra {
	out := make([]model.Compra, 0, len(r.m.compras))
	for _, c := range r.m.compras {
		out = append(out, r.cargar(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].FechaVencimiento.Equal(out[j].FechaVencimiento) {
			return out[i].FechaVencimiento.Before(out[j].FechaVencimiento)
		}
		return out[i].NumeroFactura < out[j].NumeroFactura
	})
	return out
}

func (r *stubCompraRepo) ListCuentas(_ context.Context, _ repository.FiltroCartera) ([]model.Compra, error) {
	return r.todas(), nil
}

func (r *stubCompraRepo) ListParaAntiguedad(_ context.Context, _ *uuid.UUID) ([]model.Compra, error) {
	if err := r.m.fallas["Compra.ListParaAntiguedad"]; err != nil {
		return nil, err
	}
	return r.todas(), nil
}

func (r *stubCompraRepo) LockForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Compra, error) {
	r.m.bloqueos = append(r.m.bloqueos, id)
	return r.FindByID(context.Background(), id)
}

func (r *stubCompraRepo) SumPagosTx(_ *gorm.DB, compraID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	if c, ok := r.m.compras[compraID]; ok {
		for _, p := range c.Pagos {
			total = total.Add(p.Importe)
		}
	}
	return total, nil
}

func (r *stubCompraRepo) CreatePagoTx(_ *gorm.DB, p *model.PagoCompra) error {
	c, ok := r.m.compras[p.CompraID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	asignar(&p.ID)
	c.Pagos = append(c.Pagos, *p)
	return nil
}

func (r *stubCompraRepo) CountPagosTx(_ *gorm.DB, compraID uuid.UUID) (int64, error) {
	if c, ok := r.m.compras[compraID]; ok {
		return int64(len(c.Pagos)), nil
	}
	return 0, nil
}

func (r *stubCompraRepo) ListPagos(_ context.Context, _, _ *time.Time) ([]model.PagoCompra, error) {
	var out []model.PagoCompra
	for _, c := range r.todas() {
		for _, p := range c.Pagos {
			compra := c
			p.Compra = &compra
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubCompraRepo) TotalesPorProveedor(_ context.Context, _, _ *time.Time) ([]repository.FilaProveedor, error) {
	idx := make(map[uuid.UUID]int)
	var out []repository.FilaProveedor
	for _, c := range r.todas() {
		i, ok := idx[c.ProveedorID]
		if !ok {
			i = len(out)
			idx[c.ProveedorID] = i
			out = append(out, repository.FilaProveedor{ProveedorID: c.ProveedorID, Nombre: c.Proveedor.Nombre, MontoTotal: decimal.Zero})
		}
		out[i].TotalFacturas++
		out[i].MontoTotal = out[i].MontoTotal.Add(c.Total)
	}
	return out, nil
}

func (r *stubCompraRepo) ComprasPorDia(_ context.Context, desde, hasta time.Time) ([]repository.FilaDia, error) {
	d := dias{}
	for _, c := range r.m.compras {
		d.sumar(c.Fecha, c.Total, desde, hasta)
	}
	return d.filas(), nil
}

// ── Catalog repositories ──────────────────────────────────────────────────────

type stubClienteRepo struct{ m *memoria }

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	asignar(&c.ID)
	copia := *c
	r.m.clientes[c.ID] = &copia
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.m.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *c
	if c.VendedorID != nil {
		copia.Vendedor = r.m.vendedores[*c.VendedorID]
	}
	return &copia, nil
}

func (r *stubClienteRepo) List(_ context.Context, _ dto.ClienteFilter) ([]model.Cliente, error) {
	var out []model.Cliente
	for _, c := range r.m.clientes {
		if c.Activo {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Empresa < out[j].Empresa })
	return out, nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	copia := *c
	r.m.clientes[c.ID] = &copia
	return nil
}

func (r *stubClienteRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	c, ok := r.m.clientes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Activo = false
	return nil
}

func (r *stubClienteRepo) CountActivos(_ context.Context) (int64, error) {
	var n int64
	for _, c := range r.m.clientes {
		if c.Activo {
			n++
		}
	}
	return n, nil
}

type stubVendedorRepo struct{ m *memoria }

var _ repository.VendedorRepository = (*stubVendedorRepo)(nil)

func (r *stubVendedorRepo) Create(_ context.Context, v *model.Vendedor) error {
	asignar(&v.ID)
	copia := *v
	r.m.vendedores[v.ID] = &copia
	return nil
}

func (r *stubVendedorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Vendedor, error) {
	v, ok := r.m.vendedores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *v
	return &copia, nil
}

func (r *stubVendedorRepo) List(_ context.Context, _ dto.VendedorFilter) ([]model.Vendedor, error) {
	var out []model.Vendedor
	for _, v := range r.m.vendedores {
		out = append(out, *v)
	}
	return out, nil
}

func (r *stubVendedorRepo) Update(_ context.Context, v *model.Vendedor) error {
	copia := *v
	r.m.vendedores[v.ID] = &copia
	return nil
}

func (r *stubVendedorRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	v, ok := r.m.vendedores[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Activo = false
	return nil
}

type stubProveedorRepo struct{ m *memoria }

var _ repository.ProveedorRepository = (*stubProveedorRepo)(nil)

func (r *stubProveedorRepo) Create(_ context.Context, p *model.Proveedor) error {
	asignar(&p.ID)
	copia := *p
	r.m.proveedores[p.ID] = &copia
	return nil
}

func (r *stubProveedorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Proveedor, error) {
	p, ok := r.m.proveedores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (r *stubProveedorRepo) List(_ context.Context, _ dto.ProveedorFilter) ([]model.Proveedor, error) {
	var out []model.Proveedor
	for _, p := range r.m.proveedores {
		if p.Activo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProveedorRepo) Update(_ context.Context, p *model.Proveedor) error {
	copia := *p
	r.m.proveedores[p.ID] = &copia
	return nil
}

func (r *stubProveedorRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.m.proveedores[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = false
	return nil
}

type stubProductoRepo struct{ m *memoria }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	asignar(&p.ID)
	copia := *p
	r.m.productos[p.ID] = &copia
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.m.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (r *stubProductoRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Producto, error) {
	var out []model.Producto
	for _, id := range ids {
		if p, ok := r.m.productos[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) List(_ context.Context, f dto.ProductoFilter) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.m.productos {
		if p.Material == f.Material {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	copia := *p
	r.m.productos[p.ID] = &copia
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.m.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = false
	return nil
}

// ── Ledgers ───────────────────────────────────────────────────────────────────

type stubMovimientoRepo struct{ m *memoria }

var _ repository.MovimientoStockRepository = (*stubMovimientoRepo)(nil)

func (r *stubMovimientoRepo) Create(_ context.Context, mov *model.MovimientoStock) error {
	return r.CreateTx(nil, mov)
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, mov *model.MovimientoStock) error {
	asignar(&mov.ID)
	copia := *mov
	copia.Producto = nil
	r.m.movs = append(r.m.movs, copia)
	return nil
}

func (r *stubMovimientoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MovimientoStock, error) {
	for _, mov := range r.m.movs {
		if mov.ID == id {
			copia := mov
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMovimientoRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, mov := range r.m.movs {
		if mov.ID == id {
			r.m.movs = append(r.m.movs[:i], r.m.movs[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubMovimientoRepo) List(_ context.Context, _ repository.FiltroMovimientos) ([]model.MovimientoStock, error) {
	return append([]model.MovimientoStock(nil), r.m.movs...), nil
}

func (r *stubMovimientoRepo) ListByProducto(_ context.Context, productoID uuid.UUID) ([]model.MovimientoStock, error) {
	var out []model.MovimientoStock
	for _, mov := range r.m.movs {
		if mov.ProductoID == productoID {
			out = append(out, mov)
		}
	}
	return out, nil
}

func (r *stubMovimientoRepo) ListByProductoTx(_ *gorm.DB, productoID uuid.UUID) ([]model.MovimientoStock, error) {
	if _, ok := r.m.productos[productoID]; !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.ListByProducto(context.Background(), productoID)
}

func (r *stubMovimientoRepo) Existencias(_ context.Context, material string) ([]repository.FilaExistencia, error) {
	if err := r.m.fallas["Existencias"]; err != nil {
		return nil, err
	}
	var out []repository.FilaExistencia
	for _, p := range r.m.productos {
		if !p.Activo || (material != "" && p.Material != material) {
			continue
		}
		fila := repository.FilaExistencia{ProductoID: p.ID, Nombre: p.Nombre, Material: p.Material, Presentacion: p.Presentacion, Tipo: p.Tipo, Existencia: decimal.Zero}
		for _, mov := range r.m.movs {
			if mov.ProductoID != p.ID {
				continue
			}
			switch mov.Movimiento {
			case "entrada":
				fila.Existencia = fila.Existencia.Add(mov.Cantidad)
			case "salida":
				fila.Existencia = fila.Existencia.Sub(mov.Cantidad)
			}
		}
		out = append(out, fila)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

type stubMateriaPrimaRepo struct{ m *memoria }

var _ repository.MateriaPrimaRepository = (*stubMateriaPrimaRepo)(nil)

func (r *stubMateriaPrimaRepo) Create(_ context.Context, mp *model.MateriaPrima) error {
	asignar(&mp.ID)
	copia := *mp
	r.m.materias[mp.ID] = &copia
	return nil
}

func (r *stubMateriaPrimaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MateriaPrima, error) {
	mp, ok := r.m.materias[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *mp
	return &copia, nil
}

func (r *stubMateriaPrimaRepo) List(ctx context.Context, f dto.MateriaPrimaFilter) ([]model.MateriaPrima, error) {
	return r.ListActivas(ctx, f.Tipo)
}

func (r *stubMateriaPrimaRepo) ListActivas(_ context.Context, tipo string) ([]model.MateriaPrima, error) {
	var out []model.MateriaPrima
	for _, mp := range r.m.materias {
		if mp.Activo && (tipo == "" || mp.Tipo == tipo) {
			out = append(out, *mp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *stubMateriaPrimaRepo) Update(_ context.Context, mp *model.MateriaPrima) error {
	copia := *mp
	r.m.materias[mp.ID] = &copia
	return nil
}

func (r *stubMateriaPrimaRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.m.materias[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.materias, id)
	return nil
}

func (r *stubMateriaPrimaRepo) CountMovimientos(_ context.Context, id uuid.UUID) (int64, error) {
	var n int64
	for _, mov := range r.m.movsMP {
		if mov.MateriaPrimaID == id {
			n++
		}
	}
	return n, nil
}

func (r *stubMateriaPrimaRepo) CreateMovimiento(_ context.Context, mov *model.MovimientoMateriaPrima) error {
	asignar(&mov.ID)
	copia := *mov
	copia.MateriaPrima = nil
	r.m.movsMP = append(r.m.movsMP, copia)
	return nil
}

func (r *stubMateriaPrimaRepo) ListMovimientos(_ context.Context, _ repository.FiltroMovimientosMP) ([]model.MovimientoMateriaPrima, error) {
	return append([]model.MovimientoMateriaPrima(nil), r.m.movsMP...), nil
}

func (r *stubMateriaPrimaRepo) MovimientosDe(_ context.Context, id uuid.UUID) ([]model.MovimientoMateriaPrima, error) {
	var out []model.MovimientoMateriaPrima
	for _, mov := range r.m.movsMP {
		if mov.MateriaPrimaID == id {
			out = append(out, mov)
		}
	}
	return out, nil
}

func (r *stubMateriaPrimaRepo) Totales(_ context.Context, _ string) ([]repository.FilaMovimiento, error) {
	type clave struct {
		id  uuid.UUID
		dir string
	}
	sumas := make(map[clave]decimal.Decimal)
	var orden []clave
	for _, mov := range r.m.movsMP {
		k := clave{mov.MateriaPrimaID, mov.Movimiento}
		if _, ok := sumas[k]; !ok {
			orden = append(orden, k)
			sumas[k] = decimal.Zero
		}
		sumas[k] = sumas[k].Add(mov.Cantidad)
	}
	out := make([]repository.FilaMovimiento, len(orden))
	for i, k := range orden {
		out[i] = repository.FilaMovimiento{ID: k.id, Movimiento: k.dir, Cantidad: sumas[k]}
	}
	return out, nil
}

type stubGastoRepo struct{ m *memoria }

var _ repository.GastoRepository = (*stubGastoRepo)(nil)

func (r *stubGastoRepo) Create(_ context.Context, g *model.Gasto) error { return r.CreateTx(nil, g) }

func (r *stubGastoRepo) CreateTx(_ *gorm.DB, g *model.Gasto) error {
	asignar(&g.ID)
	copia := *g
	r.m.gastos[g.ID] = &copia
	return nil
}

func (r *stubGastoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Gasto, error) {
	g, ok := r.m.gastos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *g
	return &copia, nil
}

func (r *stubGastoRepo) List(_ context.Context, _ repository.FiltroGastos) ([]model.Gasto, error) {
	var out []model.Gasto
	for _, g := range r.m.gastos {
		out = append(out, *g)
	}
	return out, nil
}

func (r *stubGastoRepo) Update(_ context.Context, g *model.Gasto) error {
	copia := *g
	r.m.gastos[g.ID] = &copia
	return nil
}

func (r *stubGastoRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.m.gastos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.gastos, id)
	return nil
}

func (r *stubGastoRepo) GastosPorDia(_ context.Context, desde, hasta time.Time, excluir ...string) ([]repository.FilaDia, error) {
	d := dias{}
	for _, g := range r.m.gastos {
		if !slices.Contains(excluir, g.Categoria) {
			d.sumar(g.Fecha, g.Importe, desde, hasta)
		}
	}
	return d.filas(), nil
}

func (r *stubGastoRepo) SumarPorCategoria(_ context.Context, _, _ *time.Time) ([]repository.FilaCategoria, error) {
	if err := r.m.fallas["SumarPorCategoria"]; err != nil {
		return nil, err
	}
	idx := make(map[string]int)
	var out []repository.FilaCategoria
	for _, g := range r.m.gastos {
		i, ok := idx[g.Categoria]
		if !ok {
			i = len(out)
			idx[g.Categoria] = i
			out = append(out, repository.FilaCategoria{Categoria: g.Categoria, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(g.Importe)
		out[i].Cantidad++
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Categoria < out[j].Categoria
	})
	return out, nil
}

package service_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/victor-varac/AIKZ-sub001/internal/model"
	"github.com/victor-varac/AIKZ-sub001/internal/service"
)

// ahora is the fixed "today" of every test: 2024-03-15.
var ahora = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func configPrueba() service.CarteraConfig {
	return service.CarteraConfig{
		Empresa:   "AIKZ",
		TasaIVA:   decimal.RequireFromString("0.16"),
		Ubicacion: time.UTC,
		Reloj:     func() time.Time { return ahora },
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func fecha(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func nuevoRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// ── Seeds ─────────────────────────────────────────────────────────────────────

func seedVendedor(m *memoria, nombre, comision string) *model.Vendedor {
	v := &model.Vendedor{ID: uuid.New(), Nombre: nombre, ComisionPct: dec(comision), Activo: true}
	m.vendedores[v.ID] = v
	return v
}

func seedCliente(m *memoria, empresa string, diasCredito int) *model.Cliente {
	correo := "compras@" + empresa + ".mx"
	c := &model.Cliente{ID: uuid.New(), Empresa: empresa, Correo: &correo, DiasCredito: diasCredito, Activo: true}
	m.clientes[c.ID] = c
	return c
}

func seedProveedor(m *memoria, nombre string, diasPago int) *model.Proveedor {
	p := &model.Proveedor{ID: uuid.New(), Nombre: nombre, DiasPago: diasPago, Activo: true}
	m.proveedores[p.ID] = p
	return p
}

func seedProducto(m *memoria, material, nombre string) *model.Producto {
	p := &model.Producto{ID: uuid.New(), Material: material, Presentacion: "bobina", Tipo: "virgen", Nombre: nombre, Activo: true}
	if material == "celofan" {
		p.Presentacion, p.Tipo = "micraje", "lateral"
	}
	m.productos[p.ID] = p
	return p
}

// seedNota stores a note for total with the given issue date and credit term.
func seedNota(m *memoria, c *model.Cliente, numero, emitida string, dias int, total string) *model.NotaVenta {
	f := fecha(emitida)
	n := &model.NotaVenta{
		ID:               uuid.New(),
		NumeroFactura:    numero,
		ClienteID:        c.ID,
		VendedorID:       c.VendedorID,
		Fecha:            f,
		DiasCredito:      dias,
		FechaVencimiento: f.AddDate(0, 0, dias),
		Subtotal:         dec(total),
		IVA:              decimal.Zero,
		Descuento:        decimal.Zero,
		Total:            dec(total),
	}
	m.notas[n.ID] = n
	return n
}

func seedPago(n *model.NotaVenta, el, importe string) {
	n.Pagos = append(n.Pagos, model.Pago{
		ID: uuid.New(), NotaVentaID: n.ID, Fecha: fecha(el), Importe: dec(importe), MetodoPago: "transferencia",
	})
}

func seedPedido(n *model.NotaVenta, p *model.Producto, cantidad, precio string) *model.Pedido {
	n.Pedidos = append(n.Pedidos, model.Pedido{
		ID:             uuid.New(),
		NotaVentaID:    n.ID,
		ProductoID:     p.ID,
		Cantidad:       dec(cantidad),
		PrecioUnitario: dec(precio),
		Importe:        dec(cantidad).Mul(dec(precio)).Round(2),
	})
	return &n.Pedidos[len(n.Pedidos)-1]
}

func seedCompra(m *memoria, p *model.Proveedor, numero, emitida string, dias int, total string) *model.Compra {
	f := fecha(emitida)
	c := &model.Compra{
		ID:               uuid.New(),
		NumeroFactura:    numero,
		ProveedorID:      p.ID,
		Fecha:            f,
		DiasPago:         dias,
		FechaVencimiento: f.AddDate(0, 0, dias),
		Subtotal:         dec(total),
		IVA:              decimal.Zero,
		Descuento:        decimal.Zero,
		Total:            dec(total),
	}
	m.compras[c.ID] = c
	return c
}

func seedMovimiento(m *memoria, p *model.Producto, direccion, cantidad string) {
	m.movs = append(m.movs, model.MovimientoStock{
		ID: uuid.New(), ProductoID: p.ID, Material: p.Material, Fecha: fecha("2024-03-01"),
		Cantidad: dec(cantidad), Movimiento: direccion,
	})
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("uuid %q: %v", s, err)
	}
	return id
}

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/victor-varac/AIKZ-sub001/internal/cartera"
	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/model"
)

// Ledger as of 2024-03-01:
//
//	A-1  due 02-01  1000, paid 1000  → PAGADA
//	A-2  due 02-15  1000, paid  400  → VENCIDA, saldo 600
//	B-1  due 03-31   500             → VIGENTE
//	B-2  due 03-01   300             → VIGENTE (due today is not overdue)
func sembrarCartera(t *testing.T, db *gorm.DB) (a, b *model.Cliente) {
	t.Helper()
	a = crearCliente(t, db, "Abarrotes 100% Norte")
	b = crearCliente(t, db, "Bolsas del Bajío")
	a1 := crearNota(t, db, a, "A-1", "2024-01-02", 30, "1000")
	crearPago(t, db, a1, "2024-01-20", "1000")
	a2 := crearNota(t, db, a, "A-2", "2024-01-16", 30, "1000")
	crearPago(t, db, a2, "2024-02-01", "400")
	crearNota(t, db, b, "B-1", "2024-03-01", 30, "500")
	crearNota(t, db, b, "B-2", "2024-01-31", 30, "300")
	return a, b
}

func numeros(notas []model.NotaVenta) []string {
	out := make([]string, len(notas))
	for i, n := range notas {
		out[i] = n.NumeroFactura
	}
	return out
}

func TestListCuentas_OrdenPorVencimiento(t *testing.T) {
	db := nuevaDB(t)
	sembrarCartera(t, db)
	repo := NewNotaVentaRepository(db)

	notas, err := repo.ListCuentas(context.Background(), FiltroCartera{Al: fecha("2024-03-01")})
	require.NoError(t, err)
	assert.Equal(t, []string{"A-1", "A-2", "B-2", "B-1"}, numeros(notas))
	assert.NotNil(t, notas[0].Cliente)
	assert.Len(t, notas[1].Pagos, 1)
}

func TestListCuentas_FiltroEstado(t *testing.T) {
	db := nuevaDB(t)
	sembrarCartera(t, db)
	repo := NewNotaVentaRepository(db)
	ctx := context.Background()
	al := fecha("2024-03-01")

	casos := map[cartera.Estado][]string{
		cartera.Pagada:  {"A-1"},
		cartera.Vencida: {"A-2"},
		cartera.Vigente: {"B-2", "B-1"},
	}
	for estado, esperado := range casos {
		notas, err := repo.ListCuentas(ctx, FiltroCartera{Estado: estado, Al: al})
		require.NoError(t, err)
		assert.Equal(t, esperado, numeros(notas), estado)

		// The SQL filter must agree with the Go classification.
		for _, n := range notas {
			abonos := make([]cartera.Abono, len(n.Pagos))
			for i, p := range n.Pagos {
				abonos[i] = cartera.Abono{Importe: p.Importe, Fecha: p.Fecha}
			}
			ant := cartera.Calcular(cartera.Documento{Total: n.Total, Fecha: n.Fecha, DiasCredito: n.DiasCredito}, abonos, al)
			assert.Equal(t, estado, ant.Estado, n.NumeroFactura)
		}
	}
}

func TestListCuentas_SaldoYMontos(t *testing.T) {
	db := nuevaDB(t)
	sembrarCartera(t, db)
	repo := NewNotaVentaRepository(db)
	ctx := context.Background()

	notas, err := repo.ListCuentas(ctx, FiltroCartera{SoloConSaldo: true, Al: fecha("2024-03-01")})
	require.NoError(t, err)
	assert.Equal(t, []string{"A-2", "B-2", "B-1"}, numeros(notas))

	min, max := dec("400"), dec("600")
	notas, err = repo.ListCuentas(ctx, FiltroCartera{MontoMin: &min, MontoMax: &max, Al: fecha("2024-03-01")})
	require.NoError(t, err)
	assert.Equal(t, []string{"A-2", "B-1"}, numeros(notas))
}

func TestListCuentas_Contraparte(t *testing.T) {
	db := nuevaDB(t)
	a, _ := sembrarCartera(t, db)
	repo := NewNotaVentaRepository(db)
	ctx := context.Background()

	notas, err := repo.ListCuentas(ctx, FiltroCartera{Contraparte: "bajío", Al: fecha("2024-03-01")})
	require.NoError(t, err)
	assert.Equal(t, []string{"B-2", "B-1"}, numeros(notas))

	// "%" is matched literally, not as a wildcard.
	notas, err = repo.ListCuentas(ctx, FiltroCartera{Contraparte: "100%", Al: fecha("2024-03-01")})
	require.NoError(t, err)
	assert.Equal(t, []string{"A-1", "A-2"}, numeros(notas))

	notas, err = repo.ListCuentas(ctx, FiltroCartera{ContraparteID: &a.ID, Al: fecha("2024-03-01")})
	require.NoError(t, err)
	assert.Len(t, notas, 2)
}

func TestListCuentas_Paginacion(t *testing.T) {
	db := nuevaDB(t)
	sembrarCartera(t, db)
	repo := NewNotaVentaRepository(db)
	ctx := context.Background()
	al := fecha("2024-03-01")

	p1, err := repo.ListCuentas(ctx, FiltroCartera{Al: al, Pagina: dto.Paginacion{Offset: 0, Limit: 2}})
	require.NoError(t, err)
	p2, err := repo.ListCuentas(ctx, FiltroCartera{Al: al, Pagina: dto.Paginacion{Offset: 2, Limit: 2}})
	require.NoError(t, err)
	p3, err := repo.ListCuentas(ctx, FiltroCartera{Al: al, Pagina: dto.Paginacion{Offset: 4, Limit: 2}})
	require.NoError(t, err)

	assert.Equal(t, []string{"A-1", "A-2"}, numeros(p1))
	assert.Equal(t, []string{"B-2", "B-1"}, numeros(p2))
	assert.Empty(t, p3)

	// An exactly full last page still reports more.
	assert.True(t, dto.NuevaPagina(numeros(p2), dto.Paginacion{Offset: 2, Limit: 2}).HasMore)
	assert.False(t, dto.NuevaPagina(numeros(p3), dto.Paginacion{Offset: 4, Limit: 2}).HasMore)
}

func TestPagosTx_SumaDentroDeTransaccion(t *testing.T) {
	db := nuevaDB(t)
	a, _ := sembrarCartera(t, db)
	repo := NewNotaVentaRepository(db)
	ctx := context.Background()

	a2, err := repo.FindByNumero(ctx, "A-2")
	require.NoError(t, err)
	assert.Equal(t, a.ID, a2.ClienteID)

	err = db.Transaction(func(tx *gorm.DB) error {
		n, err := repo.LockForUpdateTx(tx, a2.ID)
		require.NoError(t, err)
		pagado, err := repo.SumPagosTx(tx, n.ID)
		require.NoError(t, err)
		assert.True(t, pagado.Equal(dec("400")), pagado.String())
		return repo.CreatePagoTx(tx, &model.Pago{
			NotaVentaID: n.ID, Fecha: fecha("2024-03-01"), Importe: dec("150"), MetodoPago: "efectivo",
		})
	})
	require.NoError(t, err)

	cnt, err := repo.CountPagos(ctx, a2.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cnt)

	pagos, err := repo.ListPagos(ctx, &a.ID, nil, nil)
	require.NoError(t, err)
	assert.Len(t, pagos, 3)
	assert.Equal(t, "A-2", pagos[0].NotaVenta.NumeroFactura)
}

func TestNotaVenta_DeleteEnCascada(t *testing.T) {
	db := nuevaDB(t)
	c := crearCliente(t, db, "Cliente")
	prod := &model.Producto{Material: "celofan", Presentacion: "micraje", Tipo: "mordaza", Nombre: "Celofán micraje mordaza", Activo: true}
	require.NoError(t, db.Create(prod).Error)
	n := crearNota(t, db, c, "N-1", "2024-01-01", 0, "100")
	ped := &model.Pedido{NotaVentaID: n.ID, ProductoID: prod.ID, Cantidad: dec("2"), PrecioUnitario: dec("50"), Importe: dec("100")}
	require.NoError(t, db.Create(ped).Error)
	ent := &model.Entrega{PedidoID: ped.ID, Cantidad: dec("1"), Fecha: fecha("2024-01-02")}
	require.NoError(t, db.Create(ent).Error)
	require.NoError(t, db.Create(&model.MovimientoStock{
		ProductoID: prod.ID, Material: "celofan", Fecha: fecha("2024-01-02"),
		Cantidad: dec("1"), Movimiento: "salida", EntregaID: &ent.ID,
	}).Error)

	repo := NewNotaVentaRepository(db)
	require.NoError(t, repo.Delete(context.Background(), n.ID))

	var cuenta int64
	db.Model(&model.MovimientoStock{}).Count(&cuenta)
	assert.Zero(t, cuenta)
	db.Model(&model.Entrega{}).Count(&cuenta)
	assert.Zero(t, cuenta)
	db.Model(&model.Pedido{}).Count(&cuenta)
	assert.Zero(t, cuenta)

	assert.ErrorIs(t, repo.Delete(context.Background(), n.ID), gorm.ErrRecordNotFound)
}

func TestSumVentasYCobrado(t *testing.T) {
	db := nuevaDB(t)
	sembrarCartera(t, db)
	repo := NewNotaVentaRepository(db)
	ctx := context.Background()

	total, cnt, err := repo.SumVentas(ctx, fecha("2024-01-01"), fecha("2024-01-31"))
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("2300")), total.String())
	assert.Equal(t, int64(3), cnt)

	cobrado, err := repo.SumCobrado(ctx, fecha("2024-02-01"), fecha("2024-02-29"))
	require.NoError(t, err)
	assert.True(t, cobrado.Equal(dec("400")), cobrado.String())
}

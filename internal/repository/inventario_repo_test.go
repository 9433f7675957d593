package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/victor-varac/AIKZ-sub001/internal/almacen"
	"github.com/victor-varac/AIKZ-sub001/internal/dto"
	"github.com/victor-varac/AIKZ-sub001/internal/model"
)

func existenciaPorID(filas []FilaMovimiento) map[string]decimal.Decimal {
	movs := map[string][]almacen.Movimiento{}
	for _, f := range filas {
		k := f.ID.String()
		movs[k] = append(movs[k], almacen.Movimiento{Direccion: almacen.Direccion(f.Movimiento), Cantidad: f.Cantidad})
	}
	out := map[string]decimal.Decimal{}
	for k, m := range movs {
		out[k] = almacen.Existencia(m)
	}
	return out
}

func TestMovimientoStock_ExistenciasCoincidenConFold(t *testing.T) {
	db := nuevaDB(t)
	repo := NewMovimientoStockRepository(db)
	ctx := context.Background()

	bolsa := &model.Producto{Material: "celofan", Presentacion: "micraje", Tipo: "lateral", Nombre: "Celofán micraje lateral", Activo: true}
	bobina := &model.Producto{Material: "polietileno", Presentacion: "bobina", Tipo: "negra", Nombre: "Polietileno bobina negra", Activo: true}
	sinMovs := &model.Producto{Material: "celofan", Presentacion: "gramaje", Tipo: "1kg", Nombre: "Celofán gramaje 1kg", Activo: true}
	for _, p := range []*model.Producto{bolsa, bobina, sinMovs} {
		require.NoError(t, db.Create(p).Error)
	}

	movs := []struct {
		p    *model.Producto
		dir  string
		cant string
	}{
		{bolsa, "entrada", "10.5"},
		{bolsa, "salida", "3.25"},
		{bolsa, "entrada", "2"},
		{bolsa, "ajuste", "99"},
		{bobina, "entrada", "50"},
		{bobina, "salida", "60"},
	}
	for i, m := range movs {
		require.NoError(t, repo.Create(ctx, &model.MovimientoStock{
			ProductoID: m.p.ID, Material: m.p.Material, Fecha: fecha("2024-01-01").AddDate(0, 0, i),
			Cantidad: dec(m.cant), Movimiento: m.dir,
		}))
	}

	filas, err := repo.Existencias(ctx, "")
	require.NoError(t, err)
	require.Len(t, filas, 3)
	sql := map[uuid.UUID]decimal.Decimal{}
	for _, f := range filas {
		sql[f.ProductoID] = f.Existencia
	}
	assert.True(t, sql[bolsa.ID].Equal(dec("9.25")), sql[bolsa.ID].String())
	// Negative stock is reported as is.
	assert.True(t, sql[bobina.ID].Equal(dec("-10")))
	assert.True(t, sql[sinMovs.ID].IsZero())

	// The SQL fold and the Go fold agree on every product.
	for _, p := range []*model.Producto{bolsa, bobina, sinMovs} {
		historial, err := repo.ListByProducto(ctx, p.ID)
		require.NoError(t, err)
		enGo := almacen.Existencia(aMovimientos(historial))
		assert.True(t, enGo.Equal(sql[p.ID]), "%s: go=%s sql=%s", p.Nombre, enGo, sql[p.ID])
	}

	filas, err = repo.Existencias(ctx, "celofan")
	require.NoError(t, err)
	require.Len(t, filas, 2)
	assert.Equal(t, "Celofán gramaje 1kg", filas[0].Nombre)

	lista, err := repo.List(ctx, FiltroMovimientos{ProductoID: &bolsa.ID, Movimiento: "entrada"})
	require.NoError(t, err)
	assert.Len(t, lista, 2)
	assert.Equal(t, "Celofán micraje lateral", lista[0].Producto.Nombre)
}

func TestMovimientoStock_ListByProductoTxDentroDeTransaccion(t *testing.T) {
	db := nuevaDB(t)
	repo := NewMovimientoStockRepository(db)
	ctx := context.Background()

	p := &model.Producto{Material: "polietileno", Presentacion: "bobina", Tipo: "virgen", Nombre: "Polietileno bobina virgen", Activo: true}
	require.NoError(t, db.Create(p).Error)
	require.NoError(t, repo.Create(ctx, &model.MovimientoStock{
		ProductoID: p.ID, Material: p.Material, Fecha: fecha("2024-02-01"), Cantidad: dec("10"), Movimiento: "entrada",
	}))

	err := db.Transaction(func(tx *gorm.DB) error {
		movs, err := repo.ListByProductoTx(tx, p.ID)
		require.NoError(t, err)
		assert.True(t, almacen.Existencia(aMovimientos(movs)).Equal(dec("10")))

		require.NoError(t, repo.CreateTx(tx, &model.MovimientoStock{
			ProductoID: p.ID, Material: p.Material, Fecha: fecha("2024-02-02"), Cantidad: dec("4"), Movimiento: "salida",
		}))
		movs, err = repo.ListByProductoTx(tx, p.ID)
		require.NoError(t, err)
		assert.True(t, almacen.Existencia(aMovimientos(movs)).Equal(dec("6")))
		return nil
	})
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := repo.ListByProductoTx(tx, uuid.New())
		return err
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func aMovimientos(movs []model.MovimientoStock) []almacen.Movimiento {
	out := make([]almacen.Movimiento, len(movs))
	for i, m := range movs {
		out[i] = almacen.Movimiento{Direccion: almacen.Direccion(m.Movimiento), Cantidad: m.Cantidad}
	}
	return out
}

func TestProducto_ListFiltros(t *testing.T) {
	db := nuevaDB(t)
	repo := NewProductoRepository(db)
	ctx := context.Background()

	ancho := dec("10")
	otro := dec("15")
	for _, p := range []*model.Producto{
		{Material: "celofan", Presentacion: "micraje", Tipo: "lateral", AnchoCm: &ancho, Nombre: "Celofán micraje 10cm lateral", Activo: true},
		{Material: "celofan", Presentacion: "micraje", Tipo: "lateral", AnchoCm: &otro, Nombre: "Celofán micraje 15cm lateral", Activo: true},
		{Material: "polietileno", Presentacion: "bobina", Tipo: "negra", Nombre: "Polietileno bobina negra", Activo: false},
	} {
		require.NoError(t, repo.Create(ctx, p))
	}

	lista, err := repo.List(ctx, dto.ProductoFilter{Material: "celofan", AnchoCm: "10.00"})
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, "Celofán micraje 10cm lateral", lista[0].Nombre)

	lista, err = repo.List(ctx, dto.ProductoFilter{})
	require.NoError(t, err)
	assert.Len(t, lista, 2)

	lista, err = repo.List(ctx, dto.ProductoFilter{Estado: "inactivo"})
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, "Polietileno bobina negra", lista[0].Nombre)
}

func TestMateriaPrima_TotalesYMovimientos(t *testing.T) {
	db := nuevaDB(t)
	repo := NewMateriaPrimaRepository(db)
	ctx := context.Background()

	resina := &model.MateriaPrima{Nombre: "Resina natural", Tipo: "resina_virgen_natural", UnidadMedida: "kg", StockMinimo: dec("100"), Activo: true}
	pellet := &model.MateriaPrima{Nombre: "Pellet", Tipo: "pellet_reciclado", UnidadMedida: "kg", Activo: true}
	require.NoError(t, repo.Create(ctx, resina))
	require.NoError(t, repo.Create(ctx, pellet))

	for _, m := range []model.MovimientoMateriaPrima{
		{MateriaPrimaID: resina.ID, Fecha: fecha("2024-01-01"), Cantidad: dec("500"), Movimiento: "entrada"},
		{MateriaPrimaID: resina.ID, Fecha: fecha("2024-01-05"), Cantidad: dec("420"), Movimiento: "salida"},
		{MateriaPrimaID: pellet.ID, Fecha: fecha("2024-01-02"), Cantidad: dec("75"), Movimiento: "entrada"},
	} {
		m := m
		require.NoError(t, repo.CreateMovimiento(ctx, &m))
	}

	filas, err := repo.Totales(ctx, "resina_virgen_natural")
	require.NoError(t, err)
	saldos := existenciaPorID(filas)
	require.Len(t, saldos, 1)
	assert.True(t, saldos[resina.ID.String()].Equal(dec("80")))
	assert.Equal(t, almacen.StockBajo, almacen.Clasificar(saldos[resina.ID.String()], resina.StockMinimo))

	n, err := repo.CountMovimientos(ctx, resina.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	movs, err := repo.ListMovimientos(ctx, FiltroMovimientosMP{Tipo: "pellet_reciclado"})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "Pellet", movs[0].MateriaPrima.Nombre)

	activas, err := repo.ListActivas(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Pellet", activas[0].Nombre)
}

package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/victor-varac/AIKZ-sub001/internal/model"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

// nuevaDB opens a private in-memory sqlite database with the full schema.
func nuevaDB(t *testing.T) *gorm.DB {
	t.Helper()
	nombre := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+nombre+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.Todos()...))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func fecha(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func crearCliente(t *testing.T, db *gorm.DB, empresa string) *model.Cliente {
	t.Helper()
	c := &model.Cliente{Empresa: empresa, Activo: true, DiasCredito: 30}
	require.NoError(t, db.Create(c).Error)
	return c
}

func crearProveedor(t *testing.T, db *gorm.DB, nombre string) *model.Proveedor {
	t.Helper()
	p := &model.Proveedor{Nombre: nombre, Activo: true, DiasPago: 30}
	require.NoError(t, db.Create(p).Error)
	return p
}

func crearNota(t *testing.T, db *gorm.DB, c *model.Cliente, numero, f string, dias int, total string) *model.NotaVenta {
	t.Helper()
	n := &model.NotaVenta{
		NumeroFactura:    numero,
		ClienteID:        c.ID,
		Fecha:            fecha(f),
		DiasCredito:      dias,
		FechaVencimiento: fecha(f).AddDate(0, 0, dias),
		Subtotal:         dec(total),
		Total:            dec(total),
	}
	require.NoError(t, db.Create(n).Error)
	return n
}

func crearPago(t *testing.T, db *gorm.DB, n *model.NotaVenta, f, importe string) {
	t.Helper()
	require.NoError(t, db.Create(&model.Pago{
		NotaVentaID: n.ID, Fecha: fecha(f), Importe: dec(importe), MetodoPago: "transferencia",
	}).Error)
}

package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/victor-varac/AIKZ-sub001/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// GORM tags cannot express.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates every table and applies the schema
// patches. Integration tests call it directly against their container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(model.Todos()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL: CHECK constraints on amounts and
// directions, and the partial index used by the receivable aging queries.
// Each statement is guarded so re-running on a patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"pagos importe > 0", checkPositivo("pagos", "chk_pagos_importe", "importe > 0")},
		{"pagos_compra importe > 0", checkPositivo("pagos_compra", "chk_pagos_compra_importe", "importe > 0")},
		{"gastos importe > 0", checkPositivo("gastos", "chk_gastos_importe", "importe > 0")},
		{"clientes dias_credito >= 0", checkPositivo("clientes", "chk_clientes_dias_credito", "dias_credito >= 0")},
		{"proveedores dias_pago >= 0", checkPositivo("proveedores", "chk_proveedores_dias_pago", "dias_pago >= 0")},
		{"movimientos_almacen direccion", checkPositivo("movimientos_almacen", "chk_movimientos_almacen",
			"cantidad > 0 AND movimiento IN ('entrada','salida')")},
		{"movimientos_materia_prima direccion", checkPositivo("movimientos_materia_prima", "chk_movimientos_mp",
			"cantidad > 0 AND movimiento IN ('entrada','salida')")},
		{"notas_venta cliente+vencimiento index", `
CREATE INDEX IF NOT EXISTS idx_notas_venta_cliente_vencimiento
    ON notas_venta (cliente_id, fecha_vencimiento)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}

func checkPositivo(tabla, nombre, expr string) string {
	return fmt.Sprintf(`
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
    ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s);
  END IF;
END $$`, nombre, tabla, nombre, expr)
}

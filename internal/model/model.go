package model

import "github.com/google/uuid"

// asignarID fills a missing primary key before insert. Postgres would do it
// through gen_random_uuid(), but the sqlite test databases cannot.
func asignarID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// Todos returns every persisted model, in dependency order, for AutoMigrate.
func Todos() []interface{} {
	return []interface{}{
		&Vendedor{},
		&Cliente{},
		&Proveedor{},
		&Producto{},
		&NotaVenta{},
		&Pedido{},
		&Entrega{},
		&Pago{},
		&Compra{},
		&PagoCompra{},
		&MovimientoStock{},
		&MateriaPrima{},
		&MovimientoMateriaPrima{},
		&Gasto{},
	}
}

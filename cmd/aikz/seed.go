package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/victor-varac/AIKZ-sub001/internal/dto"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Carga datos de demostración (clientes, productos, facturas, pagos y movimientos)",
	Long: `Inserta un conjunto pequeño de datos coherentes para probar la API:
un vendedor, dos clientes, un proveedor, dos productos con existencia,
dos notas de venta (una vencida y parcialmente pagada), una compra con
abono, una materia prima y un gasto. Las fechas son relativas a hoy.

No es idempotente: una segunda ejecución falla por factura duplicada.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return sembrar(cmd.Context(), time.Now().In(app.cfg.Ubicacion()))
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func ptr[T any](v T) *T { return &v }

func sembrar(ctx context.Context, hoy time.Time) error {
	s := app.svcs
	dia := func(haceDias int) string { return hoy.AddDate(0, 0, -haceDias).Format("2006-01-02") }
	paso := func(nombre string, err error) error {
		if err != nil {
			return fmt.Errorf("seed %s: %w", nombre, err)
		}
		log.Info().Str("paso", nombre).Msg("seed")
		return nil
	}

	// ── Catálogos ────────────────────────────────────────────────────────────
	vendedor, err := s.Vendedores.Crear(ctx, dto.CrearVendedorRequest{
		Nombre:      "Pedro Salinas",
		Correo:      ptr("pedro.salinas@aikz.mx"),
		ComisionPct: decimal.NewFromFloat(2.5),
	})
	if err := paso("vendedor", err); err != nil {
		return err
	}
	roma, err := s.Clientes.Crear(ctx, dto.CrearClienteRequest{
		Empresa:        "Dulcería La Roma",
		NombreContacto: ptr("Sra. Roma"),
		Correo:         ptr("compras@dulcerialaroma.mx"),
		DiasCredito:    30,
		VendedorID:     &vendedor.ID,
	})
	if err := paso("cliente roma", err); err != nil {
		return err
	}
	valle, err := s.Clientes.Crear(ctx, dto.CrearClienteRequest{
		Empresa:     "Panificadora Del Valle",
		Telefono:    ptr("33 3615 2040"),
		DiasCredito: 15,
	})
	if err := paso("cliente valle", err); err != nil {
		return err
	}
	proveedor, err := s.Proveedores.Crear(ctx, dto.CrearProveedorRequest{
		Nombre:   "Resinas del Bajío",
		Contacto: ptr("Ing. Ramírez"),
		DiasPago: 45,
	})
	if err := paso("proveedor", err); err != nil {
		return err
	}

	celofan, err := s.Productos.Crear(ctx, dto.CrearProductoRequest{
		Material:     "celofan",
		Presentacion: "micraje",
		Tipo:         "lateral",
		AnchoCm:      ptr(decimal.NewFromInt(30)),
		LargoCm:      ptr(decimal.NewFromInt(40)),
		MicrajeUm:    ptr(decimal.NewFromInt(25)),
	})
	if err := paso("producto celofan", err); err != nil {
		return err
	}
	bobina, err := s.Productos.Crear(ctx, dto.CrearProductoRequest{
		Material:     "polietileno",
		Presentacion: "bobina",
		Tipo:         "virgen",
		AnchoCm:      ptr(decimal.NewFromInt(60)),
	})
	if err := paso("producto bobina", err); err != nil {
		return err
	}

	// ── Almacén ──────────────────────────────────────────────────────────────
	for _, p := range []struct {
		id       string
		cantidad int64
	}{{celofan.ID, 5000}, {bobina.ID, 800}} {
		_, err := s.Inventario.RegistrarMovimiento(ctx, dto.RegistrarMovimientoRequest{
			ProductoID: p.id,
			Fecha:      dia(90),
			Cantidad:   decimal.NewFromInt(p.cantidad),
			Movimiento: "entrada",
			Referencia: ptr("Inventario inicial"),
		})
		if err := paso("entrada inicial", err); err != nil {
			return err
		}
	}

	// ── Cuentas por cobrar ───────────────────────────────────────────────────
	vencida, err := s.NotasVenta.Crear(ctx, dto.CrearNotaVentaRequest{
		NumeroFactura: "F-1001",
		ClienteID:     roma.ID,
		Fecha:         dia(60),
		Pedidos: []dto.PedidoInput{
			{ProductoID: celofan.ID, Cantidad: decimal.NewFromInt(1200), PrecioUnitario: decimal.NewFromFloat(3.5)},
			{ProductoID: bobina.ID, Cantidad: decimal.NewFromInt(150), PrecioUnitario: decimal.NewFromInt(42)},
		},
	})
	if err := paso("nota F-1001", err); err != nil {
		return err
	}
	_, err = s.NotasVenta.EntregarTodo(ctx, uuid.MustParse(vencida.ID), dto.EntregarTodoRequest{Fecha: dia(58)})
	if err := paso("entrega F-1001", err); err != nil {
		return err
	}
	_, err = s.Cobranza.RegistrarPago(ctx, dto.RegistrarPagoRequest{
		NumeroFactura: "F-1001",
		Fecha:         dia(20),
		Importe:       decimal.NewFromInt(4000),
		MetodoPago:    "transferencia",
		Referencia:    ptr("SPEI 0048213"),
	})
	if err := paso("pago F-1001", err); err != nil {
		return err
	}
	_, err = s.NotasVenta.Crear(ctx, dto.CrearNotaVentaRequest{
		NumeroFactura: "F-1002",
		ClienteID:     valle.ID,
		Fecha:         dia(5),
		Descuento:     decimal.NewFromInt(100),
		Pedidos: []dto.PedidoInput{
			{ProductoID: bobina.ID, Cantidad: decimal.NewFromInt(60), PrecioUnitario: decimal.NewFromInt(45)},
		},
	})
	if err := paso("nota F-1002", err); err != nil {
		return err
	}

	// ── Cuentas por pagar ────────────────────────────────────────────────────
	_, err = s.CuentasPagar.Crear(ctx, dto.CrearCompraRequest{
		NumeroFactura: "RB-5501",
		ProveedorID:   proveedor.ID,
		Fecha:         dia(50),
		Subtotal:      decimal.NewFromInt(20000),
		Concepto:      ptr("Resina virgen natural 1 t"),
	})
	if err := paso("compra RB-5501", err); err != nil {
		return err
	}
	_, err = s.CuentasPagar.RegistrarPago(ctx, dto.RegistrarPagoRequest{
		NumeroFactura: "RB-5501",
		Fecha:         dia(10),
		Importe:       decimal.NewFromInt(10000),
		MetodoPago:    "transferencia",
	})
	if err := paso("abono RB-5501", err); err != nil {
		return err
	}

	resina, err := s.MateriaPrima.Crear(ctx, dto.CrearMateriaPrimaRequest{
		Nombre:       "Resina PEBD natural",
		Tipo:         "resina_virgen_natural",
		UnidadMedida: "kg",
		StockMinimo:  decimal.NewFromInt(300),
		ProveedorID:  &proveedor.ID,
	})
	if err := paso("materia prima", err); err != nil {
		return err
	}
	_, err = s.MateriaPrima.RegistrarMovimiento(ctx, dto.RegistrarMovimientoMPRequest{
		MateriaPrimaID: resina.ID,
		Fecha:          dia(49),
		Cantidad:       decimal.NewFromInt(1000),
		Movimiento:     "entrada",
		Referencia:     ptr("RB-5501"),
	})
	if err := paso("entrada resina", err); err != nil {
		return err
	}
	_, err = s.Gastos.Crear(ctx, dto.CrearGastoRequest{
		Fecha:     dia(3),
		Concepto:  "Energía eléctrica planta",
		Importe:   decimal.NewFromFloat(8450.75),
		Categoria: "servicios",
	})
	if err := paso("gasto", err); err != nil {
		return err
	}

	fmt.Printf("Datos de demostración cargados. Cliente con adeudo vencido: %s (%s)\n", roma.Empresa, roma.ID)
	return nil
}

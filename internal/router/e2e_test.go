//go:build integration

package router_test

// End-to-end tests against real Postgres and Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/victor-varac/AIKZ-sub001/internal/config"
	"github.com/victor-varac/AIKZ-sub001/internal/infra"
	"github.com/victor-varac/AIKZ-sub001/internal/router"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer) *http.Response {
	t.Helper()
	var (
		req *http.Request
		err error
	)
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func crear(t *testing.T, srv *httptest.Server, path string, body any) string {
	t.Helper()
	resp := do(t, srv, http.MethodPost, path, jsonBody(t, body))
	require.Equal(t, http.StatusCreated, resp.StatusCode, path)
	var out struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &out)
	require.NotEmpty(t, out.ID)
	return out.ID
}

func dia(haceDias int) string {
	return time.Now().UTC().AddDate(0, 0, -haceDias).Format("2006-01-02")
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("aikz_test"),
		tcPostgres.WithUsername("aikz"),
		tcPostgres.WithPassword("aikz"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:            8000,
		Env:             "test",
		WorkerPoolSize:  1,
		DatabaseURL:     pgURL,
		RedisURL:        rdURL,
		CacheTTLSeconds: 60,
		EmpresaNombre:   "AIKZ",
		TasaIVARaw:      "0.16",
		ZonaHoraria:     "UTC",
		PDFStoragePath:  t.TempDir(),
		DashboardConcur: 2,
	}
	require.NoError(t, cfg.Validate())

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	svcs := router.NuevosServicios(cfg, db, rdb)
	srv := httptest.NewServer(router.New(cfg, db, rdb, svcs))
	t.Cleanup(srv.Close)
	return srv
}

type cuenta struct {
	NumeroFactura string          `json:"numero_factura"`
	Total         decimal.Decimal `json:"total"`
	TotalPagado   decimal.Decimal `json:"total_pagado"`
	Saldo         decimal.Decimal `json:"saldo"`
	DiasVencido   int             `json:"dias_vencido"`
	Estado        string          `json:"estado"`
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_CicloCobranza(t *testing.T) {
	srv := setupServer(t)

	clienteID := crear(t, srv, "/v1/clientes", map[string]any{
		"empresa":      "Dulcería La Roma",
		"dias_credito": 30,
	})
	productoID := crear(t, srv, "/v1/productos", map[string]any{
		"material":     "polietileno",
		"presentacion": "bobina",
		"tipo":         "virgen",
		"ancho_cm":     "60",
	})
	crear(t, srv, "/v1/almacen/movimientos", map[string]any{
		"producto_id": productoID,
		"fecha":       dia(90),
		"cantidad":    "500",
		"movimiento":  "entrada",
	})
	notaID := crear(t, srv, "/v1/notas-venta", map[string]any{
		"numero_factura": "F-1001",
		"cliente_id":     clienteID,
		"fecha":          dia(60),
		"pedidos": []map[string]any{
			{"producto_id": productoID, "cantidad": "100", "precio_unitario": "10"},
		},
	})

	// 1. 60 days old with 30 days of credit: overdue by 30.
	resp := do(t, srv, http.MethodGet, "/v1/cuentas-por-cobrar/F-1001", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detalle cuenta
	decodeJSON(t, resp, &detalle)
	assert.Equal(t, "VENCIDA", detalle.Estado)
	assert.Equal(t, 30, detalle.DiasVencido)
	assert.True(t, detalle.Total.Equal(decimal.NewFromInt(1160)), detalle.Total.String())

	// 2. Partial payment by invoice number.
	resp = do(t, srv, http.MethodPost, "/v1/cuentas-por-cobrar/pagos", jsonBody(t, map[string]any{
		"numero_factura": "F-1001",
		"fecha":          dia(10),
		"importe":        "500",
		"metodo_pago":    "transferencia",
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var pago struct {
		Cuenta cuenta `json:"cuenta"`
	}
	decodeJSON(t, resp, &pago)
	assert.True(t, pago.Cuenta.Saldo.Equal(decimal.NewFromInt(660)), pago.Cuenta.Saldo.String())

	// 3. Overpayment is rejected and nothing is stored.
	resp = do(t, srv, http.MethodPost, "/v1/cuentas-por-cobrar/pagos", jsonBody(t, map[string]any{
		"numero_factura": "F-1001",
		"fecha":          dia(1),
		"importe":        "700",
		"metodo_pago":    "efectivo",
	}))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	// 4. Summary reflects the single overdue invoice.
	resp = do(t, srv, http.MethodGet, "/v1/cuentas-por-cobrar/resumen", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var resumen struct {
		TotalPendiente decimal.Decimal `json:"total_pendiente"`
		PorEstado      map[string]struct {
			Cantidad int `json:"cantidad"`
		} `json:"por_estado"`
	}
	decodeJSON(t, resp, &resumen)
	assert.True(t, resumen.TotalPendiente.Equal(decimal.NewFromInt(660)))
	assert.Equal(t, 1, resumen.PorEstado["VENCIDA"].Cantidad)

	// 5. Paying the rest settles it.
	resp = do(t, srv, http.MethodPost, "/v1/cuentas-por-cobrar/pagos", jsonBody(t, map[string]any{
		"documento_id": notaID,
		"fecha":        dia(0),
		"importe":      "660",
		"metodo_pago":  "deposito",
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeJSON(t, resp, &pago)
	assert.Equal(t, "PAGADA", pago.Cuenta.Estado)
	assert.True(t, pago.Cuenta.Saldo.IsZero())

	// 6. Statement PDF for the customer.
	resp = do(t, srv, http.MethodGet, "/v1/cuentas-por-cobrar/clientes/"+clienteID+"/estado-cuenta.pdf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	resp.Body.Close()
}

func TestE2E_EntregasDescuentanExistencia(t *testing.T) {
	srv := setupServer(t)

	clienteID := crear(t, srv, "/v1/clientes", map[string]any{"empresa": "Panificadora Del Valle"})
	productoID := crear(t, srv, "/v1/productos", map[string]any{
		"material":     "celofan",
		"presentacion": "micraje",
		"tipo":         "lateral",
		"ancho_cm":     "30",
		"largo_cm":     "40",
		"micraje_um":   "25",
	})
	crear(t, srv, "/v1/almacen/movimientos", map[string]any{
		"producto_id": productoID,
		"fecha":       dia(10),
		"cantidad":    "50",
		"movimiento":  "entrada",
	})
	notaID := crear(t, srv, "/v1/notas-venta", map[string]any{
		"numero_factura": "F-2001",
		"cliente_id":     clienteID,
		"fecha":          dia(5),
		"pedidos": []map[string]any{
			{"producto_id": productoID, "cantidad": "20", "precio_unitario": "3.5"},
		},
	})

	resp := do(t, srv, http.MethodPost, "/v1/notas-venta/"+notaID+"/entregar-todo",
		jsonBody(t, map[string]any{"fecha": dia(4)}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, srv, http.MethodGet, "/v1/almacen/existencias/"+productoID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var existencia struct {
		Existencia decimal.Decimal `json:"existencia"`
	}
	decodeJSON(t, resp, &existencia)
	assert.True(t, existencia.Existencia.Equal(decimal.NewFromInt(30)), existencia.Existencia.String())

	// A manual exit larger than what is left is refused.
	resp = do(t, srv, http.MethodPost, "/v1/almacen/movimientos", jsonBody(t, map[string]any{
		"producto_id": productoID,
		"fecha":       dia(0),
		"cantidad":    "31",
		"movimiento":  "salida",
	}))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_Health(t *testing.T) {
	srv := setupServer(t)

	resp := do(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	decodeJSON(t, resp, &body)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "connected", body["db"])
}

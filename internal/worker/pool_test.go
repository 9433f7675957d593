package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nuevoRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

type procesadorFunc func(ctx context.Context, raw json.RawMessage) error

func (f procesadorFunc) Process(ctx context.Context, raw json.RawMessage) error { return f(ctx, raw) }

func nuevoPool(rdb *redis.Client, handlers map[string]Procesador) *Pool {
	p := NewPool(rdb, handlers)
	p.backoff = func(int) time.Duration { return 0 }
	p.bloqueoPop = 50 * time.Millisecond
	return p
}

func TestDispatcher_EncolaSobreEnvoltura(t *testing.T) {
	rdb := nuevoRedis(t)
	ctx := context.Background()
	d := NewDispatcher(rdb)

	require.NoError(t, d.EncolarEstadoCuenta(ctx, EstadoCuentaJob{ClienteID: "c1", Al: "2024-03-15"}))
	raw, err := rdb.RPop(ctx, QueueEstadoCuenta).Result()
	require.NoError(t, err)

	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, "estado_cuenta", job.Type)
	var payload EstadoCuentaJob
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, "c1", payload.ClienteID)

	var nada *Dispatcher
	assert.Error(t, nada.EncolarRecordatorio(ctx, RecordatorioJob{Para: "x@y.mx"}))
}

func TestPool_ProcesaConReintento(t *testing.T) {
	rdb := nuevoRedis(t)
	ctx := context.Background()
	intentos := 0
	pool := nuevoPool(rdb, map[string]Procesador{
		QueueRecordatorio: procesadorFunc(func(context.Context, json.RawMessage) error {
			intentos++
			if intentos < 2 {
				return errors.New("smtp caído")
			}
			return nil
		}),
	})
	require.NoError(t, NewDispatcher(rdb).EncolarRecordatorio(ctx, RecordatorioJob{Para: "a@b.mx"}))

	tomado, err := pool.ProcesarSiguiente(ctx)
	require.NoError(t, err)
	assert.True(t, tomado)
	assert.Equal(t, 2, intentos)
	n, err := DLQLength(ctx, rdb, QueueRecordatorio)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPool_DLQTrasMaxIntentos(t *testing.T) {
	rdb := nuevoRedis(t)
	ctx := context.Background()
	intentos := 0
	pool := nuevoPool(rdb, map[string]Procesador{
		QueueEstadoCuenta: procesadorFunc(func(context.Context, json.RawMessage) error {
			intentos++
			return errors.New("base de datos no disponible")
		}),
	})
	require.NoError(t, NewDispatcher(rdb).EncolarEstadoCuenta(ctx, EstadoCuentaJob{ClienteID: "c1", Al: "2024-03-15"}))

	_, err := pool.ProcesarSiguiente(ctx)
	require.NoError(t, err)
	assert.Equal(t, MaxIntentos, intentos)

	entradas, err := DLQEntries(ctx, rdb, QueueEstadoCuenta, 10)
	require.NoError(t, err)
	require.Len(t, entradas, 1)
	assert.Equal(t, "estado_cuenta", entradas[0].JobType)
	assert.Equal(t, MaxIntentos, entradas[0].Attempts)
	assert.Contains(t, entradas[0].Reason, "base de datos no disponible")
}

func TestReencolarDLQ_DevuelveTrabajosALaCola(t *testing.T) {
	rdb := nuevoRedis(t)
	ctx := context.Background()
	caido := true
	var recibidos []string
	pool := nuevoPool(rdb, map[string]Procesador{
		QueueRecordatorio: procesadorFunc(func(_ context.Context, raw json.RawMessage) error {
			if caido {
				return errors.New("smtp caído")
			}
			var job RecordatorioJob
			require.NoError(t, json.Unmarshal(raw, &job))
			recibidos = append(recibidos, job.Para)
			return nil
		}),
	})
	require.NoError(t, NewDispatcher(rdb).EncolarRecordatorio(ctx, RecordatorioJob{Para: "compras@laroma.mx"}))
	_, err := pool.ProcesarSiguiente(ctx)
	require.NoError(t, err)
	SendToDLQ(ctx, rdb, QueueRecordatorio, jobDesconocido, json.RawMessage(`null`), "envelope inválido", 1)

	caido = false
	n, err := ReencolarDLQ(ctx, rdb, QueueRecordatorio)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	largo, err := DLQLength(ctx, rdb, QueueRecordatorio)
	require.NoError(t, err)
	assert.Zero(t, largo)

	tomado, err := pool.ProcesarSiguiente(ctx)
	require.NoError(t, err)
	assert.True(t, tomado)
	assert.Equal(t, []string{"compras@laroma.mx"}, recibidos)
}

func TestPool_EnvolturaInvalidaVaDirectoADLQ(t *testing.T) {
	rdb := nuevoRedis(t)
	ctx := context.Background()
	pool := nuevoPool(rdb, map[string]Procesador{
		QueueRecordatorio: procesadorFunc(func(context.Context, json.RawMessage) error {
			t.Fatal("no debe procesarse")
			return nil
		}),
	})
	require.NoError(t, rdb.LPush(ctx, QueueRecordatorio, "{no-json").Err())

	_, err := pool.ProcesarSiguiente(ctx)
	require.NoError(t, err)
	n, err := DLQLength(ctx, rdb, QueueRecordatorio)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestPool_ColaVaciaNoTomaNada(t *testing.T) {
	pool := nuevoPool(nuevoRedis(t), map[string]Procesador{
		QueueRecordatorio: procesadorFunc(func(context.Context, json.RawMessage) error { return nil }),
	})
	tomado, err := pool.ProcesarSiguiente(context.Background())
	require.NoError(t, err)
	assert.False(t, tomado)
}

func TestBackoffExponencial(t *testing.T) {
	assert.Equal(t, time.Duration(0), backoffExponencial(0))
	assert.Equal(t, time.Second, backoffExponencial(1))
	assert.Equal(t, 2*time.Second, backoffExponencial(2))
}

func TestWithRetry_RespetaCancelacion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	llamadas := 0
	err := withRetry(ctx, 3, func(int) time.Duration { return time.Hour }, func(int) error {
		llamadas++
		return errors.New("x")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, llamadas)
}

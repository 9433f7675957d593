package infra_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victor-varac/AIKZ-sub001/internal/infra"
)

func TestNewRedis_Conecta(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := infra.NewRedis("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	assert.NoError(t, rdb.Ping(context.Background()).Err())
}

func TestNewRedis_URLInvalida(t *testing.T) {
	_, err := infra.NewRedis("localhost:6379")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_URL inválida")
}

func TestNewRedis_SinServidor(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := infra.NewRedis("redis://" + addr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sin respuesta en "+addr)
}

package infra_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/victor-varac/AIKZ-sub001/internal/infra"
)

var errSMTP = errors.New("dial tcp: connection refused")

func TestCircuitBreaker_AbreTrasFallosConsecutivos(t *testing.T) {
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{Nombre: "smtp", FailureThreshold: 2, OpenTimeout: time.Hour})
	falla := func() error { return errSMTP }

	assert.ErrorIs(t, cb.Execute(falla), errSMTP)
	assert.Equal(t, infra.CBClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(falla), errSMTP)
	assert.Equal(t, infra.CBOpen, cb.State())

	llamado := false
	err := cb.Execute(func() error { llamado = true; return nil })
	assert.ErrorIs(t, err, infra.ErrCircuitOpen)
	assert.False(t, llamado)
}

func TestCircuitBreaker_SemiAbiertoCierraConExitos(t *testing.T) {
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 2, OpenTimeout: 10 * time.Millisecond})
	_ = cb.Execute(func() error { return errSMTP })
	assert.Equal(t, infra.CBOpen, cb.State())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, infra.CBHalfOpen, cb.State())

	ok := func() error { return nil }
	assert.NoError(t, cb.Execute(ok))
	assert.Equal(t, infra.CBHalfOpen, cb.State())
	assert.NoError(t, cb.Execute(ok))
	assert.Equal(t, infra.CBClosed, cb.State())
}

func TestCircuitBreaker_SondaFallidaReabre(t *testing.T) {
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: 10 * time.Millisecond})
	_ = cb.Execute(func() error { return errSMTP })
	time.Sleep(20 * time.Millisecond)

	assert.ErrorIs(t, cb.Execute(func() error { return errSMTP }), errSMTP)
	assert.Equal(t, "open", cb.State().String())
}

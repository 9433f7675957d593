package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ── Circuit Breaker ───────────────────────────────────────────────────────────
// Guards the SMTP relay. After FailureThreshold consecutive send errors the
// breaker opens and reminder jobs fail at once (and end in the DLQ) instead
// of holding a worker on a dial timeout. Once OpenTimeout passes a probe is
// let through; SuccessThreshold good sends close it again.

// CBState is the breaker position.
type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

var nombresCBState = [...]string{CBClosed: "closed", CBOpen: "open", CBHalfOpen: "half-open"}

func (s CBState) String() string {
	if s < 0 || int(s) >= len(nombresCBState) {
		return "unknown"
	}
	return nombresCBState[s]
}

// ErrCircuitOpen is returned by Execute without calling fn.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig holds the thresholds. Zero values take the defaults
// of DefaultCBConfig.
type CircuitBreakerConfig struct {
	Nombre           string
	FailureThreshold int
	SuccessThreshold int
	OpenTimeout      time.Duration
}

// DefaultCBConfig is the SMTP breaker: 5 failures, 2 probes, 60s open.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Nombre:           "smtp",
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      time.Minute,
	}
}

type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu           sync.Mutex
	estado       CBState
	fallos       int
	exitos       int
	abiertoHasta time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{cfg: cfg}
}

// State reports the position, moving an expired open breaker to half-open.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.estadoActual()
}

// Execute runs fn unless the breaker is open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if cb.State() == CBOpen {
		return ErrCircuitOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.registrarFallo()
		return err
	}
	cb.registrarExito()
	return nil
}

// The helpers below expect cb.mu to be held.

func (cb *CircuitBreaker) estadoActual() CBState {
	if cb.estado == CBOpen && !time.Now().Before(cb.abiertoHasta) {
		cb.mover(CBHalfOpen)
	}
	return cb.estado
}

func (cb *CircuitBreaker) registrarFallo() {
	cb.fallos++
	if cb.estado == CBHalfOpen || cb.fallos >= cb.cfg.FailureThreshold {
		cb.abiertoHasta = time.Now().Add(cb.cfg.OpenTimeout)
		cb.mover(CBOpen)
	}
}

func (cb *CircuitBreaker) registrarExito() {
	if cb.estado != CBHalfOpen {
		cb.fallos = 0
		return
	}
	cb.exitos++
	if cb.exitos >= cb.cfg.SuccessThreshold {
		cb.mover(CBClosed)
	}
}

func (cb *CircuitBreaker) mover(a CBState) {
	if a == cb.estado {
		return
	}
	log.Warn().
		Str("breaker", cb.cfg.Nombre).
		Stringer("de", cb.estado).
		Stringer("a", a).
		Msg("circuit breaker: cambio de estado")
	cb.estado = a
	cb.fallos, cb.exitos = 0, 0
}

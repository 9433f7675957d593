package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEstadoCuenta = "jobs:estado_cuenta"
	QueueRecordatorio = "jobs:recordatorio"

	// MaxIntentos is how many times a job runs before it goes to the DLQ.
	MaxIntentos = 3

	jobDesconocido = "desconocido"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EncolarEstadoCuenta pushes a statement job to Redis.
func (d *Dispatcher) EncolarEstadoCuenta(ctx context.Context, job EstadoCuentaJob) error {
	return d.enqueue(ctx, QueueEstadoCuenta, "estado_cuenta", job)
}

// EncolarRecordatorio pushes a reminder email job to Redis.
func (d *Dispatcher) EncolarRecordatorio(ctx context.Context, job RecordatorioJob) error {
	return d.enqueue(ctx, QueueRecordatorio, "recordatorio", job)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	if d == nil || d.rdb == nil {
		return errors.New("dispatcher: redis no disponible")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Procesador handles the payload of one queue. A returned error makes the
// pool retry the job and, after MaxIntentos, move it to the DLQ.
type Procesador interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// Pool consumes every registered queue with a fixed number of goroutines.
type Pool struct {
	rdb        *redis.Client
	handlers   map[string]Procesador
	colas      []string
	backoff    func(intento int) time.Duration
	bloqueoPop time.Duration
}

// NewPool registers one Procesador per queue name.
func NewPool(rdb *redis.Client, handlers map[string]Procesador) *Pool {
	colas := make([]string, 0, len(handlers))
	// Fixed order so statements are drained before reminders.
	for _, q := range []string{QueueEstadoCuenta, QueueRecordatorio} {
		if _, ok := handlers[q]; ok {
			colas = append(colas, q)
		}
	}
	return &Pool{
		rdb:        rdb,
		handlers:   handlers,
		colas:      colas,
		backoff:    backoffExponencial,
		bloqueoPop: 5 * time.Second,
	}
}

// Start launches numWorkers goroutines consuming the registered queues.
// Each goroutine blocks on BRPOP while idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.runWorker(ctx, i)
	}
	log.Info().Strs("queues", p.colas).Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			if _, err := p.ProcesarSiguiente(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Int("worker", id).Msg("worker: pop failed")
				time.Sleep(time.Second)
			}
		}
	}
}

// ProcesarSiguiente waits up to the pop timeout for one job and runs it.
// It reports whether a job was taken.
func (p *Pool) ProcesarSiguiente(ctx context.Context) (bool, error) {
	result, err := p.rdb.BRPop(ctx, p.bloqueoPop, p.colas...).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(result) < 2 {
		return false, nil
	}
	p.processJob(ctx, result[0], result[1])
	return true, nil
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.rdb, queue, jobDesconocido, json.RawMessage(`null`), "envelope inválido: "+err.Error(), 1)
		return
	}
	h, ok := p.handlers[queue]
	if !ok {
		log.Error().Str("queue", queue).Msg("no handler registered")
		return
	}

	intentos := 0
	err := withRetry(ctx, MaxIntentos, p.backoff, func(attempt int) error {
		intentos = attempt + 1
		if err := h.Process(ctx, job.Payload); err != nil {
			log.Warn().
				Err(err).
				Str("queue", queue).
				Int("attempt", intentos).
				Msg("worker: job attempt failed")
			return err
		}
		return nil
	})
	if err != nil {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload,
			fmt.Sprintf("max retries (%d) exceeded: %v", MaxIntentos, err), intentos)
		return
	}
	log.Info().Str("type", job.Type).Str("queue", queue).Msg("job processed")
}

// backoffExponencial: attempt 1 = immediate, 2 = 1s, 3 = 2s.
func backoffExponencial(intento int) time.Duration {
	if intento <= 0 {
		return 0
	}
	return time.Duration(1<<uint(intento-1)) * time.Second
}

// withRetry calls fn up to maxAttempts times, sleeping backoff(i) before
// attempt i. Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, backoff func(int) time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if wait := backoff(i); i > 0 && wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

package worker

// vencimientos_cron.go
// Once a day, at the configured hour in the business time zone, enqueues a
// statement job for every client with an overdue balance.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// EncoladorRecordatorios is implemented by the receivable service.
type EncoladorRecordatorios interface {
	EncolarRecordatorios(ctx context.Context, al time.Time) (int, error)
}

// VencimientosCronConfig holds all dependencies for the cron goroutine.
type VencimientosCronConfig struct {
	Cobranza  EncoladorRecordatorios
	Hora      int
	Ubicacion *time.Location
}

// StartVencimientosCron launches the daily reminder goroutine. It respects
// the context for graceful shutdown.
func StartVencimientosCron(ctx context.Context, cfg VencimientosCronConfig) {
	if cfg.Ubicacion == nil {
		cfg.Ubicacion = time.UTC
	}
	go func() {
		log.Info().Int("hora", cfg.Hora).Msg("vencimientos_cron: started")
		for {
			ahora := time.Now().In(cfg.Ubicacion)
			siguiente := ProximaEjecucion(ahora, cfg.Hora)
			timer := time.NewTimer(siguiente.Sub(ahora))
			select {
			case <-ctx.Done():
				timer.Stop()
				log.Info().Msg("vencimientos_cron: shutting down")
				return
			case <-timer.C:
				EjecutarVencimientos(ctx, cfg.Cobranza, time.Now().In(cfg.Ubicacion))
			}
		}
	}()
}

// EjecutarVencimientos runs one pass as of ahora.
func EjecutarVencimientos(ctx context.Context, cobranza EncoladorRecordatorios, ahora time.Time) {
	n, err := cobranza.EncolarRecordatorios(ctx, ahora)
	if err != nil {
		log.Error().Err(err).Msg("vencimientos_cron: failed to enqueue reminders")
		return
	}
	log.Info().Int("encolados", n).Msg("vencimientos_cron: reminders enqueued")
}

// ProximaEjecucion returns the next time at hora:00 strictly after ahora,
// in ahora's location.
func ProximaEjecucion(ahora time.Time, hora int) time.Time {
	y, m, d := ahora.Date()
	t := time.Date(y, m, d, hora, 0, 0, 0, ahora.Location())
	if !t.After(ahora) {
		t = time.Date(y, m, d+1, hora, 0, 0, 0, ahora.Location())
	}
	return t
}

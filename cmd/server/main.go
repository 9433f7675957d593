package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"

	"github.com/victor-varac/AIKZ-sub001/internal/config"
	"github.com/victor-varac/AIKZ-sub001/internal/infra"
	"github.com/victor-varac/AIKZ-sub001/internal/router"
	"github.com/victor-varac/AIKZ-sub001/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	infra.SetupLogger(cfg.Env, cfg.LogLevel, os.Stderr)

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	// Redis backs the summary cache and the job queues. Without it the API
	// still serves, reading straight from Postgres.
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, running without cache and jobs")
		rdb = nil
	}

	svcs := router.NuevosServicios(cfg, db, rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker handlers are wired here (composition root) so the pool reaches
	// the services and the SMTP relay.
	if rdb != nil {
		mailer := infra.NewMailer(cfg)
		smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
		pool := worker.NewPool(rdb, map[string]worker.Procesador{
			worker.QueueEstadoCuenta: worker.NewEstadoCuentaWorker(svcs.Cobranza, svcs.Dispatcher, cfg.PDFStoragePath),
			worker.QueueRecordatorio: worker.NewRecordatorioWorker(mailer, smtpCB),
		})
		pool.Start(ctx, cfg.WorkerPoolSize)

		if cfg.RecordatoriosHabilitados {
			if !mailer.Configurado() {
				log.Warn().Msg("RECORDATORIOS_HABILITADOS without SMTP_HOST; reminders will land in the DLQ")
			}
			worker.StartVencimientosCron(ctx, worker.VencimientosCronConfig{
				Cobranza:  svcs.Cobranza,
				Hora:      cfg.RecordatoriosHora,
				Ubicacion: cfg.Ubicacion(),
			})
		}
	}

	r := router.New(cfg, db, rdb, svcs)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("AIKZ backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/victor-varac/AIKZ-sub001/internal/config"
	"github.com/victor-varac/AIKZ-sub001/internal/infra"
	"github.com/victor-varac/AIKZ-sub001/internal/router"
)

// app is filled by the root command before any subcommand runs.
var app struct {
	cfg  *config.Config
	rdb  *redis.Client
	svcs *router.Servicios
}

var rootCmd = &cobra.Command{
	Use:           "aikz",
	Short:         "Herramientas de operación del sistema AIKZ",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		infra.SetupLogger(cfg.Env, cfg.LogLevel, os.Stderr)

		db, err := infra.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("conectar a postgres: %w", err)
		}
		rdb, err := infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible; sin caché ni cola de trabajos")
			rdb = nil
		}
		app.cfg, app.rdb = cfg, rdb
		app.svcs = router.NuevosServicios(cfg, db, rdb)
		return nil
	},
}

// fechaFlag parses a YYYY-MM-DD flag; empty means today in the business
// time zone.
func fechaFlag(cmd *cobra.Command, nombre string) (time.Time, error) {
	raw, _ := cmd.Flags().GetString(nombre)
	if raw == "" {
		ahora := time.Now().In(app.cfg.Ubicacion())
		return time.Date(ahora.Year(), ahora.Month(), ahora.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: formato esperado YYYY-MM-DD", nombre)
	}
	return t, nil
}

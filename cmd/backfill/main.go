// backfill repara ítems FNI legados cuya suma de lotes es menor que las existencias,
// anteponiendo un lote de costo cero por la diferencia. Los ítems con más lotes que
// existencias solo se reportan.
//
// Uso: go run ./cmd/backfill [-dry-run]
// Imprime el resultado en JSON por stdout; el log va por stderr.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/teaestate-api/internal/application/inventory"
	"github.com/jhoicas/teaestate-api/internal/infrastructure/lock"
	"github.com/jhoicas/teaestate-api/internal/infrastructure/postgres"
	"github.com/jhoicas/teaestate-api/pkg/config"
	"github.com/jhoicas/teaestate-api/pkg/logger"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "solo reporta, no modifica")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Out: os.Stderr}).
		With().Str("cmd", "backfill").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Con la API corriendo en paralelo el bloqueo debe ser el mismo que usa ella.
	var locker inventory.ItemLocker = lock.NewLocalLocker()
	if cfg.Redis.Enabled() {
		rdb, err := lock.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = lock.NewChain(locker, lock.NewRedisLocker(rdb, cfg.Redis.LockTTL, log))
	}

	uc := inventory.NewBackfillUseCase(
		postgres.NewTxRunner(pool), locker, postgres.NewStockItemRepository(pool), log,
	)
	res, err := uc.Run(ctx, *dryRun)
	if err != nil {
		log.Fatal().Err(err).Msg("backfill")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir resultado: %v\n", err)
		os.Exit(1)
	}
	log.Info().
		Int("scanned", res.Scanned).
		Int("repaired", len(res.Repaired)).
		Int("inconsistent", len(res.Inconsistent)).
		Msg("backfill finalizado")
}

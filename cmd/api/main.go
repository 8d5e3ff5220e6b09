package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/teaestate-api/docs"
	"github.com/jhoicas/teaestate-api/internal/application/inventory"
	"github.com/jhoicas/teaestate-api/internal/domain/repository"
	"github.com/jhoicas/teaestate-api/internal/infrastructure/lock"
	"github.com/jhoicas/teaestate-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/teaestate-api/internal/infrastructure/pdf"
	"github.com/jhoicas/teaestate-api/internal/infrastructure/postgres"
	"github.com/jhoicas/teaestate-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/teaestate-api/internal/interfaces/http"
	"github.com/jhoicas/teaestate-api/pkg/config"
	"github.com/jhoicas/teaestate-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		txRunner inventory.TxRunner
		itemRepo repository.StockItemRepository
		adjRepo  repository.AdjustmentRepository
	)
	switch cfg.Storage.Driver {
	case "memory":
		store := memory.NewStore()
		txRunner = memory.NewTxRunner(store)
		itemRepo = store.Items()
		adjRepo = store.Adjustments()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		txRunner = postgres.NewTxRunner(pool)
		itemRepo = postgres.NewStockItemRepository(pool)
		adjRepo = postgres.NewAdjustmentRepository(pool)
	}

	// Bloqueo por ítem: local siempre; Redis además si hay varias réplicas.
	var locker inventory.ItemLocker = lock.NewLocalLocker()
	if cfg.Redis.Enabled() {
		rdb, err := lock.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = lock.NewChain(locker, lock.NewRedisLocker(rdb, cfg.Redis.LockTTL, log.Zerolog()))
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.LockTTL).Msg("bloqueo distribuido activo")
	}

	itemUC := inventory.NewItemUseCase(txRunner, locker, itemRepo, adjRepo)
	adjustUC := inventory.NewAdjustStockUseCase(txRunner, locker, log.Zerolog())
	reportUC := inventory.NewReportUseCase(itemRepo, adjRepo, infrapdf.NewMarotoValuationReport(), xlsx.NewAdjustmentExporter())
	replenishmentUC := inventory.NewReplenishmentUseCase(itemRepo)

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: API sin autenticación")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30, // PDF y XLSX
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Title = cfg.App.Name
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "TeaEstate FNI API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:          itemUC,
		AdjustUC:        adjustUC,
		ReportUC:        reportUC,
		ReplenishmentUC: replenishmentUC,
		JWTSecret:       cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

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

	_ "github.com/jhoicas/Produccion-api/docs"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/catalog"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Produccion-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Produccion-api/internal/interfaces/http"
	"github.com/jhoicas/Produccion-api/pkg/config"
	"github.com/jhoicas/Produccion-api/pkg/logger"
	"github.com/jhoicas/Produccion-api/pkg/tracing"
)

// storage adaptadores de persistencia elegidos por STORAGE_DRIVER.
type storage struct {
	materials repository.RawMaterialRepository
	products  repository.ProductRepository
	tx        usecase.TxRunner
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if cfg.Tracing.Enabled {
		shutdownTracing, err := tracing.Init(cfg.App.Name, cfg.App.Version, cfg.Tracing.Output)
		if err != nil {
			log.Fatal().Err(err).Msg("inicializar tracing")
		}
		defer func() {
			tctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(tctx); err != nil {
				log.Error().Err(err).Msg("cerrar tracing")
			}
		}()
	}

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	rawMaterialUC := usecase.NewRawMaterialUseCase(store.materials, store.products)
	productUC := usecase.NewProductUseCase(store.tx, store.products)

	// PDF: reporte de la sugerencia de producción
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	suggestionUC := production.NewSuggestionUseCase(store.products, store.materials, pdfGenerator, log.Named("production"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Produccion API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RawMaterialUC: rawMaterialUC,
		ProductUC:     productUC,
		SuggestionUC:  suggestionUC,
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

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		s := memory.NewStore()
		if cfg.Storage.CatalogURL != "" {
			cat, err := catalog.NewLoader(nil).Load(ctx, cfg.Storage.CatalogURL)
			if err != nil {
				return nil, err
			}
			s.Seed(cat.RawMaterials, cat.Products)
			log.Info().
				Str("catalog", cfg.Storage.CatalogURL).
				Int("raw_materials", len(cat.RawMaterials)).
				Int("products", len(cat.Products)).
				Msg("catálogo cargado en memoria")
		}
		return &storage{
			materials: s.RawMaterials(),
			products:  s.Products(),
			tx:        memory.NewTxRunner(s),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		for _, name := range applied {
			log.Info().Str("migration", name).Msg("migración aplicada")
		}
	}
	return &storage{
		materials: postgres.NewRawMaterialRepository(pool),
		products:  postgres.NewProductRepository(pool),
		tx:        postgres.NewTxRunner(pool),
		close:     pool.Close,
	}, nil
}

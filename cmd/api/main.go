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
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/andyshop-api/internal/application/catalog"
	"github.com/jhoicas/andyshop-api/internal/application/debt"
	"github.com/jhoicas/andyshop-api/internal/application/lot"
	"github.com/jhoicas/andyshop-api/internal/application/ports"
	"github.com/jhoicas/andyshop-api/internal/application/report"
	"github.com/jhoicas/andyshop-api/internal/application/sale"
	"github.com/jhoicas/andyshop-api/internal/domain/reference"
	"github.com/jhoicas/andyshop-api/internal/domain/repository"
	"github.com/jhoicas/andyshop-api/internal/infrastructure/airtable"
	"github.com/jhoicas/andyshop-api/internal/infrastructure/memory"
	"github.com/jhoicas/andyshop-api/internal/infrastructure/messaging"
	infrapdf "github.com/jhoicas/andyshop-api/internal/infrastructure/pdf"
	"github.com/jhoicas/andyshop-api/internal/infrastructure/postgres"
	"github.com/jhoicas/andyshop-api/internal/infrastructure/storage"
	"github.com/jhoicas/andyshop-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/andyshop-api/internal/interfaces/http"
	"github.com/jhoicas/andyshop-api/pkg/clock"
	"github.com/jhoicas/andyshop-api/pkg/config"
	"github.com/jhoicas/andyshop-api/pkg/logger"
)

// backend almacén de registros: repositorios más unidad de trabajo.
type backend interface {
	ports.TxRunner
	Repositories() repository.Set
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Store.Backend).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, closeStore := openBackend(ctx, cfg, log)
	defer closeStore()
	repos := store.Repositories()

	images, err := storage.New(ctx, cfg.Storage, log.Component("storage"))
	if err != nil {
		// Sin almacenamiento la API funciona; las subidas responden 503.
		log.Warn().Err(err).Msg("almacenamiento de imágenes deshabilitado")
		images = nil
	}

	clk := clock.Real{}
	refs := reference.NewGenerator(clk)
	composer := messaging.NewComposer(cfg.Business.ShopName, cfg.Business.Currency, cfg.Business.DefaultCountryCode)

	catalogUC := catalog.NewUseCase(repos, images, composer, clk, log.Component("catalog"))
	lotUC := lot.NewUseCase(store, repos, refs, clk, cfg.Business.Currency, cfg.Business.LowStockThreshold, log.Component("lot"))
	saleUC := sale.NewUseCase(store, repos, infrapdf.NewReceiptGenerator(), composer, refs, clk, sale.Config{
		ShopName: cfg.Business.ShopName,
		Currency: cfg.Business.Currency,
	}, log.Component("sale"))
	debtUC := debt.NewUseCase(store, repos, images, composer, refs, clk, log.Component("debt"))
	reportUC := report.NewUseCase(repos, xlsx.NewExporter(), clk, log.Component("report"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    storage.MaxUploadSize + 1<<20,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "AndyShop API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "backend": cfg.Store.Backend})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:   catalogUC,
		LotUC:       lotUC,
		SaleUC:      saleUC,
		DebtUC:      debtUC,
		ReportUC:    reportUC,
		UploadsDir:  cfg.Storage.LocalDir,
		UploadsPath: storage.UploadsPath,
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

// openBackend conecta el almacén elegido en STORE_BACKEND. La función devuelta libera recursos.
func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (backend, func()) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		dsn := cfg.DB.ConnectionString()
		if cfg.DB.Migrate {
			if err := postgres.Migrate(dsn, log.Component("migrate")); err != nil {
				log.Fatal().Err(err).Msg("migraciones PostgreSQL")
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		return postgres.NewStore(pool, log.Component("postgres")), pool.Close

	case config.BackendMemory:
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		return memory.NewStore(), func() {}

	default:
		zl := log.Component("airtable")
		client := airtable.NewClient(cfg.Airtable, zl)
		return airtable.NewStore(client, cfg.Airtable, zl), func() {}
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/eboutique-api/internal/application/archive"
	"github.com/jhoicas/eboutique-api/internal/application/auth"
	"github.com/jhoicas/eboutique-api/internal/application/deletion"
	"github.com/jhoicas/eboutique-api/internal/application/importer"
	"github.com/jhoicas/eboutique-api/internal/application/ports"
	"github.com/jhoicas/eboutique-api/internal/application/search"
	"github.com/jhoicas/eboutique-api/internal/application/stock"
	"github.com/jhoicas/eboutique-api/internal/application/usecase"
	"github.com/jhoicas/eboutique-api/internal/infrastructure/cache"
	"github.com/jhoicas/eboutique-api/internal/infrastructure/geocoding"
	infrapdf "github.com/jhoicas/eboutique-api/internal/infrastructure/pdf"
	"github.com/jhoicas/eboutique-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/eboutique-api/internal/interfaces/http"
	"github.com/jhoicas/eboutique-api/pkg/config"
	"github.com/jhoicas/eboutique-api/pkg/logger"
)

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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("esquema de base de datos")
	}

	repos := postgres.NewRepos(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Redis y Google Geocoding son opcionales: sin configuración la búsqueda
	// no cachea y las direcciones no se geocodifican.
	var nearbyCache ports.NearbyCache
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, búsqueda sin cache")
		} else {
			defer client.Close()
			nearbyCache = cache.NewNearbyCache(client, cfg.Redis.NearbyTTL)
		}
	}
	var geocoder ports.Geocoder
	if cfg.Geocoding.Enabled() {
		geocoder = geocoding.NewGoogleClient(cfg.Geocoding)
	}

	ledger := stock.NewLedger(
		txRunner, repos.Stock, repos.Shops, repos.Alerts,
		infrapdf.NewLowStockReporter(),
		stock.Policy{AlertThreshold: cfg.Stock.AlertThreshold, ArchiveOnDepletion: cfg.Stock.ArchiveOnDepletion},
		log,
	)
	searchSvc := search.NewService(repos.Shops, repos.Stock, nearbyCache, geocoder, search.Options{
		DefaultRadiusMeters: cfg.Search.DefaultRadiusMeters,
		DefaultMaxResults:   cfg.Search.DefaultMaxResults,
		AllMatchesPerShop:   cfg.Search.AllMatchesPerShop,
	}, log)
	authUC := auth.NewAuthUseCase(repos.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    10 * 1024 * 1024,
	})
	app.Use(recover.New())
	if cfg.HTTP.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.HTTP.CORSOrigins,
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		}))
	}

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "e-Boutique API",
		}))
	} else if strings.TrimSpace(cfg.HTTP.SwaggerFile) != "" {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger.json no encontrado, UI deshabilitada")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		UserUC:    usecase.NewUserUseCase(txRunner, repos.Users),
		ShopUC:    usecase.NewShopUseCase(txRunner, repos.Shops, repos.Users, geocoder, log),
		BrandUC:   usecase.NewBrandUseCase(repos.Brands, repos.Models),
		ProductUC: usecase.NewProductUseCase(txRunner, repos.Products, repos.Shops, ledger),
		Ledger:    ledger,
		Deletion:  deletion.NewWorkflow(txRunner, repos.Deletions, log),
		Search:    searchSvc,
		Archive:   archive.NewUseCase(repos.Archive),
		Importer:  importer.NewImporter(txRunner, ledger, log),
		JWTSecret: cfg.JWT.Secret,
		Logger:    log,
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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/Pharmahub-api/internal/application/analytics"
	"github.com/jhoicas/Pharmahub-api/internal/application/auth"
	"github.com/jhoicas/Pharmahub-api/internal/application/transition"
	"github.com/jhoicas/Pharmahub-api/internal/application/usecase"
	"github.com/jhoicas/Pharmahub-api/internal/domain/access"
	infrakafka "github.com/jhoicas/Pharmahub-api/internal/infrastructure/kafka"
	"github.com/jhoicas/Pharmahub-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Pharmahub-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/Pharmahub-api/internal/interfaces/http"
	"github.com/jhoicas/Pharmahub-api/pkg/config"
	"github.com/jhoicas/Pharmahub-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

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

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	repos := postgres.NewRepos(pool)

	files, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de documentos")
	}
	events := infrakafka.New(cfg.Kafka, log)
	defer func() {
		if err := events.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar publicador de eventos")
		}
	}()
	log.Info().
		Str("storage", cfg.Storage.Driver).
		Bool("kafka", cfg.Kafka.Enabled()).
		Msg("adaptadores configurados")

	gate := access.NewGate(access.DefaultRoutes())
	transitions := transition.NewService(txRunner, events, log)
	authUC := auth.NewAuthUseCase(txRunner, repos, gate, events, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	// Hasta cinco documentos por envío, más margen para licenseData.
	bodyLimit := (cfg.HTTP.UploadMaxMB*5 + 1) << 20

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    bodyLimit,
		ErrorHandler: httpRouter.NewErrorHandler(log, cfg.App.Env),
	})
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Pharmahub API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("sin documento OpenAPI; /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		AccountUC:   usecase.NewAccountUseCase(txRunner, repos, events, log),
		ProfileUC:   usecase.NewProfileUseCase(txRunner, repos),
		CompanyUC:   usecase.NewCompanyUseCase(txRunner, repos, events, log),
		ProductUC:   usecase.NewProductUseCase(txRunner, repos),
		AuditUC:     usecase.NewAuditUseCase(repos.Audit),
		DashboardUC: appanalytics.NewDashboardUseCase(repos),
		Transitions: transitions,
		Gate:        gate,
		Accounts:    repos.Accounts,
		Files:       files,
		UploadMaxMB: cfg.HTTP.UploadMaxMB,
		JWTSecret:   cfg.JWT.Secret,
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

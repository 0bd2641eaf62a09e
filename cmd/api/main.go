package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/swaggo/swag"

	"github.com/jhoicas/vouchers-api/internal/application/auth"
	"github.com/jhoicas/vouchers-api/internal/application/genealogy"
	"github.com/jhoicas/vouchers-api/internal/application/ingest"
	"github.com/jhoicas/vouchers-api/internal/application/subscription"
	"github.com/jhoicas/vouchers-api/internal/application/user"
	"github.com/jhoicas/vouchers-api/internal/application/voucher"
	"github.com/jhoicas/vouchers-api/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/vouchers-api/internal/infrastructure/pdf"
	"github.com/jhoicas/vouchers-api/internal/infrastructure/postgres"
	"github.com/jhoicas/vouchers-api/internal/infrastructure/queue"
	"github.com/jhoicas/vouchers-api/internal/infrastructure/tabular"
	httpRouter "github.com/jhoicas/vouchers-api/internal/interfaces/http"
	"github.com/jhoicas/vouchers-api/pkg/config"
	"github.com/jhoicas/vouchers-api/pkg/logger"

	_ "github.com/jhoicas/vouchers-api/docs"
)

const swaggerFile = "./docs/swagger.json"

// @title                       Vouchers API
// @version                     1.0
// @description                 Red de referidos, venta de vouchers y cargas masivas.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.App.Env,
		}); err != nil {
			log.Error().Err(err).Msg("inicializar sentry")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx := context.Background()
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

	userRepo := postgres.NewUserRepository(pool)
	voucherRepo := postgres.NewVoucherRepository(pool)
	atmRepo := postgres.NewATMTransactionRepository(pool)
	packageRepo := postgres.NewPackageRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	receipts := infrapdf.NewReceiptGenerator(cfg.App.Name)
	notifier, closeNotifier := newNotifier(cfg, receipts, log)
	defer closeNotifier()

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    tabular.MaxUploadBytes + 1<<20,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	if cfg.Sentry.DSN != "" {
		app.Use(sentryfiber.New(sentryfiber.Options{Repanic: true}))
	}
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.Observe(log))

	// Especificación registrada por el paquete docs; la UI en /docs necesita el
	// swagger.json generado por `swag init`.
	app.Get("/swagger.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc()
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		c.Type("json")
		return c.SendString(doc)
	})
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Vouchers API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      user.NewUserUseCase(userRepo),
		GenealogyUC: genealogy.NewGenealogyUseCase(userRepo, log),
		AssignUC:    voucher.NewAssignUseCase(userRepo, txRunner, notifier, cfg.Voucher.MaxQuantity, log),
		QueryUC:     voucher.NewQueryUseCase(voucherRepo, userRepo, receipts),
		ImportUC:    ingest.NewImportUseCase(voucherRepo, atmRepo, log),
		PackageUC:   subscription.NewPackageUseCase(packageRepo),
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

// newNotifier elige cómo avisar al comprador: cola asynq si hay Redis, SMTP en línea
// si solo hay correo, y si no hay ninguno las notificaciones quedan como fallidas.
func newNotifier(cfg *config.Config, receipts *infrapdf.ReceiptGenerator, log *logger.Logger) (voucher.Notifier, func()) {
	switch {
	case cfg.Redis.Enabled():
		d := queue.NewDispatcher(cfg.Redis)
		log.Info().Str("redis", cfg.Redis.Addr).Msg("notificaciones por cola")
		return d, func() {
			if err := d.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar cliente asynq")
			}
		}
	case cfg.SMTP.Enabled():
		var attach voucher.ReceiptRenderer
		if cfg.Voucher.AttachPDF {
			attach = receipts
		}
		log.Info().Str("smtp", cfg.SMTP.Host).Msg("notificaciones en línea")
		return mail.NewInlineNotifier(mail.NewVoucherMailer(mail.NewSender(cfg.SMTP), attach)), func() {}
	default:
		log.Warn().Msg("sin SMTP ni Redis: los vouchers se asignan sin correo")
		return mail.Disabled{}, func() {}
	}
}

// Command worker consume la cola de correos de vouchers (asynq).
package main

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/jhoicas/vouchers-api/internal/application/voucher"
	"github.com/jhoicas/vouchers-api/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/vouchers-api/internal/infrastructure/pdf"
	"github.com/jhoicas/vouchers-api/internal/infrastructure/queue"
	"github.com/jhoicas/vouchers-api/pkg/config"
	"github.com/jhoicas/vouchers-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info", Service: "worker"})

	if !cfg.Redis.Enabled() {
		log.Fatal().Msg("REDIS_ADDR es requerido para el worker")
	}
	if !cfg.SMTP.Enabled() {
		log.Fatal().Msg("SMTP_HOST es requerido para el worker")
	}
	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.App.Env}); err != nil {
			log.Error().Err(err).Msg("inicializar sentry")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	var attach voucher.ReceiptRenderer
	if cfg.Voucher.AttachPDF {
		attach = infrapdf.NewReceiptGenerator(cfg.App.Name)
	}
	mailer := mail.NewVoucherMailer(mail.NewSender(cfg.SMTP), attach)

	srv := queue.NewServer(cfg.Redis, log)
	log.Info().
		Str("redis", cfg.Redis.Addr).
		Int("concurrency", cfg.Redis.WorkerConcurrency).
		Msg("worker de correos iniciado")
	// Run bloquea hasta SIGTERM/SIGINT y drena las tareas en curso.
	if err := srv.Run(queue.NewMux(mailer, log)); err != nil {
		log.Fatal().Err(err).Msg("worker finalizado")
	}
}

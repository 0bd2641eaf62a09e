package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/vouchers-api/internal/application/voucher"
	"github.com/jhoicas/vouchers-api/internal/infrastructure/metrics"
	"github.com/jhoicas/vouchers-api/pkg/config"
	"github.com/jhoicas/vouchers-api/pkg/logger"
)

// HandleVoucherEmail entrega el correo de una tarea. Un payload ilegible no se reintenta.
func HandleVoucherEmail(d voucher.Deliverer, log *logger.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var n voucher.VoucherNotice
		if err := json.Unmarshal(t.Payload(), &n); err != nil {
			return fmt.Errorf("payload inválido: %v: %w", err, asynq.SkipRetry)
		}
		if err := d.Deliver(ctx, n); err != nil {
			log.Warn().Err(err).Int64("voucher_id", n.Voucher.ID).Msg("entrega de correo fallida, se reintentará")
			return err
		}
		metrics.Notifications.WithLabelValues(voucher.NotificationSent).Inc()
		log.Info().Int64("voucher_id", n.Voucher.ID).Str("email", n.Recipient).Msg("correo de voucher enviado")
		return nil
	}
}

// NewMux registra los handlers de tareas.
func NewMux(d voucher.Deliverer, log *logger.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeVoucherEmail, HandleVoucherEmail(d, log))
	return mux
}

// NewServer servidor asynq que consume la cola de correo.
func NewServer(cfg config.RedisConfig, log *logger.Logger) *asynq.Server {
	concurrency := cfg.WorkerConcurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	return asynq.NewServer(RedisOpt(cfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueMail: 1},
		Logger:      asynqLogger{log: log},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, t *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			log.Error().Err(err).Str("task", t.Type()).Int("retried", retried).Msg("tarea fallida")
		}),
	})
}

// asynqLogger adapta zerolog a la interfaz de logging de asynq.
type asynqLogger struct {
	log *logger.Logger
}

func (l asynqLogger) Debug(args ...interface{}) { l.log.Debug().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...interface{})  { l.log.Info().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.log.Warn().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...interface{}) { l.log.Error().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...interface{}) { l.log.Fatal().Msg(fmt.Sprint(args...)) }

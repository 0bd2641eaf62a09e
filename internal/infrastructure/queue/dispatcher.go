package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/vouchers-api/internal/application/voucher"
	"github.com/jhoicas/vouchers-api/pkg/config"
)

var _ voucher.Notifier = (*Dispatcher)(nil)

// Enqueuer lo que Dispatcher necesita de *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher notificador que encola el correo en lugar de enviarlo.
type Dispatcher struct {
	client Enqueuer
	closer func() error
}

// NewDispatcher conecta con Redis.
func NewDispatcher(cfg config.RedisConfig) *Dispatcher {
	c := asynq.NewClient(RedisOpt(cfg))
	return &Dispatcher{client: c, closer: c.Close}
}

// NewDispatcherWithClient permite inyectar el cliente (tests).
func NewDispatcherWithClient(c Enqueuer) *Dispatcher {
	return &Dispatcher{client: c, closer: func() error { return nil }}
}

// Notify implementa voucher.Notifier: queued si la tarea entró en la cola.
func (d *Dispatcher) Notify(ctx context.Context, n voucher.VoucherNotice) (string, error) {
	task, err := NewVoucherEmailTask(n)
	if err != nil {
		return voucher.NotificationFailed, err
	}
	if _, err := d.client.EnqueueContext(ctx, task); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return voucher.NotificationQueued, nil
		}
		return voucher.NotificationFailed, fmt.Errorf("queue: encolar %s: %w", TypeVoucherEmail, err)
	}
	return voucher.NotificationQueued, nil
}

// Close libera la conexión a Redis.
func (d *Dispatcher) Close() error {
	return d.closer()
}

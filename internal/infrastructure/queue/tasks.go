// Package queue despacha las notificaciones de vouchers por Redis (asynq) para
// reintentarlas fuera de la petición HTTP.
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/vouchers-api/internal/application/voucher"
	"github.com/jhoicas/vouchers-api/pkg/config"
)

const (
	// TypeVoucherEmail tarea de correo de un voucher vendido.
	TypeVoucherEmail = "voucher:email"
	// QueueMail cola donde viajan los correos.
	QueueMail = "mail"

	maxRetry    = 8
	taskTimeout = 30 * time.Second
)

// NewVoucherEmailTask serializa el aviso. El TaskID por voucher evita encolar dos
// correos para la misma venta.
func NewVoucherEmailTask(n voucher.VoucherNotice) (*asynq.Task, error) {
	payload, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("queue: serializar aviso: %w", err)
	}
	return asynq.NewTask(TypeVoucherEmail, payload,
		asynq.Queue(QueueMail),
		asynq.MaxRetry(maxRetry),
		asynq.Timeout(taskTimeout),
		asynq.TaskID(fmt.Sprintf("voucher-email-%d", n.Voucher.ID)),
	), nil
}

// RedisOpt opciones de conexión compartidas por cliente y servidor.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
}

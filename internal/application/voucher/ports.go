package voucher

import (
	"context"

	"github.com/jhoicas/vouchers-api/internal/domain/entity"
	"github.com/jhoicas/vouchers-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción de BD con el repositorio de vouchers atado a ella.
// Si fn devuelve error la transacción se revierte completa.
type TxRunner interface {
	RunVouchers(ctx context.Context, fn func(vouchers repository.VoucherRepository) error) error
}

// Resultado de la notificación de un voucher.
const (
	NotificationSent   = "sent"
	NotificationQueued = "queued"
	NotificationFailed = "failed"
)

// VoucherNotice datos necesarios para avisar al comprador de un voucher reclamado.
// Viaja serializado en la cola de correo.
type VoucherNotice struct {
	Recipient string         `json:"recipient"`
	OwnerID   int64          `json:"owner_id"`
	OwnerName string         `json:"owner_name"`
	Voucher   entity.Voucher `json:"voucher"`
}

// Notifier avisa al comprador. Devuelve el resultado (sent, queued, failed); un error
// siempre viene con NotificationFailed.
type Notifier interface {
	Notify(ctx context.Context, n VoucherNotice) (string, error)
}

// Deliverer entrega efectivamente una notificación (correo). Lo usan el notificador en
// línea y el worker de la cola.
type Deliverer interface {
	Deliver(ctx context.Context, n VoucherNotice) error
}

// ReceiptRenderer genera el comprobante PDF de un voucher asignado.
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, v *entity.Voucher, owner *entity.User) ([]byte, error)
}

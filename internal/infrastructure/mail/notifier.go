package mail

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/jhoicas/vouchers-api/internal/application/voucher"
)

// ErrDisabled SMTP no configurado.
var ErrDisabled = errors.New("mail: SMTP no configurado")

var (
	_ voucher.Notifier = (*InlineNotifier)(nil)
	_ voucher.Notifier = Disabled{}
)

// InlineNotifier entrega el correo durante la petición, con hasta 3 intentos y
// espera exponencial.
type InlineNotifier struct {
	deliverer voucher.Deliverer
	base      time.Duration
	attempts  uint64
}

// NewInlineNotifier construye el notificador en línea.
func NewInlineNotifier(d voucher.Deliverer) *InlineNotifier {
	return &InlineNotifier{deliverer: d, base: 200 * time.Millisecond, attempts: 3}
}

// WithBackoff cambia la espera base (tests).
func (n *InlineNotifier) WithBackoff(base time.Duration) *InlineNotifier {
	n.base = base
	return n
}

// Notify implementa voucher.Notifier.
func (n *InlineNotifier) Notify(ctx context.Context, notice voucher.VoucherNotice) (string, error) {
	b := retry.WithMaxRetries(n.attempts-1, retry.NewExponential(n.base))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		if err := n.deliverer.Deliver(ctx, notice); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return voucher.NotificationFailed, err
	}
	return voucher.NotificationSent, nil
}

// Disabled notificador usado sin SMTP: toda notificación queda como fallida.
type Disabled struct{}

// Notify implementa voucher.Notifier.
func (Disabled) Notify(context.Context, voucher.VoucherNotice) (string, error) {
	return voucher.NotificationFailed, ErrDisabled
}

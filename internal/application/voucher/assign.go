// Package voucher contiene los casos de uso de venta (asignación) y consulta de vouchers.
package voucher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/vouchers-api/internal/domain"
	"github.com/jhoicas/vouchers-api/internal/domain/entity"
	"github.com/jhoicas/vouchers-api/internal/domain/repository"
	"github.com/jhoicas/vouchers-api/internal/infrastructure/metrics"
	"github.com/jhoicas/vouchers-api/pkg/logger"
)

// AssignInput datos de una compra de vouchers.
type AssignInput struct {
	UserID      int64
	VoucherType string // vacío = gsat
	ProductCode string
	Email       string
	Quantity    int
}

// AssignedVoucher voucher reclamado y el resultado de su notificación.
type AssignedVoucher struct {
	Voucher      *entity.Voucher
	Notification string
	NotifyError  error
}

// AssignResult resultado de la compra: todos los vouchers quedaron asignados; el correo
// de cada uno se informa por separado.
type AssignResult struct {
	UserID      int64
	VoucherType string
	ProductCode string
	Vouchers    []AssignedVoucher
}

// Notified cuenta los vouchers cuya notificación no falló.
func (r *AssignResult) Notified() int {
	n := 0
	for _, v := range r.Vouchers {
		if v.Notification != NotificationFailed {
			n++
		}
	}
	return n
}

// AssignUseCase vende vouchers: reclama atómicamente Quantity vouchers sin dueño y
// luego notifica cada uno por correo.
type AssignUseCase struct {
	users       repository.UserRepository
	tx          TxRunner
	notifier    Notifier
	validate    *validator.Validate
	maxQuantity int
	log         *logger.Logger
	now         func() time.Time
}

// NewAssignUseCase construye el caso de uso.
func NewAssignUseCase(
	users repository.UserRepository,
	tx TxRunner,
	notifier Notifier,
	maxQuantity int,
	log *logger.Logger,
) *AssignUseCase {
	return &AssignUseCase{
		users:       users,
		tx:          tx,
		notifier:    notifier,
		validate:    validator.New(),
		maxQuantity: maxQuantity,
		log:         log.Component("vouchers"),
		now:         time.Now,
	}
}

// Assign reclama y notifica. Con stock insuficiente no se asigna nada y devuelve
// domain.ErrInsufficientStock. Un fallo de correo no revierte la asignación.
func (uc *AssignUseCase) Assign(ctx context.Context, in AssignInput) (*AssignResult, error) {
	if err := uc.check(&in); err != nil {
		metrics.ClaimsRejected.WithLabelValues("invalid_input").Inc()
		return nil, err
	}

	owner, err := uc.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		metrics.ClaimsRejected.WithLabelValues("user_not_found").Inc()
		return nil, domain.ErrUserNotFound
	}

	var claimed []*entity.Voucher
	err = uc.tx.RunVouchers(ctx, func(vouchers repository.VoucherRepository) error {
		got, err := vouchers.ClaimAvailable(ctx, repository.ClaimRequest{
			Type:        in.VoucherType,
			ProductCode: in.ProductCode,
			OwnerID:     owner.ID,
			Quantity:    in.Quantity,
			At:          uc.now(),
		})
		if err != nil {
			return err
		}
		if len(got) < in.Quantity {
			return fmt.Errorf("%w: solicitados %d, disponibles %d", domain.ErrInsufficientStock, in.Quantity, len(got))
		}
		claimed = got
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			metrics.ClaimsRejected.WithLabelValues("insufficient_stock").Inc()
			uc.log.Warn().
				Int64("user_id", owner.ID).
				Str("product_code", in.ProductCode).
				Int("quantity", in.Quantity).
				Msg("compra rechazada por stock insuficiente")
		}
		return nil, err
	}
	metrics.VouchersClaimed.WithLabelValues(in.VoucherType).Add(float64(len(claimed)))

	res := &AssignResult{
		UserID:      owner.ID,
		VoucherType: in.VoucherType,
		ProductCode: in.ProductCode,
		Vouchers:    make([]AssignedVoucher, 0, len(claimed)),
	}
	for _, v := range claimed {
		outcome, nerr := uc.notifier.Notify(ctx, VoucherNotice{
			Recipient: in.Email,
			OwnerID:   owner.ID,
			OwnerName: owner.DisplayName,
			Voucher:   *v,
		})
		if nerr != nil {
			outcome = NotificationFailed
			uc.log.Error().Err(nerr).
				Int64("voucher_id", v.ID).
				Str("email", in.Email).
				Msg("no se pudo notificar el voucher")
		}
		metrics.Notifications.WithLabelValues(outcome).Inc()
		res.Vouchers = append(res.Vouchers, AssignedVoucher{Voucher: v, Notification: outcome, NotifyError: nerr})
	}

	uc.log.Info().
		Int64("user_id", owner.ID).
		Str("type", in.VoucherType).
		Str("product_code", in.ProductCode).
		Int("claimed", len(claimed)).
		Int("notified", res.Notified()).
		Msg("vouchers asignados")
	return res, nil
}

func (uc *AssignUseCase) check(in *AssignInput) error {
	in.ProductCode = strings.TrimSpace(in.ProductCode)
	in.Email = strings.TrimSpace(in.Email)
	if in.VoucherType == "" {
		in.VoucherType = entity.VoucherTypeGSAT
	}
	switch {
	case !entity.ValidVoucherType(in.VoucherType):
		return domain.ErrUnknownVoucherType
	case in.UserID <= 0:
		return fmt.Errorf("%w: user_id requerido", domain.ErrInvalidInput)
	case in.ProductCode == "":
		return fmt.Errorf("%w: product_code requerido", domain.ErrInvalidInput)
	case in.Quantity < 1 || in.Quantity > uc.maxQuantity:
		return fmt.Errorf("%w: la cantidad debe estar entre 1 y %d", domain.ErrInvalidInput, uc.maxQuantity)
	}
	if err := uc.validate.Var(in.Email, "required,email"); err != nil {
		return fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	return nil
}

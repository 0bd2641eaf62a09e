package mail

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/jhoicas/vouchers-api/internal/application/voucher"
	"github.com/jhoicas/vouchers-api/internal/domain/entity"
)

var _ voucher.Deliverer = (*VoucherMailer)(nil)

var voucherBody = template.Must(template.New("voucher").Parse(`Hola {{if .OwnerName}}{{.OwnerName}}{{else}}cliente{{end}},

Tu compra fue registrada. Datos del voucher:

  Producto:    {{.Voucher.ProductCode}}
  Serial:      {{.Voucher.Serial}}
{{- if .Voucher.Reference}}
  Referencia:  {{.Voucher.Reference}}{{end}}
{{- if .Voucher.PIN}}
  PIN:         {{.Voucher.PIN}}{{end}}
  Valor:       {{.Voucher.Amount.StringFixed 2}}
  Descuento:   {{.Voucher.Discount.String}}
{{- if .Voucher.ExpiryDate}}
  Vence:       {{.Voucher.ExpiryDate.Format "2006-01-02"}}{{end}}

No compartas el PIN con terceros.
`))

// VoucherMailer redacta y envía el correo de un voucher vendido, con el comprobante
// PDF adjunto cuando hay generador.
type VoucherMailer struct {
	sender   *Sender
	receipts voucher.ReceiptRenderer // nil = sin adjunto
}

// NewVoucherMailer construye el mailer.
func NewVoucherMailer(sender *Sender, receipts voucher.ReceiptRenderer) *VoucherMailer {
	return &VoucherMailer{sender: sender, receipts: receipts}
}

// Deliver implementa voucher.Deliverer.
func (m *VoucherMailer) Deliver(ctx context.Context, n voucher.VoucherNotice) error {
	msg, err := m.compose(ctx, n)
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, msg)
}

func (m *VoucherMailer) compose(ctx context.Context, n voucher.VoucherNotice) (Message, error) {
	var body strings.Builder
	if err := voucherBody.Execute(&body, n); err != nil {
		return Message{}, fmt.Errorf("mail: plantilla: %w", err)
	}
	msg := Message{
		To:      n.Recipient,
		Subject: fmt.Sprintf("Tu voucher %s %s", strings.ToUpper(n.Voucher.Type), n.Voucher.ProductCode),
		Body:    body.String(),
	}
	if m.receipts != nil {
		v := n.Voucher
		pdf, err := m.receipts.RenderReceipt(ctx, &v, &entity.User{ID: n.OwnerID, DisplayName: n.OwnerName})
		if err != nil {
			return Message{}, err
		}
		msg.Attachments = append(msg.Attachments, Attachment{Name: voucher.ReceiptFilename(&v), Data: pdf})
	}
	return msg, nil
}

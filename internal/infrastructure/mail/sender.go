// Package mail envía las notificaciones de vouchers por SMTP (gomail).
package mail

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/vouchers-api/pkg/config"
)

// Attachment archivo adjunto en memoria.
type Attachment struct {
	Name string
	Data []byte
}

// Message correo de texto plano con adjuntos opcionales.
type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Transport lo que Sender necesita de *gomail.Dialer.
type Transport interface {
	DialAndSend(m ...*gomail.Message) error
}

// Sender envía mensajes con el remitente configurado.
type Sender struct {
	transport Transport
	from      string
}

// NewSender construye el emisor SMTP desde la configuración.
func NewSender(cfg config.SMTPConfig) *Sender {
	return NewSenderWithTransport(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From)
}

// NewSenderWithTransport permite inyectar el transporte (tests).
func NewSenderWithTransport(t Transport, from string) *Sender {
	return &Sender{transport: t, from: from}
}

// Send arma el mensaje y lo entrega en una conexión SMTP nueva.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	for _, a := range msg.Attachments {
		data := a.Data
		m.Attach(a.Name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}
	if err := s.transport.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp: enviar a %s: %w", msg.To, err)
	}
	return nil
}

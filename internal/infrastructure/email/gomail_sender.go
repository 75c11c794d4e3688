// Package email implementa el puerto EmailSender sobre SMTP con gomail.
package email

import (
	"context"
	"fmt"
	"io"

	gomail "gopkg.in/gomail.v2"

	"github.com/jhoicas/ServiCampo-api/internal/application/ports"
)

var _ ports.EmailSender = (*GomailSender)(nil)

// Config conexión SMTP.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // remitente, ej. "ServiCampo <no-reply@servicampo.co>"
}

// GomailSender adaptador SMTP. gomail abre una conexión por envío, suficiente
// para volumen transaccional (cotizaciones, facturas, recordatorios).
type GomailSender struct {
	cfg    Config
	dialer *gomail.Dialer
}

// NewGomailSender construye el adaptador.
func NewGomailSender(cfg Config) *GomailSender {
	return &GomailSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Send envía un correo HTML con adjuntos opcionales. gomail no acepta
// context, así que la cancelación solo se chequea antes del dial.
func (s *GomailSender) Send(ctx context.Context, to, subject, htmlBody string, attachments ...ports.EmailAttachment) error {
	if s.cfg.Host == "" {
		return fmt.Errorf("email: SMTP no configurado")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	for _, att := range attachments {
		att := att
		m.Attach(att.FileName,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(att.Data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {att.ContentType}}),
		)
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("email: enviar a %s: %w", to, err)
	}
	return nil
}

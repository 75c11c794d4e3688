package ports

import "context"

// EmailAttachment adjunto de un correo saliente.
type EmailAttachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

// EmailSender puerto de salida para correo transaccional (cotizaciones,
// facturas, recordatorios). El adaptador SMTP lo implementa con gomail.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string, attachments ...EmailAttachment) error
}

// SMSSender puerto de salida para mensajes de texto. to en E.164.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

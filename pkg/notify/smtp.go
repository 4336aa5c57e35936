package notify

import (
	"bytes"
	"context"

	"github.com/wneessen/go-mail"
)

// SMTPConfig configures an SMTPTransport.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// SSL dials with implicit TLS (port 465) instead of STARTTLS.
	SSL bool
}

// SMTPTransport sends messages through an SMTP server.
type SMTPTransport struct {
	cfg SMTPConfig
}

// Default ports for implicit TLS and for STARTTLS submission.
const (
	PortSSL      = 465
	PortStartTLS = 587
)

// NewSMTPTransport returns a transport for cfg. A zero Port becomes 465
// with SSL and 587 without. Nothing is dialed until the first Send.
func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	if cfg.Port == 0 {
		cfg.Port = PortStartTLS
		if cfg.SSL {
			cfg.Port = PortSSL
		}
	}
	return &SMTPTransport{cfg: cfg}
}

// Port returns the port Send dials.
func (t *SMTPTransport) Port() int { return t.cfg.Port }

// Name returns "smtp".
func (t *SMTPTransport) Name() string { return "smtp" }

// Send builds a MIME message and delivers it over a fresh connection.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	m, err := buildMsg(msg)
	if err != nil {
		return err
	}

	opts := []mail.Option{mail.WithPort(t.cfg.Port)}
	if t.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(t.cfg.Username),
			mail.WithPassword(t.cfg.Password))
	}
	if t.cfg.SSL {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(t.cfg.Host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, m)
}

func buildMsg(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, err
	}
	if err := m.To(msg.To...); err != nil {
		return nil, err
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}
	for _, a := range msg.Attachments {
		m.AttachReadSeeker(a.Name, bytes.NewReader(a.Data))
	}
	return m, nil
}

var _ Transport = (*SMTPTransport)(nil)

// Package notify tells the print shop that an order is ready to print.
//
// A [Notifier] turns an [order.Payload] into a [Message] from templates and
// hands it to a [Transport]: SMTP, the SendGrid HTTP API, or the logger
// during development. The notification carries either download links for
// the stored sheet files or the files themselves as attachments.
package notify

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/magnetsheet/pkg/errors"
	"github.com/matzehuels/magnetsheet/pkg/order"
)

// Attachment is a file sent with the message.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message is a composed notification.
type Message struct {
	From        string
	To          []string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Transport delivers messages.
type Transport interface {
	// Name identifies the transport in logs.
	Name() string

	// Send delivers msg or returns why it could not.
	Send(ctx context.Context, msg Message) error
}

// Notifier composes and sends order notifications.
type Notifier struct {
	Transport Transport
	From      string
	To        []string
	Logger    *log.Logger
}

// New returns a Notifier sending from one address to the given recipients.
func New(t Transport, from string, to []string, logger *log.Logger) *Notifier {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Notifier{Transport: t, From: from, To: to, Logger: logger}
}

// Notify sends the notification for p. A payload must either link every
// file or come with attachments; one with neither is rejected before
// anything is sent.
func (n *Notifier) Notify(ctx context.Context, p order.Payload, attachments ...Attachment) error {
	if n.Transport == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "no mail transport configured")
	}
	if len(n.To) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no notification recipients configured")
	}
	if !p.HasLinks() && len(attachments) == 0 {
		return errors.New(errors.ErrCodePayloadIncomplete, "no file URL provided")
	}

	msg, err := Compose(n.From, n.To, p, attachments)
	if err != nil {
		return err
	}

	n.Logger.Debug("sending notification",
		"transport", n.Transport.Name(),
		"order", p.OrderNumber,
		"to", strings.Join(n.To, ","),
		"files", p.FileCount,
		"attachments", len(attachments))
	if err := n.Transport.Send(ctx, msg); err != nil {
		return errors.Wrap(errors.ErrCodeNotifyFailed, err, "send via %s", n.Transport.Name())
	}
	n.Logger.Info("notification sent", "order", p.OrderNumber, "transport", n.Transport.Name())
	return nil
}

// Compose renders the message for p.
func Compose(from string, to []string, p order.Payload, attachments []Attachment) (Message, error) {
	view := newView(p, attachments)

	var text, html strings.Builder
	if err := textTemplate.Execute(&text, view); err != nil {
		return Message{}, fmt.Errorf("render text body: %w", err)
	}
	if err := htmlTemplate.Execute(&html, view); err != nil {
		return Message{}, fmt.Errorf("render html body: %w", err)
	}

	return Message{
		From:        from,
		To:          to,
		Subject:     Subject(p),
		Text:        text.String(),
		HTML:        html.String(),
		Attachments: attachments,
	}, nil
}

// Subject returns the subject line for p.
func Subject(p order.Payload) string {
	return "New magnet order #" + p.OrderNumber
}

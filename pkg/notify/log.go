package notify

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
)

// LogTransport writes messages to a logger instead of sending them.
type LogTransport struct {
	Logger *log.Logger
}

// Name returns "log".
func (t *LogTransport) Name() string { return "log" }

// Send logs the envelope at info level and the text body at debug level.
func (t *LogTransport) Send(_ context.Context, msg Message) error {
	names := make([]string, len(msg.Attachments))
	for i, a := range msg.Attachments {
		names[i] = a.Name
	}
	t.Logger.Info("mail",
		"from", msg.From,
		"to", strings.Join(msg.To, ","),
		"subject", msg.Subject,
		"attachments", strings.Join(names, ","))
	t.Logger.Debug(msg.Text)
	return nil
}

var _ Transport = (*LogTransport)(nil)

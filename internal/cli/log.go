package cli

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/magnetsheet/pkg/order"
)

// newLogger creates the CLI logger. Timestamps read "HH:MM:SS.ms"
// (e.g. "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// orderLogger prefixes every line with the order number, so interleaved
// output from the engine, cache and mail transport reads per order.
func orderLogger(l *log.Logger, info order.Info) *log.Logger {
	num := info.Normalize().OrderNumber
	if num == "" {
		return l
	}
	return l.WithPrefix("#" + num)
}

package middleware

import (
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/AzamovUSA/debt-control/internal/bot/handlers"
	"github.com/AzamovUSA/debt-control/pkg/metrics"
)

// Metrics measures execution time and status for bot handlers, reporting them to Prometheus.
func Metrics(next handlers.Handler) handlers.Handler {
	if next == nil {
		return nil
	}

	return func(c telebot.Context) error {
		start := time.Now()
		err := next(c)

		command := extractCommandName(c)
		status := "ok"
		if err != nil {
			status = "error"
		}

		metrics.RecordCommand(command, status, time.Since(start))

		return err
	}
}

func extractCommandName(c telebot.Context) string {
	if c == nil {
		return "unknown"
	}

	if cb := c.Callback(); cb != nil && cb.Data != "" {
		// Label by the action prefix only to keep metric cardinality bounded.
		if idx := strings.IndexByte(cb.Data, ':'); idx > 0 {
			return cb.Data[:idx]
		}
		return cb.Data
	}

	if text := c.Text(); text != "" {
		if fields := strings.Fields(text); len(fields) > 0 && strings.HasPrefix(fields[0], "/") {
			return fields[0]
		}
		return "text"
	}

	return "unknown"
}

package notify

import (
	"context"
	"log/slog"
	"unicode/utf8"
)

// NoOpNotifier implements Notifier by logging discarded messages. It is used
// when Telegram is not configured, and for dry runs.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards messages with a log entry.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// Send logs and discards a message.
func (n *NoOpNotifier) Send(_ context.Context, text string) error {
	n.log.Debug("notification discarded (no backend configured)",
		"chars", utf8.RuneCountInString(text),
	)
	return nil
}

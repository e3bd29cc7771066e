// Package notify defines the notification interface and implementations
// for new-notice delivery.
package notify

import (
	"context"
)

// Notifier delivers one rendered message to the configured chat.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

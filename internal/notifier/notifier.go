// Package notifier
package notifier

import "context"

// Notifier sends human-readable messages to an external channel.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// Package notify pushes sourcing run summaries to the configured channels.
package notify

import (
	"context"
	"fmt"
)

// Notifier delivers a run summary message.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, message string) error
}

// Summary renders the standard run summary message.
func Summary(added int) string {
	if added > 0 {
		return fmt.Sprintf("VC sourcing run added %d new leads", added)
	}
	return "No new leads added"
}

package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/scoutvc/leadctl/pkg/net"
)

const slackName = "slack"

// Slack posts run summaries to an incoming webhook.
type Slack struct {
	WebhookURL string
}

func (s *Slack) Name() string {
	return slackName
}

// Notify posts the message as a simple text payload.
func (s *Slack) Notify(ctx context.Context, message string) error {
	if s.WebhookURL == "" {
		return errors.New("slack webhook URL required")
	}

	status, err := net.PostJSON(ctx, s.WebhookURL, map[string]string{"text": message})
	if err != nil {
		return fmt.Errorf("failed to post slack message: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected slack webhook status: %d", status)
	}
	return nil
}

package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// WebhookSender posts rendered messages as JSON to an HTTP endpoint, e.g. a
// mail relay owned by another team.
type WebhookSender struct {
	client *resty.Client
	url    string
}

var _ Sender = (*WebhookSender)(nil)

type webhookPayload struct {
	ID       string            `json:"id"`
	Template string            `json:"template"`
	To       Recipient         `json:"to"`
	Subject  string            `json:"subject"`
	HTML     string            `json:"html"`
	Text     string            `json:"text"`
	Vars     map[string]string `json:"vars"`
}

func NewWebhookSender(url string, timeout time.Duration) *WebhookSender {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &WebhookSender{client: client, url: url}
}

func (w *WebhookSender) Send(ctx context.Context, msg Message) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", msg.NotificationID).
		SetBody(webhookPayload{
			ID:       msg.NotificationID,
			Template: msg.Template,
			To:       msg.To,
			Subject:  msg.Subject,
			HTML:     msg.HTML,
			Text:     msg.Text,
			Vars:     msg.Vars,
		}).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook post: status %d", resp.StatusCode())
	}
	return nil
}

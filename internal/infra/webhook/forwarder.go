// Package webhook forwards moderation reports to a configured endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"stock_go/internal/domain"
)

// Forwarder delivers report messages to a single webhook URL.
type Forwarder struct {
	url     string
	mention string
	client  *http.Client
}

// New creates a forwarder. An empty URL makes Forward fail with
// ErrWebhookNotConfigured.
func New(url, mention string) *Forwarder {
	return &Forwarder{
		url:     url,
		mention: mention,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Forward validates the report, builds the fixed-shape message and POSTs
// it. A non-2xx upstream response comes back as a WebhookError carrying
// the upstream status.
func (f *Forwarder) Forward(ctx context.Context, report domain.Report) error {
	if err := report.Validate(); err != nil {
		return err
	}
	if f.url == "" {
		return domain.ErrWebhookNotConfigured
	}

	msg := domain.BuildWebhookMessage(report, f.mention)
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.WebhookError{Status: resp.StatusCode}
	}
	return nil
}

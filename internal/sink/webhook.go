package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/clash-creation/qualify-cli/internal/model"
)

// WebhookSink posts the full lead record as JSON to a configured URL,
// typically an automation platform that fans it out to the mailing
// list provider.
type WebhookSink struct {
	url        string
	httpClient *http.Client
}

// NewWebhookSink creates a sink posting to the given URL.
func NewWebhookSink(url string, timeout time.Duration) *WebhookSink {
	return &WebhookSink{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *WebhookSink) Name() string { return "webhook" }

func (s *WebhookSink) Deliver(ctx context.Context, lead *model.LeadRecord) error {
	body, err := json.Marshal(lead)
	if err != nil {
		return eris.Wrap(err, "sink: marshal lead")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "sink: build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return eris.Wrap(err, "sink: post webhook")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return eris.New(fmt.Sprintf("sink: webhook returned %d: %s", resp.StatusCode, snippet))
	}
	return nil
}

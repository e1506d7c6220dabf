// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package detection

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// WebhookNotifier posts notifications to an HTTP endpoint.
type WebhookNotifier struct {
	webhookURL string
	headers    map[string]string
	client     *http.Client

	mu        sync.Mutex
	lastSent  time.Time
	rateLimit time.Duration
}

// WebhookConfig configures the webhook notifier.
type WebhookConfig struct {
	WebhookURL string
	Headers    map[string]string
	RateLimit  time.Duration
	Timeout    time.Duration
}

// WebhookPayload is the JSON body sent to the endpoint.
type WebhookPayload struct {
	Notification *Notification `json:"notification"`
	EventType    string        `json:"event_type"`
	Timestamp    time.Time     `json:"timestamp"`
	Source       string        `json:"source"`
}

// NewWebhookNotifier creates a webhook notifier. An empty URL yields a
// disabled notifier.
func NewWebhookNotifier(cfg WebhookConfig) *WebhookNotifier {
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 500 * time.Millisecond
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	return &WebhookNotifier{
		webhookURL: cfg.WebhookURL,
		headers:    headers,
		rateLimit:  cfg.RateLimit,
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

// Name returns the notifier name.
func (n *WebhookNotifier) Name() string { return "webhook" }

// Enabled reports whether a URL is configured.
func (n *WebhookNotifier) Enabled() bool { return n.webhookURL != "" }

// Send posts the notification, waiting out the rate limit first.
func (n *WebhookNotifier) Send(ctx context.Context, note *Notification) error {
	if !n.Enabled() {
		return nil
	}

	n.mu.Lock()
	wait := n.rateLimit - time.Since(n.lastSent)
	n.mu.Unlock()
	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	body, err := json.Marshal(WebhookPayload{
		Notification: note,
		EventType:    "enforcement_notification",
		Timestamp:    time.Now(),
		Source:       "promoscore",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range n.headers {
		req.Header.Set(k, v)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	n.mu.Lock()
	n.lastSent = time.Now()
	n.mu.Unlock()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// Package notify dispatches transactional emails and builds dashboard
// notifications for new orders.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/srana86/frameX-sub004/internal/config"

	"github.com/rs/zerolog"
)

// EmailEvent names a transactional email template on the provider side.
type EmailEvent string

const (
	EmailEventOrderConfirmation EmailEvent = "order_confirmation"
	EmailEventAdminNewOrder     EmailEvent = "admin_new_order"
)

// EmailDispatcher sends a named email event with template variables.
type EmailDispatcher interface {
	Send(ctx context.Context, event EmailEvent, to string, vars map[string]string) error
}

// httpDispatcher implements EmailDispatcher over the provider's HTTP API.
type httpDispatcher struct {
	client   *http.Client
	endpoint string
	apiKey   string
	from     string
	logger   zerolog.Logger
}

// NewEmailDispatcher creates a new email dispatcher.
func NewEmailDispatcher(cfg config.EmailConfig, logger zerolog.Logger) EmailDispatcher {
	return &httpDispatcher{
		client:   &http.Client{Timeout: 10 * time.Second},
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		from:     cfg.From,
		logger:   logger.With().Str("component", "email").Logger(),
	}
}

type emailRequest struct {
	Event     EmailEvent        `json:"event"`
	From      string            `json:"from"`
	To        string            `json:"to"`
	Variables map[string]string `json:"variables"`
}

// Send posts the event to the provider.
func (d *httpDispatcher) Send(ctx context.Context, event EmailEvent, to string, vars map[string]string) error {
	if to == "" {
		return fmt.Errorf("no recipient for email event %s", event)
	}

	payload, err := json.Marshal(emailRequest{
		Event:     event,
		From:      d.from,
		To:        to,
		Variables: vars,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("email dispatch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("email provider returned status %d for event %s", resp.StatusCode, event)
	}

	d.logger.Debug().
		Str("event", string(event)).
		Str("to", to).
		Msg("email dispatched")

	return nil
}

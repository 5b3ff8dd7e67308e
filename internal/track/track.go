// Package track sends server-side purchase events to the ad platform.
// Cash-on-delivery orders are tracked at creation; online payments are
// tracked by the payment-success flow elsewhere on the platform.
package track

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/srana86/frameX-sub004/internal/config"
	"github.com/srana86/frameX-sub004/internal/model"

	"github.com/rs/zerolog"
)

// Tracker records server-side purchase events.
type Tracker interface {
	Purchase(ctx context.Context, order *model.Order) error
}

// httpTracker implements Tracker over the ad platform's conversion API.
type httpTracker struct {
	client   *http.Client
	endpoint string
	pixelID  string
	token    string
	logger   zerolog.Logger
}

// NewTracker creates a new purchase tracker.
func NewTracker(cfg config.TrackingConfig, logger zerolog.Logger) Tracker {
	return &httpTracker{
		client:   &http.Client{Timeout: 10 * time.Second},
		endpoint: cfg.Endpoint,
		pixelID:  cfg.PixelID,
		token:    cfg.Token,
		logger:   logger.With().Str("component", "tracker").Logger(),
	}
}

type purchaseEvent struct {
	PixelID   string  `json:"pixel_id"`
	Event     string  `json:"event"`
	OrderID   string  `json:"order_id"`
	Value     float64 `json:"value"`
	Currency  string  `json:"currency"`
	PhoneHash string  `json:"phone_hash"`
	Timestamp int64   `json:"timestamp"`
}

// Purchase posts a purchase event for the order. Customer identifiers leave
// the platform hashed only.
func (t *httpTracker) Purchase(ctx context.Context, order *model.Order) error {
	event := purchaseEvent{
		PixelID:   t.pixelID,
		Event:     "Purchase",
		OrderID:   order.CustomOrderID,
		Value:     order.Total,
		Currency:  "BDT",
		PhoneHash: hashIdentifier(order.Customer.Phone),
		Timestamp: time.Now().Unix(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal purchase event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build tracking request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.token)

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("purchase tracking failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("tracking endpoint returned status %d", resp.StatusCode)
	}

	t.logger.Debug().
		Str("order_id", order.CustomOrderID).
		Float64("value", order.Total).
		Msg("purchase event tracked")

	return nil
}

func hashIdentifier(s string) string {
	if s == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

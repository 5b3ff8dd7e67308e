package fraud

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/srana86/frameX-sub004/internal/config"
	"github.com/srana86/frameX-sub004/internal/model"

	"github.com/rs/zerolog"
)

// Scorer queries the external fraud-scoring API for a customer phone number.
type Scorer interface {
	// Score returns the normalized fraud annotation for a phone number.
	Score(ctx context.Context, phone string) (*model.FraudAnnotation, error)
}

// httpScorer implements Scorer over the provider's HTTP API.
type httpScorer struct {
	client   *http.Client
	endpoint string
	apiKey   string
	timeout  time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewScorer creates a new fraud-scoring client.
func NewScorer(cfg config.FraudConfig, logger zerolog.Logger) Scorer {
	return &httpScorer{
		client:   &http.Client{},
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		timeout:  cfg.Timeout,
		logger:   logger.With().Str("component", "fraud-scorer").Logger(),
		now:      time.Now,
	}
}

// scoreResponse covers the three response shapes the provider has shipped
// over the years. Exactly one of the nested forms is populated per response.
type scoreResponse struct {
	// flat shape
	RiskScore        *float64 `json:"risk_score"`
	TotalParcels     int      `json:"total_parcels"`
	DeliveredParcels int      `json:"delivered_parcels"`
	CancelledParcels int      `json:"cancelled_parcels"`

	// data-wrapped shape
	Data *struct {
		Score       float64 `json:"score"`
		TotalOrders int     `json:"total_orders"`
		Delivered   int     `json:"delivered"`
		Cancelled   int     `json:"cancelled"`
	} `json:"data"`

	// summary-wrapped shape
	Summary *struct {
		Score   float64 `json:"score"`
		Total   int     `json:"total"`
		Success int     `json:"success"`
		Cancel  int     `json:"cancel"`
	} `json:"summary"`
}

// Score calls the provider with the configured timeout and normalizes
// whichever response shape comes back.
func (s *httpScorer) Score(ctx context.Context, phone string) (*model.FraudAnnotation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reqURL := fmt.Sprintf("%s?phone=%s", s.endpoint, url.QueryEscape(phone))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build fraud-check request: %w", err)
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fraud-check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fraud-check returned status %d", resp.StatusCode)
	}

	var body scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode fraud-check response: %w", err)
	}

	annotation := normalize(body, s.now())
	if annotation == nil {
		return nil, fmt.Errorf("fraud-check response matched no known shape")
	}

	s.logger.Debug().
		Float64("score", annotation.Score).
		Int("total_orders", annotation.TotalOrders).
		Msg("fraud score resolved")

	return annotation, nil
}

// normalize maps any of the three historical response shapes onto the
// common annotation format.
func normalize(body scoreResponse, at time.Time) *model.FraudAnnotation {
	switch {
	case body.RiskScore != nil:
		return &model.FraudAnnotation{
			Provider:    "fraudshield",
			Score:       *body.RiskScore,
			TotalOrders: body.TotalParcels,
			Delivered:   body.DeliveredParcels,
			Cancelled:   body.CancelledParcels,
			CheckedAt:   at,
		}
	case body.Data != nil:
		return &model.FraudAnnotation{
			Provider:    "fraudshield",
			Score:       body.Data.Score,
			TotalOrders: body.Data.TotalOrders,
			Delivered:   body.Data.Delivered,
			Cancelled:   body.Data.Cancelled,
			CheckedAt:   at,
		}
	case body.Summary != nil:
		return &model.FraudAnnotation{
			Provider:    "fraudshield",
			Score:       body.Summary.Score,
			TotalOrders: body.Summary.Total,
			Delivered:   body.Summary.Success,
			Cancelled:   body.Summary.Cancel,
			CheckedAt:   at,
		}
	}
	return nil
}

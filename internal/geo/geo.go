// Package geo resolves client IPs to coarse locations for order enrichment.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/srana86/frameX-sub004/internal/model"

	"github.com/rs/zerolog"
)

// Resolver looks up the location of a client IP.
type Resolver interface {
	Resolve(ctx context.Context, ip string) (*model.GeoInfo, error)
}

// httpResolver implements Resolver over a geolocation HTTP API.
type httpResolver struct {
	client   *http.Client
	endpoint string
	logger   zerolog.Logger
}

// NewResolver creates a new geolocation resolver.
func NewResolver(endpoint string, logger zerolog.Logger) Resolver {
	return &httpResolver{
		client:   &http.Client{Timeout: 5 * time.Second},
		endpoint: endpoint,
		logger:   logger.With().Str("component", "geo-resolver").Logger(),
	}
}

type geoResponse struct {
	Status  string `json:"status"`
	Country string `json:"country"`
	Region  string `json:"regionName"`
	City    string `json:"city"`
}

// Resolve queries the geolocation API for an IP.
func (r *httpResolver) Resolve(ctx context.Context, ip string) (*model.GeoInfo, error) {
	if ip == "" {
		return nil, fmt.Errorf("no client IP to resolve")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"/"+url.PathEscape(ip), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geolocation request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation returned status %d", resp.StatusCode)
	}

	var body geoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	if body.Status != "" && body.Status != "success" {
		return nil, fmt.Errorf("geolocation lookup failed for %s", ip)
	}

	return &model.GeoInfo{
		IP:      ip,
		Country: body.Country,
		Region:  body.Region,
		City:    body.City,
	}, nil
}

// Package affiliate resolves referral attribution from the tracking cookie
// and computes tiered commissions.
package affiliate

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// CookieName is the attribution cookie set when a visitor lands through a
// referral link.
const CookieName = "fx_aff"

// CookiePayload is the JSON carried by the attribution cookie.
type CookiePayload struct {
	PromoCode   string `json:"promoCode"`
	AffiliateID string `json:"affiliateId"`
	// Expiry is unix milliseconds after which the attribution is dropped.
	Expiry int64 `json:"expiry"`
}

// EncodeCookie serialises a payload into the cookie value. The value is
// percent-encoded exactly once; DecodeCookie is the only reader and decodes
// exactly once, so there is a single source of truth for the wire form.
func EncodeCookie(payload CookiePayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal attribution payload: %w", err)
	}
	return url.QueryEscape(string(data)), nil
}

// DecodeCookie parses a raw cookie value back into a payload.
func DecodeCookie(raw string) (*CookiePayload, error) {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unescape attribution cookie: %w", err)
	}

	var payload CookiePayload
	if err := json.Unmarshal([]byte(decoded), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse attribution cookie: %w", err)
	}

	return &payload, nil
}

// WriteAttributionCookie sets the attribution cookie on a response.
func WriteAttributionCookie(w http.ResponseWriter, payload CookiePayload, ttl time.Duration) error {
	value, err := EncodeCookie(payload)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

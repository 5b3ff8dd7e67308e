package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/srana86/frameX-sub004/internal/affiliate"
	"github.com/srana86/frameX-sub004/internal/model"
	"github.com/srana86/frameX-sub004/internal/tenant"

	"github.com/rs/zerolog"
)

// AffiliateHandler handles affiliate referral-link landings.
type AffiliateHandler struct {
	attributor *affiliate.Attributor
	cookieTTL  time.Duration
	logger     zerolog.Logger
}

// NewAffiliateHandler creates a new affiliate handler.
func NewAffiliateHandler(attributor *affiliate.Attributor, cookieTTL time.Duration, logger zerolog.Logger) *AffiliateHandler {
	return &AffiliateHandler{
		attributor: attributor,
		cookieTTL:  cookieTTL,
		logger:     logger.With().Str("handler", "affiliate").Logger(),
	}
}

// Track handles GET /api/affiliate/track. A storefront landing through a
// referral link calls this to set the attribution cookie; orders placed
// within the cookie's lifetime are credited to the affiliate.
func (h *AffiliateHandler) Track(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "", h.logger)
		return
	}

	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		writeError(w, http.StatusBadRequest, "promo code is required", model.ErrCodeMissingField, h.logger)
		return
	}

	merchantID := tenant.FromContext(r.Context())
	aff, err := h.attributor.Track(r.Context(), merchantID, code)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error", model.ErrCodeInternalError, h.logger)
		return
	}
	if aff == nil {
		writeError(w, http.StatusNotFound, "unknown promo code", model.ErrCodeAffiliateNotFound, h.logger)
		return
	}

	payload := affiliate.CookiePayload{
		PromoCode:   aff.PromoCode,
		AffiliateID: aff.ID.String(),
		Expiry:      time.Now().Add(h.cookieTTL).UnixMilli(),
	}
	if err := affiliate.WriteAttributionCookie(w, payload, h.cookieTTL); err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error", model.ErrCodeInternalError, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"promoCode": aff.PromoCode})
}

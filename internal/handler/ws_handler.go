package handler

import (
	"net/http"

	"github.com/srana86/frameX-sub004/internal/realtime"
	"github.com/srana86/frameX-sub004/internal/tenant"

	"github.com/rs/zerolog"
)

// WSHandler upgrades dashboard connections onto the realtime hub.
type WSHandler struct {
	hub    *realtime.Hub
	logger zerolog.Logger
}

// NewWSHandler creates a new websocket handler.
func NewWSHandler(hub *realtime.Hub, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		logger: logger.With().Str("handler", "ws").Logger(),
	}
}

// Orders handles GET /ws/orders requests.
func (h *WSHandler) Orders(w http.ResponseWriter, r *http.Request) {
	merchantID := tenant.FromContext(r.Context())
	if merchantID == "" {
		http.Error(w, "merchant ID is required", http.StatusBadRequest)
		return
	}
	h.hub.Subscribe(w, r, merchantID)
}

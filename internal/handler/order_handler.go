package handler

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/srana86/frameX-sub004/internal/affiliate"
	"github.com/srana86/frameX-sub004/internal/cache"
	"github.com/srana86/frameX-sub004/internal/model"
	"github.com/srana86/frameX-sub004/internal/service"
	"github.com/srana86/frameX-sub004/internal/tenant"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "", h.logger)
		return
	}

	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", model.ErrCodeInvalidJSON, h.logger)
		return
	}

	meta := service.CreateMeta{
		AttributionCookie: attributionCookie(r),
		ClientIP:          clientIP(r),
	}

	order, err := h.service.Create(r.Context(), tenant.FromContext(r.Context()), &req, meta)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// List handles GET /api/orders requests.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "", h.logger)
		return
	}

	merchantID := tenant.FromContext(r.Context())
	params := model.ListOrdersParams{
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 20),
		Status: model.OrderStatus(r.URL.Query().Get("status")),
		Search: r.URL.Query().Get("search"),
	}

	result, err := h.service.List(r.Context(), merchantID, params)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	tags := cache.Tags(merchantID, cache.TagOrders)
	w.Header().Set("Cache-Control", "private, max-age=30")
	w.Header().Set("X-Cache-Tags", cache.Header(tags))

	writeJSON(w, http.StatusOK, result)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "", h.logger)
		return
	}

	id, ok := orderID(w, r, h.logger)
	if !ok {
		return
	}

	order, err := h.service.GetByID(r.Context(), tenant.FromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// UpdateStatus handles PATCH /api/orders/{id}/status requests.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "", h.logger)
		return
	}

	id, ok := orderID(w, r, h.logger)
	if !ok {
		return
	}

	var body struct {
		Status model.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", model.ErrCodeInvalidJSON, h.logger)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), tenant.FromContext(r.Context()), id, body.Status)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// orderID extracts the uuid segment from /api/orders/{id}[/status].
func orderID(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (uuid.UUID, bool) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	rest = strings.TrimSuffix(rest, "/status")
	rest = strings.TrimSuffix(rest, "/")

	if rest == "" {
		writeError(w, http.StatusBadRequest, "order ID is required", model.ErrCodeMissingField, logger)
		return uuid.Nil, false
	}

	id, err := uuid.Parse(rest)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID format", model.ErrCodeMissingField, logger)
		return uuid.Nil, false
	}
	return id, true
}

// attributionCookie returns the raw affiliate cookie value, or "".
func attributionCookie(r *http.Request) string {
	c, err := r.Cookie(affiliate.CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// clientIP resolves the originating client IP, honouring proxy headers.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

package handler

import (
	"net/http"
	"strings"

	"github.com/srana86/frameX-sub004/internal/cache"
	"github.com/srana86/frameX-sub004/internal/model"
	"github.com/srana86/frameX-sub004/internal/service"
	"github.com/srana86/frameX-sub004/internal/tenant"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /api/products requests.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "", h.logger)
		return
	}

	merchantID := tenant.FromContext(r.Context())
	limit := queryInt(r, "limit", 10)
	offset := 0
	if page := queryInt(r, "page", 1); page > 1 {
		offset = (page - 1) * limit
	}

	products, err := h.service.List(r.Context(), merchantID, limit, offset, r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	tags := cache.Tags(merchantID, cache.TagInventory)
	w.Header().Set("Cache-Control", "private, max-age=60")
	w.Header().Set("X-Cache-Tags", cache.Header(tags))

	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "", h.logger)
		return
	}

	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/products/"), "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "product ID is required", model.ErrCodeMissingField, h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), tenant.FromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

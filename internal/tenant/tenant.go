package tenant

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// Header carries the merchant id on every API request.
const Header = "X-Merchant-ID"

type contextKey struct{}

// FromContext returns the merchant id attached to ctx, or "" if absent.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}

// WithMerchant returns a copy of ctx carrying the merchant id.
func WithMerchant(ctx context.Context, merchantID string) context.Context {
	return context.WithValue(ctx, contextKey{}, merchantID)
}

// Middleware extracts the merchant id header and attaches it to the request
// context. Requests under /api and /ws without a merchant id are rejected;
// everything else (health, metrics) passes through untouched.
func Middleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			merchantID := r.Header.Get(Header)
			if merchantID == "" {
				if scoped(r.URL.Path) {
					logger.Warn().Str("path", r.URL.Path).Msg("missing merchant id")
					http.Error(w, "bad request: missing merchant id", http.StatusBadRequest)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithMerchant(r.Context(), merchantID)))
		})
	}
}

func scoped(path string) bool {
	return strings.HasPrefix(path, "/api") || strings.HasPrefix(path, "/ws")
}

package tenant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	assert.Equal(t, "", FromContext(context.Background()))

	ctx := WithMerchant(context.Background(), "m1")
	assert.Equal(t, "m1", FromContext(ctx))
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		merchantID     string
		expectedStatus int
		expectHandler  bool
	}{
		{
			name:           "api request with merchant id",
			path:           "/api/orders",
			merchantID:     "m1",
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "api request without merchant id",
			path:           "/api/orders",
			merchantID:     "",
			expectedStatus: http.StatusBadRequest,
			expectHandler:  false,
		},
		{
			name:           "websocket request without merchant id",
			path:           "/ws/orders",
			merchantID:     "",
			expectedStatus: http.StatusBadRequest,
			expectHandler:  false,
		},
		{
			name:           "health bypasses tenancy",
			path:           "/health",
			merchantID:     "",
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "metrics bypasses tenancy",
			path:           "/metrics",
			merchantID:     "",
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			var seenMerchant string
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				seenMerchant = FromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			handler := Middleware(zerolog.Nop())(testHandler)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.merchantID != "" {
				req.Header.Set(Header, tt.merchantID)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)
			if tt.expectHandler {
				assert.Equal(t, tt.merchantID, seenMerchant)
			}
		})
	}
}

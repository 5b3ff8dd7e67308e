package fraud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/srana86/frameX-sub004/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_ResponseShapes(t *testing.T) {
	at := time.Now()

	tests := []struct {
		name          string
		raw           string
		expectedScore float64
		expectedTotal int
		expectedOK    int
		expectedBad   int
	}{
		{
			name:          "flat shape",
			raw:           `{"risk_score": 0.42, "total_parcels": 20, "delivered_parcels": 15, "cancelled_parcels": 5}`,
			expectedScore: 0.42,
			expectedTotal: 20,
			expectedOK:    15,
			expectedBad:   5,
		},
		{
			name:          "data-wrapped shape",
			raw:           `{"data": {"score": 0.9, "total_orders": 8, "delivered": 2, "cancelled": 6}}`,
			expectedScore: 0.9,
			expectedTotal: 8,
			expectedOK:    2,
			expectedBad:   6,
		},
		{
			name:          "summary-wrapped shape",
			raw:           `{"summary": {"score": 0.1, "total": 30, "success": 29, "cancel": 1}}`,
			expectedScore: 0.1,
			expectedTotal: 30,
			expectedOK:    29,
			expectedBad:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body scoreResponse
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &body))

			annotation := normalize(body, at)

			require.NotNil(t, annotation)
			assert.Equal(t, "fraudshield", annotation.Provider)
			assert.Equal(t, tt.expectedScore, annotation.Score)
			assert.Equal(t, tt.expectedTotal, annotation.TotalOrders)
			assert.Equal(t, tt.expectedOK, annotation.Delivered)
			assert.Equal(t, tt.expectedBad, annotation.Cancelled)
			assert.Equal(t, at, annotation.CheckedAt)
		})
	}
}

func TestNormalize_UnknownShape(t *testing.T) {
	var body scoreResponse
	require.NoError(t, json.Unmarshal([]byte(`{"something":"else"}`), &body))

	assert.Nil(t, normalize(body, time.Now()))
}

func newTestScorer(endpoint string) Scorer {
	return NewScorer(config.FraudConfig{
		Enabled:  true,
		Endpoint: endpoint,
		APIKey:   "test-key",
		Timeout:  2 * time.Second,
	}, zerolog.Nop())
}

func TestScorer_Score(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "+8801712345678", r.URL.Query().Get("phone"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"risk_score": 0.42, "total_parcels": 20, "delivered_parcels": 15, "cancelled_parcels": 5}`))
	}))
	defer srv.Close()

	annotation, err := newTestScorer(srv.URL).Score(context.Background(), "+8801712345678")

	require.NoError(t, err)
	assert.Equal(t, 0.42, annotation.Score)
	assert.Equal(t, 20, annotation.TotalOrders)
}

func TestScorer_Score_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	annotation, err := newTestScorer(srv.URL).Score(context.Background(), "01712345678")

	assert.Nil(t, annotation)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestScorer_Score_UnknownShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected": true}`))
	}))
	defer srv.Close()

	annotation, err := newTestScorer(srv.URL).Score(context.Background(), "01712345678")

	assert.Nil(t, annotation)
	require.Error(t, err)
}

func TestScorer_Score_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	scorer := NewScorer(config.FraudConfig{
		Endpoint: srv.URL,
		Timeout:  50 * time.Millisecond,
	}, zerolog.Nop())

	annotation, err := scorer.Score(context.Background(), "01712345678")

	assert.Nil(t, annotation)
	require.Error(t, err)
}

package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/srana86/frameX-sub004/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(endpoint string) EmailDispatcher {
	return NewEmailDispatcher(config.EmailConfig{
		Enabled:  true,
		Endpoint: endpoint,
		APIKey:   "email-key",
		From:     "orders@example.com",
	}, zerolog.Nop())
}

func TestEmailDispatcher_Send(t *testing.T) {
	var got emailRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer email-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	err := newTestDispatcher(srv.URL).Send(context.Background(),
		EmailEventOrderConfirmation, "rahim@example.com",
		map[string]string{"order_id": "BRD-5211042"})

	require.NoError(t, err)
	assert.Equal(t, EmailEventOrderConfirmation, got.Event)
	assert.Equal(t, "orders@example.com", got.From)
	assert.Equal(t, "rahim@example.com", got.To)
	assert.Equal(t, "BRD-5211042", got.Variables["order_id"])
}

func TestEmailDispatcher_Send_NoRecipient(t *testing.T) {
	err := newTestDispatcher("http://unused").Send(context.Background(),
		EmailEventAdminNewOrder, "", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no recipient")
}

func TestEmailDispatcher_Send_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newTestDispatcher(srv.URL).Send(context.Background(),
		EmailEventOrderConfirmation, "rahim@example.com", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/srana86/frameX-sub004/internal/affiliate"
	"github.com/srana86/frameX-sub004/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAffiliateRepository is a mock implementation of repository.AffiliateRepository.
type MockAffiliateRepository struct {
	mock.Mock
}

func (m *MockAffiliateRepository) GetByID(ctx context.Context, merchantID string, id uuid.UUID) (*model.Affiliate, error) {
	args := m.Called(ctx, merchantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Affiliate), args.Error(1)
}

func (m *MockAffiliateRepository) GetByPromoCode(ctx context.Context, merchantID, promoCode string) (*model.Affiliate, error) {
	args := m.Called(ctx, merchantID, promoCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Affiliate), args.Error(1)
}

func (m *MockAffiliateRepository) IncrementOrderCount(ctx context.Context, merchantID string, id uuid.UUID) error {
	return m.Called(ctx, merchantID, id).Error(0)
}

func (m *MockAffiliateRepository) CreditPendingBalance(ctx context.Context, merchantID string, id uuid.UUID, amount float64) error {
	return m.Called(ctx, merchantID, id, amount).Error(0)
}

func newAffiliateHandler(repo *MockAffiliateRepository, ttl time.Duration) *AffiliateHandler {
	logger := zerolog.Nop()
	attributor := affiliate.NewAttributor(repo, map[int]float64{1: 5, 2: 7.5}, logger)
	return NewAffiliateHandler(attributor, ttl, logger)
}

func TestAffiliateHandler_Track(t *testing.T) {
	repo := new(MockAffiliateRepository)
	aff := &model.Affiliate{
		ID:        uuid.New(),
		PromoCode: "SUMMER10",
		Status:    model.AffiliateStatusActive,
		TierLevel: 2,
	}
	repo.On("GetByPromoCode", mock.Anything, "m1", "SUMMER10").Return(aff, nil)

	h := newAffiliateHandler(repo, 720*time.Hour)
	rec := httptest.NewRecorder()
	h.Track(rec, tenantRequest(http.MethodGet, "/api/affiliate/track?code=SUMMER10", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "SUMMER10", body["promoCode"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, affiliate.CookieName, cookies[0].Name)

	// The cookie carries the resolved affiliate and a TTL-derived expiry.
	payload, err := affiliate.DecodeCookie(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, aff.ID.String(), payload.AffiliateID)
	assert.Equal(t, "SUMMER10", payload.PromoCode)
	wantExpiry := time.Now().Add(720 * time.Hour).UnixMilli()
	assert.InDelta(t, wantExpiry, payload.Expiry, float64(time.Minute.Milliseconds()))
}

func TestAffiliateHandler_Track_UnknownCode(t *testing.T) {
	repo := new(MockAffiliateRepository)
	repo.On("GetByPromoCode", mock.Anything, "m1", "NOPE").Return(nil, nil)

	h := newAffiliateHandler(repo, time.Hour)
	rec := httptest.NewRecorder()
	h.Track(rec, tenantRequest(http.MethodGet, "/api/affiliate/track?code=NOPE", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, model.ErrCodeAffiliateNotFound, body.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAffiliateHandler_Track_SuspendedAffiliate(t *testing.T) {
	repo := new(MockAffiliateRepository)
	repo.On("GetByPromoCode", mock.Anything, "m1", "SUMMER10").Return(&model.Affiliate{
		ID:        uuid.New(),
		PromoCode: "SUMMER10",
		Status:    model.AffiliateStatusSuspended,
	}, nil)

	h := newAffiliateHandler(repo, time.Hour)
	rec := httptest.NewRecorder()
	h.Track(rec, tenantRequest(http.MethodGet, "/api/affiliate/track?code=SUMMER10", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAffiliateHandler_Track_MissingCode(t *testing.T) {
	h := newAffiliateHandler(new(MockAffiliateRepository), time.Hour)
	rec := httptest.NewRecorder()
	h.Track(rec, tenantRequest(http.MethodGet, "/api/affiliate/track", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAffiliateHandler_Track_LookupError(t *testing.T) {
	repo := new(MockAffiliateRepository)
	repo.On("GetByPromoCode", mock.Anything, "m1", "SUMMER10").Return(nil, errors.New("db down"))

	h := newAffiliateHandler(repo, time.Hour)
	rec := httptest.NewRecorder()
	h.Track(rec, tenantRequest(http.MethodGet, "/api/affiliate/track?code=SUMMER10", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAffiliateHandler_Track_MethodNotAllowed(t *testing.T) {
	h := newAffiliateHandler(new(MockAffiliateRepository), time.Hour)
	rec := httptest.NewRecorder()
	h.Track(rec, tenantRequest(http.MethodPost, "/api/affiliate/track?code=SUMMER10", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

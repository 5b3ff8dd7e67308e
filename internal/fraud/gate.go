// Package fraud holds the order-placement fraud gate and the client for the
// external fraud-scoring API.
package fraud

import (
	"context"

	"github.com/srana86/frameX-sub004/internal/blocklist"
	"github.com/srana86/frameX-sub004/internal/model"
	"github.com/srana86/frameX-sub004/internal/repository"

	"github.com/rs/zerolog"
)

// Gate rejects orders from customers on the merchant's blocklist. It checks
// the in-memory bulk blocklist first, then the blocked_customers table.
type Gate struct {
	repo   repository.BlocklistRepository
	bulk   *blocklist.Checker
	logger zerolog.Logger
}

// NewGate creates a new fraud gate. bulk may be nil when no bulk blocklist
// sources are configured.
func NewGate(repo repository.BlocklistRepository, bulk *blocklist.Checker, logger zerolog.Logger) *Gate {
	return &Gate{
		repo:   repo,
		bulk:   bulk,
		logger: logger.With().Str("component", "fraud-gate").Logger(),
	}
}

// Check returns a non-nil entry when the customer is blocked. An error from
// the lookup itself is returned to the caller, which treats it as fail-open:
// order placement is never held hostage to blocklist infrastructure.
func (g *Gate) Check(ctx context.Context, merchantID, phone, email string) (*model.BlockedCustomer, error) {
	normalized := blocklist.NormalizePhone(phone)

	if g.bulk != nil && g.bulk.Blocked(phone, email) {
		g.logger.Info().
			Str("merchant_id", merchantID).
			Msg("customer matched bulk blocklist")
		return &model.BlockedCustomer{
			MerchantID: merchantID,
			Phone:      normalized,
			Email:      email,
			Reason:     "bulk blocklist",
			Active:     true,
		}, nil
	}

	match, err := g.repo.FindActiveMatch(ctx, merchantID, phone, normalized, email)
	if err != nil {
		g.logger.Error().Err(err).Str("merchant_id", merchantID).Msg("blocklist lookup failed")
		return nil, err
	}

	if match != nil {
		g.logger.Info().
			Str("merchant_id", merchantID).
			Str("entry_id", match.ID.String()).
			Msg("customer matched blocklist")
	}

	return match, nil
}

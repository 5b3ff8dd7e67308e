package repository

import (
	"context"
	"fmt"

	"github.com/srana86/frameX-sub004/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// affiliateRepository implements AffiliateRepository using PostgreSQL.
type affiliateRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAffiliateRepository creates a new PostgreSQL-backed affiliate repository.
func NewAffiliateRepository(pool *pgxpool.Pool, logger zerolog.Logger) AffiliateRepository {
	return &affiliateRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "affiliate").Logger(),
	}
}

const affiliateColumns = `id, merchant_id, name, promo_code, status,
		tier_level, order_count, pending_balance, created_at, updated_at`

func scanAffiliate(row pgx.Row, a *model.Affiliate) error {
	return row.Scan(
		&a.ID, &a.MerchantID, &a.Name, &a.PromoCode, &a.Status,
		&a.TierLevel, &a.OrderCount, &a.PendingBalance,
		&a.CreatedAt, &a.UpdatedAt,
	)
}

// GetByID retrieves an affiliate by id. Returns nil when absent.
func (r *affiliateRepository) GetByID(ctx context.Context, merchantID string, id uuid.UUID) (*model.Affiliate, error) {
	query := `
		SELECT ` + affiliateColumns + `
		FROM affiliates
		WHERE merchant_id = $1 AND id = $2
	`

	var a model.Affiliate
	err := scanAffiliate(r.pool.QueryRow(ctx, query, merchantID, id), &a)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("affiliate_id", id.String()).Msg("failed to query affiliate")
		return nil, fmt.Errorf("failed to query affiliate: %w", err)
	}

	return &a, nil
}

// GetByPromoCode retrieves an affiliate by promo code. Returns nil when absent.
func (r *affiliateRepository) GetByPromoCode(ctx context.Context, merchantID, promoCode string) (*model.Affiliate, error) {
	query := `
		SELECT ` + affiliateColumns + `
		FROM affiliates
		WHERE merchant_id = $1 AND promo_code = $2
	`

	var a model.Affiliate
	err := scanAffiliate(r.pool.QueryRow(ctx, query, merchantID, promoCode), &a)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("promo_code", promoCode).Msg("failed to query affiliate by promo code")
		return nil, fmt.Errorf("failed to query affiliate by promo code: %w", err)
	}

	return &a, nil
}

// IncrementOrderCount bumps the affiliate's running order counter by one.
// The pending balance is untouched; it is credited on delivery.
func (r *affiliateRepository) IncrementOrderCount(ctx context.Context, merchantID string, id uuid.UUID) error {
	query := `
		UPDATE affiliates
		SET order_count = order_count + 1, updated_at = now()
		WHERE merchant_id = $1 AND id = $2
	`

	if _, err := r.pool.Exec(ctx, query, merchantID, id); err != nil {
		r.logger.Error().Err(err).Str("affiliate_id", id.String()).Msg("failed to increment order count")
		return fmt.Errorf("failed to increment order count: %w", err)
	}
	return nil
}

// CreditPendingBalance adds amount to the affiliate's pending balance.
func (r *affiliateRepository) CreditPendingBalance(ctx context.Context, merchantID string, id uuid.UUID, amount float64) error {
	query := `
		UPDATE affiliates
		SET pending_balance = pending_balance + $3, updated_at = now()
		WHERE merchant_id = $1 AND id = $2
	`

	if _, err := r.pool.Exec(ctx, query, merchantID, id, amount); err != nil {
		r.logger.Error().Err(err).
			Str("affiliate_id", id.String()).
			Float64("amount", amount).
			Msg("failed to credit pending balance")
		return fmt.Errorf("failed to credit pending balance: %w", err)
	}
	return nil
}

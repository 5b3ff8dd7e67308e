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

// commissionRepository implements CommissionRepository using PostgreSQL.
type commissionRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCommissionRepository creates a new PostgreSQL-backed commission repository.
func NewCommissionRepository(pool *pgxpool.Pool, logger zerolog.Logger) CommissionRepository {
	return &commissionRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "commission").Logger(),
	}
}

// Insert writes a pending commission record.
func (r *commissionRepository) Insert(ctx context.Context, commission *model.Commission) error {
	query := `
		INSERT INTO commissions (id, merchant_id, order_id, affiliate_id, percent, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		commission.ID, commission.MerchantID, commission.OrderID, commission.AffiliateID,
		commission.Percent, commission.Amount, commission.Status, commission.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).
			Str("order_id", commission.OrderID.String()).
			Str("affiliate_id", commission.AffiliateID.String()).
			Msg("failed to insert commission")
		return fmt.Errorf("failed to insert commission: %w", err)
	}

	r.logger.Debug().
		Str("order_id", commission.OrderID.String()).
		Float64("amount", commission.Amount).
		Msg("commission recorded")

	return nil
}

// SettleByOrder marks the order's pending commission settled and returns it.
// Returns nil when the order has no pending commission.
func (r *commissionRepository) SettleByOrder(ctx context.Context, merchantID string, orderID uuid.UUID) (*model.Commission, error) {
	query := `
		UPDATE commissions
		SET status = $3, settled_at = now()
		WHERE merchant_id = $1 AND order_id = $2 AND status = $4
		RETURNING id, merchant_id, order_id, affiliate_id, percent, amount, status, created_at, settled_at
	`

	var c model.Commission
	err := r.pool.QueryRow(ctx, query, merchantID, orderID,
		model.CommissionStatusSettled, model.CommissionStatusPending,
	).Scan(
		&c.ID, &c.MerchantID, &c.OrderID, &c.AffiliateID,
		&c.Percent, &c.Amount, &c.Status, &c.CreatedAt, &c.SettledAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to settle commission")
		return nil, fmt.Errorf("failed to settle commission: %w", err)
	}

	return &c, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/srana86/frameX-sub004/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// blocklistRepository implements BlocklistRepository using PostgreSQL.
type blocklistRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewBlocklistRepository creates a new PostgreSQL-backed blocklist repository.
func NewBlocklistRepository(pool *pgxpool.Pool, logger zerolog.Logger) BlocklistRepository {
	return &blocklistRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "blocklist").Logger(),
	}
}

// FindActiveMatch looks for an active blocklist entry matching the raw phone,
// the normalized phone (exact or suffix) or the email. Blocklist entries were
// historically stored in several phone formats, hence the ORed
// representations.
func (r *blocklistRepository) FindActiveMatch(ctx context.Context, merchantID, phone, normalizedPhone, email string) (*model.BlockedCustomer, error) {
	query := `
		SELECT id, merchant_id, phone, email, reason, active, created_at
		FROM blocked_customers
		WHERE merchant_id = $1
		  AND active
		  AND (
		       ($2 <> '' AND phone = $2)
		    OR ($3 <> '' AND (phone = $3 OR phone LIKE '%' || $3))
		    OR ($4 <> '' AND lower(email) = lower($4))
		  )
		LIMIT 1
	`

	var b model.BlockedCustomer
	err := r.pool.QueryRow(ctx, query, merchantID, phone, normalizedPhone, email).Scan(
		&b.ID, &b.MerchantID, &b.Phone, &b.Email, &b.Reason, &b.Active, &b.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query blocklist")
		return nil, fmt.Errorf("failed to query blocklist: %w", err)
	}

	return &b, nil
}

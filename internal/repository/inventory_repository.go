package repository

import (
	"context"
	"fmt"

	"github.com/srana86/frameX-sub004/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// inventoryRepository implements InventoryRepository using PostgreSQL.
type inventoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewInventoryRepository creates a new PostgreSQL-backed inventory repository.
func NewInventoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) InventoryRepository {
	return &inventoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "inventory").Logger(),
	}
}

// InsertTransactions appends audit entries within the provided transaction,
// so the audit trail commits or rolls back together with the stock change.
func (r *inventoryRepository) InsertTransactions(ctx context.Context, tx pgx.Tx, transactions []model.InventoryTransaction) error {
	if len(transactions) == 0 {
		return nil
	}

	query := `
		INSERT INTO inventory_transactions
			(id, merchant_id, product_id, order_id, quantity_delta, previous_stock, new_stock, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	batch := &pgx.Batch{}
	for _, t := range transactions {
		batch.Queue(query,
			t.ID, t.MerchantID, t.ProductID, t.OrderID,
			t.QuantityDelta, t.PreviousStock, t.NewStock, t.Reason, t.CreatedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(transactions); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("product_id", transactions[i].ProductID).
				Msg("failed to insert inventory transaction")
			return fmt.Errorf("failed to insert inventory transaction: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(transactions)).
		Msg("inventory transactions recorded")

	return nil
}

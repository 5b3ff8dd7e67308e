package repository

import (
	"context"
	"fmt"

	"github.com/srana86/frameX-sub004/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// notificationRepository implements NotificationRepository using PostgreSQL.
type notificationRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewNotificationRepository creates a new PostgreSQL-backed notification repository.
func NewNotificationRepository(pool *pgxpool.Pool, logger zerolog.Logger) NotificationRepository {
	return &notificationRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "notification").Logger(),
	}
}

// InsertBatch persists notification rows. Called off the request path; the
// dashboard already received the events through the realtime hub.
func (r *notificationRepository) InsertBatch(ctx context.Context, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	query := `
		INSERT INTO notifications (id, merchant_id, user_id, type, title, message, order_id, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	batch := &pgx.Batch{}
	for _, n := range notifications {
		batch.Queue(query, n.ID, n.MerchantID, n.UserID, n.Type, n.Title, n.Message, n.OrderID, n.Read, n.CreatedAt)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(notifications); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().Err(err).Msg("failed to insert notification")
			return fmt.Errorf("failed to insert notification: %w", err)
		}
	}

	return nil
}

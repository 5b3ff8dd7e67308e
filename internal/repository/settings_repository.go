package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Well-known settings keys.
const (
	SettingBrand       = "brand"
	SettingStoreName   = "store_name"
	SettingAdminEmail  = "admin_email"
	SettingNotifyUsers = "notify_users" // comma-separated dashboard user ids
)

// settingsRepository implements SettingsRepository using PostgreSQL.
type settingsRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSettingsRepository creates a new PostgreSQL-backed settings repository.
func NewSettingsRepository(pool *pgxpool.Pool, logger zerolog.Logger) SettingsRepository {
	return &settingsRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "settings").Logger(),
	}
}

// Get returns the value for a settings key, or "" when unset.
func (r *settingsRepository) Get(ctx context.Context, merchantID, key string) (string, error) {
	query := `
		SELECT value
		FROM store_settings
		WHERE merchant_id = $1 AND key = $2
	`

	var value string
	err := r.pool.QueryRow(ctx, query, merchantID, key).Scan(&value)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		r.logger.Error().Err(err).Str("key", key).Msg("failed to query setting")
		return "", fmt.Errorf("failed to query setting %s: %w", key, err)
	}

	return value, nil
}

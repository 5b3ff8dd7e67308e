package repository

import (
	"context"
	"fmt"

	"github.com/srana86/frameX-sub004/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productColumns = `id, merchant_id, name, category, price, buy_price, discount_pct, stock, created_at, updated_at`

func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(
		&p.ID, &p.MerchantID, &p.Name, &p.Category,
		&p.Price, &p.BuyPrice, &p.DiscountPct, &p.Stock,
		&p.CreatedAt, &p.UpdatedAt,
	)
}

// List retrieves products for a merchant with pagination support.
func (r *productRepository) List(ctx context.Context, merchantID string, limit, offset int, category string) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE merchant_id = $1 AND ($2 = '' OR category = $2)
		ORDER BY name
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query, merchantID, category, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Str("merchant_id", merchantID).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, merchantID, id string) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE merchant_id = $1 AND id = $2
	`

	var p model.Product
	err := scanProduct(r.pool.QueryRow(ctx, query, merchantID, id), &p)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// LockForUpdate loads the given products inside tx with row locks held until
// the transaction ends, so stock validation and decrement see one consistent
// snapshot even under concurrent requests.
func (r *productRepository) LockForUpdate(ctx context.Context, tx pgx.Tx, merchantID string, ids []string) (map[string]model.Product, error) {
	if len(ids) == 0 {
		return map[string]model.Product{}, nil
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE merchant_id = $1 AND id = ANY($2)
		ORDER BY id
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, merchantID, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to lock products")
		return nil, fmt.Errorf("failed to lock products: %w", err)
	}
	defer rows.Close()

	products := make(map[string]model.Product, len(ids))
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products[p.ID] = p
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// DecrementStock reduces a product's stock inside tx. The stock >= quantity
// guard keeps the decrement safe even if the caller's validation raced.
func (r *productRepository) DecrementStock(ctx context.Context, tx pgx.Tx, merchantID, id string, quantity int) (int, bool, error) {
	query := `
		UPDATE products
		SET stock = stock - $3, updated_at = now()
		WHERE merchant_id = $1 AND id = $2 AND stock >= $3
		RETURNING stock
	`

	var newStock int
	err := tx.QueryRow(ctx, query, merchantID, id, quantity).Scan(&newStock)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, false, nil
		}
		r.logger.Error().Err(err).
			Str("product_id", id).
			Int("quantity", quantity).
			Msg("failed to decrement stock")
		return 0, false, fmt.Errorf("failed to decrement stock: %w", err)
	}

	r.logger.Debug().
		Str("product_id", id).
		Int("quantity", quantity).
		Int("new_stock", newStock).
		Msg("stock decremented")

	return newStock, true, nil
}

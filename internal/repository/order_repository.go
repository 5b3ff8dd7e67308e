package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/srana86/frameX-sub004/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation, used to retry display-id collisions.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

const orderColumns = `id, merchant_id, custom_order_id, status,
		subtotal, discount, tax, shipping, total,
		payment_method, payment_status,
		customer_name, customer_phone, customer_email, customer_address, customer_city,
		coupon_code, source, affiliate_id, affiliate_code, affiliate_commission,
		fraud_check, geo, created_at, updated_at`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(
		&o.ID, &o.MerchantID, &o.CustomOrderID, &o.Status,
		&o.Subtotal, &o.Discount, &o.Tax, &o.Shipping, &o.Total,
		&o.PaymentMethod, &o.PaymentStatus,
		&o.Customer.Name, &o.Customer.Phone, &o.Customer.Email, &o.Customer.Address, &o.Customer.City,
		&o.CouponCode, &o.Source, &o.AffiliateID, &o.AffiliateCode, &o.AffiliateCommission,
		&o.Fraud, &o.Geo, &o.CreatedAt, &o.UpdatedAt,
	)
}

// Insert writes the order row within the provided transaction.
func (r *orderRepository) Insert(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
	`

	_, err := tx.Exec(ctx, query,
		order.ID, order.MerchantID, order.CustomOrderID, order.Status,
		order.Subtotal, order.Discount, order.Tax, order.Shipping, order.Total,
		order.PaymentMethod, order.PaymentStatus,
		order.Customer.Name, order.Customer.Phone, order.Customer.Email,
		order.Customer.Address, order.Customer.City,
		order.CouponCode, order.Source,
		order.AffiliateID, order.AffiliateCode, order.AffiliateCommission,
		order.Fraud, order.Geo, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if !IsUniqueViolation(err) {
			r.logger.Error().
				Err(err).
				Str("order_id", order.ID.String()).
				Msg("failed to insert order")
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("custom_order_id", order.CustomOrderID).
		Msg("order inserted")

	return nil
}

// InsertItems writes the order line items within the provided transaction.
func (r *orderRepository) InsertItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, name, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.Name, item.Quantity, item.Price)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID).
				Msg("failed to insert order item")
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items inserted")

	return nil
}

// GetByID retrieves an order with its items.
func (r *orderRepository) GetByID(ctx context.Context, merchantID string, id uuid.UUID) (*model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE merchant_id = $1 AND id = $2
	`

	var order model.Order
	err := scanOrder(r.pool.QueryRow(ctx, query, merchantID, id), &order)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.itemsForOrders(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	order.Items = items[id]

	return &order, nil
}

// List retrieves a filtered page of orders plus the unpaged total.
func (r *orderRepository) List(ctx context.Context, merchantID string, params model.ListOrdersParams) ([]model.Order, int, error) {
	where := `
		WHERE merchant_id = $1
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR custom_order_id ILIKE '%' || $3 || '%'
		       OR customer_name ILIKE '%' || $3 || '%'
		       OR customer_phone ILIKE '%' || $3 || '%')
	`

	var total int
	countQuery := `SELECT COUNT(*) FROM orders ` + where
	if err := r.pool.QueryRow(ctx, countQuery, merchantID, string(params.Status), params.Search).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count orders")
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (params.Page - 1) * params.Limit
	listQuery := `
		SELECT ` + orderColumns + `
		FROM orders ` + where + `
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := r.pool.Query(ctx, listQuery, merchantID, string(params.Status), params.Search, params.Limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	var ids []uuid.UUID
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, 0, fmt.Errorf("error iterating orders: %w", err)
	}

	itemsByOrder, err := r.itemsForOrders(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		orders[i].Items = itemsByOrder[orders[i].ID]
	}

	return orders, total, nil
}

// UpdateStatus transitions an order's status and returns the updated order.
func (r *orderRepository) UpdateStatus(ctx context.Context, merchantID string, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	query := `
		UPDATE orders
		SET status = $3, updated_at = now()
		WHERE merchant_id = $1 AND id = $2
		RETURNING ` + orderColumns + `
	`

	var order model.Order
	err := scanOrder(r.pool.QueryRow(ctx, query, merchantID, id, status), &order)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).
			Str("order_id", id.String()).
			Str("status", string(status)).
			Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	items, err := r.itemsForOrders(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	order.Items = items[id]

	return &order, nil
}

// SetFraudAnnotation patches the fraud annotation onto an order.
func (r *orderRepository) SetFraudAnnotation(ctx context.Context, merchantID string, id uuid.UUID, annotation *model.FraudAnnotation) error {
	query := `
		UPDATE orders
		SET fraud_check = $3, updated_at = now()
		WHERE merchant_id = $1 AND id = $2
	`

	if _, err := r.pool.Exec(ctx, query, merchantID, id, annotation); err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to set fraud annotation")
		return fmt.Errorf("failed to set fraud annotation: %w", err)
	}
	return nil
}

// SetGeo patches the geolocation enrichment onto an order.
func (r *orderRepository) SetGeo(ctx context.Context, merchantID string, id uuid.UUID, geo *model.GeoInfo) error {
	query := `
		UPDATE orders
		SET geo = $3, updated_at = now()
		WHERE merchant_id = $1 AND id = $2
	`

	if _, err := r.pool.Exec(ctx, query, merchantID, id, geo); err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to set geolocation")
		return fmt.Errorf("failed to set geolocation: %w", err)
	}
	return nil
}

// itemsForOrders loads line items for a set of orders keyed by order id.
func (r *orderRepository) itemsForOrders(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]model.OrderItem, error) {
	out := make(map[uuid.UUID][]model.OrderItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := `
		SELECT id, order_id, product_id, name, quantity, price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Quantity, &item.Price); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		out[item.OrderID] = append(out[item.OrderID], item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return out, nil
}

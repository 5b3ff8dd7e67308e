package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id VARCHAR(50) NOT NULL,
			merchant_id VARCHAR(100) NOT NULL,
			name VARCHAR(255) NOT NULL,
			category VARCHAR(100) NOT NULL DEFAULT '',
			price DECIMAL(12, 2) NOT NULL,
			buy_price DECIMAL(12, 2) NOT NULL DEFAULT 0,
			discount_pct DECIMAL(5, 2) NOT NULL DEFAULT 0,
			stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (merchant_id, id)
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			merchant_id VARCHAR(100) NOT NULL,
			custom_order_id VARCHAR(50) NOT NULL,
			status VARCHAR(20) NOT NULL,
			subtotal DECIMAL(12, 2) NOT NULL,
			discount DECIMAL(12, 2) NOT NULL DEFAULT 0,
			tax DECIMAL(12, 2) NOT NULL DEFAULT 0,
			shipping DECIMAL(12, 2) NOT NULL DEFAULT 0,
			total DECIMAL(12, 2) NOT NULL,
			payment_method VARCHAR(20) NOT NULL,
			payment_status VARCHAR(20) NOT NULL,
			customer_name VARCHAR(255) NOT NULL,
			customer_phone VARCHAR(50) NOT NULL,
			customer_email VARCHAR(255) NOT NULL DEFAULT '',
			customer_address TEXT NOT NULL DEFAULT '',
			customer_city VARCHAR(100) NOT NULL DEFAULT '',
			coupon_code VARCHAR(50),
			source VARCHAR(50),
			affiliate_id UUID,
			affiliate_code VARCHAR(50),
			affiliate_commission DECIMAL(12, 2),
			fraud_check JSONB,
			geo JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_merchant_custom_order_id
			ON orders(merchant_id, custom_order_id);
		CREATE INDEX IF NOT EXISTS idx_orders_merchant_created
			ON orders(merchant_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id VARCHAR(50) NOT NULL,
			name VARCHAR(255) NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			price DECIMAL(12, 2) NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);

		CREATE TABLE IF NOT EXISTS affiliates (
			id UUID PRIMARY KEY,
			merchant_id VARCHAR(100) NOT NULL,
			name VARCHAR(255) NOT NULL,
			promo_code VARCHAR(50) NOT NULL,
			status VARCHAR(20) NOT NULL,
			tier_level INTEGER NOT NULL,
			order_count INTEGER NOT NULL DEFAULT 0,
			pending_balance DECIMAL(12, 2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_affiliates_merchant_promo
			ON affiliates(merchant_id, promo_code);

		CREATE TABLE IF NOT EXISTS commissions (
			id UUID PRIMARY KEY,
			merchant_id VARCHAR(100) NOT NULL,
			order_id UUID NOT NULL,
			affiliate_id UUID NOT NULL,
			percent DECIMAL(5, 2) NOT NULL,
			amount DECIMAL(12, 2) NOT NULL,
			status VARCHAR(20) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			settled_at TIMESTAMPTZ
		);

		CREATE INDEX IF NOT EXISTS idx_commissions_merchant_order
			ON commissions(merchant_id, order_id);

		CREATE TABLE IF NOT EXISTS blocked_customers (
			id UUID PRIMARY KEY,
			merchant_id VARCHAR(100) NOT NULL,
			phone VARCHAR(50) NOT NULL DEFAULT '',
			email VARCHAR(255) NOT NULL DEFAULT '',
			reason TEXT NOT NULL DEFAULT '',
			active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS inventory_transactions (
			id UUID PRIMARY KEY,
			merchant_id VARCHAR(100) NOT NULL,
			product_id VARCHAR(50) NOT NULL,
			order_id UUID NOT NULL,
			quantity_delta INTEGER NOT NULL,
			previous_stock INTEGER NOT NULL,
			new_stock INTEGER NOT NULL,
			reason VARCHAR(50) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS idx_inventory_tx_product
			ON inventory_transactions(merchant_id, product_id);

		CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY,
			merchant_id VARCHAR(100) NOT NULL,
			user_id VARCHAR(100) NOT NULL,
			type VARCHAR(50) NOT NULL,
			title VARCHAR(255) NOT NULL,
			message TEXT NOT NULL,
			order_id UUID,
			read BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS store_settings (
			merchant_id VARCHAR(100) NOT NULL,
			key VARCHAR(100) NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (merchant_id, key)
		);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedProducts inserts test product data for a merchant.
func SeedProducts(t *testing.T, pool *pgxpool.Pool, merchantID string) {
	t.Helper()

	ctx := context.Background()

	products := []struct {
		id       string
		name     string
		category string
		price    float64
		stock    int
	}{
		{"P001", "Cotton T-Shirt", "apparel", 10.00, 25},
		{"P002", "Denim Jacket", "apparel", 20.00, 10},
		{"P003", "Canvas Tote", "accessories", 30.00, 5},
		{"P004", "Wool Scarf", "accessories", 40.00, 2},
		{"P005", "Leather Belt", "accessories", 50.00, 0},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx,
			`INSERT INTO products (id, merchant_id, name, category, price, buy_price, stock)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.id, merchantID, p.name, p.category, p.price, p.price*0.6, p.stock,
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.id, err)
		}
	}
}

// SeedAffiliate inserts an active affiliate and returns its id.
func SeedAffiliate(t *testing.T, pool *pgxpool.Pool, merchantID, promoCode string, tier int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO affiliates (id, merchant_id, name, promo_code, status, tier_level)
		 VALUES ($1, $2, $3, $4, 'active', $5)`,
		id, merchantID, "Affiliate "+promoCode, promoCode, tier,
	)
	if err != nil {
		t.Fatalf("failed to seed affiliate %s: %v", promoCode, err)
	}
	return id
}

// SeedSetting upserts a store settings row.
func SeedSetting(t *testing.T, pool *pgxpool.Pool, merchantID, key, value string) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO store_settings (merchant_id, key, value)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (merchant_id, key) DO UPDATE SET value = EXCLUDED.value`,
		merchantID, key, value,
	)
	if err != nil {
		t.Fatalf("failed to seed setting %s: %v", key, err)
	}
}

// SeedBlockedCustomer inserts an active blocklist entry.
func SeedBlockedCustomer(t *testing.T, pool *pgxpool.Pool, merchantID, phone, email string) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO blocked_customers (id, merchant_id, phone, email, reason)
		 VALUES ($1, $2, $3, $4, 'repeat refusals')`,
		uuid.New(), merchantID, phone, email,
	)
	if err != nil {
		t.Fatalf("failed to seed blocked customer: %v", err)
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{
		"order_items", "commissions", "inventory_transactions", "notifications",
		"orders", "affiliates", "blocked_customers", "store_settings", "products",
	}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

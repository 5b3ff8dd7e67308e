package repository

import (
	"context"

	"github.com/srana86/frameX-sub004/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves products for a merchant with pagination support.
	List(ctx context.Context, merchantID string, limit, offset int, category string) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, merchantID, id string) (*model.Product, error)

	// LockForUpdate loads the given products inside tx with row locks held
	// until the transaction ends. Missing ids are simply absent from the map.
	LockForUpdate(ctx context.Context, tx pgx.Tx, merchantID string, ids []string) (map[string]model.Product, error)

	// DecrementStock reduces a product's stock inside tx, guarded by
	// stock >= quantity. Returns the new stock and whether a row matched.
	DecrementStock(ctx context.Context, tx pgx.Tx, merchantID, id string, quantity int) (int, bool, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Insert writes the order row within the provided transaction.
	Insert(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// InsertItems writes the order line items within the provided transaction.
	InsertItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order with its items.
	GetByID(ctx context.Context, merchantID string, id uuid.UUID) (*model.Order, error)

	// List retrieves a filtered page of orders plus the unpaged total.
	List(ctx context.Context, merchantID string, params model.ListOrdersParams) ([]model.Order, int, error)

	// UpdateStatus transitions an order's status. Returns the updated order.
	UpdateStatus(ctx context.Context, merchantID string, id uuid.UUID, status model.OrderStatus) (*model.Order, error)

	// SetFraudAnnotation patches the fraud annotation onto an order.
	SetFraudAnnotation(ctx context.Context, merchantID string, id uuid.UUID, annotation *model.FraudAnnotation) error

	// SetGeo patches the geolocation enrichment onto an order.
	SetGeo(ctx context.Context, merchantID string, id uuid.UUID, geo *model.GeoInfo) error
}

// AffiliateRepository defines the interface for affiliate data access.
type AffiliateRepository interface {
	// GetByID retrieves an affiliate by id. Returns nil when absent.
	GetByID(ctx context.Context, merchantID string, id uuid.UUID) (*model.Affiliate, error)

	// GetByPromoCode retrieves an affiliate by promo code. Returns nil when absent.
	GetByPromoCode(ctx context.Context, merchantID, promoCode string) (*model.Affiliate, error)

	// IncrementOrderCount bumps the affiliate's running order counter by one.
	IncrementOrderCount(ctx context.Context, merchantID string, id uuid.UUID) error

	// CreditPendingBalance adds amount to the affiliate's pending balance.
	CreditPendingBalance(ctx context.Context, merchantID string, id uuid.UUID, amount float64) error
}

// CommissionRepository defines the interface for commission records.
type CommissionRepository interface {
	// Insert writes a pending commission record.
	Insert(ctx context.Context, commission *model.Commission) error

	// SettleByOrder marks the order's pending commission settled and returns
	// it. Returns nil when the order has no pending commission.
	SettleByOrder(ctx context.Context, merchantID string, orderID uuid.UUID) (*model.Commission, error)
}

// BlocklistRepository defines the interface for blocked-customer lookups.
type BlocklistRepository interface {
	// FindActiveMatch looks for an active blocklist entry matching the raw
	// phone, the normalized phone (exact or suffix) or the email.
	// Returns nil when no entry matches.
	FindActiveMatch(ctx context.Context, merchantID, phone, normalizedPhone, email string) (*model.BlockedCustomer, error)
}

// InventoryRepository defines the interface for stock audit records.
type InventoryRepository interface {
	// InsertTransactions appends audit entries within the provided transaction.
	InsertTransactions(ctx context.Context, tx pgx.Tx, transactions []model.InventoryTransaction) error
}

// NotificationRepository defines the interface for dashboard notifications.
type NotificationRepository interface {
	// InsertBatch persists notification rows.
	InsertBatch(ctx context.Context, notifications []model.Notification) error
}

// SettingsRepository defines the interface for per-merchant settings rows.
type SettingsRepository interface {
	// Get returns the value for a settings key, or "" when unset.
	Get(ctx context.Context, merchantID, key string) (string, error)
}

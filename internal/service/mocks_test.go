package service

import (
	"context"

	"github.com/srana86/frameX-sub004/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) Insert(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) InsertItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, merchantID string, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, merchantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, merchantID string, params model.ListOrdersParams) ([]model.Order, int, error) {
	args := m.Called(ctx, merchantID, params)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.Order), args.Int(1), args.Error(2)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, merchantID string, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	args := m.Called(ctx, merchantID, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) SetFraudAnnotation(ctx context.Context, merchantID string, id uuid.UUID, annotation *model.FraudAnnotation) error {
	args := m.Called(ctx, merchantID, id, annotation)
	return args.Error(0)
}

func (m *MockOrderRepository) SetGeo(ctx context.Context, merchantID string, id uuid.UUID, geo *model.GeoInfo) error {
	args := m.Called(ctx, merchantID, id, geo)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, merchantID string, limit, offset int, category string) ([]model.Product, error) {
	args := m.Called(ctx, merchantID, limit, offset, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, merchantID, id string) (*model.Product, error) {
	args := m.Called(ctx, merchantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) LockForUpdate(ctx context.Context, tx pgx.Tx, merchantID string, ids []string) (map[string]model.Product, error) {
	args := m.Called(ctx, tx, merchantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]model.Product), args.Error(1)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, tx pgx.Tx, merchantID, id string, quantity int) (int, bool, error) {
	args := m.Called(ctx, tx, merchantID, id, quantity)
	return args.Int(0), args.Bool(1), args.Error(2)
}

// MockInventoryRepository is a mock implementation of InventoryRepository.
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) InsertTransactions(ctx context.Context, tx pgx.Tx, transactions []model.InventoryTransaction) error {
	args := m.Called(ctx, tx, transactions)
	return args.Error(0)
}

// MockAffiliateRepository is a mock implementation of AffiliateRepository.
type MockAffiliateRepository struct {
	mock.Mock
}

func (m *MockAffiliateRepository) GetByID(ctx context.Context, merchantID string, id uuid.UUID) (*model.Affiliate, error) {
	args := m.Called(ctx, merchantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Affiliate), args.Error(1)
}

func (m *MockAffiliateRepository) GetByPromoCode(ctx context.Context, merchantID, promoCode string) (*model.Affiliate, error) {
	args := m.Called(ctx, merchantID, promoCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Affiliate), args.Error(1)
}

func (m *MockAffiliateRepository) IncrementOrderCount(ctx context.Context, merchantID string, id uuid.UUID) error {
	args := m.Called(ctx, merchantID, id)
	return args.Error(0)
}

func (m *MockAffiliateRepository) CreditPendingBalance(ctx context.Context, merchantID string, id uuid.UUID, amount float64) error {
	args := m.Called(ctx, merchantID, id, amount)
	return args.Error(0)
}

// MockCommissionRepository is a mock implementation of CommissionRepository.
type MockCommissionRepository struct {
	mock.Mock
}

func (m *MockCommissionRepository) Insert(ctx context.Context, commission *model.Commission) error {
	args := m.Called(ctx, commission)
	return args.Error(0)
}

func (m *MockCommissionRepository) SettleByOrder(ctx context.Context, merchantID string, orderID uuid.UUID) (*model.Commission, error) {
	args := m.Called(ctx, merchantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Commission), args.Error(1)
}

// MockBlocklistRepository is a mock implementation of BlocklistRepository.
type MockBlocklistRepository struct {
	mock.Mock
}

func (m *MockBlocklistRepository) FindActiveMatch(ctx context.Context, merchantID, phone, normalizedPhone, email string) (*model.BlockedCustomer, error) {
	args := m.Called(ctx, merchantID, phone, normalizedPhone, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BlockedCustomer), args.Error(1)
}

// MockNotificationRepository is a mock implementation of NotificationRepository.
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) InsertBatch(ctx context.Context, notifications []model.Notification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

// MockSettingsRepository is a mock implementation of SettingsRepository.
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context, merchantID, key string) (string, error) {
	args := m.Called(ctx, merchantID, key)
	return args.String(0), args.Error(1)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

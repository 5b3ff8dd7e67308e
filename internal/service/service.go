package service

import (
	"context"

	"github.com/srana86/frameX-sub004/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for the product catalogue.
type ProductService interface {
	// List retrieves products with pagination.
	List(ctx context.Context, merchantID string, limit, offset int, category string) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, merchantID, id string) (*model.Product, error)
}

// CreateMeta carries request-level context for order creation that is not
// part of the order payload itself.
type CreateMeta struct {
	// AttributionCookie is the raw fx_aff cookie value, or "" when absent.
	AttributionCookie string

	// ClientIP is the captured client address used for geolocation.
	ClientIP string
}

// OrderService defines operations for order management.
type OrderService interface {
	// Create runs the order-ingestion pipeline: stock reservation, fraud
	// gate, affiliate attribution, persistence, and the side-effect fan-out.
	Create(ctx context.Context, merchantID string, req *model.OrderRequest, meta CreateMeta) (*model.Order, error)

	// List retrieves a filtered page of orders.
	List(ctx context.Context, merchantID string, params model.ListOrdersParams) (*model.OrderListResponse, error)

	// GetByID retrieves an order by its ID with all items.
	GetByID(ctx context.Context, merchantID string, id uuid.UUID) (*model.Order, error)

	// UpdateStatus transitions an order's status. Moving to delivered
	// settles the order's commission and credits the affiliate balance.
	UpdateStatus(ctx context.Context, merchantID string, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
}

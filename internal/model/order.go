package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentMethod is how the customer pays for an order.
type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodOnline PaymentMethod = "online"
)

// PaymentStatus is the payment state of an order.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Customer is the customer snapshot captured on an order.
type Customer struct {
	Name    string `json:"name" db:"customer_name"`
	Phone   string `json:"phone" db:"customer_phone"`
	Email   string `json:"email" db:"customer_email"`
	Address string `json:"address" db:"customer_address"`
	City    string `json:"city,omitempty" db:"customer_city"`
}

// GeoInfo is the geolocation enrichment resolved from the client IP.
type GeoInfo struct {
	IP      string `json:"ip"`
	Country string `json:"country"`
	Region  string `json:"region,omitempty"`
	City    string `json:"city,omitempty"`
}

// FraudAnnotation is the normalized result of the external fraud-scoring
// API, patched onto the order after the response has been sent.
type FraudAnnotation struct {
	Provider    string    `json:"provider"`
	Score       float64   `json:"score"`
	TotalOrders int       `json:"totalOrders"`
	Delivered   int       `json:"delivered"`
	Cancelled   int       `json:"cancelled"`
	CheckedAt   time.Time `json:"checkedAt"`
}

// Order represents a customer order.
type Order struct {
	ID                  uuid.UUID        `json:"id" db:"id"`
	MerchantID          string           `json:"merchantId" db:"merchant_id"`
	CustomOrderID       string           `json:"customOrderId" db:"custom_order_id"`
	Status              OrderStatus      `json:"status" db:"status"`
	Items               []OrderItem      `json:"items"`
	Subtotal            float64          `json:"subtotal" db:"subtotal"`
	Discount            float64          `json:"discount" db:"discount"`
	Tax                 float64          `json:"tax" db:"tax"`
	Shipping            float64          `json:"shipping" db:"shipping"`
	Total               float64          `json:"total" db:"total"`
	PaymentMethod       PaymentMethod    `json:"paymentMethod" db:"payment_method"`
	PaymentStatus       PaymentStatus    `json:"paymentStatus" db:"payment_status"`
	Customer            Customer         `json:"customer"`
	CouponCode          *string          `json:"couponCode,omitempty" db:"coupon_code"`
	Source              *string          `json:"source,omitempty" db:"source"`
	AffiliateID         *uuid.UUID       `json:"affiliateId,omitempty" db:"affiliate_id"`
	AffiliateCode       *string          `json:"affiliateCode,omitempty" db:"affiliate_code"`
	AffiliateCommission *float64         `json:"affiliateCommission,omitempty" db:"affiliate_commission"`
	Fraud               *FraudAnnotation `json:"fraudCheck,omitempty" db:"fraud_check"`
	Geo                 *GeoInfo         `json:"geo,omitempty" db:"geo"`
	CreatedAt           time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time        `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
}

// OrderRequest represents the request payload for creating an order.
type OrderRequest struct {
	Items         []OrderItemRequest `json:"items"`
	Customer      Customer           `json:"customer"`
	PaymentMethod PaymentMethod      `json:"paymentMethod"`
	Subtotal      float64            `json:"subtotal"`
	Discount      float64            `json:"discount"`
	Tax           float64            `json:"tax"`
	Shipping      float64            `json:"shipping"`
	Total         float64            `json:"total"`
	CouponCode    *string            `json:"couponCode,omitempty"`
	Source        *string            `json:"source,omitempty"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// OrderListResponse is the envelope for GET /api/orders.
type OrderListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// ListOrdersParams are the supported filters for listing orders.
type ListOrdersParams struct {
	Page   int
	Limit  int
	Status OrderStatus
	Search string
}

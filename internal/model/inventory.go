package model

import (
	"time"

	"github.com/google/uuid"
)

// BlockedCustomer is a blocklist entry consulted by the fraud gate.
type BlockedCustomer struct {
	ID         uuid.UUID `json:"id" db:"id"`
	MerchantID string    `json:"merchantId" db:"merchant_id"`
	Phone      string    `json:"phone" db:"phone"`
	Email      string    `json:"email" db:"email"`
	Reason     string    `json:"reason,omitempty" db:"reason"`
	Active     bool      `json:"active" db:"active"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// InventoryTransaction is an append-only audit entry for a stock change.
type InventoryTransaction struct {
	ID            uuid.UUID `json:"id" db:"id"`
	MerchantID    string    `json:"merchantId" db:"merchant_id"`
	ProductID     string    `json:"productId" db:"product_id"`
	OrderID       uuid.UUID `json:"orderId" db:"order_id"`
	QuantityDelta int       `json:"quantityDelta" db:"quantity_delta"`
	PreviousStock int       `json:"previousStock" db:"previous_stock"`
	NewStock      int       `json:"newStock" db:"new_stock"`
	Reason        string    `json:"reason" db:"reason"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// Notification is a dashboard notification for a merchant user.
type Notification struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	MerchantID string     `json:"merchantId" db:"merchant_id"`
	UserID     string     `json:"userId" db:"user_id"`
	Type       string     `json:"type" db:"type"`
	Title      string     `json:"title" db:"title"`
	Message    string     `json:"message" db:"message"`
	OrderID    *uuid.UUID `json:"orderId,omitempty" db:"order_id"`
	Read       bool       `json:"read" db:"read"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
}

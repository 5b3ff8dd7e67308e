package model

import (
	"time"

	"github.com/google/uuid"
)

// AffiliateStatus is the account state of an affiliate.
type AffiliateStatus string

const (
	AffiliateStatusActive    AffiliateStatus = "active"
	AffiliateStatusSuspended AffiliateStatus = "suspended"
)

// Affiliate represents a referral partner of a merchant. The pending
// balance is only credited when a referred order reaches delivered; at
// order creation only the order counter moves.
type Affiliate struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	MerchantID     string          `json:"merchantId" db:"merchant_id"`
	Name           string          `json:"name" db:"name"`
	PromoCode      string          `json:"promoCode" db:"promo_code"`
	Status         AffiliateStatus `json:"status" db:"status"`
	TierLevel      int             `json:"tierLevel" db:"tier_level"`
	OrderCount     int             `json:"orderCount" db:"order_count"`
	PendingBalance float64         `json:"pendingBalance" db:"pending_balance"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`
}

// CommissionStatus is the settlement state of a commission record.
type CommissionStatus string

const (
	CommissionStatusPending CommissionStatus = "pending"
	CommissionStatusSettled CommissionStatus = "settled"
)

// Commission links an order to the affiliate credited for it.
type Commission struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	MerchantID  string           `json:"merchantId" db:"merchant_id"`
	OrderID     uuid.UUID        `json:"orderId" db:"order_id"`
	AffiliateID uuid.UUID        `json:"affiliateId" db:"affiliate_id"`
	Percent     float64          `json:"percent" db:"percent"`
	Amount      float64          `json:"amount" db:"amount"`
	Status      CommissionStatus `json:"status" db:"status"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`
	SettledAt   *time.Time       `json:"settledAt,omitempty" db:"settled_at"`
}

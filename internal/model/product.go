package model

import "time"

// Product represents a storefront product.
type Product struct {
	ID          string    `json:"id" db:"id"`
	MerchantID  string    `json:"merchantId" db:"merchant_id"`
	Name        string    `json:"name" db:"name"`
	Category    string    `json:"category" db:"category"`
	Price       float64   `json:"price" db:"price"`
	BuyPrice    float64   `json:"buyPrice" db:"buy_price"`
	DiscountPct float64   `json:"discountPct" db:"discount_pct"`
	Stock       int       `json:"stock" db:"stock"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

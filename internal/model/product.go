package model

import "github.com/shopspring/decimal"

// Product is a single catalog item sold by a store (`products`).  Price is
// a fixed-point DECIMAL(8,2).
type Product struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       *string         `json:"image"`
	StoreID     uint64          `json:"store_id"`
}

// ProductCombo is a bundle offered by a store at a single price
// (`product_combos`).  It has the same shape as Product.
type ProductCombo struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       *string         `json:"image"`
	StoreID     uint64          `json:"store_id"`
}

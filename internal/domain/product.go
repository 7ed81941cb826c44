package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item. Price is read at checkout time and captured by
// value into the order line item; later price changes never touch existing
// orders.
type Product struct {
	ID          string          `json:"id"`
	StoreID     string          `json:"storeId"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	InStock     bool            `json:"inStock"`
	CreatedAt   time.Time       `json:"createdAt"`
	Rating      *RatingSummary  `json:"rating,omitempty"`
}

// RatingSummary is the aggregated review data returned by the public listing.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

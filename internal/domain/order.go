package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod tags how an order is settled.
type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"
	PaymentOnline PaymentMethod = "ONLINE"
)

// Valid reports whether the tag is one of the supported payment methods.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCOD || m == PaymentOnline
}

// Order is the checkout unit, always scoped to one store and one user. Total
// is already discount- and shipping-adjusted. Coupon holds a denormalized
// snapshot so historical orders survive coupon deletion.
type Order struct {
	ID            string          `json:"id"`
	UserID        string          `json:"-"`
	StoreID       string          `json:"storeId"`
	AddressID     string          `json:"-"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	IsPaid        bool            `json:"isPaid"`
	IsCouponUsed  bool            `json:"isCouponUsed"`
	Coupon        *Coupon         `json:"coupon,omitempty"`
	Items         []OrderItem     `json:"orderItems,omitempty"`
	Address       *Address        `json:"address,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// OrderItem is one distinct product within an order with its snapshot price.
type OrderItem struct {
	OrderID   string          `json:"-"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Product   *Product        `json:"product,omitempty"`
}

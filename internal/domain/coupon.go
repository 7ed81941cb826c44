package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coupon is identified by its uppercase code. Expired coupons are removed by
// an external worker; checkout only checks existence and eligibility flags.
type Coupon struct {
	Code        string          `json:"code"`
	Description string          `json:"description,omitempty"`
	Discount    decimal.Decimal `json:"discount"`
	ForNewUser  bool            `json:"forNewUser"`
	ForMember   bool            `json:"forMember"`
	ExpiresAt   time.Time       `json:"expiresAt"`
	CreatedAt   time.Time       `json:"createdAt"`
}

package domain

import "time"

// Plan values reported by the identity layer.
const (
	PlanFree = "free"
	PlanPlus = "plus"
)

// User is a storefront account. The cart lives on the user row as a
// product-id to quantity map and is replaced wholesale on update.
type User struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Name      string         `json:"name,omitempty"`
	Admin     bool           `json:"-"`
	Plan      string         `json:"plan"`
	Cart      map[string]int `json:"cart"`
	CreatedAt time.Time      `json:"createdAt"`
}

// PremiumMember reports whether the user holds the paid plan that waives
// shipping and unlocks member-only coupons.
func (u User) PremiumMember() bool {
	return u.Plan == PlanPlus
}

// Address is a shipping address owned by a user.
type Address struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state,omitempty"`
	Zip       string    `json:"zip"`
	Country   string    `json:"country"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

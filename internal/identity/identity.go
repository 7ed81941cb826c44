package identity

import "context"

// Identity is the resolved caller: a stable user id plus the flags the
// handlers need. Services never see the Provider; they receive plain data.
type Identity struct {
	UserID        string
	Admin         bool
	PremiumMember bool
}

// Provider resolves an opaque bearer token to an Identity.
type Provider interface {
	Resolve(ctx context.Context, token string) (*Identity, error)
}

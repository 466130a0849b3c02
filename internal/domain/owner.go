package domain

import (
	"context"
	"time"
)

// Owner is the identity a wallet belongs to. The identity system itself is
// an external collaborator; this is the slice of it the ledger needs.
type Owner struct {
	ID        string
	Name      string
	Active    bool
	CreatedAt time.Time
}

type ownerContextKey struct{}

// ContextWithOwner stores the authenticated owner on the context.
func ContextWithOwner(ctx context.Context, owner *Owner) context.Context {
	return context.WithValue(ctx, ownerContextKey{}, owner)
}

// OwnerFromContext retrieves the authenticated owner from the context.
func OwnerFromContext(ctx context.Context) (*Owner, bool) {
	owner, ok := ctx.Value(ownerContextKey{}).(*Owner)
	return owner, ok
}

package session

import (
	"context"
)

var identityCtxKey = &contextKey{"identity"}

type contextKey struct {
	name string
}

// WithIdentity sets the Identity in the given context
func WithIdentity(ctx context.Context, user *Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, user)
}

// IdentityFromContext finds the identity from the context.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	raw, ok := ctx.Value(identityCtxKey).(*Identity)
	return raw, ok
}

// HasRole is a convenience check against the identity in the context.
func HasRole(ctx context.Context, role UserRole) bool {
	user, ok := IdentityFromContext(ctx)
	if !ok {
		return false
	}
	return RolesIntersect(user.AllRoles(), []UserRole{role})
}

package auth

import (
	"context"

	"github.com/inkwell/inkwell/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// identityKey is the context key for storing the caller Identity.
	identityKey contextKey = "identity"
)

// ContextWithIdentity adds the authenticated Identity to the context.
func ContextWithIdentity(ctx context.Context, ident *model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// IdentityFromContext retrieves the Identity from the context.
// Returns nil if not present.
func IdentityFromContext(ctx context.Context) *model.Identity {
	ident, ok := ctx.Value(identityKey).(*model.Identity)
	if !ok {
		return nil
	}
	return ident
}

// MustIdentityFromContext retrieves the Identity from the context.
// Panics if not present (use only when the auth middleware has run).
func MustIdentityFromContext(ctx context.Context) *model.Identity {
	ident := IdentityFromContext(ctx)
	if ident == nil {
		panic("identity not found - ensure auth middleware is applied")
	}
	return ident
}

// UserIDFromContext is a convenience function to get the user ID from context.
// Returns empty string if not authenticated.
func UserIDFromContext(ctx context.Context) string {
	ident := IdentityFromContext(ctx)
	if ident == nil {
		return ""
	}
	return ident.UserID
}

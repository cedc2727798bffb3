package auth

import (
	"context"

	"github.com/shortenerproject/shortener/internal/model"
)

type contextKey struct{}

// ContextWithAuth stores the authenticated caller in ctx.
func ContextWithAuth(ctx context.Context, a *model.AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}

// AuthFromContext returns the authenticated caller, or nil.
func AuthFromContext(ctx context.Context) *model.AuthContext {
	a, _ := ctx.Value(contextKey{}).(*model.AuthContext)
	return a
}

// OwnerIDFromContext returns the id of the user whose key authenticated the
// request, or "" when unauthenticated.
func OwnerIDFromContext(ctx context.Context) string {
	if a := AuthFromContext(ctx); a != nil {
		return a.UserID
	}
	return ""
}

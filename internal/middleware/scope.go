package middleware

import (
	"net/http"

	"github.com/shortenerproject/shortener/internal/auth"
	"github.com/shortenerproject/shortener/internal/model"
)

// RequireScope rejects callers whose key lacks scope. Admin keys pass every
// check. Must run after Auth.
func RequireScope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx := auth.AuthFromContext(r.Context())
			if authCtx == nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}
			if !authCtx.HasScope(scope) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions. Required scope: "+scope)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRead requires the read scope.
func RequireRead() func(http.Handler) http.Handler {
	return RequireScope(model.ScopeRead)
}

// RequireWrite requires the write scope.
func RequireWrite() func(http.Handler) http.Handler {
	return RequireScope(model.ScopeWrite)
}

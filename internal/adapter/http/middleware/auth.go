package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/iho/gowallet/internal/infrastructure/auth"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// OwnerContextKey is the context key for the authenticated owner
	OwnerContextKey ContextKey = "owner"
)

// Owner identifies the authenticated caller.
type Owner struct {
	ID   string
	Name string
}

// AuthMiddleware creates an authentication middleware
func AuthMiddleware(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			owner := &Owner{
				ID:   claims.OwnerID,
				Name: claims.Name,
			}

			ctx := context.WithValue(r.Context(), OwnerContextKey, owner)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the owner if a valid token is present but does not
// require one.
func OptionalAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				claims, err := jwtManager.Verify(parts[1])
				if err == nil {
					owner := &Owner{
						ID:   claims.OwnerID,
						Name: claims.Name,
					}
					ctx := context.WithValue(r.Context(), OwnerContextKey, owner)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// OwnerFromContext extracts the authenticated owner from context
func OwnerFromContext(ctx context.Context) (*Owner, bool) {
	owner, ok := ctx.Value(OwnerContextKey).(*Owner)
	return owner, ok
}

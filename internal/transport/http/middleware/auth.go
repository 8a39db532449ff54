package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-shop-api/internal/domain"
)

type contextKey string

const UserKey contextKey = "current_user"

type tokenVerifier interface {
	Verify(token string) (int64, error)
}

type userLoader interface {
	Get(ctx context.Context, userID int64) (*domain.User, error)
}

// Auth validates the Bearer token and resolves its subject to a stored user,
// which is injected into the request context. A valid token whose user has
// since been deleted is rejected the same way as an invalid token.
func Auth(verifier tokenVerifier, users userLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			userID, err := verifier.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "could not validate credentials")
				return
			}
			u, err := users.Get(r.Context(), userID)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "could not validate credentials")
				return
			}
			ctx := context.WithValue(r.Context(), UserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(UserKey).(*domain.User)
	return u, ok
}

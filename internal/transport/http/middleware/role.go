package middleware

import (
	"net/http"
)

// RequireActive allows only users whose account is active. Must run after Auth.
func RequireActive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !u.IsActive {
			writeJSONError(w, http.StatusForbidden, "account is inactive")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin allows only active admin users. Must run after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !u.IsActive {
			writeJSONError(w, http.StatusForbidden, "account is inactive")
			return
		}
		if !u.IsAdmin() {
			writeJSONError(w, http.StatusForbidden, "not enough permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-shop-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func requestWithUser(u *domain.User) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if u != nil {
		req = req.WithContext(context.WithValue(req.Context(), UserKey, u))
	}
	return req
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireActive(t *testing.T) {
	tests := []struct {
		name string
		user *domain.User
		want int
	}{
		{"no user in context", nil, http.StatusUnauthorized},
		{"inactive user", &domain.User{ID: 1, IsActive: false}, http.StatusForbidden},
		{"active user", &domain.User{ID: 1, IsActive: true}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RequireActive(okHandler()).ServeHTTP(rec, requestWithUser(tt.user))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name string
		user *domain.User
		want int
	}{
		{"no user in context", nil, http.StatusUnauthorized},
		{"inactive admin", &domain.User{ID: 1, Role: domain.RoleAdmin, IsActive: false}, http.StatusForbidden},
		{"active customer", &domain.User{ID: 1, Role: domain.RoleCustomer, IsActive: true}, http.StatusForbidden},
		{"active admin", &domain.User{ID: 1, Role: domain.RoleAdmin, IsActive: true}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RequireAdmin(okHandler()).ServeHTTP(rec, requestWithUser(tt.user))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

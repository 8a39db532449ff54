package store

import (
	"context"
	"testing"

	"github.com/go-shop-api/internal/domain"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// newTestDB opens a fresh in-memory database with the full schema. A single
// connection keeps the :memory: store alive for the whole test.
func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	db, err := Open("file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Bootstrap(context.Background(), db))
	return db
}

func seedUser(t *testing.T, db *bun.DB, email string) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:        email,
		PasswordHash: "$argon2id$stub",
		IsActive:     true,
		Role:         domain.RoleCustomer,
	}
	require.NoError(t, NewUserRepo(db).Create(context.Background(), u))
	return u
}

func seedCategory(t *testing.T, db *bun.DB, name, slug string) *domain.Category {
	t.Helper()
	c := &domain.Category{Name: name, Slug: slug, IsActive: true}
	require.NoError(t, NewCategoryRepo(db).Create(context.Background(), c))
	return c
}

func seedProduct(t *testing.T, db *bun.DB, p *domain.Product) *domain.Product {
	t.Helper()
	require.NoError(t, NewProductRepo(db).Create(context.Background(), p))
	return p
}

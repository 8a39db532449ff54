package store

import (
	"context"
	"fmt"

	"github.com/go-shop-api/internal/domain"
	"github.com/uptrace/bun"
)

// Bootstrap creates the schema if it does not exist. Verification tokens and
// order items cascade-delete with their owning row.
func Bootstrap(ctx context.Context, db *bun.DB) error {
	tables := []struct {
		model any
		fks   []string
	}{
		{model: (*domain.User)(nil)},
		{
			model: (*domain.VerificationToken)(nil),
			fks:   []string{`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`},
		},
		{model: (*domain.Category)(nil)},
		{
			model: (*domain.Product)(nil),
			fks:   []string{`("category_id") REFERENCES "categories" ("id")`},
		},
		{
			model: (*domain.Order)(nil),
			fks:   []string{`("user_id") REFERENCES "users" ("id")`},
		},
		{
			model: (*domain.OrderItem)(nil),
			fks: []string{
				`("order_id") REFERENCES "orders" ("id") ON DELETE CASCADE`,
				`("product_id") REFERENCES "products" ("id")`,
			},
		},
	}

	for _, t := range tables {
		q := db.NewCreateTable().Model(t.model).IfNotExists()
		for _, fk := range t.fks {
			q = q.ForeignKey(fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", t.model, err)
		}
	}
	return nil
}

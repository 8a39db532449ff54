package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-shop-api/internal/domain"
	"github.com/uptrace/bun"
)

// OrderRepo persists orders and their items.
type OrderRepo struct {
	db *bun.DB
}

func NewOrderRepo(db *bun.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create inserts the order and its items in one transaction.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(o).Exec(ctx); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		for _, item := range o.Items {
			item.OrderID = o.ID
		}
		if len(o.Items) > 0 {
			if _, err := tx.NewInsert().Model(&o.Items).Exec(ctx); err != nil {
				return fmt.Errorf("insert order items: %w", err)
			}
		}
		return nil
	})
}

func (r *OrderRepo) Get(ctx context.Context, orderID int64) (*domain.Order, error) {
	o := new(domain.Order)
	err := r.db.NewSelect().Model(o).
		Relation("Items").
		Where("o.id = ?", orderID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", orderID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ListByUser returns a page of the user's own orders, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, int, error) {
	var orders []domain.Order
	total, err := r.db.NewSelect().Model(&orders).
		Relation("Items").
		Where("o.user_id = ?", userID).
		Order("o.id DESC").
		Limit(limit).
		Offset(offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders for user %d: %w", userID, err)
	}
	return orders, total, nil
}

// List returns a page of all orders, newest first.
func (r *OrderRepo) List(ctx context.Context, limit, offset int) ([]domain.Order, int, error) {
	var orders []domain.Order
	total, err := r.db.NewSelect().Model(&orders).
		Relation("Items").
		Order("o.id DESC").
		Limit(limit).
		Offset(offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	res, err := r.db.NewUpdate().Model((*domain.Order)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", orderID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("order %d: %w", orderID, domain.ErrNotFound)
	}
	return nil
}

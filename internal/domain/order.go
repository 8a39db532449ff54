package domain

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusPaid       = "paid"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID          int64  `json:"id" bun:"id,pk,autoincrement"`
	UserID      int64  `json:"user_id" bun:"user_id,notnull"`
	User        *User  `json:"-" bun:"rel:belongs-to,join:user_id=id"`
	OrderNumber string `json:"order_number" bun:"order_number,notnull,unique"`
	Status      string `json:"status" bun:"status,notnull"`

	Subtotal float64 `json:"subtotal" bun:"subtotal,notnull"`
	Tax      float64 `json:"tax" bun:"tax,notnull"`
	Shipping float64 `json:"shipping" bun:"shipping,notnull"`
	Total    float64 `json:"total" bun:"total,notnull"`
	Currency string  `json:"currency" bun:"currency,notnull"`

	ShippingAddress    string `json:"shipping_address" bun:"shipping_address,notnull"`
	ShippingCity       string `json:"shipping_city" bun:"shipping_city,notnull"`
	ShippingPostalCode string `json:"shipping_postal_code" bun:"shipping_postal_code,notnull"`
	ShippingCountry    string `json:"shipping_country" bun:"shipping_country,notnull"`

	Notes string `json:"notes,omitempty" bun:"notes"`

	Items []*OrderItem `json:"items" bun:"rel:has-many,join:id=order_id"`

	CreatedAt time.Time `json:"created_at" bun:"created_at,notnull"`
	UpdatedAt time.Time `json:"updated_at" bun:"updated_at,notnull"`
}

// OrderItem snapshots a product at order time so later catalog edits do not
// rewrite order history.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items,alias:oi"`

	ID        int64 `json:"id" bun:"id,pk,autoincrement"`
	OrderID   int64 `json:"order_id" bun:"order_id,notnull"`
	ProductID int64 `json:"product_id" bun:"product_id,notnull"`

	ProductName string  `json:"product_name" bun:"product_name,notnull"`
	ProductSKU  *string `json:"product_sku" bun:"product_sku"`
	Quantity    int     `json:"quantity" bun:"quantity,notnull"`
	UnitPrice   float64 `json:"unit_price" bun:"unit_price,notnull"`
	TotalPrice  float64 `json:"total_price" bun:"total_price,notnull"`
}

type OrderItemInput struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

type CreateOrderRequest struct {
	Items    []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	Currency string           `json:"currency" validate:"omitempty,oneof=USD PLN EUR"`

	ShippingAddress    string `json:"shipping_address" validate:"required"`
	ShippingCity       string `json:"shipping_city" validate:"required"`
	ShippingPostalCode string `json:"shipping_postal_code" validate:"required"`
	ShippingCountry    string `json:"shipping_country" validate:"required"`

	Notes string `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

package domain

import (
	"time"

	"github.com/uptrace/bun"
)

type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID          int64     `json:"id" bun:"id,pk,autoincrement"`
	Name        string    `json:"name" bun:"name,notnull"`
	Slug        string    `json:"slug" bun:"slug,notnull,unique"`
	Description string    `json:"description" bun:"description"`
	IsActive    bool      `json:"is_active" bun:"is_active,notnull"`
	CreatedAt   time.Time `json:"created_at" bun:"created_at,notnull"`
	UpdatedAt   time.Time `json:"updated_at" bun:"updated_at,notnull"`
}

// CategoryWithCount pairs a category with its active-product count for listings.
type CategoryWithCount struct {
	Category
	ProductCount int `json:"product_count"`
}

type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Slug        string `json:"slug" validate:"required,max=100"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

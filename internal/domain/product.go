package domain

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID          int64   `json:"id" bun:"id,pk,autoincrement"`
	Name        string  `json:"name" bun:"name,notnull"`
	Slug        string  `json:"slug" bun:"slug,notnull,unique"`
	Description string  `json:"description" bun:"description"`
	SKU         *string `json:"sku" bun:"sku,unique"`

	PriceUSD float64 `json:"price_usd" bun:"price_usd,notnull"`
	PricePLN float64 `json:"price_pln" bun:"price_pln,notnull"`
	PriceEUR float64 `json:"price_eur" bun:"price_eur,notnull"`

	Stock      int  `json:"stock" bun:"stock,notnull"`
	IsActive   bool `json:"is_active" bun:"is_active,notnull"`
	IsFeatured bool `json:"is_featured" bun:"is_featured,notnull"`

	Images []string `json:"images" bun:"images"`

	CategoryID *int64    `json:"category_id" bun:"category_id"`
	Category   *Category `json:"category,omitempty" bun:"rel:belongs-to,join:category_id=id"`

	CreatedAt time.Time `json:"created_at" bun:"created_at,notnull"`
	UpdatedAt time.Time `json:"updated_at" bun:"updated_at,notnull"`
}

func (p *Product) InStock() bool { return p.Stock > 0 }

// Price returns the price in the requested currency, defaulting to USD.
func (p *Product) Price(currency string) float64 {
	switch strings.ToUpper(currency) {
	case "PLN":
		return p.PricePLN
	case "EUR":
		return p.PriceEUR
	default:
		return p.PriceUSD
	}
}

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Slug        string   `json:"slug" validate:"required,max=200"`
	Description string   `json:"description"`
	SKU         *string  `json:"sku"`
	PriceUSD    float64  `json:"price_usd" validate:"required,gt=0"`
	PricePLN    float64  `json:"price_pln" validate:"required,gt=0"`
	PriceEUR    float64  `json:"price_eur" validate:"required,gt=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	IsActive    *bool    `json:"is_active"`
	IsFeatured  bool     `json:"is_featured"`
	Images      []string `json:"images"`
	CategoryID  *int64   `json:"category_id"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Slug        *string  `json:"slug"`
	Description *string  `json:"description"`
	SKU         *string  `json:"sku"`
	PriceUSD    *float64 `json:"price_usd" validate:"omitempty,gt=0"`
	PricePLN    *float64 `json:"price_pln" validate:"omitempty,gt=0"`
	PriceEUR    *float64 `json:"price_eur" validate:"omitempty,gt=0"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	IsActive    *bool    `json:"is_active"`
	IsFeatured  *bool    `json:"is_featured"`
	Images      []string `json:"images"`
	CategoryID  *int64   `json:"category_id"`
}

// ProductFilter narrows product listings. Nil pointer fields mean "no filter".
type ProductFilter struct {
	CategoryID *int64
	IsActive   *bool
	IsFeatured *bool
	MinPrice   *float64 // USD
	MaxPrice   *float64 // USD
	InStock    *bool
	Search     string
	Page       int
	PageSize   int
}

package domain

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64  `json:"id" bun:"id,pk,autoincrement"`
	Email        string `json:"email" bun:"email,notnull,unique"`
	PasswordHash string `json:"-" bun:"password_hash,notnull"`
	IsActive     bool   `json:"is_active" bun:"is_active,notnull"`
	IsVerified   bool   `json:"is_verified" bun:"is_verified,notnull"`
	Role         string `json:"role" bun:"role,notnull"`

	FirstName string `json:"first_name" bun:"first_name"`
	LastName  string `json:"last_name" bun:"last_name"`
	Phone     string `json:"phone" bun:"phone"`

	ShippingStreet     *string `json:"shipping_street,omitempty" bun:"shipping_street"`
	ShippingCity       *string `json:"shipping_city,omitempty" bun:"shipping_city"`
	ShippingPostalCode *string `json:"shipping_postal_code,omitempty" bun:"shipping_postal_code"`
	ShippingCountry    *string `json:"shipping_country,omitempty" bun:"shipping_country"`
	ShippingState      *string `json:"shipping_state,omitempty" bun:"shipping_state"`

	CompanyName  *string `json:"company_name,omitempty" bun:"company_name"`
	CompanyTaxID *string `json:"company_tax_id,omitempty" bun:"company_tax_id"`

	CreatedAt time.Time `json:"created_at" bun:"created_at,notnull"`
	UpdatedAt time.Time `json:"updated_at" bun:"updated_at,notnull"`
}

// FullName returns "First Last", falling back to the email when the profile is empty.
func (u *User) FullName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Email
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=100"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`

	ShippingStreet     *string `json:"shipping_street"`
	ShippingCity       *string `json:"shipping_city"`
	ShippingPostalCode *string `json:"shipping_postal_code"`
	ShippingCountry    *string `json:"shipping_country"`
	ShippingState      *string `json:"shipping_state"`

	CompanyName  *string `json:"company_name"`
	CompanyTaxID *string `json:"company_tax_id"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

package domain

import (
	"time"

	"github.com/uptrace/bun"
)

// VerificationToken is a single-use, opaque email confirmation token.
// Rows are cascade-deleted with their owning user.
type VerificationToken struct {
	bun.BaseModel `bun:"table:verification_tokens,alias:vt"`

	ID        int64     `json:"id" bun:"id,pk,autoincrement"`
	Token     string    `json:"token" bun:"token,notnull,unique"`
	UserID    int64     `json:"user_id" bun:"user_id,notnull"`
	User      *User     `json:"-" bun:"rel:belongs-to,join:user_id=id"`
	ExpiresAt time.Time `json:"expires_at" bun:"expires_at,notnull"`
	CreatedAt time.Time `json:"created_at" bun:"created_at,notnull"`
}

// Expired reports whether the token is past its expiry at the given instant.
func (t *VerificationToken) Expired(at time.Time) bool {
	return at.After(t.ExpiresAt)
}

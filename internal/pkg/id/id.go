package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// NewOrderNumber generates a ULID-based order number. ULIDs are
// lexicographically sortable by creation time, which keeps order listings
// naturally chronological.
func NewOrderNumber() string {
	return "ORD-" + ulid.MustNew(ulid.Now(), rand.Reader).String()
}

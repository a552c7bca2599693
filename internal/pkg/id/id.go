package id

import (
	"crypto/rand"
	"strings"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable
// by creation time and safe for use as DynamoDB partition keys.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// NewShortCode generates a short lowercase code suitable for typing back
// in a chat message (deletion confirmations).
func NewShortCode() string {
	return strings.ToLower(New()[18:])
}

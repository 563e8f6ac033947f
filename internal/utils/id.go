package utils

import (
	"github.com/google/uuid"
)

// NewAccessToken issues a fresh opaque bearer token. Tokens are random UUIDs;
// rotation happens on every login and the stored value is the single source
// of truth, so no structure or signature is needed.
func NewAccessToken() string {
	return uuid.NewString()
}

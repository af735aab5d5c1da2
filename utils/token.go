package utils

import "github.com/google/uuid"

// NewToken returns an opaque, unguessable identifier for public URLs
// (table tokens, order public tokens, staff invitation tokens).
func NewToken() string {
	return uuid.NewString()
}

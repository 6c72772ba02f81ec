// Package storage provides the durable key/blob surface backing the session
// and cart stores. Implementations must treat missing keys as ErrNotFound and
// leave corruption handling to callers.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound signals that no blob exists under the requested key.
var ErrNotFound = errors.New("storage: blob not found")

// Well-known blob keys used by the stores.
const (
	KeyTokens = "auth_tokens"
	KeyCart   = "shopping_cart"
)

// Blob is the minimal persistence contract the stores depend on.
type Blob interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Store(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

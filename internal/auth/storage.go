// ABOUTME: Storage port for persisting the bearer token between runs
// ABOUTME: Implemented by the tokenstore package (file, redis, memory)

package auth

import "context"

// TokenKey is the storage key the bearer token lives under.
const TokenKey = "token"

// Storage persists small string values by key.
// Read reports ok=false when the key is absent.
type Storage interface {
	Read(ctx context.Context, key string) (value string, ok bool, err error)
	Write(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

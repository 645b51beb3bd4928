// Package store provides the durable client-side key/value medium that
// credential and preference data live in. Two implementations exist: a
// sqlite-backed one that survives restarts and an in-memory one for
// environments where durability is unavailable or explicitly disabled.
// Callers choose which one via configuration, never by runtime sniffing.
package store

import "context"

// Well-known keys. The token key holds the bearer credential, the theme key
// holds the UI color preference.
const (
	KeyToken = "token"
	KeyTheme = "theme"
)

// KV is the capability interface for durable client state.
//
// Get returns nil (not an error) for a missing key: absence is a normal
// outcome for this medium. Delete and Clear are idempotent.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

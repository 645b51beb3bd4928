// Package credentials owns the durable copy of the bearer token. It is the
// single authority on whether a session is present: the request gateway and
// the session state both consult it freshly on every use, never a cached
// copy, since another process may change it between calls.
package credentials

import (
	"context"

	"github.com/dkalnins/trackdesk/internal/store"
)

// Store persists exactly one bearer token under a well-known key.
type Store struct {
	kv store.KV
}

func New(kv store.KV) *Store {
	return &Store{kv: kv}
}

// Save persists the token durably (as durably as the underlying medium
// allows; with the in-memory medium it only lasts the process lifetime).
func (s *Store) Save(ctx context.Context, token string) error {
	return s.kv.Set(ctx, store.KeyToken, []byte(token))
}

// Read returns the stored token. Absence of a value and failure of the
// medium are both reported as "no token": downstream code degrades to
// unauthenticated instead of failing.
func (s *Store) Read(ctx context.Context) (string, bool) {
	value, err := s.kv.Get(ctx, store.KeyToken)
	if err != nil || len(value) == 0 {
		return "", false
	}
	return string(value), true
}

// Clear removes the token. Idempotent.
func (s *Store) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, store.KeyToken)
}

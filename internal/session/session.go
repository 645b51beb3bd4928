// Package session holds the client's in-memory belief about who is logged
// in. The durable token in the credentials store is the source of truth;
// the session is derived state layered on top of it.
package session

import (
	"context"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dkalnins/trackdesk/internal/credentials"
	"github.com/dkalnins/trackdesk/internal/models"
)

// Session is an observable container for the current user identity.
//
// Generation counts login/logout transitions. Consumers that run
// asynchronous calls capture the generation up front and discard results
// when it has moved, so a response arriving after logout can never
// repopulate state that was just torn down.
type Session struct {
	creds *credentials.Store

	mu      sync.Mutex
	user    *models.UserIdentity
	gen     uint64
	subs    map[int]func(*models.UserIdentity)
	nextSub int
}

func New(creds *credentials.Store) *Session {
	return &Session{
		creds: creds,
		subs:  make(map[int]func(*models.UserIdentity)),
	}
}

// CurrentUser returns the identity of the logged-in user, if the session
// has been populated. An authenticated-but-not-yet-hydrated session (token
// present, user unknown) returns ok=false.
func (s *Session) CurrentUser() (models.UserIdentity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return models.UserIdentity{}, false
	}
	return *s.user, true
}

// IsAuthenticated reports whether a token is currently retrievable. It
// reads the credentials store freshly every time; the token can change
// underneath us between calls.
func (s *Session) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.creds.Read(ctx)
	return ok
}

// Generation returns the current login/logout transition counter.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// SetUser populates the session after a successful auth response. The user
// is only applied while a token is present, which keeps the invariant
// "no user without token" even when a stale success response lands after
// logout. Returns whether the identity was applied.
func (s *Session) SetUser(ctx context.Context, user models.UserIdentity) bool {
	if !s.IsAuthenticated(ctx) {
		return false
	}
	s.mu.Lock()
	s.user = &user
	s.gen++
	notify := s.snapshotSubs()
	s.mu.Unlock()

	for _, fn := range notify {
		fn(&user)
	}
	return true
}

// Logout clears the observable user and the stored token as one logical
// operation. Safe to call at any time, including when nothing is logged in.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.gen++
	notify := s.snapshotSubs()
	s.mu.Unlock()

	// A failing medium still logs the user out; the token is then simply
	// not durable anymore.
	_ = s.creds.Clear(ctx)

	for _, fn := range notify {
		fn(nil)
	}
}

// Subscribe registers an observer invoked on every session change with the
// new user (nil on logout). The returned function removes the observer.
func (s *Session) Subscribe(fn func(*models.UserIdentity)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Session) snapshotSubs() []func(*models.UserIdentity) {
	out := make([]func(*models.UserIdentity), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

// Hydrate rebuilds a provisional identity from the stored token's claims
// after a restart, without contacting the backend. The claims are read
// unverified: the backend re-validates the token on the first authorized
// call anyway, and a rejected token forces a logout at that point. A
// missing or malformed token hydrates nothing, which is a legal state.
func (s *Session) Hydrate(ctx context.Context) bool {
	raw, ok := s.creds.Read(ctx)
	if !ok {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return false
	}

	user := models.UserIdentity{}
	if id, ok := claims["user_id"].(float64); ok {
		user.ID = int64(id)
	}
	if role, ok := claims["role"].(string); ok {
		user.Role = models.Role(role)
	}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}
	if user.ID == 0 && user.Role == "" {
		return false
	}
	return s.SetUser(ctx, user)
}

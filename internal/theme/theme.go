// Package theme manages the persisted light/dark preference. The system
// preference is an injected dependency so non-graphical environments and
// tests can supply their own answer.
package theme

import (
	"context"
	"sync"

	"github.com/dkalnins/trackdesk/internal/store"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

func valid(t Theme) bool { return t == Light || t == Dark }

// Manager is the observable theme state. Resolution order for the initial
// value: stored preference if valid, else the injected system preference,
// else light.
type Manager struct {
	kv     store.KV
	system func() Theme

	mu      sync.Mutex
	current Theme
	subs    map[int]func(Theme)
	nextSub int
}

func NewManager(ctx context.Context, kv store.KV, system func() Theme) *Manager {
	m := &Manager{
		kv:     kv,
		system: system,
		subs:   make(map[int]func(Theme)),
	}
	m.current = m.initial(ctx)
	return m
}

func (m *Manager) initial(ctx context.Context) Theme {
	if value, err := m.kv.Get(ctx, store.KeyTheme); err == nil {
		if saved := Theme(value); valid(saved) {
			return saved
		}
	}
	if m.system != nil {
		if sys := m.system(); valid(sys) {
			return sys
		}
	}
	return Light
}

// Current returns the active theme.
func (m *Manager) Current() Theme {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Set switches to the given theme and persists it. Invalid values are
// ignored. A failing medium keeps the in-memory switch; the preference is
// then simply not durable.
func (m *Manager) Set(ctx context.Context, t Theme) {
	if !valid(t) {
		return
	}
	m.mu.Lock()
	m.current = t
	notify := make([]func(Theme), 0, len(m.subs))
	for _, fn := range m.subs {
		notify = append(notify, fn)
	}
	m.mu.Unlock()

	_ = m.kv.Set(ctx, store.KeyTheme, []byte(t))

	for _, fn := range notify {
		fn(t)
	}
}

// Toggle flips light<->dark and returns the new value.
func (m *Manager) Toggle(ctx context.Context) Theme {
	next := Light
	if m.Current() == Light {
		next = Dark
	}
	m.Set(ctx, next)
	return next
}

// Subscribe registers an observer for theme changes.
func (m *Manager) Subscribe(fn func(Theme)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

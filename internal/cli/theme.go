package cli

import "context"

// Theme flips the persisted light/dark preference.
func (a *App) Theme(ctx context.Context) error {
	next := a.themes.Toggle(ctx)
	printlnFn("Theme is now", string(next))
	return nil
}

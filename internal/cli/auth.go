package cli

import (
	"context"
	"errors"
	"os"

	"github.com/dkalnins/trackdesk/internal/api"
	"github.com/dkalnins/trackdesk/internal/models"
)

// Login authenticates against the backend, persists the token, and
// populates the session from the token's claims.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	creds := models.UserLogin{Email: email, Password: password}
	if err := models.Validate(creds); err != nil {
		printlnFn("Invalid input:", err.Error())
		return err
	}

	token, err := a.client.Login(ctx, creds)
	if err != nil {
		printlnFn("Login failed:", err.Error())
		return err
	}

	if err := a.creds.Save(ctx, token.AccessToken); err != nil {
		a.log.Warn(ctx, "token not persisted, session will not survive restart", "err", err)
	}
	if !a.sess.Hydrate(ctx) {
		// The claims were unreadable; the token itself still works.
		a.sess.SetUser(ctx, models.UserIdentity{Email: email})
	}
	printlnFn("Login successful")
	return nil
}

// Register creates an account and logs straight into it, the same
// token-issuing flow the backend uses for login.
func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	fullName, err := GetSimpleText(a.reader, "Enter full name (optional)", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	user := models.UserCreate{Email: email, FullName: fullName, Password: password}
	if err := models.Validate(user); err != nil {
		printlnFn("Invalid input:", err.Error())
		return err
	}

	token, err := a.client.Register(ctx, user)
	if err != nil {
		if errors.Is(err, api.ErrClient) {
			printlnFn("Registration rejected:", err.Error())
		} else {
			printlnFn("Registration failed:", err.Error())
		}
		return err
	}

	if err := a.creds.Save(ctx, token.AccessToken); err != nil {
		a.log.Warn(ctx, "token not persisted, session will not survive restart", "err", err)
	}
	if !a.sess.Hydrate(ctx) {
		a.sess.SetUser(ctx, models.UserIdentity{Email: email, FullName: fullName})
	}
	printlnFn("Registered and logged in")
	return nil
}

// Logout tears the session down. Always succeeds.
func (a *App) Logout(ctx context.Context) error {
	a.sess.Logout(ctx)
	printlnFn("Logged out")
	return nil
}

// Package cli is the interactive front of the trackdesk client: a REPL
// that drives the request gateway, session state, theme, and the realtime
// watch mode.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/dkalnins/trackdesk/internal/api"
	"github.com/dkalnins/trackdesk/internal/config"
	"github.com/dkalnins/trackdesk/internal/credentials"
	"github.com/dkalnins/trackdesk/internal/issues"
	"github.com/dkalnins/trackdesk/internal/logging"
	"github.com/dkalnins/trackdesk/internal/session"
	"github.com/dkalnins/trackdesk/internal/store"
	"github.com/dkalnins/trackdesk/internal/theme"
)

// App wires the client components together and implements the REPL
// command surface.
type App struct {
	config *config.Config
	log    logging.Logger

	creds  *credentials.Store
	sess   *session.Session
	client api.Client
	themes *theme.Manager
	vm     *issues.ViewModel

	reader *bufio.Reader
	kv     store.KV
	closer func() error
}

// NewApp assembles the application. The storage medium is chosen by
// configuration; a sqlite store that fails to open degrades to the
// in-memory one so the client still runs, just without durability.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}

	var kv store.KV
	closer := func() error { return nil }
	if cfg.DisableStore {
		kv = store.NewMemoryKV()
	} else {
		sqlKV, err := store.OpenSQLite(ctx, cfg.StorePath)
		if err != nil {
			log.Warn(ctx, "durable store unavailable, continuing in memory", "path", cfg.StorePath, "err", err)
			kv = store.NewMemoryKV()
		} else {
			kv = sqlKV
			closer = sqlKV.Close
		}
	}

	creds := credentials.New(kv)
	sess := session.New(creds)

	gateway := api.NewGateway(cfg.APIBaseURL, creds, log, &http.Client{Timeout: cfg.RequestTimeout})
	gateway.SetOnUnauthorized(func() {
		// A rejected token means the session is over, wherever the
		// rejection came from.
		sess.Logout(context.Background())
	})

	app := &App{
		config: cfg,
		log:    log,
		creds:  creds,
		sess:   sess,
		client: gateway,
		themes: theme.NewManager(ctx, kv, nil),
		reader: bufio.NewReader(os.Stdin),
		kv:     kv,
		closer: closer,
	}
	app.vm = issues.New(gateway, sess, log)

	// After a restart the token may still be stored; show who it belongs
	// to without waiting for the first authorized call.
	if app.sess.Hydrate(ctx) {
		if user, ok := app.sess.CurrentUser(); ok {
			log.Info(ctx, "session restored", "user_id", user.ID, "role", user.Role)
		}
	}

	return app, nil
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.closer()
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.sess.IsAuthenticated(context.Background())
}

func (a *App) status() string {
	if user, ok := a.sess.CurrentUser(); ok {
		return fmt.Sprintf("%s (%s)", user.Email, user.Role)
	}
	if a.isLoggedIn() {
		return "authenticated"
	}
	return "not logged in"
}

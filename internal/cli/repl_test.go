package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubExec records which commands the REPL dispatched.
type stubExec struct {
	loggedIn bool
	calls    []string
}

func (s *stubExec) record(name string) error {
	s.calls = append(s.calls, name)
	return nil
}

func (s *stubExec) isLoggedIn() bool                    { return s.loggedIn }
func (s *stubExec) Register(ctx context.Context) error  { return s.record("register") }
func (s *stubExec) Login(ctx context.Context) error     { return s.record("login") }
func (s *stubExec) Logout(ctx context.Context) error    { return s.record("logout") }
func (s *stubExec) List(ctx context.Context) error      { return s.record("list") }
func (s *stubExec) Show(ctx context.Context) error      { return s.record("show") }
func (s *stubExec) Create(ctx context.Context) error    { return s.record("create") }
func (s *stubExec) Update(ctx context.Context) error    { return s.record("update") }
func (s *stubExec) Stats(ctx context.Context) error     { return s.record("stats") }
func (s *stubExec) Analytics(ctx context.Context) error { return s.record("analytics") }
func (s *stubExec) Watch(ctx context.Context) error     { return s.record("watch") }
func (s *stubExec) Theme(ctx context.Context) error     { return s.record("theme") }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(args ...any) (int, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = strings.TrimSpace(toString(a))
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func runScript(t *testing.T, a execIface, script string) {
	t.Helper()
	reader := bufio.NewReader(strings.NewReader(script))
	runREPL(context.Background(), a, func() string { return "test" }, reader)
}

func TestREPL_DispatchesCommands(t *testing.T) {
	captureOutput(t)
	s := &stubExec{loggedIn: true}

	runScript(t, s, "list\nshow\nupdate\nstats\nanalytics\nwatch\ntheme\nlogout\nexit\n")

	require.Equal(t, []string{"list", "show", "update", "stats", "analytics", "watch", "theme", "logout"}, s.calls)
}

func TestREPL_ShortListAlias(t *testing.T) {
	captureOutput(t)
	s := &stubExec{}

	runScript(t, s, "l\nquit\n")

	require.Equal(t, []string{"list"}, s.calls)
}

func TestREPL_UnknownCommandReported(t *testing.T) {
	out := captureOutput(t)
	s := &stubExec{}

	runScript(t, s, "frobnicate\nexit\n")

	require.Empty(t, s.calls)
	joined := strings.Join(*out, "\n")
	require.Contains(t, joined, "Unknown command")
}

func TestREPL_HelpVariesWithLoginState(t *testing.T) {
	out := captureOutput(t)

	runScript(t, &stubExec{}, "help\nexit\n")
	loggedOut := strings.Join(*out, "\n")
	require.Contains(t, loggedOut, "register")
	require.NotContains(t, loggedOut, "watch")

	*out = nil
	runScript(t, &stubExec{loggedIn: true}, "help\nexit\n")
	loggedIn := strings.Join(*out, "\n")
	require.Contains(t, loggedIn, "watch")
}

func TestREPL_ExitsOnEOF(t *testing.T) {
	captureOutput(t)
	s := &stubExec{}

	// No exit command; the reader just runs dry.
	runScript(t, s, "list\n")

	require.Equal(t, []string{"list"}, s.calls)
}

func TestREPL_BlankLinesIgnored(t *testing.T) {
	captureOutput(t)
	s := &stubExec{}

	runScript(t, s, "\n\nlogin\nexit\n")

	require.Equal(t, []string{"login"}, s.calls)
}

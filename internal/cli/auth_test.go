package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dkalnins/trackdesk/internal/api"
	"github.com/dkalnins/trackdesk/internal/config"
	"github.com/dkalnins/trackdesk/internal/credentials"
	"github.com/dkalnins/trackdesk/internal/issues"
	"github.com/dkalnins/trackdesk/internal/logging"
	"github.com/dkalnins/trackdesk/internal/models"
	"github.com/dkalnins/trackdesk/internal/session"
	"github.com/dkalnins/trackdesk/internal/store"
	"github.com/dkalnins/trackdesk/internal/theme"
)

// fakeAPI implements api.Client for command tests.
type fakeAPI struct {
	LoginRet    models.Token
	LoginErr    error
	RegisterRet models.Token
	RegisterErr error

	LastLogin    models.UserLogin
	LastRegister models.UserCreate
}

func (f *fakeAPI) Login(ctx context.Context, creds models.UserLogin) (models.Token, error) {
	f.LastLogin = creds
	return f.LoginRet, f.LoginErr
}

func (f *fakeAPI) Register(ctx context.Context, user models.UserCreate) (models.Token, error) {
	f.LastRegister = user
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeAPI) ListIssues(ctx context.Context) ([]models.Issue, error) { return nil, nil }
func (f *fakeAPI) GetIssue(ctx context.Context, id int64) (models.Issue, error) {
	return models.Issue{}, nil
}
func (f *fakeAPI) CreateIssue(ctx context.Context, p io.Reader, ct string) (models.Issue, error) {
	return models.Issue{}, nil
}
func (f *fakeAPI) UpdateIssue(ctx context.Context, id int64, u models.IssueUpdate) (models.Issue, error) {
	return models.Issue{}, nil
}
func (f *fakeAPI) DailyStats(ctx context.Context) ([]models.DailyStat, error) { return nil, nil }
func (f *fakeAPI) SeverityStats(ctx context.Context) (models.SeverityStats, error) {
	return nil, nil
}
func (f *fakeAPI) Analytics(ctx context.Context) (models.AnalyticsStats, error) {
	return models.AnalyticsStats{}, nil
}

func newTestApp(t *testing.T, client api.Client, script string) *App {
	t.Helper()
	ctx := context.Background()
	kv := store.NewMemoryKV()
	creds := credentials.New(kv)
	sess := session.New(creds)

	cfg := &config.Config{}
	cfg.LoadDefaults()

	app := &App{
		config: cfg,
		log:    logging.NewNopLogger(),
		creds:  creds,
		sess:   sess,
		client: client,
		themes: theme.NewManager(ctx, kv, nil),
		reader: bufio.NewReader(strings.NewReader(script)),
		kv:     kv,
		closer: func() error { return nil },
	}
	app.vm = issues.New(client, sess, nil)
	return app
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := readPassword
	readPassword = func(fd int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = orig })
}

func testToken(t *testing.T, userID int64, role string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": float64(userID),
		"role":    role,
	})
	signed, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)
	return signed
}

func TestLogin_PersistsTokenAndHydratesSession(t *testing.T) {
	captureOutput(t)
	stubPassword(t, "pw")

	client := &fakeAPI{LoginRet: models.Token{
		AccessToken: testToken(t, 42, "MAINTAINER"),
		TokenType:   "bearer",
	}}
	app := newTestApp(t, client, "maintainer@example.com\n")
	ctx := context.Background()

	require.NoError(t, app.Login(ctx))

	require.Equal(t, "maintainer@example.com", client.LastLogin.Email)
	require.Equal(t, "pw", client.LastLogin.Password)

	stored, ok := app.creds.Read(ctx)
	require.True(t, ok)
	require.Equal(t, client.LoginRet.AccessToken, stored)

	user, ok := app.sess.CurrentUser()
	require.True(t, ok)
	require.Equal(t, int64(42), user.ID)
	require.Equal(t, models.RoleMaintainer, user.Role)
}

func TestLogin_InvalidEmailRejectedBeforeNetwork(t *testing.T) {
	captureOutput(t)
	stubPassword(t, "pw")

	client := &fakeAPI{}
	app := newTestApp(t, client, "not-an-email\n")

	require.Error(t, app.Login(context.Background()))
	require.Empty(t, client.LastLogin.Email, "gateway must not be called with invalid input")
	require.False(t, app.sess.IsAuthenticated(context.Background()))
}

func TestLogin_FailureLeavesSessionUntouched(t *testing.T) {
	captureOutput(t)
	stubPassword(t, "wrong")

	client := &fakeAPI{LoginErr: &api.StatusError{Status: 401, Message: "Invalid credentials"}}
	app := newTestApp(t, client, "user@example.com\n")
	ctx := context.Background()

	require.Error(t, app.Login(ctx))
	require.False(t, app.sess.IsAuthenticated(ctx))
	_, ok := app.sess.CurrentUser()
	require.False(t, ok)
}

func TestRegister_LogsStraightIn(t *testing.T) {
	captureOutput(t)
	stubPassword(t, "pw")

	client := &fakeAPI{RegisterRet: models.Token{
		AccessToken: testToken(t, 7, "REPORTER"),
		TokenType:   "bearer",
	}}
	app := newTestApp(t, client, "new@example.com\nNew User\n")
	ctx := context.Background()

	require.NoError(t, app.Register(ctx))

	require.Equal(t, "new@example.com", client.LastRegister.Email)
	require.Equal(t, "New User", client.LastRegister.FullName)
	require.True(t, app.sess.IsAuthenticated(ctx))

	user, ok := app.sess.CurrentUser()
	require.True(t, ok)
	require.Equal(t, models.RoleReporter, user.Role)
}

func TestLogout_AlwaysSucceeds(t *testing.T) {
	captureOutput(t)

	app := newTestApp(t, &fakeAPI{}, "")
	ctx := context.Background()

	require.NoError(t, app.Logout(ctx))
	require.NoError(t, app.Logout(ctx))
	require.False(t, app.sess.IsAuthenticated(ctx))
}

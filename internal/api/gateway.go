package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dkalnins/trackdesk/internal/credentials"
	"github.com/dkalnins/trackdesk/internal/logging"
	"github.com/dkalnins/trackdesk/internal/models"
)

const defaultTimeout = 15 * time.Second

// Gateway is the HTTP implementation of Client.
type Gateway struct {
	baseURL string
	http    *http.Client
	creds   *credentials.Store
	log     logging.Logger

	// onUnauthorized fires after any 401/403 response, once per response.
	// The application wires it to Session.Logout so stale tokens do not
	// linger; the gateway itself never touches session state.
	onUnauthorized func()
}

// NewGateway builds a gateway for the given base URL (ending in /api). A
// nil httpClient gets a default with a request timeout.
func NewGateway(baseURL string, creds *credentials.Store, log logging.Logger, httpClient *http.Client) *Gateway {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		creds:   creds,
		log:     log.With("component", "gateway"),
	}
}

// SetOnUnauthorized registers the forced-logout hook. Call before issuing
// requests; not safe to swap concurrently with calls in flight.
func (g *Gateway) SetOnUnauthorized(fn func()) {
	g.onUnauthorized = fn
}

// newRequest assembles an outbound request. The bearer header is attached
// only when a token is currently stored, read freshly per call; contentType
// is set only when non-empty so multipart payloads keep their own
// boundary-aware type.
func (g *Gateway) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token, ok := g.creds.Read(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do executes the request and returns the response body. Transport-level
// failures come back as ErrNetwork, non-2xx statuses as *StatusError.
func (g *Gateway) do(req *http.Request) ([]byte, error) {
	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrNetwork, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := newStatusError(resp.StatusCode, body)
		if (resp.StatusCode == 401 || resp.StatusCode == 403) && g.onUnauthorized != nil {
			g.log.Warn(req.Context(), "authorization rejected, forcing logout", "status", resp.StatusCode)
			g.onUnauthorized()
		}
		return nil, serr
	}
	return body, nil
}

func (g *Gateway) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	return g.sendJSON(ctx, http.MethodPost, path, payload)
}

func (g *Gateway) sendJSON(ctx context.Context, method, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s body: %w", path, err)
	}
	req, err := g.newRequest(ctx, method, path, bytes.NewReader(data), "application/json")
	if err != nil {
		return nil, err
	}
	return g.do(req)
}

func (g *Gateway) getJSON(ctx context.Context, path string) ([]byte, error) {
	req, err := g.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	return g.do(req)
}

// decode unmarshals into out, classifying parse failures as ErrDecode.
func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

func (g *Gateway) Register(ctx context.Context, user models.UserCreate) (models.Token, error) {
	var token models.Token
	body, err := g.postJSON(ctx, "/auth/register", user)
	if err != nil {
		return token, err
	}
	if err := decode(body, &token); err != nil {
		return models.Token{}, err
	}
	return token, nil
}

func (g *Gateway) Login(ctx context.Context, creds models.UserLogin) (models.Token, error) {
	var token models.Token
	body, err := g.postJSON(ctx, "/auth/login", creds)
	if err != nil {
		return token, err
	}
	if err := decode(body, &token); err != nil {
		return models.Token{}, err
	}
	return token, nil
}

func (g *Gateway) ListIssues(ctx context.Context) ([]models.Issue, error) {
	body, err := g.getJSON(ctx, "/issues")
	if err != nil {
		return nil, err
	}
	var issues []models.Issue
	if err := decode(body, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

func (g *Gateway) GetIssue(ctx context.Context, id int64) (models.Issue, error) {
	var issue models.Issue
	body, err := g.getJSON(ctx, fmt.Sprintf("/issues/%d", id))
	if err != nil {
		return issue, err
	}
	if err := decode(body, &issue); err != nil {
		return models.Issue{}, err
	}
	return issue, nil
}

func (g *Gateway) CreateIssue(ctx context.Context, payload io.Reader, contentType string) (models.Issue, error) {
	var issue models.Issue
	req, err := g.newRequest(ctx, http.MethodPost, "/issues", payload, contentType)
	if err != nil {
		return issue, err
	}
	body, err := g.do(req)
	if err != nil {
		return issue, err
	}
	if err := decode(body, &issue); err != nil {
		return models.Issue{}, err
	}
	return issue, nil
}

func (g *Gateway) UpdateIssue(ctx context.Context, id int64, update models.IssueUpdate) (models.Issue, error) {
	var issue models.Issue
	body, err := g.sendJSON(ctx, http.MethodPatch, fmt.Sprintf("/issues/%d", id), update)
	if err != nil {
		return issue, err
	}
	if err := decode(body, &issue); err != nil {
		return models.Issue{}, err
	}
	return issue, nil
}

func (g *Gateway) DailyStats(ctx context.Context) ([]models.DailyStat, error) {
	body, err := g.getJSON(ctx, "/stats/daily")
	if err != nil {
		return nil, err
	}
	var stats []models.DailyStat
	if err := decode(body, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (g *Gateway) SeverityStats(ctx context.Context) (models.SeverityStats, error) {
	body, err := g.getJSON(ctx, "/stats/severity")
	if err != nil {
		return nil, err
	}
	var stats models.SeverityStats
	if err := decode(body, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (g *Gateway) Analytics(ctx context.Context) (models.AnalyticsStats, error) {
	var stats models.AnalyticsStats
	body, err := g.getJSON(ctx, "/stats/analytics")
	if err != nil {
		return stats, err
	}
	if err := decode(body, &stats); err != nil {
		return models.AnalyticsStats{}, err
	}
	return stats, nil
}

var _ Client = (*Gateway)(nil)

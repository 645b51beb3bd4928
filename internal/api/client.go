// Package api is the request gateway: it builds every REST call to the
// tracker backend, attaches the bearer token when one is stored, and maps
// failures onto a small error taxonomy. It never mutates session or
// view-model state; results are handed back fully decoded or not at all.
package api

import (
	"context"
	"io"

	"github.com/dkalnins/trackdesk/internal/models"
)

// Client is the remote operation surface consumed by the CLI and the issue
// view model. *Gateway is the production implementation; tests substitute
// fakes.
type Client interface {
	Register(ctx context.Context, user models.UserCreate) (models.Token, error)
	Login(ctx context.Context, creds models.UserLogin) (models.Token, error)

	ListIssues(ctx context.Context) ([]models.Issue, error)
	GetIssue(ctx context.Context, id int64) (models.Issue, error)
	// CreateIssue forwards a pre-built multipart payload untouched. The
	// content type comes from the payload's own multipart writer so the
	// boundary always matches the body.
	CreateIssue(ctx context.Context, payload io.Reader, contentType string) (models.Issue, error)
	UpdateIssue(ctx context.Context, id int64, update models.IssueUpdate) (models.Issue, error)

	DailyStats(ctx context.Context) ([]models.DailyStat, error)
	SeverityStats(ctx context.Context) (models.SeverityStats, error)
	Analytics(ctx context.Context) (models.AnalyticsStats, error)
}

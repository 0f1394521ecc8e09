// Package platform abstracts the two REST dialects (GitHub-style, Gitea-style)
// behind a single capability interface. The dialect is chosen once at startup;
// callers never branch on the platform kind except where a capability is
// entirely absent on one side.
package platform

import (
	"context"
	"net/http"
	"time"
)

// Kind identifies a REST dialect.
type Kind string

const (
	// KindGitHub is the GitHub-style dialect.
	KindGitHub Kind = "github"
	// KindGitea is the Gitea-style dialect.
	KindGitea Kind = "gitea"
)

// BodyKind tags which variant of a body a rendered-HTML fetch targets. The
// variant determines which API endpoint serves the rendered form.
type BodyKind string

const (
	BodyIssueComment  BodyKind = "issue_comment"
	BodyReviewComment BodyKind = "review_comment"
	BodyReviewBody    BodyKind = "review_body"
	BodyIssueBody     BodyKind = "issue_body"
	BodyPRBody        BodyKind = "pr_body"
)

// Issue is the normalized issue entity.
type Issue struct {
	Number      int
	Title       string
	Body        string
	AuthorLogin string
	State       string
	CreatedAt   string
}

// PullRequest is the normalized pull request entity.
type PullRequest struct {
	Number      int
	Title       string
	Body        string
	AuthorLogin string
	State       string
	CreatedAt   string
	BaseRef     string
	HeadRef     string
	HeadSHA     string
	Additions   int
	Deletions   int
}

// IssueComment is a top-level comment on an issue or pull request.
type IssueComment struct {
	ID          int64
	Body        string
	AuthorLogin string
	CreatedAt   string
}

// ReviewComment is an inline comment attached to a review.
type ReviewComment struct {
	ID          int64
	Body        string
	AuthorLogin string
	Path        string
	Line        int
	CreatedAt   string
}

// Review is a pull request review with its inline comments.
type Review struct {
	ID          int64
	Body        string
	AuthorLogin string
	State       string
	SubmittedAt string
	Comments    []ReviewComment
}

// ChangedFile describes one file touched by a pull request.
type ChangedFile struct {
	Path       string
	Additions  int
	Deletions  int
	ChangeType string // added, modified, deleted, renamed
}

// User is a platform account.
type User struct {
	Login string
	Name  string
}

// Branch is a remote branch and its head commit.
type Branch struct {
	Name    string
	HeadSHA string
}

// Client is the capability interface over one REST dialect. It performs pure
// request/response mapping: every operation may fail with a transport error
// that is surfaced raw to the caller, never retried or interpreted.
type Client interface {
	Kind() Kind

	GetIssue(ctx context.Context, number int) (*Issue, error)
	GetPullRequest(ctx context.Context, number int) (*PullRequest, error)
	ListIssueComments(ctx context.Context, number int) ([]IssueComment, error)
	ListReviews(ctx context.Context, number int) ([]Review, error)
	ListPullFiles(ctx context.Context, number int) ([]ChangedFile, error)

	GetUser(ctx context.Context, login string) (*User, error)
	GetCollaboratorPermission(ctx context.Context, login string) (string, error)
	IsCollaborator(ctx context.Context, login string) (bool, error)

	GetBranch(ctx context.Context, name string) (*Branch, error)
	DeleteBranch(ctx context.Context, name string) error

	// RenderedBody fetches the server-side HTML rendering of a body. number is
	// the owning issue/PR number (used by the body and review variants), id the
	// comment or review identifier. Review variants are GitHub-only; the Gitea
	// dialect fails with ErrUnsupportedCapability.
	RenderedBody(ctx context.Context, kind BodyKind, number int, id int64) (string, error)

	CreateComment(ctx context.Context, number int, body string) (int64, error)
	UpdateComment(ctx context.Context, commentID int64, body string) error
}

// Options configures a dialect client.
type Options struct {
	Kind       Kind
	APIBase    string // e.g. https://api.github.com or https://gitea.example.com/api/v1
	Owner      string
	Repo       string
	Token      string
	HTTPClient *http.Client
}

// New constructs the client for the configured dialect.
func New(opts Options) (Client, error) {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Kind == KindGitea {
		return newGiteaClient(opts), nil
	}
	return newGitHubClient(opts)
}

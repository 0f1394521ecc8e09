package platform

import (
	"context"
	"fmt"
	"strings"
)

// giteaClient implements Client for the Gitea-style dialect. No SDK is used;
// every operation maps onto the Gitea REST surface through the shared helper.
type giteaClient struct {
	rest  *restClient
	owner string
	repo  string
}

func newGiteaClient(opts Options) *giteaClient {
	return &giteaClient{
		rest: &restClient{
			http:   opts.HTTPClient,
			base:   strings.TrimSuffix(opts.APIBase, "/"),
			token:  opts.Token,
			scheme: "token",
			accept: "application/json",
		},
		owner: opts.Owner,
		repo:  opts.Repo,
	}
}

func (c *giteaClient) Kind() Kind { return KindGitea }

type giteaUser struct {
	Login    string `json:"login"`
	FullName string `json:"full_name"`
}

type giteaIssue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	User      giteaUser `json:"user"`
	State     string    `json:"state"`
	CreatedAt string    `json:"created_at"`
}

type giteaPull struct {
	giteaIssue
	Base struct {
		Ref string `json:"ref"`
		SHA string `json:"sha"`
	} `json:"base"`
	Head struct {
		Ref string `json:"ref"`
		SHA string `json:"sha"`
	} `json:"head"`
	// Present on newer Gitea versions only; zero when absent.
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

type giteaComment struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	User      giteaUser `json:"user"`
	CreatedAt string    `json:"created_at"`
}

type giteaReview struct {
	ID          int64     `json:"id"`
	Body        string    `json:"body"`
	User        giteaUser `json:"user"`
	State       string    `json:"state"`
	SubmittedAt string    `json:"submitted_at"`
}

type giteaReviewComment struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	User      giteaUser `json:"user"`
	Path      string    `json:"path"`
	CreatedAt string    `json:"created_at"`
}

type giteaFile struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

type giteaBranch struct {
	Name   string `json:"name"`
	Commit struct {
		ID string `json:"id"`
	} `json:"commit"`
}

func (c *giteaClient) repoPath(format string, args ...interface{}) string {
	return fmt.Sprintf("/repos/%s/%s", c.owner, c.repo) + fmt.Sprintf(format, args...)
}

func (c *giteaClient) GetIssue(ctx context.Context, number int) (*Issue, error) {
	var issue giteaIssue
	if err := c.rest.get(ctx, c.repoPath("/issues/%d", number), "", &issue); err != nil {
		return nil, err
	}
	return &Issue{
		Number:      issue.Number,
		Title:       issue.Title,
		Body:        issue.Body,
		AuthorLogin: issue.User.Login,
		State:       issue.State,
		CreatedAt:   issue.CreatedAt,
	}, nil
}

func (c *giteaClient) GetPullRequest(ctx context.Context, number int) (*PullRequest, error) {
	var pr giteaPull
	if err := c.rest.get(ctx, c.repoPath("/pulls/%d", number), "", &pr); err != nil {
		return nil, err
	}
	return &PullRequest{
		Number:      pr.Number,
		Title:       pr.Title,
		Body:        pr.Body,
		AuthorLogin: pr.User.Login,
		State:       pr.State,
		CreatedAt:   pr.CreatedAt,
		BaseRef:     pr.Base.Ref,
		HeadRef:     pr.Head.Ref,
		HeadSHA:     pr.Head.SHA,
		Additions:   pr.Additions,
		Deletions:   pr.Deletions,
	}, nil
}

func (c *giteaClient) ListIssueComments(ctx context.Context, number int) ([]IssueComment, error) {
	var comments []giteaComment
	if err := c.rest.get(ctx, c.repoPath("/issues/%d/comments", number), "", &comments); err != nil {
		return nil, err
	}
	out := make([]IssueComment, 0, len(comments))
	for _, cm := range comments {
		out = append(out, IssueComment{
			ID:          cm.ID,
			Body:        cm.Body,
			AuthorLogin: cm.User.Login,
			CreatedAt:   cm.CreatedAt,
		})
	}
	return out, nil
}

func (c *giteaClient) ListReviews(ctx context.Context, number int) ([]Review, error) {
	var reviews []giteaReview
	if err := c.rest.get(ctx, c.repoPath("/pulls/%d/reviews", number), "", &reviews); err != nil {
		return nil, err
	}
	out := make([]Review, 0, len(reviews))
	for _, rv := range reviews {
		review := Review{
			ID:          rv.ID,
			Body:        rv.Body,
			AuthorLogin: rv.User.Login,
			State:       rv.State,
			SubmittedAt: rv.SubmittedAt,
		}
		var comments []giteaReviewComment
		if err := c.rest.get(ctx, c.repoPath("/pulls/%d/reviews/%d/comments", number, rv.ID), "", &comments); err != nil {
			return nil, err
		}
		for _, rc := range comments {
			review.Comments = append(review.Comments, ReviewComment{
				ID:          rc.ID,
				Body:        rc.Body,
				AuthorLogin: rc.User.Login,
				Path:        rc.Path,
				CreatedAt:   rc.CreatedAt,
			})
		}
		out = append(out, review)
	}
	return out, nil
}

func (c *giteaClient) ListPullFiles(ctx context.Context, number int) ([]ChangedFile, error) {
	var files []giteaFile
	if err := c.rest.get(ctx, c.repoPath("/pulls/%d/files", number), "", &files); err != nil {
		return nil, err
	}
	out := make([]ChangedFile, 0, len(files))
	for _, f := range files {
		out = append(out, ChangedFile{
			Path:       f.Filename,
			Additions:  f.Additions,
			Deletions:  f.Deletions,
			ChangeType: normalizeChangeType(f.Status),
		})
	}
	return out, nil
}

func (c *giteaClient) GetUser(ctx context.Context, login string) (*User, error) {
	var user giteaUser
	if err := c.rest.get(ctx, "/users/"+login, "", &user); err != nil {
		return nil, err
	}
	return &User{Login: user.Login, Name: user.FullName}, nil
}

func (c *giteaClient) GetCollaboratorPermission(ctx context.Context, login string) (string, error) {
	var out struct {
		Permission string `json:"permission"`
	}
	if err := c.rest.get(ctx, c.repoPath("/collaborators/%s/permission", login), "", &out); err != nil {
		return "", err
	}
	return out.Permission, nil
}

// IsCollaborator maps the 204/404 membership probe onto a boolean.
func (c *giteaClient) IsCollaborator(ctx context.Context, login string) (bool, error) {
	err := c.rest.get(ctx, c.repoPath("/collaborators/%s", login), "", nil)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c *giteaClient) GetBranch(ctx context.Context, name string) (*Branch, error) {
	var branch giteaBranch
	if err := c.rest.get(ctx, c.repoPath("/branches/%s", name), "", &branch); err != nil {
		return nil, err
	}
	return &Branch{Name: branch.Name, HeadSHA: branch.Commit.ID}, nil
}

// DeleteBranch uses the direct branch-deletion endpoint the Gitea dialect has.
func (c *giteaClient) DeleteBranch(ctx context.Context, name string) error {
	return c.rest.delete(ctx, c.repoPath("/branches/%s", name))
}

// RenderedBody renders a body to HTML through the markdown endpoint. Review
// bodies and review comments have no rendered form on Gitea; those variants
// fail with ErrUnsupportedCapability so callers can treat the gap as benign.
func (c *giteaClient) RenderedBody(ctx context.Context, kind BodyKind, number int, id int64) (string, error) {
	var raw string
	switch kind {
	case BodyIssueBody, BodyPRBody:
		issue, err := c.GetIssue(ctx, number)
		if err != nil {
			return "", err
		}
		raw = issue.Body
	case BodyIssueComment:
		var comment giteaComment
		if err := c.rest.get(ctx, c.repoPath("/issues/comments/%d", id), "", &comment); err != nil {
			return "", err
		}
		raw = comment.Body
	case BodyReviewBody, BodyReviewComment:
		return "", fmt.Errorf("render %s: %w", kind, ErrUnsupportedCapability)
	default:
		return "", fmt.Errorf("unknown body kind: %s", kind)
	}

	return c.renderMarkdown(ctx, raw)
}

// renderMarkdown posts through /markdown, which answers with raw HTML rather
// than a JSON envelope.
func (c *giteaClient) renderMarkdown(ctx context.Context, text string) (string, error) {
	body := map[string]interface{}{
		"text":    text,
		"mode":    "gfm",
		"context": c.owner + "/" + c.repo,
	}
	html, err := c.rest.postRaw(ctx, "/markdown", body)
	if err != nil {
		return "", err
	}
	return html, nil
}

func (c *giteaClient) CreateComment(ctx context.Context, number int, body string) (int64, error) {
	var out giteaComment
	payload := map[string]string{"body": body}
	if err := c.rest.post(ctx, c.repoPath("/issues/%d/comments", number), payload, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (c *giteaClient) UpdateComment(ctx context.Context, commentID int64, body string) error {
	payload := map[string]string{"body": body}
	return c.rest.patch(ctx, c.repoPath("/issues/comments/%d", commentID), payload, nil)
}

package platform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
)

const githubDotComAPI = "https://api.github.com"

// githubClient implements Client for the GitHub-style dialect. Most operations
// go through go-github; the rendered-HTML endpoints are not modeled by the SDK
// and use the shared REST helper with the html media type.
type githubClient struct {
	gh    *github.Client
	rest  *restClient
	owner string
	repo  string
}

func newGitHubClient(opts Options) (*githubClient, error) {
	base := strings.TrimSuffix(opts.APIBase, "/")
	if base == "" {
		base = githubDotComAPI
	}

	gh := github.NewClient(opts.HTTPClient)
	if base != githubDotComAPI {
		var err error
		gh, err = gh.WithEnterpriseURLs(base, base)
		if err != nil {
			return nil, fmt.Errorf("configure enterprise API base %q: %w", base, err)
		}
	}
	if opts.Token != "" {
		gh = gh.WithAuthToken(opts.Token)
	}

	return &githubClient{
		gh: gh,
		rest: &restClient{
			http:   opts.HTTPClient,
			base:   base,
			token:  opts.Token,
			scheme: "Bearer",
			accept: "application/vnd.github+json",
		},
		owner: opts.Owner,
		repo:  opts.Repo,
	}, nil
}

func (c *githubClient) Kind() Kind { return KindGitHub }

func (c *githubClient) GetIssue(ctx context.Context, number int) (*Issue, error) {
	issue, resp, err := c.gh.Issues.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return nil, ghError(resp, err)
	}
	return &Issue{
		Number:      issue.GetNumber(),
		Title:       issue.GetTitle(),
		Body:        issue.GetBody(),
		AuthorLogin: issue.GetUser().GetLogin(),
		State:       issue.GetState(),
		CreatedAt:   issue.GetCreatedAt().Format(time.RFC3339),
	}, nil
}

func (c *githubClient) GetPullRequest(ctx context.Context, number int) (*PullRequest, error) {
	pr, resp, err := c.gh.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return nil, ghError(resp, err)
	}
	return &PullRequest{
		Number:      pr.GetNumber(),
		Title:       pr.GetTitle(),
		Body:        pr.GetBody(),
		AuthorLogin: pr.GetUser().GetLogin(),
		State:       pr.GetState(),
		CreatedAt:   pr.GetCreatedAt().Format(time.RFC3339),
		BaseRef:     pr.GetBase().GetRef(),
		HeadRef:     pr.GetHead().GetRef(),
		HeadSHA:     pr.GetHead().GetSHA(),
		Additions:   pr.GetAdditions(),
		Deletions:   pr.GetDeletions(),
	}, nil
}

func (c *githubClient) ListIssueComments(ctx context.Context, number int) ([]IssueComment, error) {
	var all []IssueComment
	opts := &github.IssueListCommentsOptions{ListOptions: github.ListOptions{PerPage: 100}}
	for {
		comments, resp, err := c.gh.Issues.ListComments(ctx, c.owner, c.repo, number, opts)
		if err != nil {
			return nil, ghError(resp, err)
		}
		for _, cm := range comments {
			all = append(all, IssueComment{
				ID:          cm.GetID(),
				Body:        cm.GetBody(),
				AuthorLogin: cm.GetUser().GetLogin(),
				CreatedAt:   cm.GetCreatedAt().Format(time.RFC3339),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

func (c *githubClient) ListReviews(ctx context.Context, number int) ([]Review, error) {
	var all []Review
	opts := &github.ListOptions{PerPage: 100}
	for {
		reviews, resp, err := c.gh.PullRequests.ListReviews(ctx, c.owner, c.repo, number, opts)
		if err != nil {
			return nil, ghError(resp, err)
		}
		for _, rv := range reviews {
			review := Review{
				ID:          rv.GetID(),
				Body:        rv.GetBody(),
				AuthorLogin: rv.GetUser().GetLogin(),
				State:       rv.GetState(),
				SubmittedAt: rv.GetSubmittedAt().Format(time.RFC3339),
			}
			review.Comments, err = c.listReviewComments(ctx, number, rv.GetID())
			if err != nil {
				return nil, err
			}
			all = append(all, review)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

func (c *githubClient) listReviewComments(ctx context.Context, number int, reviewID int64) ([]ReviewComment, error) {
	var all []ReviewComment
	opts := &github.ListOptions{PerPage: 100}
	for {
		comments, resp, err := c.gh.PullRequests.ListReviewComments(ctx, c.owner, c.repo, number, reviewID, opts)
		if err != nil {
			return nil, ghError(resp, err)
		}
		for _, rc := range comments {
			all = append(all, ReviewComment{
				ID:          rc.GetID(),
				Body:        rc.GetBody(),
				AuthorLogin: rc.GetUser().GetLogin(),
				Path:        rc.GetPath(),
				Line:        rc.GetLine(),
				CreatedAt:   rc.GetCreatedAt().Format(time.RFC3339),
			})
		}
		if resp.NextPage == 0 {
			return all, nil
		}
		opts.Page = resp.NextPage
	}
}

func (c *githubClient) ListPullFiles(ctx context.Context, number int) ([]ChangedFile, error) {
	var all []ChangedFile
	opts := &github.ListOptions{PerPage: 100}
	for {
		files, resp, err := c.gh.PullRequests.ListFiles(ctx, c.owner, c.repo, number, opts)
		if err != nil {
			return nil, ghError(resp, err)
		}
		for _, f := range files {
			all = append(all, ChangedFile{
				Path:       f.GetFilename(),
				Additions:  f.GetAdditions(),
				Deletions:  f.GetDeletions(),
				ChangeType: normalizeChangeType(f.GetStatus()),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

func (c *githubClient) GetUser(ctx context.Context, login string) (*User, error) {
	user, resp, err := c.gh.Users.Get(ctx, login)
	if err != nil {
		return nil, ghError(resp, err)
	}
	return &User{Login: user.GetLogin(), Name: user.GetName()}, nil
}

func (c *githubClient) GetCollaboratorPermission(ctx context.Context, login string) (string, error) {
	perm, resp, err := c.gh.Repositories.GetPermissionLevel(ctx, c.owner, c.repo, login)
	if err != nil {
		return "", ghError(resp, err)
	}
	return perm.GetPermission(), nil
}

func (c *githubClient) IsCollaborator(ctx context.Context, login string) (bool, error) {
	ok, resp, err := c.gh.Repositories.IsCollaborator(ctx, c.owner, c.repo, login)
	if err != nil {
		return false, ghError(resp, err)
	}
	return ok, nil
}

func (c *githubClient) GetBranch(ctx context.Context, name string) (*Branch, error) {
	branch, resp, err := c.gh.Repositories.GetBranch(ctx, c.owner, c.repo, name, 0)
	if err != nil {
		return nil, ghError(resp, err)
	}
	return &Branch{Name: branch.GetName(), HeadSHA: branch.GetCommit().GetSHA()}, nil
}

// DeleteBranch removes the branch via a git-ref deletion, which is how the
// GitHub dialect spells branch removal.
func (c *githubClient) DeleteBranch(ctx context.Context, name string) error {
	resp, err := c.gh.Git.DeleteRef(ctx, c.owner, c.repo, "heads/"+name)
	if err != nil {
		return ghError(resp, err)
	}
	return nil
}

const githubHTMLAccept = "application/vnd.github.html+json"

// RenderedBody fetches the server-side HTML rendering of a body using the html
// media type. All five variants exist on GitHub.
func (c *githubClient) RenderedBody(ctx context.Context, kind BodyKind, number int, id int64) (string, error) {
	var path string
	switch kind {
	case BodyIssueBody:
		path = fmt.Sprintf("/repos/%s/%s/issues/%d", c.owner, c.repo, number)
	case BodyPRBody:
		path = fmt.Sprintf("/repos/%s/%s/pulls/%d", c.owner, c.repo, number)
	case BodyIssueComment:
		path = fmt.Sprintf("/repos/%s/%s/issues/comments/%d", c.owner, c.repo, id)
	case BodyReviewComment:
		path = fmt.Sprintf("/repos/%s/%s/pulls/comments/%d", c.owner, c.repo, id)
	case BodyReviewBody:
		path = fmt.Sprintf("/repos/%s/%s/pulls/%d/reviews/%d", c.owner, c.repo, number, id)
	default:
		return "", fmt.Errorf("unknown body kind: %s", kind)
	}

	var out struct {
		BodyHTML string `json:"body_html"`
	}
	if err := c.rest.get(ctx, path, githubHTMLAccept, &out); err != nil {
		return "", err
	}
	return out.BodyHTML, nil
}

func (c *githubClient) CreateComment(ctx context.Context, number int, body string) (int64, error) {
	comment, resp, err := c.gh.Issues.CreateComment(ctx, c.owner, c.repo, number, &github.IssueComment{Body: github.String(body)})
	if err != nil {
		return 0, ghError(resp, err)
	}
	return comment.GetID(), nil
}

func (c *githubClient) UpdateComment(ctx context.Context, commentID int64, body string) error {
	_, resp, err := c.gh.Issues.EditComment(ctx, c.owner, c.repo, commentID, &github.IssueComment{Body: github.String(body)})
	if err != nil {
		return ghError(resp, err)
	}
	return nil
}

// ghError converts a go-github failure into *APIError when a status code is
// available so both dialects surface transport errors the same way.
func ghError(resp *github.Response, err error) error {
	if err == nil {
		return nil
	}
	if resp != nil && resp.Response != nil {
		url := ""
		if resp.Request != nil && resp.Request.URL != nil {
			url = resp.Request.URL.String()
		}
		return &APIError{StatusCode: resp.StatusCode, URL: url, Body: err.Error()}
	}
	return err
}

// normalizeChangeType maps dialect-specific file statuses onto one vocabulary.
func normalizeChangeType(status string) string {
	switch strings.ToLower(status) {
	case "removed", "deleted":
		return "deleted"
	case "added":
		return "added"
	case "renamed":
		return "renamed"
	default:
		return "modified"
	}
}

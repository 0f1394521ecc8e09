package taskctx

import (
	"context"
	"log/slog"

	"github.com/jason-webcomm/claude-code-gitea-action/internal/platform"
)

// Hasher computes a file's git blob hash from its current on-disk bytes.
// Satisfied by *gitexec.Git.
type Hasher interface {
	HashObject(path string) (string, error)
}

// Fetcher retrieves and normalizes the entity, comments and changed files.
type Fetcher struct {
	client platform.Client
	hasher Hasher
	logger *slog.Logger
}

// NewFetcher constructs a Fetcher.
func NewFetcher(client platform.Client, hasher Hasher, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{client: client, hasher: hasher, logger: logger}
}

// Fetch acquires the task context for the given entity. A primary-entity fetch
// failure is fatal and returns a *FatalFetchError; the comment, review and
// changed-file sub-fetches degrade to empty lists on failure so the agent still
// receives whatever context is available.
func (f *Fetcher) Fetch(ctx context.Context, number int, isPR bool) (*Result, error) {
	entity, err := f.fetchEntity(ctx, number, isPR)
	if err != nil {
		return nil, &FatalFetchError{Err: err}
	}

	comments := f.fetchComments(ctx, number)
	reviews := f.fetchReviews(ctx, number, isPR)

	var files []FileWithSHA
	if isPR {
		files = f.fetchFilesWithSHA(ctx, number)
	}

	return &Result{
		Entity:   entity,
		Comments: assembleWorkingSet(entity, comments, reviews),
		Files:    files,
	}, nil
}

func (f *Fetcher) fetchEntity(ctx context.Context, number int, isPR bool) (*Entity, error) {
	if isPR {
		pr, err := f.client.GetPullRequest(ctx, number)
		if err != nil {
			return nil, err
		}
		return &Entity{
			IsPR:        true,
			Number:      pr.Number,
			Title:       pr.Title,
			Body:        pr.Body,
			AuthorLogin: pr.AuthorLogin,
			State:       pr.State,
			CreatedAt:   pr.CreatedAt,
			BaseRef:     pr.BaseRef,
			HeadRef:     pr.HeadRef,
			HeadSHA:     pr.HeadSHA,
			Additions:   pr.Additions,
			Deletions:   pr.Deletions,
		}, nil
	}

	issue, err := f.client.GetIssue(ctx, number)
	if err != nil {
		return nil, err
	}
	return &Entity{
		Number:      issue.Number,
		Title:       issue.Title,
		Body:        issue.Body,
		AuthorLogin: issue.AuthorLogin,
		State:       issue.State,
		CreatedAt:   issue.CreatedAt,
	}, nil
}

func (f *Fetcher) fetchComments(ctx context.Context, number int) []platform.IssueComment {
	comments, err := f.client.ListIssueComments(ctx, number)
	if err != nil {
		f.logger.Warn("comment fetch degraded to empty", "number", number, "error", err)
		return nil
	}
	return comments
}

func (f *Fetcher) fetchReviews(ctx context.Context, number int, isPR bool) []platform.Review {
	if !isPR {
		return nil
	}
	reviews, err := f.client.ListReviews(ctx, number)
	if err != nil {
		f.logger.Warn("review fetch degraded to empty", "number", number, "error", err)
		return nil
	}
	return reviews
}

func (f *Fetcher) fetchFilesWithSHA(ctx context.Context, number int) []FileWithSHA {
	files, err := f.client.ListPullFiles(ctx, number)
	if err != nil {
		f.logger.Warn("changed-file fetch degraded to empty", "number", number, "error", err)
		return nil
	}

	out := make([]FileWithSHA, 0, len(files))
	for _, file := range files {
		if file.ChangeType == "deleted" {
			out = append(out, FileWithSHA{ChangedFile: file, SHA: SHADeleted})
			continue
		}
		sha, err := f.hasher.HashObject(file.Path)
		if err != nil {
			f.logger.Warn("hashing failed, recording unknown", "path", file.Path, "error", err)
			out = append(out, FileWithSHA{ChangedFile: file, SHA: SHAUnknown})
			continue
		}
		out = append(out, FileWithSHA{ChangedFile: file, SHA: sha})
	}
	return out
}

// assembleWorkingSet builds the full comment set the attachment resolver will
// scan: the entity's own body, all top-level comments, review bodies, and
// review-level comments. Empty bodies never enter the set.
func assembleWorkingSet(entity *Entity, comments []platform.IssueComment, reviews []platform.Review) []Comment {
	var set []Comment

	bodyKind := platform.BodyIssueBody
	if entity.IsPR {
		bodyKind = platform.BodyPRBody
	}
	if entity.Body != "" {
		set = append(set, Comment{
			Kind:        bodyKind,
			ID:          int64(entity.Number),
			Number:      entity.Number,
			Body:        entity.Body,
			AuthorLogin: entity.AuthorLogin,
			CreatedAt:   entity.CreatedAt,
		})
	}

	for _, cm := range comments {
		if cm.Body == "" {
			continue
		}
		set = append(set, Comment{
			Kind:        platform.BodyIssueComment,
			ID:          cm.ID,
			Number:      entity.Number,
			Body:        cm.Body,
			AuthorLogin: cm.AuthorLogin,
			CreatedAt:   cm.CreatedAt,
		})
	}

	for _, rv := range reviews {
		if rv.Body != "" {
			set = append(set, Comment{
				Kind:        platform.BodyReviewBody,
				ID:          rv.ID,
				Number:      entity.Number,
				Body:        rv.Body,
				AuthorLogin: rv.AuthorLogin,
				CreatedAt:   rv.SubmittedAt,
			})
		}
		for _, rc := range rv.Comments {
			if rc.Body == "" {
				continue
			}
			set = append(set, Comment{
				Kind:        platform.BodyReviewComment,
				ID:          rc.ID,
				Number:      entity.Number,
				Body:        rc.Body,
				AuthorLogin: rc.AuthorLogin,
				CreatedAt:   rc.CreatedAt,
				Path:        rc.Path,
				Line:        rc.Line,
			})
		}
	}

	return set
}

// Package taskctx acquires and normalizes the task context the agent runs
// against: the issue or pull request entity, its comments, and (for PRs) the
// changed files with content hashes.
package taskctx

import (
	"fmt"

	"github.com/jason-webcomm/claude-code-gitea-action/internal/platform"
)

// Entity is the normalized issue or pull request. It is built once from the
// first successful API response and never mutated afterwards. The PR-only
// fields are zero for issues.
type Entity struct {
	IsPR        bool
	Number      int
	Title       string
	Body        string
	AuthorLogin string
	State       string
	CreatedAt   string

	BaseRef   string
	HeadRef   string
	HeadSHA   string
	Additions int
	Deletions int
}

// Comment is one entry of the working set the attachment resolver scans. Kind
// tags which variant it is and so which endpoint serves its rendered HTML. ID
// is the comment/review identifier; for the body variants it is the owning
// entity number.
type Comment struct {
	Kind        platform.BodyKind
	ID          int64
	Number      int
	Body        string
	AuthorLogin string
	CreatedAt   string

	// Review-comment placement, informational only.
	Path string
	Line int
}

// FileWithSHA augments a changed file with its computed blob hash. The hash is
// "deleted" for removed files and "unknown" when hashing fails; both are valid
// terminal values, not errors.
type FileWithSHA struct {
	platform.ChangedFile
	SHA string
}

const (
	// SHADeleted marks a file removed by the PR.
	SHADeleted = "deleted"
	// SHAUnknown marks a file whose on-disk hash could not be computed.
	SHAUnknown = "unknown"
)

// Result is everything the fetch produced.
type Result struct {
	Entity   *Entity
	Comments []Comment
	Files    []FileWithSHA
}

// FatalFetchError wraps a primary-entity fetch failure. It aborts context
// acquisition entirely; degraded sub-fetches never produce it.
type FatalFetchError struct {
	Err error
}

func (e *FatalFetchError) Error() string {
	return fmt.Sprintf("fatal context fetch failure: %v", e.Err)
}

func (e *FatalFetchError) Unwrap() error { return e.Err }

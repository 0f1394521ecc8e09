// Package comment maintains the tracking comment the action keeps updated on
// the issue or pull request while the agent works.
package comment

import (
	"context"
	"fmt"
	"strings"

	"github.com/jason-webcomm/claude-code-gitea-action/internal/platform"
)

const spinner = `<img src="https://github.com/user-attachments/assets/5ac382c7-e004-429b-8e35-7feb3e8f9c6f" width="14px" /> `

// Tracker creates and updates the coordination comment on one entity.
type Tracker struct {
	client    platform.Client
	number    int
	commentID int64
}

// NewTracker creates a comment tracker for the given issue/PR number.
func NewTracker(client platform.Client, number int) *Tracker {
	return &Tracker{client: client, number: number}
}

// CreateInitial posts the working comment and remembers its ID.
func (t *Tracker) CreateInitial(ctx context.Context) (int64, error) {
	id, err := t.client.CreateComment(ctx, t.number, initialBody())
	if err != nil {
		return 0, fmt.Errorf("create tracking comment: %w", err)
	}
	t.commentID = id
	return id, nil
}

// Update replaces the tracking comment body.
func (t *Tracker) Update(ctx context.Context, body string) error {
	if t.commentID == 0 {
		return fmt.Errorf("comment not created")
	}
	return t.client.UpdateComment(ctx, t.commentID, body)
}

// CommentID returns the tracking comment's ID, zero before CreateInitial.
func (t *Tracker) CommentID() int64 { return t.commentID }

func initialBody() string {
	return spinner + `Working on your request...

### Tasks
- [ ] Analyzing request
- [ ] Making changes
- [ ] Testing

---
[Job Run](#) | [Branch](#)`
}

// FormatResult builds the final comment body for a finished run. branchLink
// may be empty when the working branch was deleted or never created.
func FormatResult(summary, jobRunURL, branchLink string) string {
	var b strings.Builder
	b.WriteString(summary)
	b.WriteString("\n\n---\n")
	if branchLink != "" {
		fmt.Fprintf(&b, "[Job Run](%s) | [Branch](%s)", jobRunURL, branchLink)
	} else {
		fmt.Fprintf(&b, "[Job Run](%s)", jobRunURL)
	}
	return b.String()
}

// FormatChecklist renders tasks as a markdown checklist.
func FormatChecklist(tasks []string, completed []bool) string {
	if len(tasks) == 0 {
		return ""
	}
	var b strings.Builder
	for i, task := range tasks {
		if i > 0 {
			b.WriteByte('\n')
		}
		done := i < len(completed) && completed[i]
		if done {
			b.WriteString("- [x] ")
		} else {
			b.WriteString("- [ ] ")
		}
		b.WriteString(task)
	}
	return b.String()
}

// RemoveSpinner strips the working spinner from a comment body.
func RemoveSpinner(text string) string {
	text = strings.ReplaceAll(text, spinner, "")
	return strings.ReplaceAll(text, strings.TrimRight(spinner, " "), "")
}

package taskctx

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jason-webcomm/claude-code-gitea-action/internal/platform"
)

// FormatContext renders the fetched context as the markdown document handed to
// the agent. imageMap rewrites original attachment URLs to the local files the
// resolver downloaded; a nil map leaves bodies untouched.
func FormatContext(result *Result, imageMap map[string]string) string {
	var b strings.Builder

	entity := result.Entity
	if entity.IsPR {
		fmt.Fprintf(&b, "PR Title: %s\nPR Author: %s\nPR Branch: %s -> %s\nPR State: %s\nPR Additions: %d\nPR Deletions: %d\n",
			entity.Title, entity.AuthorLogin, entity.HeadRef, entity.BaseRef, entity.State, entity.Additions, entity.Deletions)
	} else {
		fmt.Fprintf(&b, "Issue Title: %s\nIssue Author: %s\nIssue State: %s\n",
			entity.Title, entity.AuthorLogin, entity.State)
	}

	if body := formatBody(entity.Body, imageMap); body != "" {
		b.WriteString("\nBody:\n")
		b.WriteString(body)
		b.WriteString("\n")
	}

	if comments := formatComments(result.Comments, imageMap); comments != "" {
		b.WriteString("\nComments:\n")
		b.WriteString(comments)
		b.WriteString("\n")
	}

	if len(result.Files) > 0 {
		b.WriteString("\nChanged Files:\n")
		b.WriteString(FormatChangedFilesWithSHA(result.Files))
		b.WriteString("\n")
	}

	return b.String()
}

func formatBody(body string, imageMap map[string]string) string {
	// Longest originals first: a URL that is a proper prefix of another (same
	// attachment, different query) must not clobber the longer one.
	originals := make([]string, 0, len(imageMap))
	for orig := range imageMap {
		originals = append(originals, orig)
	}
	sort.Slice(originals, func(i, j int) bool {
		if len(originals[i]) != len(originals[j]) {
			return len(originals[i]) > len(originals[j])
		}
		return originals[i] < originals[j]
	})
	for _, orig := range originals {
		body = strings.ReplaceAll(body, orig, imageMap[orig])
	}
	return SanitizeContent(body)
}

// formatComments renders the working set minus the entity body, which is
// already printed as the Body section.
func formatComments(comments []Comment, imageMap map[string]string) string {
	var out []string
	for _, c := range comments {
		if c.Kind == platform.BodyIssueBody || c.Kind == platform.BodyPRBody {
			continue
		}
		body := formatBody(c.Body, imageMap)
		if body == "" {
			continue
		}
		switch c.Kind {
		case platform.BodyReviewBody:
			out = append(out, fmt.Sprintf("[Review by %s at %s]: %s", c.AuthorLogin, c.CreatedAt, body))
		case platform.BodyReviewComment:
			out = append(out, fmt.Sprintf("[Comment on %s:%d by %s]: %s", c.Path, c.Line, c.AuthorLogin, body))
		default:
			out = append(out, fmt.Sprintf("[%s at %s]: %s", c.AuthorLogin, c.CreatedAt, body))
		}
	}
	return strings.Join(out, "\n\n")
}

// FormatChangedFilesWithSHA returns a line-based list summarizing file changes
// and their content hashes.
func FormatChangedFilesWithSHA(files []FileWithSHA) string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, fmt.Sprintf("- %s (%s) +%d/-%d SHA: %s", f.Path, f.ChangeType, f.Additions, f.Deletions, f.SHA))
	}
	return strings.Join(out, "\n")
}

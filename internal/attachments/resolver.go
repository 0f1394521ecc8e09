package attachments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/jason-webcomm/claude-code-gitea-action/internal/platform"
	"github.com/jason-webcomm/claude-code-gitea-action/internal/taskctx"
)

// Resolver downloads the images referenced by a comment working set.
type Resolver struct {
	client     platform.Client
	httpClient *http.Client
	scratchDir string
	bodyRe     func(body string) []string
	signedRe   func(html string) []string
	logger     *slog.Logger
	now        func() time.Time
	seq        int // download ordinal, the index part of generated filenames
}

// NewResolver constructs a Resolver for the given dialect and server URL.
// scratchDir is created on first use if absent.
func NewResolver(client platform.Client, serverURL, scratchDir string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	bodyPattern := BodyImagePattern(client.Kind(), serverURL)
	signedPattern := SignedURLPattern(client.Kind(), serverURL)
	return &Resolver{
		client:     client,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		scratchDir: scratchDir,
		bodyRe:     func(body string) []string { return ExtractBodyImageURLs(bodyPattern, body) },
		signedRe:   func(html string) []string { return ExtractSignedURLs(signedPattern, html) },
		logger:     logger,
		now:        time.Now,
	}
}

// Resolve scans every comment for attachment references and downloads each one
// at most once. The returned map goes from original (access-restricted) URL to
// local file path. Per-comment and per-image failures are logged and skipped;
// only a scratch-directory failure aborts.
func (r *Resolver) Resolve(ctx context.Context, comments []taskctx.Comment) (map[string]string, error) {
	downloaded := make(map[string]string)
	if err := r.ResolveInto(ctx, comments, downloaded); err != nil {
		return nil, err
	}
	return downloaded, nil
}

// ResolveInto resolves attachments into an existing map. URLs already present
// as keys are never fetched again, so repeated resolution over the same map is
// idempotent.
func (r *Resolver) ResolveInto(ctx context.Context, comments []taskctx.Comment, downloaded map[string]string) error {
	if err := os.MkdirAll(r.scratchDir, 0o755); err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}

	for _, comment := range comments {
		bodyURLs := r.bodyRe(comment.Body)
		if len(bodyURLs) == 0 {
			continue
		}

		html, err := r.client.RenderedBody(ctx, comment.Kind, comment.Number, comment.ID)
		if err != nil {
			if errors.Is(err, platform.ErrUnsupportedCapability) {
				r.logger.Info("HTML rendering unsupported for variant, skipping its images",
					"kind", comment.Kind, "id", comment.ID)
			} else {
				r.logger.Warn("rendered-body fetch failed, skipping comment",
					"kind", comment.Kind, "id", comment.ID, "error", err)
			}
			continue
		}

		signedURLs := r.signedRe(html)

		// Pair strictly by position up to the shorter list. The two lists are
		// assumed to enumerate the same images in the same order; there is no
		// identifier linking them.
		n := len(bodyURLs)
		if len(signedURLs) < n {
			n = len(signedURLs)
		}
		for i := 0; i < n; i++ {
			original := bodyURLs[i]
			if _, ok := downloaded[original]; ok {
				continue
			}
			local, err := r.download(ctx, signedURLs[i], original)
			if err != nil {
				r.logger.Warn("image download failed, skipping",
					"url", original, "error", err)
				continue
			}
			downloaded[original] = local
		}
	}

	return nil
}

func (r *Resolver) download(ctx context.Context, signedURL, originalURL string) (string, error) {
	// The ordinal keeps filenames unique even when two downloads land in the
	// same millisecond.
	filename := fmt.Sprintf("image-%d-%d%s", r.now().UnixMilli(), r.seq, extensionFor(originalURL))
	r.seq++
	local := filepath.Join(r.scratchDir, filename)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, signedURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
	}

	file, err := os.Create(local)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(file, resp.Body); err != nil {
		_ = file.Close()
		_ = os.Remove(local)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(local)
		return "", fmt.Errorf("write file: %w", err)
	}
	return local, nil
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// extensionFor derives a file extension from the original URL's trailing path
// segment, defaulting to .png when no recognized image extension is present.
func extensionFor(original string) string {
	segment := original
	if parsed, err := url.Parse(original); err == nil {
		segment = parsed.Path
	} else if idx := strings.IndexAny(segment, "?#"); idx >= 0 {
		segment = segment[:idx]
	}
	ext := strings.ToLower(path.Ext(segment))
	if imageExtensions[ext] {
		return ext
	}
	return ".png"
}

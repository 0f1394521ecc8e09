package attachments

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jason-webcomm/claude-code-gitea-action/internal/platform"
	"github.com/jason-webcomm/claude-code-gitea-action/internal/taskctx"
)

// newGiteaFixture returns a resolver wired against an httptest server that
// plays both the forge (serverURL) and the attachment host, plus a hit counter.
func newGiteaFixture(t *testing.T, client *platform.MockClient) (*Resolver, string, *atomic.Int64) {
	t.Helper()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("fail") != "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("truncate") != "" {
			// Promise more bytes than are sent so the body read fails midway.
			w.Header().Set("Content-Length", "4096")
			_, _ = w.Write([]byte("partial"))
			return
		}
		_, _ = w.Write([]byte("image-bytes:" + r.URL.Path))
	}))
	t.Cleanup(srv.Close)

	client.KindValue = platform.KindGitea
	scratch := t.TempDir()
	return NewResolver(client, srv.URL, scratch, slog.Default()), srv.URL, &hits
}

func TestResolveDownloadsPairedImages(t *testing.T) {
	client := &platform.MockClient{}
	resolver, server, _ := newGiteaFixture(t, client)

	client.RenderedBodyFunc = func(ctx context.Context, kind platform.BodyKind, number int, id int64) (string, error) {
		return fmt.Sprintf(`<p><a href="%s/attachments/one"><img src="x"></a> <a href="%s/attachments/two"></a></p>`, server, server), nil
	}

	comments := []taskctx.Comment{{
		Kind:   platform.BodyIssueComment,
		ID:     7,
		Number: 3,
		Body:   fmt.Sprintf("look: ![a](%s/attachments/one) and ![b](%s/attachments/two)", server, server),
	}}

	imageMap, err := resolver.Resolve(context.Background(), comments)
	require.NoError(t, err)
	require.Len(t, imageMap, 2)

	for original, local := range imageMap {
		data, err := os.ReadFile(local)
		require.NoError(t, err, "downloaded file for %s", original)
		assert.NotEmpty(t, data)
		assert.Equal(t, ".png", filepath.Ext(local), "extension defaults to png")
	}
}

func TestResolveMapNeverExceedsShorterList(t *testing.T) {
	client := &platform.MockClient{}
	resolver, server, _ := newGiteaFixture(t, client)

	// Rendered HTML exposes only one signed URL for two markdown references.
	client.RenderedBodyFunc = func(ctx context.Context, kind platform.BodyKind, number int, id int64) (string, error) {
		return fmt.Sprintf(`<a href="%s/attachments/one">`, server), nil
	}

	comments := []taskctx.Comment{{
		Kind: platform.BodyIssueComment,
		ID:   7,
		Body: fmt.Sprintf("![a](%s/attachments/one) ![b](%s/attachments/two)", server, server),
	}}

	imageMap, err := resolver.Resolve(context.Background(), comments)
	require.NoError(t, err)
	assert.Len(t, imageMap, 1)
}

func TestResolveSkipsRenderWhenNoReferences(t *testing.T) {
	client := &platform.MockClient{}
	resolver, _, hits := newGiteaFixture(t, client)

	comments := []taskctx.Comment{
		{Kind: platform.BodyIssueComment, ID: 1, Body: "no images here"},
		{Kind: platform.BodyIssueComment, ID: 2, Body: "![external](https://elsewhere.example/cat.png)"},
	}

	imageMap, err := resolver.Resolve(context.Background(), comments)
	require.NoError(t, err)
	assert.Empty(t, imageMap)
	assert.Empty(t, client.RenderedBodyCalls, "rendered-body endpoint must not be hit")
	assert.Zero(t, hits.Load())
}

func TestResolveDeduplicatesByOriginalURL(t *testing.T) {
	client := &platform.MockClient{}
	resolver, server, hits := newGiteaFixture(t, client)

	client.RenderedBodyFunc = func(ctx context.Context, kind platform.BodyKind, number int, id int64) (string, error) {
		return fmt.Sprintf(`<a href="%s/attachments/one">`, server), nil
	}

	body := fmt.Sprintf("![a](%s/attachments/one)", server)
	comments := []taskctx.Comment{
		{Kind: platform.BodyIssueComment, ID: 1, Body: body},
		{Kind: platform.BodyIssueComment, ID: 2, Body: body},
	}

	imageMap, err := resolver.Resolve(context.Background(), comments)
	require.NoError(t, err)
	assert.Len(t, imageMap, 1)
	assert.Equal(t, int64(1), hits.Load(), "second reference must reuse the first download")
}

func TestResolveIntoIsIdempotentAcrossInvocations(t *testing.T) {
	client := &platform.MockClient{}
	resolver, server, hits := newGiteaFixture(t, client)

	client.RenderedBodyFunc = func(ctx context.Context, kind platform.BodyKind, number int, id int64) (string, error) {
		return fmt.Sprintf(`<a href="%s/attachments/one">`, server), nil
	}

	comments := []taskctx.Comment{{
		Kind: platform.BodyIssueComment,
		ID:   1,
		Body: fmt.Sprintf("![a](%s/attachments/one)", server),
	}}

	imageMap, err := resolver.Resolve(context.Background(), comments)
	require.NoError(t, err)
	require.Len(t, imageMap, 1)
	firstPath := imageMap[server+"/attachments/one"]
	firstHits := hits.Load()

	require.NoError(t, resolver.ResolveInto(context.Background(), comments, imageMap))
	assert.Len(t, imageMap, 1)
	assert.Equal(t, firstPath, imageMap[server+"/attachments/one"], "existing entry must not be overwritten")
	assert.Equal(t, firstHits, hits.Load(), "no re-download on the second pass")
}

func TestResolveDistinctQueryParamsAreDistinctImages(t *testing.T) {
	client := &platform.MockClient{}
	resolver, server, _ := newGiteaFixture(t, client)

	client.RenderedBodyFunc = func(ctx context.Context, kind platform.BodyKind, number int, id int64) (string, error) {
		return fmt.Sprintf(`<a href="%s/attachments/img?v=1"> <a href="%s/attachments/img?v=2">`, server, server), nil
	}

	comments := []taskctx.Comment{{
		Kind: platform.BodyIssueComment,
		ID:   1,
		Body: fmt.Sprintf("![a](%s/attachments/img?v=1) ![b](%s/attachments/img?v=2)", server, server),
	}}

	imageMap, err := resolver.Resolve(context.Background(), comments)
	require.NoError(t, err)
	assert.Len(t, imageMap, 2)
}

func TestResolveSamePositionAcrossCommentsStaysDistinct(t *testing.T) {
	client := &platform.MockClient{}
	resolver, server, _ := newGiteaFixture(t, client)

	// Each comment carries one image at pair position zero; the originals
	// differ only in a query parameter.
	client.RenderedBodyFunc = func(ctx context.Context, kind platform.BodyKind, number int, id int64) (string, error) {
		return fmt.Sprintf(`<a href="%s/attachments/img?c=%d">`, server, id), nil
	}

	comments := []taskctx.Comment{
		{Kind: platform.BodyIssueComment, ID: 1, Body: fmt.Sprintf("![a](%s/attachments/img?c=1)", server)},
		{Kind: platform.BodyIssueComment, ID: 2, Body: fmt.Sprintf("![b](%s/attachments/img?c=2)", server)},
	}

	imageMap, err := resolver.Resolve(context.Background(), comments)
	require.NoError(t, err)
	require.Len(t, imageMap, 2)
	assert.NotEqual(t, imageMap[server+"/attachments/img?c=1"], imageMap[server+"/attachments/img?c=2"],
		"local paths must stay distinct even when downloads land in the same millisecond")
}

func TestResolveSkipsUnsupportedRenderVariant(t *testing.T) {
	client := &platform.MockClient{}
	resolver, server, _ := newGiteaFixture(t, client)

	client.RenderedBodyFunc = func(ctx context.Context, kind platform.BodyKind, number int, id int64) (string, error) {
		if kind == platform.BodyReviewComment {
			return "", fmt.Errorf("render %s: %w", kind, platform.ErrUnsupportedCapability)
		}
		return fmt.Sprintf(`<a href="%s/attachments/one">`, server), nil
	}

	comments := []taskctx.Comment{
		{Kind: platform.BodyReviewComment, ID: 1, Body: fmt.Sprintf("![a](%s/attachments/skipped)", server)},
		{Kind: platform.BodyIssueComment, ID: 2, Body: fmt.Sprintf("![a](%s/attachments/one)", server)},
	}

	imageMap, err := resolver.Resolve(context.Background(), comments)
	require.NoError(t, err, "unsupported variants degrade, they do not abort")
	assert.Len(t, imageMap, 1)
}

func TestResolveSkipsFailedRenderAndDownload(t *testing.T) {
	client := &platform.MockClient{}
	resolver, server, _ := newGiteaFixture(t, client)

	client.RenderedBodyFunc = func(ctx context.Context, kind platform.BodyKind, number int, id int64) (string, error) {
		if id == 1 {
			return "", fmt.Errorf("http 500")
		}
		// The attachment host rejects this one.
		return fmt.Sprintf(`<a href="%s/attachments/broken?fail=1">`, server), nil
	}

	comments := []taskctx.Comment{
		{Kind: platform.BodyIssueComment, ID: 1, Body: fmt.Sprintf("![a](%s/attachments/one)", server)},
		{Kind: platform.BodyIssueComment, ID: 2, Body: fmt.Sprintf("![b](%s/attachments/broken)", server)},
	}

	imageMap, err := resolver.Resolve(context.Background(), comments)
	require.NoError(t, err)
	assert.Empty(t, imageMap, "failed comments and downloads are skipped, not fatal")
}

func TestResolveFailedWriteLeavesNoPartialFile(t *testing.T) {
	client := &platform.MockClient{}
	resolver, server, _ := newGiteaFixture(t, client)

	client.RenderedBodyFunc = func(ctx context.Context, kind platform.BodyKind, number int, id int64) (string, error) {
		return fmt.Sprintf(`<a href="%s/attachments/big?truncate=1">`, server), nil
	}

	comments := []taskctx.Comment{{
		Kind: platform.BodyIssueComment,
		ID:   1,
		Body: fmt.Sprintf("![a](%s/attachments/big)", server),
	}}

	imageMap, err := resolver.Resolve(context.Background(), comments)
	require.NoError(t, err)
	assert.Empty(t, imageMap)

	entries, err := os.ReadDir(resolver.scratchDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "aborted download must not leave a partial file")
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://host/attachments/uuid", ".png"},
		{"https://host/attachments/shot.jpg", ".jpg"},
		{"https://host/attachments/shot.JPEG", ".jpeg"},
		{"https://host/attachments/shot.gif?token=abc", ".gif"},
		{"https://host/attachments/archive.tar.gz", ".png"},
		{"https://host/user-attachments/assets/abc-def", ".png"},
	}
	for _, tt := range tests {
		if got := extensionFor(tt.url); got != tt.want {
			t.Errorf("extensionFor(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

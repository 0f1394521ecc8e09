package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newGitHubTestClient points the SDK at an httptest server. The non-default
// base makes the client take the enterprise path, which mounts the API under
// /api/v3/.
func newGitHubTestClient(t *testing.T, handler http.Handler) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Options{
		Kind:    KindGitHub,
		APIBase: srv.URL,
		Owner:   "acme",
		Repo:    "widgets",
		Token:   "tok",
	})
	require.NoError(t, err)
	return client
}

func TestGitHubListReviewsPaginates(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/acme/widgets/pulls/7/reviews", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<%s/api/v3/repos/acme/widgets/pulls/7/reviews?page=2>; rel="next"`, srvURL))
			_ = json.NewEncoder(w).Encode([]map[string]interface{}{
				{"id": 200, "body": "first page", "user": map[string]string{"login": "dave"}},
			})
		case "2":
			_ = json.NewEncoder(w).Encode([]map[string]interface{}{
				{"id": 201, "body": "second page", "user": map[string]string{"login": "erin"}},
			})
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	})
	mux.HandleFunc("/api/v3/repos/acme/widgets/pulls/7/reviews/200/comments", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 300, "body": "nit", "user": map[string]string{"login": "dave"}, "path": "main.go"},
		})
	})
	mux.HandleFunc("/api/v3/repos/acme/widgets/pulls/7/reviews/201/comments", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	srvURL = srv.URL

	client, err := New(Options{
		Kind:    KindGitHub,
		APIBase: srv.URL,
		Owner:   "acme",
		Repo:    "widgets",
		Token:   "tok",
	})
	require.NoError(t, err)

	reviews, err := client.ListReviews(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, reviews, 2, "both pages must be collected")
	assert.Equal(t, int64(200), reviews[0].ID)
	assert.Equal(t, int64(201), reviews[1].ID)
	require.Len(t, reviews[0].Comments, 1)
	assert.Equal(t, "main.go", reviews[0].Comments[0].Path)
	assert.Empty(t, reviews[1].Comments)
}

func TestGitHubRenderedBodyUsesHTMLMediaType(t *testing.T) {
	// Rendered-HTML fetches go through the raw REST helper, which uses the
	// configured base as-is.
	client := newGitHubTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/issues/comments/100", r.URL.Path)
		assert.Equal(t, githubHTMLAccept, r.Header.Get("Accept"))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"body_html": `<p><a href="https://private-user-images.githubusercontent.com/1/2.png?jwt=abc"></a></p>`,
		})
	}))

	html, err := client.RenderedBody(context.Background(), BodyIssueComment, 0, 100)
	require.NoError(t, err)
	assert.Contains(t, html, "jwt=abc")
}

// Package attachments resolves access-restricted inline images referenced in
// comment bodies: it extracts the markdown attachment URLs, pulls the signed
// time-limited download URLs out of the rendered HTML, pairs the two lists
// positionally, and downloads the images into a scratch directory.
package attachments

import (
	"regexp"
	"strings"

	"github.com/jason-webcomm/claude-code-gitea-action/internal/platform"
)

// BodyImagePattern returns the pattern matching markdown image syntax whose
// target lives under the platform's attachment path prefix. It is a pure
// function of the server URL and dialect; nothing is read from ambient state.
func BodyImagePattern(kind platform.Kind, serverURL string) *regexp.Regexp {
	server := regexp.QuoteMeta(strings.TrimSuffix(serverURL, "/"))
	if kind == platform.KindGitea {
		return regexp.MustCompile(`!\[[^\]]*\]\((` + server + `/attachments/[^)\s]+)\)`)
	}
	return regexp.MustCompile(`!\[[^\]]*\]\((` + server + `/user-attachments/assets/[^)\s]+)\)`)
}

// SignedURLPattern returns the pattern matching the signed, token-bearing
// download URLs embedded in a rendered-HTML body.
func SignedURLPattern(kind platform.Kind, serverURL string) *regexp.Regexp {
	if kind == platform.KindGitea {
		server := regexp.QuoteMeta(strings.TrimSuffix(serverURL, "/"))
		return regexp.MustCompile(server + `/attachments/[^"'\s<>]+`)
	}
	return regexp.MustCompile(`https://private-user-images\.githubusercontent\.com/[^"'\s<>]+\?jwt=[^"'\s<>]+`)
}

// ExtractBodyImageURLs returns the ordered attachment URLs in a plain markdown
// body.
func ExtractBodyImageURLs(re *regexp.Regexp, body string) []string {
	var urls []string
	for _, match := range re.FindAllStringSubmatch(body, -1) {
		urls = append(urls, match[1])
	}
	return urls
}

// ExtractSignedURLs returns the ordered signed download URLs in a rendered
// HTML body.
func ExtractSignedURLs(re *regexp.Regexp, html string) []string {
	return re.FindAllString(html, -1)
}

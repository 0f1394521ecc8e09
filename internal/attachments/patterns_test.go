package attachments

import (
	"reflect"
	"testing"

	"github.com/jason-webcomm/claude-code-gitea-action/internal/platform"
)

func TestBodyImagePatternGitHub(t *testing.T) {
	re := BodyImagePattern(platform.KindGitHub, "https://github.com")

	body := "before ![screenshot](https://github.com/user-attachments/assets/abc-123) after\n" +
		"![](https://github.com/user-attachments/assets/def-456)\n" +
		"not ours ![x](https://example.com/user-attachments/assets/zzz)"

	got := ExtractBodyImageURLs(re, body)
	want := []string{
		"https://github.com/user-attachments/assets/abc-123",
		"https://github.com/user-attachments/assets/def-456",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBodyImagePatternGitea(t *testing.T) {
	re := BodyImagePattern(platform.KindGitea, "https://gitea.example.com/")

	body := "![img](https://gitea.example.com/attachments/550e8400-e29b) plain link https://gitea.example.com/attachments/other"

	got := ExtractBodyImageURLs(re, body)
	want := []string{"https://gitea.example.com/attachments/550e8400-e29b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSignedURLPatternGitHub(t *testing.T) {
	re := SignedURLPattern(platform.KindGitHub, "https://github.com")

	html := `<a href="https://private-user-images.githubusercontent.com/12345/67890-abc.png?jwt=eyJhbGciOi.header.sig" target="_blank">` +
		`<img src="https://private-user-images.githubusercontent.com/12345/67890-abc.png?jwt=eyJhbGciOi.header.sig"></a>` +
		`<a href="https://private-user-images.githubusercontent.com/12345/unsigned.png">no jwt</a>`

	got := ExtractSignedURLs(re, html)
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2: %v", len(got), got)
	}
	for _, u := range got {
		if u != "https://private-user-images.githubusercontent.com/12345/67890-abc.png?jwt=eyJhbGciOi.header.sig" {
			t.Errorf("unexpected match %q", u)
		}
	}
}

func TestSignedURLPatternGiteaStopsAtDelimiters(t *testing.T) {
	re := SignedURLPattern(platform.KindGitea, "https://gitea.example.com")

	html := `<a href="https://gitea.example.com/attachments/one">x</a> <img src='https://gitea.example.com/attachments/two'>`
	got := ExtractSignedURLs(re, html)
	want := []string{
		"https://gitea.example.com/attachments/one",
		"https://gitea.example.com/attachments/two",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExtractBodyImageURLsPreservesOrder(t *testing.T) {
	re := BodyImagePattern(platform.KindGitea, "https://g.example")
	body := "![c](https://g.example/attachments/c) ![a](https://g.example/attachments/a) ![b](https://g.example/attachments/b)"

	got := ExtractBodyImageURLs(re, body)
	want := []string{
		"https://g.example/attachments/c",
		"https://g.example/attachments/a",
		"https://g.example/attachments/b",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order not preserved: got %v", got)
	}
}

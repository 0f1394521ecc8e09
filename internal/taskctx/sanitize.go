package taskctx

import (
	"regexp"
	"strings"
)

var (
	reHTMLComments = regexp.MustCompile(`<!--[\s\S]*?-->`)
	reInvisible    = regexp.MustCompile(`[\x{200b}\x{200c}\x{200d}\x{feff}\x{00ad}]`)
	reControl      = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x{7f}-\x{9f}]`)
	reBidi         = regexp.MustCompile(`[\x{202a}-\x{202e}\x{2066}-\x{2069}]`)

	// Token shapes that must never reach the agent prompt.
	reTokens = []*regexp.Regexp{
		regexp.MustCompile(`\bghp_[A-Za-z0-9]{36}\b`),
		regexp.MustCompile(`\bgho_[A-Za-z0-9]{36}\b`),
		regexp.MustCompile(`\bghs_[A-Za-z0-9]{36}\b`),
		regexp.MustCompile(`\bghr_[A-Za-z0-9]{36}\b`),
		regexp.MustCompile(`\bgithub_pat_[A-Za-z0-9_]{11,221}\b`),
	}
)

// StripHTMLComments removes HTML comments.
func StripHTMLComments(s string) string {
	return reHTMLComments.ReplaceAllString(s, "")
}

// StripInvisibleCharacters removes zero-width, control and bidi characters
// that could smuggle hidden instructions into the agent prompt.
func StripInvisibleCharacters(s string) string {
	s = reInvisible.ReplaceAllString(s, "")
	s = reControl.ReplaceAllString(s, "")
	return reBidi.ReplaceAllString(s, "")
}

// RedactTokens censors platform token-like strings.
func RedactTokens(s string) string {
	for _, re := range reTokens {
		s = re.ReplaceAllString(s, "[REDACTED_TOKEN]")
	}
	return s
}

// SanitizeContent applies the conservative cleaning pipeline to a comment body
// before it enters the agent context.
func SanitizeContent(s string) string {
	if s == "" {
		return s
	}
	s = StripHTMLComments(s)
	s = StripInvisibleCharacters(s)
	s = RedactTokens(s)
	return strings.TrimSpace(s)
}

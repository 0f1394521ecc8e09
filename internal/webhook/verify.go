// Package webhook receives forge webhook events and turns trigger comments
// into pipeline runs.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifySignature verifies a webhook payload signature using HMAC SHA-256 and
// constant-time comparison. GitHub sends "sha256=<hash>" in
// X-Hub-Signature-256; Gitea sends the bare hex hash in X-Gitea-Signature.
// Both forms are accepted.
func VerifySignature(payload []byte, signature, secret string) bool {
	received := strings.TrimPrefix(signature, "sha256=")
	if received == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(received), []byte(expected))
}

// SignatureHeader extracts the signature from the dialect-specific header set.
func SignatureHeader(get func(string) string) string {
	if sig := get("X-Hub-Signature-256"); sig != "" {
		return sig
	}
	return get("X-Gitea-Signature")
}

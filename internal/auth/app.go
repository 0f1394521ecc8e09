// Package auth mints installation tokens for runs configured with GitHub App
// credentials instead of a plain token.
package auth

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenProvider yields an API token for a repository.
type TokenProvider interface {
	Token(owner, repo string) (string, error)
}

// StaticToken is the trivial provider wrapping a pre-issued token.
type StaticToken string

// Token returns the wrapped token.
func (t StaticToken) Token(owner, repo string) (string, error) { return string(t), nil }

// AppAuth holds GitHub App authentication configuration.
type AppAuth struct {
	AppID      string
	PrivateKey string
	APIBase    string // defaults to https://api.github.com

	httpClient *http.Client
}

// NewAppAuth constructs an App-credential token provider.
func NewAppAuth(appID, privateKey, apiBase string) *AppAuth {
	if apiBase == "" {
		apiBase = "https://api.github.com"
	}
	return &AppAuth{
		AppID:      appID,
		PrivateKey: privateKey,
		APIBase:    apiBase,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Token mints an installation access token for the repository.
func (a *AppAuth) Token(owner, repo string) (string, error) {
	appJWT, err := a.generateJWT()
	if err != nil {
		return "", err
	}
	installationID, err := a.installationID(appJWT, owner, repo)
	if err != nil {
		return "", err
	}
	return a.installationToken(appJWT, installationID)
}

// generateJWT creates the short-lived App JWT.
func (a *AppAuth) generateJWT() (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(a.PrivateKey))
	if err != nil {
		return "", fmt.Errorf("failed to parse private key: %w", err)
	}

	appID, err := strconv.ParseInt(a.AppID, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid app ID: %w", err)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
		Issuer:    strconv.FormatInt(appID, 10),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT: %w", err)
	}
	return signed, nil
}

func (a *AppAuth) installationID(appJWT, owner, repo string) (int64, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/installation", a.APIBase, owner, repo)

	var result struct {
		ID int64 `json:"id"`
	}
	if err := a.getJSON(url, appJWT, http.MethodGet, http.StatusOK, &result); err != nil {
		return 0, fmt.Errorf("failed to get installation: %w", err)
	}
	return result.ID, nil
}

func (a *AppAuth) installationToken(appJWT string, installationID int64) (string, error) {
	url := fmt.Sprintf("%s/app/installations/%d/access_tokens", a.APIBase, installationID)

	var result struct {
		Token string `json:"token"`
	}
	if err := a.getJSON(url, appJWT, http.MethodPost, http.StatusCreated, &result); err != nil {
		return "", fmt.Errorf("failed to get access token: %w", err)
	}
	return result.Token, nil
}

func (a *AppAuth) getJSON(url, appJWT, method string, wantStatus int, out interface{}) error {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+appJWT)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	client := a.httpClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GitHub API error: %d - %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

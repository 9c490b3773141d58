// Package session obtains the bearer token a test run uses and keeps it for
// the lifetime of the run.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Gmacem/recipebook-e2e/internal/recipebook"
)

var ErrEmptyToken = errors.New("authentication token is empty")

const DefaultLoginPath = "/auth/login"

// Session is the authenticated context of a run. It is read-only once built.
type Session struct {
	BaseURL string
	Email   string
	Token   string
}

type Authenticator struct {
	client    *recipebook.Client
	loginPath string
	cache     TokenCache
	logger    *slog.Logger
}

func NewAuthenticator(client *recipebook.Client, loginPath string, cache TokenCache, logger *slog.Logger) *Authenticator {
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}
	if cache == nil {
		cache = &NoOpCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		client:    client,
		loginPath: loginPath,
		cache:     cache,
		logger:    logger,
	}
}

func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	key := cacheKey(a.client.BaseURL(), email, password)
	if token, found := a.cache.Get(ctx, key); found && token != "" {
		a.logger.Debug("Reusing cached token", "email", email)
		return &Session{BaseURL: a.client.BaseURL(), Email: email, Token: token}, nil
	}

	resp, err := a.client.Login(ctx, a.loginPath, email, password)
	if err != nil {
		return nil, fmt.Errorf("login request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login failed: status %d, body: %s", resp.StatusCode, resp.String())
	}

	var body struct {
		Token       string `json:"token"`
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}
	token := body.Token
	if token == "" {
		token = body.AccessToken
	}
	if token == "" {
		return nil, ErrEmptyToken
	}

	a.cache.Set(ctx, key, token)
	a.logger.Info("Authenticated", "email", email, "base_url", a.client.BaseURL())

	return &Session{BaseURL: a.client.BaseURL(), Email: email, Token: token}, nil
}

// cacheKey binds a cached token to the credentials that obtained it, so a
// different password always goes to the server.
func cacheKey(baseURL, email, password string) string {
	sum := sha256.Sum256([]byte(password))
	return baseURL + "|" + email + "|" + hex.EncodeToString(sum[:])
}

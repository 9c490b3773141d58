// Package testutils starts the reference recipe-book server in-process for
// tests.
package testutils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Gmacem/recipebook-e2e/internal/fixtures"
	"github.com/Gmacem/recipebook-e2e/internal/recipebook"
	"github.com/Gmacem/recipebook-e2e/internal/server"
	"github.com/Gmacem/recipebook-e2e/internal/session"
	"github.com/Gmacem/recipebook-e2e/internal/store"
	"github.com/stretchr/testify/require"
)

const (
	TestEmail     = "john.doe@example.com"
	TestPassword  = "password123"
	TestJWTSecret = "test-secret-for-recipebook"
)

type ServerOptions struct {
	// Store defaults to a fresh MemoryStore.
	Store store.Store
	// SkipFixtures starts the server without seeded data. The test user is
	// still registered.
	SkipFixtures bool
	// Wrap, when set, decorates the API handler.
	Wrap func(http.Handler) http.Handler
}

// NewServerHandler builds the reference API handler with the default
// fixtures loaded.
func NewServerHandler(t testing.TB, opts ServerOptions) http.Handler {
	t.Helper()

	s := opts.Store
	if s == nil {
		s = store.NewMemoryStore()
	}

	set, err := fixtures.Default()
	require.NoError(t, err)
	if opts.SkipFixtures {
		set = &fixtures.Set{Users: set.Users}
	}

	handler, err := server.New(context.Background(), s, server.Options{
		JWTSecret: TestJWTSecret,
		Fixtures:  set,
	})
	require.NoError(t, err)

	if opts.Wrap != nil {
		handler = opts.Wrap(handler)
	}
	return handler
}

// StartServer serves the reference API on a loopback port until the test
// ends.
func StartServer(t testing.TB, opts ServerOptions) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServerHandler(t, opts))
	t.Cleanup(srv.Close)
	return srv
}

// sharedTokens is the token cache every login in the test binary goes
// through, so a user authenticates once per server.
var sharedTokens = sync.OnceValues(func() (session.TokenCache, error) {
	return session.NewRistrettoCache(nil)
})

// TokenCache returns the process-wide token cache.
func TokenCache(t testing.TB) session.TokenCache {
	t.Helper()
	cache, err := sharedTokens()
	require.NoError(t, err)
	return cache
}

// Login authenticates the default fixture user against baseURL and returns
// a client carrying the token.
func Login(t testing.TB, baseURL string) *recipebook.Client {
	t.Helper()

	client := recipebook.NewClient(baseURL, recipebook.Options{Timeout: 10 * time.Second})
	t.Cleanup(client.Close)

	sess, err := session.NewAuthenticator(client, "", TokenCache(t), nil).
		Authenticate(context.Background(), TestEmail, TestPassword)
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)

	return client.WithToken(sess.Token)
}

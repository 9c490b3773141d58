package helpers

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Gmacem/recipebook-e2e/internal/recipebook"
	"github.com/Gmacem/recipebook-e2e/internal/session"
	"github.com/Gmacem/recipebook-e2e/internal/store"
	"github.com/Gmacem/recipebook-e2e/internal/testutils"
	"github.com/stretchr/testify/require"
)

// Environment is the API a suite talks to. With RECIPEBOOK_BASE_URL set it
// is that live service; otherwise an in-process reference server, backed by
// PostgreSQL when DATABASE_URL is set and by memory when not.
type Environment struct {
	BaseURL string
	Client  *recipebook.Client
	Live    bool
	DB      *DatabaseClient
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func NewEnvironment(t *testing.T) *Environment {
	t.Helper()

	if baseURL := os.Getenv("RECIPEBOOK_BASE_URL"); baseURL != "" {
		return &Environment{
			BaseURL: baseURL,
			Client:  login(t, baseURL),
			Live:    true,
		}
	}

	env := &Environment{}
	opts := testutils.ServerOptions{}

	if os.Getenv("DATABASE_URL") != "" {
		dbClient, err := NewDatabaseClient()
		require.NoError(t, err)
		t.Cleanup(func() { dbClient.Close() })

		require.NoError(t, store.Migrate(dbClient.GetDatabaseURL()))
		require.NoError(t, dbClient.CleanupAll())

		pg, err := store.NewPostgresStore(context.Background(), dbClient.GetDatabaseURL())
		require.NoError(t, err)
		t.Cleanup(pg.Close)

		opts.Store = pg
		env.DB = dbClient
	}

	srv := testutils.StartServer(t, opts)
	env.BaseURL = srv.URL
	env.Client = login(t, srv.URL)
	return env
}

func login(t *testing.T, baseURL string) *recipebook.Client {
	t.Helper()

	client := recipebook.NewClient(baseURL, recipebook.Options{Timeout: 30 * time.Second})
	t.Cleanup(client.Close)

	auth := session.NewAuthenticator(client, getenv("RECIPEBOOK_LOGIN_PATH", session.DefaultLoginPath), testutils.TokenCache(t), nil)
	sess, err := auth.Authenticate(context.Background(),
		getenv("RECIPEBOOK_EMAIL", testutils.TestEmail),
		getenv("RECIPEBOOK_PASSWORD", testutils.TestPassword))
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token, "Authentication token should not be null or empty")

	return client.WithToken(sess.Token)
}

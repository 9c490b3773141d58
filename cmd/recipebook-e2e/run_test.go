package main

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Gmacem/recipebook-e2e/internal/config"
	"github.com/Gmacem/recipebook-e2e/internal/lifecycle"
	"github.com/Gmacem/recipebook-e2e/internal/logger"
	"github.com/Gmacem/recipebook-e2e/internal/recipebook"
	"github.com/Gmacem/recipebook-e2e/internal/session"
	"github.com/Gmacem/recipebook-e2e/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietEnv(t *testing.T) {
	t.Helper()
	t.Setenv("RECIPEBOOK_EMAIL", testutils.TestEmail)
	t.Setenv("RECIPEBOOK_PASSWORD", testutils.TestPassword)
	t.Setenv("RECIPEBOOK_LOGIN_PATH", session.DefaultLoginPath)
	t.Setenv("RECIPEBOOK_LOG_LEVEL", "error")
	t.Setenv("RECIPEBOOK_SEED", "false")
}

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRun_AllScenariosPass(t *testing.T) {
	quietEnv(t)
	srv := testutils.StartServer(t, testutils.ServerOptions{})

	out, err := execute(t, "run", "--base-url", srv.URL)

	require.NoError(t, err, out)
	assert.Equal(t, 6, strings.Count(out, "PASS"), out)
	assert.NotContains(t, out, "FAIL")
	assert.Contains(t, out, "CategoryLifecycle")
	assert.Contains(t, out, "DeleteRecipe")
}

// emptyRecipeListing answers every recipe listing with an empty array.
func emptyRecipeListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/recipe" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[]`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func TestRun_FailingScenarioExitsWithError(t *testing.T) {
	quietEnv(t)
	srv := testutils.StartServer(t, testutils.ServerOptions{Wrap: emptyRecipeListing})

	out, err := execute(t, "run", "--base-url", srv.URL, "CategoryLifecycle", "GetAllRecipes", "GetRecipeByTitle")

	require.Error(t, err)
	assert.Equal(t, "2 of 3 scenarios failed", err.Error())
	assert.Equal(t, 1, strings.Count(out, "PASS"), out)
	assert.Equal(t, 2, strings.Count(out, "FAIL"), out)
	assert.Contains(t, out, "There should be at least 1 recipe")
	assert.Contains(t, out, lifecycle.SeededRecipeTitle)
}

func TestRun_UnknownScenario(t *testing.T) {
	quietEnv(t)
	srv := testutils.StartServer(t, testutils.ServerOptions{})

	out, err := execute(t, "run", "--base-url", srv.URL, "GetAllRecipes", "NoSuchScenario")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown scenario "NoSuchScenario"`)
	assert.Empty(t, out)
}

func TestScenariosCommand(t *testing.T) {
	quietEnv(t)

	out, err := execute(t, "scenarios")

	require.NoError(t, err)
	assert.Equal(t, "CategoryLifecycle\nGetAllRecipes\nGetRecipeByTitle\nAddRecipe\nUpdateRecipe\nDeleteRecipe\n", out)
}

func TestAuthenticatedClient_LogsInOncePerProcess(t *testing.T) {
	var logins atomic.Int32
	srv := testutils.StartServer(t, testutils.ServerOptions{
		SkipFixtures: true,
		Wrap: func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == session.DefaultLoginPath {
					logins.Add(1)
				}
				next.ServeHTTP(w, r)
			})
		},
	})

	cfg = &config.Config{
		BaseURL:   srv.URL,
		Email:     testutils.TestEmail,
		Password:  testutils.TestPassword,
		LoginPath: session.DefaultLoginPath,
		Timeout:   10 * time.Second,
	}
	log = logger.Discard()
	var err error
	tokens, err = session.NewRistrettoCache(nil)
	require.NoError(t, err)
	t.Cleanup(closeTokens)

	for i := 0; i < 3; i++ {
		client, err := authenticatedClient(context.Background())
		require.NoError(t, err)

		resp, err := client.List(context.Background(), recipebook.Category)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, int32(1), logins.Load())
}

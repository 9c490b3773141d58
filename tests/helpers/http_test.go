package helpers

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/Gmacem/recipebook-e2e/internal/recipebook"
	"github.com/Gmacem/recipebook-e2e/internal/session"
	"github.com/Gmacem/recipebook-e2e/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_SuitesShareOneSession(t *testing.T) {
	t.Setenv("RECIPEBOOK_EMAIL", testutils.TestEmail)
	t.Setenv("RECIPEBOOK_PASSWORD", testutils.TestPassword)
	t.Setenv("RECIPEBOOK_LOGIN_PATH", session.DefaultLoginPath)

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

	for _, client := range []*recipebook.Client{login(t, srv.URL), login(t, srv.URL)} {
		resp, err := client.List(context.Background(), recipebook.Recipe)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, int32(1), logins.Load())
}

package server_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/Gmacem/recipebook-e2e/internal/recipebook"
	"github.com/Gmacem/recipebook-e2e/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	srv := testutils.StartServer(t, testutils.ServerOptions{SkipFixtures: true})

	resp, err := recipebook.NewClient(srv.URL, recipebook.Options{}).HealthCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", resp.String())
}

func TestLogin(t *testing.T) {
	srv := testutils.StartServer(t, testutils.ServerOptions{SkipFixtures: true})
	client := recipebook.NewClient(srv.URL, recipebook.Options{})
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		status   int
	}{
		{name: "valid credentials", email: testutils.TestEmail, password: testutils.TestPassword, status: http.StatusOK},
		{name: "wrong password", email: testutils.TestEmail, password: "nope", status: http.StatusUnauthorized},
		{name: "unknown user", email: "jane@example.com", password: testutils.TestPassword, status: http.StatusUnauthorized},
		{name: "missing password", email: testutils.TestEmail, password: "", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.Login(ctx, "/auth/login", tt.email, tt.password)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode, resp.String())
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := testutils.StartServer(t, testutils.ServerOptions{SkipFixtures: true})
	ctx := context.Background()

	for _, token := range []string{"", "not-a-jwt"} {
		client := recipebook.NewClient(srv.URL, recipebook.Options{}).WithToken(token)

		resp, err := client.List(ctx, recipebook.Category)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, err = client.Create(ctx, recipebook.Recipe, recipebook.RecipePayload{Title: "x"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestMissingRecordsAnswerNull(t *testing.T) {
	srv := testutils.StartServer(t, testutils.ServerOptions{SkipFixtures: true})
	client := testutils.Login(t, srv.URL)
	ctx := context.Background()

	for _, res := range []recipebook.Resource{recipebook.Category, recipebook.Recipe} {
		resp, err := client.Get(ctx, res, "does-not-exist")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, resp.IsNull(), "GET %s: %s", res, resp)

		resp, err = client.Delete(ctx, res, "does-not-exist")
		require.NoError(t, err)
		assert.True(t, resp.IsNull(), "DELETE %s: %s", res, resp)
	}
}

func TestCategoryCRUD(t *testing.T) {
	srv := testutils.StartServer(t, testutils.ServerOptions{SkipFixtures: true})
	client := testutils.Login(t, srv.URL)
	ctx := context.Background()

	resp, err := client.Create(ctx, recipebook.Category, recipebook.CategoryPayload{Name: "Vegan Recipes"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	created, err := recipebook.DecodeRecord(resp.Body)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID())

	resp, err = client.Update(ctx, recipebook.Category, created.ID(), recipebook.CategoryPayload{Name: "Healthy Vegan Recipes"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.Get(ctx, recipebook.Category, created.ID())
	require.NoError(t, err)
	fetched, err := recipebook.DecodeRecord(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Healthy Vegan Recipes", fetched.String("name"))

	resp, err = client.Delete(ctx, recipebook.Category, created.ID())
	require.NoError(t, err)
	deleted, err := recipebook.DecodeRecord(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, created.ID(), deleted.ID())

	resp, err = client.List(ctx, recipebook.Category)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, resp.String())
}

func TestRecipeValidation(t *testing.T) {
	srv := testutils.StartServer(t, testutils.ServerOptions{})
	client := testutils.Login(t, srv.URL)
	ctx := context.Background()

	resp, err := client.Create(ctx, recipebook.Recipe, recipebook.RecipePayload{Category: "whatever"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "missing title")

	resp, err = client.Create(ctx, recipebook.Recipe, recipebook.RecipePayload{Title: "Orphan", Category: "no-such-category"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "unknown category")

	resp, err = client.Create(ctx, recipebook.Category, recipebook.CategoryPayload{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "missing name")
}

func TestRecipeCategoryIsPopulated(t *testing.T) {
	srv := testutils.StartServer(t, testutils.ServerOptions{})
	client := testutils.Login(t, srv.URL)
	ctx := context.Background()

	resp, err := client.List(ctx, recipebook.Recipe)
	require.NoError(t, err)
	recipes, err := recipebook.DecodeRecords(resp.Body)
	require.NoError(t, err)
	require.NotEmpty(t, recipes)

	for _, recipe := range recipes {
		category, ok := recipe.Object("category")
		require.True(t, ok, "recipe %q should carry a category object", recipe.String("title"))
		assert.NotEmpty(t, category.ID())
		assert.NotEmpty(t, category.String("name"))
	}
}

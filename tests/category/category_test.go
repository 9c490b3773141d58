package category

import (
	"context"
	"net/http"
	"testing"

	"github.com/Gmacem/recipebook-e2e/internal/lifecycle"
	"github.com/Gmacem/recipebook-e2e/internal/recipebook"
	"github.com/Gmacem/recipebook-e2e/tests/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CategoryTestSuite struct {
	suite.Suite
	env    *helpers.Environment
	runner *lifecycle.Runner
}

func (suite *CategoryTestSuite) SetupSuite() {
	suite.env = helpers.NewEnvironment(suite.T())
}

func (suite *CategoryTestSuite) SetupTest() {
	suite.runner = lifecycle.New(context.Background(), suite.T(), suite.env.Client, nil)
}

func (suite *CategoryTestSuite) TearDownTest() {
	suite.runner.Cleanup()
}

func (suite *CategoryTestSuite) TestCategoryLifecycle_RecipeBook() {
	suite.runner.Run(lifecycle.Scenario{Name: "CategoryLifecycle", Run: lifecycle.CategoryLifecycle})
}

func (suite *CategoryTestSuite) TestCreateThenGetReturnsSameName() {
	names := []string{"Soups", "Quick Weeknight Dinners", "Ünïcödé Bakes"}

	for _, name := range names {
		id := suite.runner.Create(recipebook.Category, recipebook.CategoryPayload{Name: name})
		category := suite.runner.GetByID(recipebook.Category, id)
		assert.Equal(suite.T(), name, category.String("name"))
	}
}

func (suite *CategoryTestSuite) TestListingContainsCreatedCategory() {
	id := suite.runner.Create(recipebook.Category, recipebook.CategoryPayload{Name: "Listed Category"})

	categories := suite.runner.ListAtLeast(recipebook.Category, 1)

	ids := make([]string, len(categories))
	for i, c := range categories {
		ids[i] = c.ID()
	}
	assert.Contains(suite.T(), ids, id)
}

func (suite *CategoryTestSuite) TestDeletedCategoryReturnsNull() {
	id := suite.runner.Create(recipebook.Category, recipebook.CategoryPayload{Name: "Short-lived"})
	suite.runner.Delete(recipebook.Category, id)

	resp, err := suite.env.Client.Get(context.Background(), recipebook.Category, id)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(suite.T(), "null", resp.String())

	if suite.env.DB != nil {
		exists, err := suite.env.DB.CategoryExists(id)
		require.NoError(suite.T(), err)
		assert.False(suite.T(), exists)
	}
}

func (suite *CategoryTestSuite) TestUnauthorizedWithoutToken() {
	if suite.env.Live {
		suite.T().Skip("authorization rules of a live service are not asserted")
	}

	client := recipebook.NewClient(suite.env.BaseURL, recipebook.Options{})
	defer client.Close()

	resp, err := client.List(context.Background(), recipebook.Category)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)
}

func TestCategoryTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryTestSuite))
}

package lifecycle

import (
	"github.com/Gmacem/recipebook-e2e/internal/recipebook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Seeded recipe the read scenarios expect. internal/fixtures/default.yaml
// carries the same values.
const (
	SeededRecipeTitle        = "Chocolate Chip Cookies"
	SeededRecipeCookingTime  = "25"
	SeededRecipeServings     = "24"
	SeededRecipeIngredients  = 9
	SeededRecipeInstructions = 7

	AddedRecipeTitle = "Foodyyy"
)

// Scenario is a named script of runner steps.
type Scenario struct {
	Name string
	Run  func(r *Runner)
}

// Scenarios lists every script in the order the CLI runs them. DeleteRecipe
// removes the recipe AddRecipe leaves behind.
var Scenarios = []Scenario{
	{Name: "CategoryLifecycle", Run: CategoryLifecycle},
	{Name: "GetAllRecipes", Run: GetAllRecipes},
	{Name: "GetRecipeByTitle", Run: GetRecipeByTitle},
	{Name: "AddRecipe", Run: AddRecipe},
	{Name: "UpdateRecipe", Run: UpdateRecipe},
	{Name: "DeleteRecipe", Run: DeleteRecipe},
}

// Lookup finds a scenario in Scenarios by name.
func Lookup(name string) (Scenario, bool) {
	for _, s := range Scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// Run executes one scenario and removes whatever it created and did not
// keep, even when an assertion stopped it.
func (r *Runner) Run(s Scenario) {
	r.scenario = s.Name
	defer r.Cleanup()
	r.logger.Info("Running scenario", "scenario", s.Name)
	s.Run(r)
}

func CategoryLifecycle(r *Runner) {
	id := r.Create(recipebook.Category, recipebook.CategoryPayload{Name: "Vegan Recipes"})

	r.ListAtLeast(recipebook.Category, 1)

	category := r.GetByID(recipebook.Category, id)
	assert.Equal(r.t, "Vegan Recipes", category.String("name"), "Category name should be 'Vegan Recipes'.")

	updated := r.Update(recipebook.Category, id, recipebook.CategoryPayload{Name: "Healthy Vegan Recipes"})
	assert.Equal(r.t, "Healthy Vegan Recipes", updated.String("name"),
		"Category name should be updated to 'Healthy Vegan Recipes'.")

	r.Delete(recipebook.Category, id)
}

func GetAllRecipes(r *Runner) {
	recipes := r.ListAtLeast(recipebook.Recipe, 1)

	for _, recipe := range recipes {
		assert.NotEmpty(r.t, recipe.String("title"), "Title field should not be null or empty.")
		_, ok := recipe.Array("ingredients")
		assert.True(r.t, ok, "Ingredients field should be a JSON array.")
		_, ok = recipe.Array("instructions")
		assert.True(r.t, ok, "Instructions field should be a JSON array.")
		assert.NotEmpty(r.t, recipe.String("cookingTime"), "CookingTime field should not be null or empty.")
		assert.NotEmpty(r.t, recipe.String("servings"), "Servings field should not be null or empty.")
		assert.NotEmpty(r.t, recipe.String("category"), "Category field should not be null or empty.")
	}
}

func GetRecipeByTitle(r *Runner) {
	recipe := r.FindByField(recipebook.Recipe, "title", SeededRecipeTitle)

	assert.Equal(r.t, SeededRecipeCookingTime, recipe.String("cookingTime"), "CookingTime should match.")
	assert.Equal(r.t, SeededRecipeServings, recipe.String("servings"), "Servings should match.")
	ingredients, _ := recipe.Array("ingredients")
	assert.Len(r.t, ingredients, SeededRecipeIngredients, "Number of ingredients should match.")
	instructions, _ := recipe.Array("instructions")
	assert.Len(r.t, instructions, SeededRecipeInstructions, "Number of instructions should match.")
}

// NewRecipePayload is the recipe AddRecipe creates, filed under categoryID.
func NewRecipePayload(categoryID string) recipebook.RecipePayload {
	return recipebook.RecipePayload{
		Title:       AddedRecipeTitle,
		Description: "Test Description",
		Ingredients: []recipebook.Ingredient{
			{Name: "Spaghetti", Quantity: "200g"},
		},
		Instructions: []recipebook.Instruction{
			{Step: "Cook the according to package instructions."},
		},
		CookingTime: 20,
		Servings:    2,
		Category:    categoryID,
	}
}

func firstCategoryID(r *Runner) string {
	categories := r.ListAtLeast(recipebook.Category, 1)
	id := categories[0].ID()
	require.NotEmpty(r.t, id, "Category ID should be present.")
	return id
}

// AddRecipe creates the recipe and leaves it for DeleteRecipe.
func AddRecipe(r *Runner) {
	payload := NewRecipePayload(firstCategoryID(r))

	id := r.Create(recipebook.Recipe, payload)
	r.Keep(recipebook.Recipe, id)

	retrieved := r.GetByID(recipebook.Recipe, id)

	assert.Equal(r.t, payload.Title, retrieved.String("title"), "Recipe title should match the input value")
	assert.Equal(r.t, payload.Description, retrieved.String("description"), "Recipe description should match the input value")
	assert.Equal(r.t, "20", retrieved.String("cookingTime"), "Recipe cookingTime should match the input value")
	assert.Equal(r.t, "2", retrieved.String("servings"), "Recipe servings should match the input value")

	category, ok := retrieved.Object("category")
	require.True(r.t, ok, "Category should not be empty")
	assert.Equal(r.t, payload.Category, category.ID(), "Category ID should match the input value")

	ingredients := retrieved.Records("ingredients")
	require.Len(r.t, ingredients, len(payload.Ingredients),
		"Ingredients array should have the same number of elements as the input value")
	for i, ing := range ingredients {
		assert.Equal(r.t, payload.Ingredients[i].Name, ing.String("name"), "Ingredient names should match the input values")
		assert.Equal(r.t, payload.Ingredients[i].Quantity, ing.String("quantity"), "Ingredient quantities should match the input values")
	}

	instructions := retrieved.Records("instructions")
	require.Len(r.t, instructions, len(payload.Instructions),
		"Instructions array should have the same number of elements as the input value")
	for i, ins := range instructions {
		assert.Equal(r.t, payload.Instructions[i].Step, ins.String("step"), "Instructions values should match the input values")
	}
}

func UpdateRecipe(r *Runner) {
	payload := NewRecipePayload(firstCategoryID(r))
	payload.Title = "Foodyyy (to update)"

	id := r.Create(recipebook.Recipe, payload)

	payload.Title = "Foodyyy Deluxe"
	payload.Servings = 4
	payload.Instructions = append(payload.Instructions, recipebook.Instruction{Step: "Serve warm."})
	r.Update(recipebook.Recipe, id, payload)

	r.Delete(recipebook.Recipe, id)
}

func DeleteRecipe(r *Runner) {
	recipe := r.FindByField(recipebook.Recipe, "title", AddedRecipeTitle)
	id := recipe.ID()
	require.NotEmpty(r.t, id, "Recipe with title '%s' should have an ID", AddedRecipeTitle)

	r.Delete(recipebook.Recipe, id)
}

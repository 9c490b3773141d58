package recipebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecord_KeepsNumbersAsText(t *testing.T) {
	rec, err := DecodeRecord([]byte(`{
		"_id": "r1",
		"title": "Chocolate Chip Cookies",
		"cookingTime": 25,
		"servings": 24,
		"rating": 4.5,
		"vegan": false,
		"category": {"_id": "c1", "name": "Desserts"},
		"ingredients": [{"name": "Flour", "quantity": "2 cups"}],
		"notes": null
	}`))
	require.NoError(t, err)

	assert.Equal(t, "r1", rec.ID())
	assert.Equal(t, "25", rec.String("cookingTime"))
	assert.Equal(t, "24", rec.String("servings"))
	assert.Equal(t, "4.5", rec.String("rating"))
	assert.Equal(t, "false", rec.String("vegan"))
	assert.Equal(t, "", rec.String("notes"))
	assert.Equal(t, "", rec.String("missing"))
	assert.JSONEq(t, `{"_id":"c1","name":"Desserts"}`, rec.String("category"))

	category, ok := rec.Object("category")
	require.True(t, ok)
	assert.Equal(t, "c1", category.ID())

	ingredients := rec.Records("ingredients")
	require.Len(t, ingredients, 1)
	assert.Equal(t, "2 cups", ingredients[0].String("quantity"))

	_, ok = rec.Array("title")
	assert.False(t, ok)
}

func TestDecodeRecord_Null(t *testing.T) {
	_, err := DecodeRecord([]byte("null"))
	assert.Error(t, err)
}

func TestDecodeRecords(t *testing.T) {
	recs, err := DecodeRecords([]byte(`[{"_id":"a"},{"_id":"b"}]`))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[1].ID())

	recs, err = DecodeRecords([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, recs)

	_, err = DecodeRecords([]byte(`{"_id":"a"}`))
	assert.Error(t, err)

	_, err = DecodeRecords([]byte(`null`))
	assert.Error(t, err)
}

func TestFields(t *testing.T) {
	rec, err := Fields(RecipePayload{
		Title:        "Foodyyy",
		Ingredients:  []Ingredient{{Name: "Spaghetti", Quantity: "200g"}},
		Instructions: []Instruction{{Step: "Boil."}},
		CookingTime:  20,
		Servings:     2,
		Category:     "c1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Foodyyy", rec.String("title"))
	assert.Equal(t, "20", rec.String("cookingTime"))
	assert.Equal(t, "c1", rec.String("category"))
	assert.Len(t, rec.Records("ingredients"), 1)
}

// Package fixtures defines the baseline data the lifecycle scenarios rely
// on and knows how to put it in place, either through the API or straight
// into a reference server's store.
package fixtures

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/Gmacem/recipebook-e2e/internal/recipebook"
	"github.com/Gmacem/recipebook-e2e/internal/store"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultFixtures []byte

type User struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Set is a fixture document. Recipe.Category holds a category name; it is
// resolved to an id when the recipe is created.
type Set struct {
	Users      []User                       `yaml:"users"`
	Categories []recipebook.CategoryPayload `yaml:"categories"`
	Recipes    []recipebook.RecipePayload   `yaml:"recipes"`
}

func Default() (*Set, error) {
	return parse(defaultFixtures)
}

func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures %s: %w", path, err)
	}
	return parse(data)
}

// Load reads the fixture file at path, or the embedded defaults when path
// is empty.
func Load(path string) (*Set, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

func parse(data []byte) (*Set, error) {
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	for i, r := range set.Recipes {
		if r.Title == "" {
			return nil, fmt.Errorf("parse fixtures: recipe %d has no title", i)
		}
		if r.Category == "" {
			return nil, fmt.Errorf("parse fixtures: recipe %q has no category", r.Title)
		}
	}
	return &set, nil
}

func (s *Set) Recipe(title string) (recipebook.RecipePayload, bool) {
	for _, r := range s.Recipes {
		if r.Title == title {
			return r, true
		}
	}
	return recipebook.RecipePayload{}, false
}

// categoryNames lists every category the set needs, including ones only
// named by recipes.
func (s *Set) categoryNames() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, c := range s.Categories {
		add(c.Name)
	}
	for _, r := range s.Recipes {
		add(r.Category)
	}
	return names
}

type UserRegistrar interface {
	RegisterUser(ctx context.Context, email, password string) error
}

// Preload writes the set into a store, skipping categories and recipes
// whose name or title already exists.
func Preload(ctx context.Context, s store.Store, users UserRegistrar, set *Set) error {
	for _, u := range set.Users {
		if err := users.RegisterUser(ctx, u.Email, u.Password); err != nil {
			return fmt.Errorf("register %s: %w", u.Email, err)
		}
	}

	existing, err := s.ListCategories(ctx)
	if err != nil {
		return err
	}
	categoryIDs := make(map[string]string, len(existing))
	for _, c := range existing {
		categoryIDs[c.Name] = c.ID
	}

	for _, name := range set.categoryNames() {
		if _, ok := categoryIDs[name]; ok {
			continue
		}
		c, err := s.CreateCategory(ctx, store.Category{ID: newID(), Name: name})
		if err != nil {
			return err
		}
		categoryIDs[name] = c.ID
	}

	recipes, err := s.ListRecipes(ctx)
	if err != nil {
		return err
	}
	titles := make(map[string]bool, len(recipes))
	for _, r := range recipes {
		titles[r.Title] = true
	}

	for _, r := range set.Recipes {
		if titles[r.Title] {
			continue
		}
		_, err := s.CreateRecipe(ctx, store.Recipe{
			ID:           newID(),
			Title:        r.Title,
			Description:  r.Description,
			Ingredients:  toStoreIngredients(r.Ingredients),
			Instructions: toStoreInstructions(r.Instructions),
			CookingTime:  r.CookingTime,
			Servings:     r.Servings,
			CategoryID:   categoryIDs[r.Category],
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func toStoreIngredients(in []recipebook.Ingredient) []store.Ingredient {
	out := make([]store.Ingredient, len(in))
	for i, ing := range in {
		out[i] = store.Ingredient{Name: ing.Name, Quantity: ing.Quantity}
	}
	return out
}

func toStoreInstructions(in []recipebook.Instruction) []store.Instruction {
	out := make([]store.Instruction, len(in))
	for i, ins := range in {
		out[i] = store.Instruction{Step: ins.Step}
	}
	return out
}

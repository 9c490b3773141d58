// Package store persists the records served by the reference recipe-book
// server.
package store

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("record not found")

type Category struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

type Instruction struct {
	Step string `json:"step"`
}

type Recipe struct {
	ID           string        `json:"_id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Ingredients  []Ingredient  `json:"ingredients"`
	Instructions []Instruction `json:"instructions"`
	CookingTime  int           `json:"cookingTime"`
	Servings     int           `json:"servings"`
	CategoryID   string        `json:"category"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
}

type Store interface {
	CreateCategory(ctx context.Context, c Category) (Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id string) (Category, error)
	UpdateCategory(ctx context.Context, c Category) (Category, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateRecipe(ctx context.Context, r Recipe) (Recipe, error)
	ListRecipes(ctx context.Context) ([]Recipe, error)
	GetRecipe(ctx context.Context, id string) (Recipe, error)
	UpdateRecipe(ctx context.Context, r Recipe) (Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error

	CreateUser(ctx context.Context, u User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)

	Close()
}

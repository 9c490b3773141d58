// Package server assembles the reference recipe-book API: the same routes
// the lifecycle suite consumes, backed by a store.Store.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Gmacem/recipebook-e2e/internal/auth"
	"github.com/Gmacem/recipebook-e2e/internal/fixtures"
	"github.com/Gmacem/recipebook-e2e/internal/handlers"
	"github.com/Gmacem/recipebook-e2e/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Options struct {
	JWTSecret string
	LoginPath string
	// Fixtures, when set, are loaded into the store before serving.
	Fixtures *fixtures.Set
	// RequestLogging enables chi's request logger.
	RequestLogging bool
}

func New(ctx context.Context, s store.Store, opts Options) (http.Handler, error) {
	if opts.LoginPath == "" {
		opts.LoginPath = "/auth/login"
	}

	authService := auth.NewAuthService(s, opts.JWTSecret)
	if opts.Fixtures != nil {
		if err := fixtures.Preload(ctx, s, authService, opts.Fixtures); err != nil {
			return nil, fmt.Errorf("preload fixtures: %w", err)
		}
		slog.Info("Fixtures loaded",
			"categories", len(opts.Fixtures.Categories),
			"recipes", len(opts.Fixtures.Recipes))
	}

	categories := handlers.NewCategoriesHandler(s)
	recipes := handlers.NewRecipesHandler(s)

	r := chi.NewRouter()
	if opts.RequestLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Post(opts.LoginPath, authService.LoginHandler)

	r.Group(func(r chi.Router) {
		r.Use(authService.AuthMiddleware)

		r.Post("/category", categories.CreateCategory)
		r.Get("/category", categories.ListCategories)
		r.Get("/category/{id}", categories.GetCategory)
		r.Put("/category/{id}", categories.UpdateCategory)
		r.Delete("/category/{id}", categories.DeleteCategory)

		r.Post("/recipe", recipes.CreateRecipe)
		r.Get("/recipe", recipes.ListRecipes)
		r.Get("/recipe/{id}", recipes.GetRecipe)
		r.Put("/recipe/{id}", recipes.UpdateRecipe)
		r.Delete("/recipe/{id}", recipes.DeleteRecipe)
	})

	return r, nil
}

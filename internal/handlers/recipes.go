package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Gmacem/recipebook-e2e/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type RecipesHandler struct {
	store store.Store
}

func NewRecipesHandler(s store.Store) *RecipesHandler {
	return &RecipesHandler{store: s}
}

type recipeRequest struct {
	Title        string              `json:"title" validate:"required"`
	Description  string              `json:"description"`
	Ingredients  []store.Ingredient  `json:"ingredients" validate:"dive"`
	Instructions []store.Instruction `json:"instructions" validate:"dive"`
	CookingTime  int                 `json:"cookingTime" validate:"gte=0"`
	Servings     int                 `json:"servings" validate:"gte=0"`
	Category     string              `json:"category" validate:"required"`
}

func (req recipeRequest) toRecipe(id string) store.Recipe {
	r := store.Recipe{
		ID:           id,
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		CookingTime:  req.CookingTime,
		Servings:     req.Servings,
		CategoryID:   req.Category,
	}
	if r.Ingredients == nil {
		r.Ingredients = []store.Ingredient{}
	}
	if r.Instructions == nil {
		r.Instructions = []store.Instruction{}
	}
	return r
}

type categoryRef struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

// recipeView is a recipe with its category reference populated.
type recipeView struct {
	store.Recipe
	Category categoryRef `json:"category"`
}

func (h *RecipesHandler) populate(ctx context.Context, r store.Recipe) recipeView {
	ref := categoryRef{ID: r.CategoryID}
	if c, err := h.store.GetCategory(ctx, r.CategoryID); err == nil {
		ref.Name = c.Name
	}
	return recipeView{Recipe: r, Category: ref}
}

func (h *RecipesHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.store.GetCategory(r.Context(), req.Category); errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusBadRequest, "category not found")
		return
	}

	recipe, err := h.store.CreateRecipe(r.Context(), req.toRecipe(uuid.NewString()))
	if err != nil {
		slog.Error("Failed to create recipe", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	slog.Info("Recipe created", "id", recipe.ID, "user_id", userID(r))
	writeJSON(w, http.StatusOK, h.populate(r.Context(), recipe))
}

func (h *RecipesHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.store.ListRecipes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	views := make([]recipeView, 0, len(recipes))
	for _, recipe := range recipes {
		views = append(views, h.populate(r.Context(), recipe))
	}

	writeJSON(w, http.StatusOK, views)
}

func (h *RecipesHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := h.store.GetRecipe(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeNull(w)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.populate(r.Context(), recipe))
}

func (h *RecipesHandler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	recipe, err := h.store.UpdateRecipe(r.Context(), req.toRecipe(chi.URLParam(r, "id")))
	if errors.Is(err, store.ErrNotFound) {
		writeNull(w)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	slog.Info("Recipe updated", "id", recipe.ID, "user_id", userID(r))
	writeJSON(w, http.StatusOK, h.populate(r.Context(), recipe))
}

func (h *RecipesHandler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	recipe, err := h.store.GetRecipe(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeNull(w)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.store.DeleteRecipe(r.Context(), id); err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	slog.Info("Recipe deleted", "id", id, "user_id", userID(r))
	writeJSON(w, http.StatusOK, h.populate(r.Context(), recipe))
}

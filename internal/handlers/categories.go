package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Gmacem/recipebook-e2e/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CategoriesHandler struct {
	store store.Store
}

func NewCategoriesHandler(s store.Store) *CategoriesHandler {
	return &CategoriesHandler{store: s}
}

type categoryRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *CategoriesHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.store.CreateCategory(r.Context(), store.Category{
		ID:   uuid.NewString(),
		Name: req.Name,
	})
	if err != nil {
		slog.Error("Failed to create category", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	slog.Info("Category created", "id", category.ID, "user_id", userID(r))
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoriesHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if categories == nil {
		categories = []store.Category{}
	}

	writeJSON(w, http.StatusOK, categories)
}

func (h *CategoriesHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.store.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeNull(w)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, category)
}

func (h *CategoriesHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.store.UpdateCategory(r.Context(), store.Category{
		ID:   chi.URLParam(r, "id"),
		Name: req.Name,
	})
	if errors.Is(err, store.ErrNotFound) {
		writeNull(w)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	slog.Info("Category updated", "id", category.ID, "user_id", userID(r))
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoriesHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	category, err := h.store.GetCategory(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeNull(w)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.store.DeleteCategory(r.Context(), id); err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	slog.Info("Category deleted", "id", id, "user_id", userID(r))
	writeJSON(w, http.StatusOK, category)
}

package store

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps records in insertion order. Listing returns copies.
type MemoryStore struct {
	mu         sync.RWMutex
	categories []Category
	recipes    []Recipe
	users      map[string]User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]User)}
}

func (s *MemoryStore) CreateCategory(ctx context.Context, c Category) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	s.categories = append(s.categories, c)
	return c, nil
}

func (s *MemoryStore) ListCategories(ctx context.Context) ([]Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories), nil
}

func (s *MemoryStore) GetCategory(ctx context.Context, id string) (Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.categories, func(c Category) bool { return c.ID == id })
	if i < 0 {
		return Category{}, ErrNotFound
	}
	return s.categories[i], nil
}

func (s *MemoryStore) UpdateCategory(ctx context.Context, c Category) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.categories, func(existing Category) bool { return existing.ID == c.ID })
	if i < 0 {
		return Category{}, ErrNotFound
	}
	c.CreatedAt = s.categories[i].CreatedAt
	c.UpdatedAt = time.Now().UTC()
	s.categories[i] = c
	return c, nil
}

func (s *MemoryStore) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.categories, func(c Category) bool { return c.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	s.categories = slices.Delete(s.categories, i, i+1)
	return nil
}

func (s *MemoryStore) CreateRecipe(ctx context.Context, r Recipe) (Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	r.CreatedAt, r.UpdatedAt = now, now
	s.recipes = append(s.recipes, cloneRecipe(r))
	return r, nil
}

func (s *MemoryStore) ListRecipes(ctx context.Context) ([]Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Recipe, len(s.recipes))
	for i, r := range s.recipes {
		out[i] = cloneRecipe(r)
	}
	return out, nil
}

func (s *MemoryStore) GetRecipe(ctx context.Context, id string) (Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.recipes, func(r Recipe) bool { return r.ID == id })
	if i < 0 {
		return Recipe{}, ErrNotFound
	}
	return cloneRecipe(s.recipes[i]), nil
}

func (s *MemoryStore) UpdateRecipe(ctx context.Context, r Recipe) (Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.recipes, func(existing Recipe) bool { return existing.ID == r.ID })
	if i < 0 {
		return Recipe{}, ErrNotFound
	}
	r.CreatedAt = s.recipes[i].CreatedAt
	r.UpdatedAt = time.Now().UTC()
	s.recipes[i] = cloneRecipe(r)
	return r, nil
}

func (s *MemoryStore) DeleteRecipe(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.recipes, func(r Recipe) bool { return r.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	s.recipes = slices.Delete(s.recipes, i, i+1)
	return nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.Email]; exists {
		return nil
	}
	s.users[u.Email] = u
	return nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) Close() {}

func cloneRecipe(r Recipe) Recipe {
	r.Ingredients = slices.Clone(r.Ingredients)
	r.Instructions = slices.Clone(r.Instructions)
	return r
}

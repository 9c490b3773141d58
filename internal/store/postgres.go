package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) CreateCategory(ctx context.Context, c Category) (Category, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO recipebook.categories (id, name)
		VALUES ($1, $2)
		RETURNING created_at, updated_at`,
		c.ID, c.Name).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Category{}, fmt.Errorf("failed to create category: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, created_at, updated_at
		FROM recipebook.categories
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Category, error) {
		return scanCategory(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *PostgresStore) GetCategory(ctx context.Context, id string) (Category, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, created_at, updated_at
		FROM recipebook.categories
		WHERE id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	if err != nil {
		return Category{}, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) UpdateCategory(ctx context.Context, c Category) (Category, error) {
	err := s.pool.QueryRow(ctx, `
		UPDATE recipebook.categories
		SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		c.ID, c.Name).Scan(&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	if err != nil {
		return Category{}, fmt.Errorf("failed to update category: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) DeleteCategory(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM recipebook.categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreateRecipe(ctx context.Context, r Recipe) (Recipe, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO recipebook.recipes
			(id, title, description, ingredients, instructions, cooking_time, servings, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		r.ID, r.Title, r.Description, r.Ingredients, r.Instructions,
		r.CookingTime, r.Servings, r.CategoryID).Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return Recipe{}, fmt.Errorf("failed to create recipe: %w", err)
	}
	return r, nil
}

const recipeColumns = `id, title, description, ingredients, instructions,
	cooking_time, servings, category_id, created_at, updated_at`

func (s *PostgresStore) ListRecipes(ctx context.Context) ([]Recipe, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+recipeColumns+`
		FROM recipebook.recipes
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	recipes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Recipe, error) {
		return scanRecipe(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

func (s *PostgresStore) GetRecipe(ctx context.Context, id string) (Recipe, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+recipeColumns+`
		FROM recipebook.recipes
		WHERE id = $1`, id)
	r, err := scanRecipe(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Recipe{}, ErrNotFound
	}
	if err != nil {
		return Recipe{}, fmt.Errorf("failed to get recipe: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) UpdateRecipe(ctx context.Context, r Recipe) (Recipe, error) {
	err := s.pool.QueryRow(ctx, `
		UPDATE recipebook.recipes
		SET title = $2, description = $3, ingredients = $4, instructions = $5,
			cooking_time = $6, servings = $7, category_id = $8, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		r.ID, r.Title, r.Description, r.Ingredients, r.Instructions,
		r.CookingTime, r.Servings, r.CategoryID).Scan(&r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Recipe{}, ErrNotFound
	}
	if err != nil {
		return Recipe{}, fmt.Errorf("failed to update recipe: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) DeleteRecipe(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM recipebook.recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, u User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO recipebook.users (id, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING`,
		u.ID, u.Email, u.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", u.Email, err)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash
		FROM recipebook.users
		WHERE email = $1`, email).Scan(&u.ID, &u.Email, &u.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to find user %s: %w", email, err)
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func scanRecipe(row rowScanner) (Recipe, error) {
	var r Recipe
	err := row.Scan(&r.ID, &r.Title, &r.Description, &r.Ingredients, &r.Instructions,
		&r.CookingTime, &r.Servings, &r.CategoryID, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

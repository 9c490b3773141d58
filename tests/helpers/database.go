package helpers

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient() (*DatabaseClient, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (dc *DatabaseClient) Close() error {
	return dc.db.Close()
}

func (dc *DatabaseClient) GetDatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func (dc *DatabaseClient) CleanupAll() error {
	// Recipes reference categories, so they go first.
	tables := []string{
		"recipebook.recipes",
		"recipebook.categories",
		"recipebook.users",
	}

	for _, table := range tables {
		_, err := dc.db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			return fmt.Errorf("failed to clean table %s: %w", table, err)
		}
	}

	return nil
}

func (dc *DatabaseClient) CountRecipesByTitle(title string) (int, error) {
	var count int
	err := dc.db.QueryRow(`
		SELECT COUNT(*) FROM recipebook.recipes
		WHERE title = $1`,
		title).Scan(&count)
	return count, err
}

func (dc *DatabaseClient) CategoryExists(id string) (bool, error) {
	var count int
	err := dc.db.QueryRow("SELECT COUNT(*) FROM recipebook.categories WHERE id = $1", id).Scan(&count)
	return count == 1, err
}

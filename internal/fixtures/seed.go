package fixtures

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Gmacem/recipebook-e2e/internal/recipebook"
	"github.com/google/uuid"
)

func newID() string {
	return uuid.NewString()
}

// Report counts what Seed created. Records already present are not
// touched.
type Report struct {
	CategoriesCreated int
	RecipesCreated    int
}

// Seed creates, through the API, every category and recipe of the set that
// the service does not already have. The client must carry a token.
func Seed(ctx context.Context, client *recipebook.Client, set *Set, logger *slog.Logger) (Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var report Report

	categories, err := listRecords(ctx, client, recipebook.Category)
	if err != nil {
		return report, err
	}
	categoryIDs := make(map[string]string, len(categories))
	for _, c := range categories {
		categoryIDs[c.String("name")] = c.ID()
	}

	for _, name := range set.categoryNames() {
		if _, ok := categoryIDs[name]; ok {
			continue
		}
		id, err := createRecord(ctx, client, recipebook.Category, recipebook.CategoryPayload{Name: name})
		if err != nil {
			return report, err
		}
		categoryIDs[name] = id
		report.CategoriesCreated++
		logger.Info("Seeded category", "name", name, "id", id)
	}

	recipes, err := listRecords(ctx, client, recipebook.Recipe)
	if err != nil {
		return report, err
	}
	titles := make(map[string]bool, len(recipes))
	for _, r := range recipes {
		titles[r.String("title")] = true
	}

	for _, r := range set.Recipes {
		if titles[r.Title] {
			continue
		}
		payload := r
		payload.Category = categoryIDs[r.Category]
		id, err := createRecord(ctx, client, recipebook.Recipe, payload)
		if err != nil {
			return report, err
		}
		report.RecipesCreated++
		logger.Info("Seeded recipe", "title", r.Title, "id", id)
	}

	return report, nil
}

func listRecords(ctx context.Context, client *recipebook.Client, res recipebook.Resource) ([]recipebook.Record, error) {
	resp, err := client.List(ctx, res)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list %s: status %d, body: %s", res, resp.StatusCode, resp.String())
	}
	return recipebook.DecodeRecords(resp.Body)
}

func createRecord(ctx context.Context, client *recipebook.Client, res recipebook.Resource, payload any) (string, error) {
	resp, err := client.Create(ctx, res, payload)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("create %s: status %d, body: %s", res, resp.StatusCode, resp.String())
	}
	rec, err := recipebook.DecodeRecord(resp.Body)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", res, err)
	}
	if rec.ID() == "" {
		return "", fmt.Errorf("create %s: response has no _id", res)
	}
	return rec.ID(), nil
}

//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// setupPool starts Postgres, migrates it and seeds a small catalog.
func setupPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	pc := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")

	catalog := NewCatalogRepository(pool)
	for _, rec := range testCatalog() {
		require.NoError(t, catalog.UpsertRecipe(ctx, rec))
	}
	return pool
}

func testCatalog() []*domain.Recipe {
	return []*domain.Recipe{
		{ID: 10, Slug: "grilled-chicken-salad", Title: "Grilled Chicken Salad", Categories: "Chicken;Salad", Emissions: 2.4, EmissionsLog10: 0.38, Rating: 4.1, PercRating: 70, PercSustainability: 40},
		{ID: 563, Slug: "pineapple-salsa", Title: "Pineapple Salsa", Categories: "Fruit;Summer", Emissions: 0.3, EmissionsLog10: -0.52, Rating: 4.6, PercRating: 90, PercSustainability: 95},
		{ID: 2326, Slug: "mango-salsa", Title: "Mango Salsa", Categories: "Fruit;Summer", Emissions: 0.4, EmissionsLog10: -0.4, Rating: 4.2, PercRating: 75, PercSustainability: 90},
		{ID: 4310, Slug: "chicken-curry", Title: "Chicken Curry", Categories: "Chicken;Curry", Emissions: 3.1, EmissionsLog10: 0.49, Rating: 3.9, PercRating: 60, PercSustainability: 30},
	}
}

func slugs(results []domain.ScoredRecipe) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Recipe.Slug
	}
	return out
}

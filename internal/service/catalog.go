package service

import (
	"context"

	"github.com/cloo-solutions/greenplate/internal/domain"
)

// CatalogRepositoryInterface is read-only access to recipes and their
// precomputed similarity rows.
type CatalogRepositoryInterface interface {
	// FindBySlug returns domain.ErrRecipeNotFound when no recipe has the slug.
	FindBySlug(ctx context.Context, slug string) (*domain.Recipe, error)
	// FindByIDs returns the recipes that exist, in no particular order.
	FindByIDs(ctx context.Context, ids []int64) ([]*domain.Recipe, error)
	// SimilarityRow returns domain.ErrSimilarityNotFound when the recipe has no row.
	SimilarityRow(ctx context.Context, recipeID int64) (*domain.SimilarityRow, error)
	TextRank(ctx context.Context, term string, limit int) ([]domain.ScoredRecipe, error)
	EditDistanceRank(ctx context.Context, q domain.FuzzyQuery) ([]domain.ScoredRecipe, error)
	AllEmissionScores(ctx context.Context) ([]domain.EmissionScore, error)
}

// InteractionRepositoryInterface is per-(user, recipe) bookmark and rating storage.
type InteractionRepositoryInterface interface {
	// Get returns domain.ErrInteractionNotFound when no record exists.
	Get(ctx context.Context, userID, recipeID int64) (*domain.Interaction, error)
	// GetMany returns the user's records for recipeIDs keyed by recipe id.
	GetMany(ctx context.Context, userID int64, recipeIDs []int64) (map[int64]domain.Interaction, error)
	UpsertRating(ctx context.Context, userID, recipeID int64, rating domain.Rating) error
	// UpsertBookmark reports false when the recipe was already bookmarked.
	UpsertBookmark(ctx context.Context, userID, recipeID int64) (bool, error)
	// DeleteBookmarked reports false when there was no bookmarked record.
	DeleteBookmarked(ctx context.Context, userID, recipeID int64) (bool, error)
	// ListForUser returns all of the user's interaction records, best rated first.
	ListForUser(ctx context.Context, userID int64) ([]*domain.CookbookEntry, error)
}

// ImageURLResolver turns a stored image reference into a URL a browser can load.
type ImageURLResolver interface {
	ResolveImageURL(ctx context.Context, ref string) string
}

package service

import (
	"context"

	"github.com/cloo-solutions/greenplate/internal/domain"
)

// CatalogWriter loads the offline catalog.
type CatalogWriter interface {
	UpsertRecipe(ctx context.Context, rec *domain.Recipe) error
	UpsertSimilarityRow(ctx context.Context, recipeID int64, neighborIDs []int64, scores []float32) error
}

// TxRepositories are repositories bound to one open transaction.
type TxRepositories interface {
	Catalog() CatalogWriter
	Interactions() InteractionRepositoryInterface
}

// TxRunner commits when fn returns nil and rolls back otherwise.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(repos TxRepositories) error) error
}

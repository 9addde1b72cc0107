package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/telemetry"
)

const referenceScore = 1.0

// Recommender ranks recipes by precomputed content similarity to a reference.
type Recommender struct {
	catalog CatalogRepositoryInterface
}

func NewRecommender(catalog CatalogRepositoryInterface) *Recommender {
	return &Recommender{catalog: catalog}
}

// ContentBasedSearch returns the reference recipe at index 0 with score 1.0,
// followed by its catalogued neighbours in descending similarity.
func (r *Recommender) ContentBasedSearch(ctx context.Context, slug string) ([]domain.ScoredRecipe, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, domain.ErrEmptySlug
	}

	ref, err := r.catalog.FindBySlug(ctx, slug)
	if err != nil {
		return nil, storeError("find recipe by slug", err)
	}
	return r.Neighbors(ctx, ref)
}

// Neighbors is ContentBasedSearch for an already resolved reference.
func (r *Recommender) Neighbors(ctx context.Context, ref *domain.Recipe) ([]domain.ScoredRecipe, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.recommender.neighbors", telemetry.SpanAttributes{
		Slug:      ref.Slug,
		Operation: "content_based_search",
	})
	defer span.End()

	reference := domain.ScoredRecipe{Recipe: ref, Score: referenceScore}

	row, err := r.catalog.SimilarityRow(ctx, ref.ID)
	if errors.Is(err, domain.ErrSimilarityNotFound) {
		reportInvariant(ctx, "missing_row", err, ref.ID)
		return []domain.ScoredRecipe{reference}, nil
	}
	if err != nil {
		span.SetError(err)
		return nil, storeError("load similarity row", err)
	}

	if !row.Consistent() {
		reportInvariant(ctx, "length_mismatch", domain.ErrSimilarityLengthMismatch, ref.ID)
	}
	pairs := row.Pairs()
	if len(pairs) == 0 || pairs[0].RecipeID != ref.ID {
		reportInvariant(ctx, "reference_not_first", domain.ErrReferenceNotFirst, ref.ID)
	}
	if len(pairs) == 0 {
		return []domain.ScoredRecipe{reference}, nil
	}

	recipes, err := r.catalog.FindByIDs(ctx, row.IDs())
	if err != nil {
		span.SetError(err)
		return nil, storeError("load neighbour recipes", err)
	}
	byID := make(map[int64]*domain.Recipe, len(recipes))
	for _, rec := range recipes {
		byID[rec.ID] = rec
	}

	out := make([]domain.ScoredRecipe, 0, len(pairs))
	seen := map[int64]bool{ref.ID: true}
	for _, pair := range pairs {
		if seen[pair.RecipeID] {
			continue
		}
		rec, ok := byID[pair.RecipeID]
		if !ok {
			// Neighbours missing from the catalog are dropped.
			continue
		}
		seen[pair.RecipeID] = true

		score := pair.Score
		if score > referenceScore {
			reportInvariant(ctx, "score_out_of_range", domain.ErrSimilarityOutOfRange, ref.ID)
			score = referenceScore
		}
		out = append(out, domain.ScoredRecipe{Recipe: rec, Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	return append([]domain.ScoredRecipe{reference}, out...), nil
}

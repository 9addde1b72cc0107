package service

import (
	"context"
	"strings"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/telemetry"
)

// DefaultFreeSearchLimit is the number of candidates each text stage returns.
const DefaultFreeSearchLimit = 160

// TextSearchResult is the output of one free-text search.
type TextSearchResult struct {
	Route   domain.Route
	Kind    domain.ScoreKind
	Results []domain.ScoredRecipe
}

// TextSearch ranks recipes for free text: phrase relevance first, edit
// distance only when the phrase stage finds nothing.
type TextSearch struct {
	catalog CatalogRepositoryInterface
	column  domain.FuzzyColumn
}

func NewTextSearch(catalog CatalogRepositoryInterface) *TextSearch {
	return &TextSearch{catalog: catalog, column: domain.FuzzyColumnSlug}
}

// WithFuzzyColumn changes the column the edit-distance fallback compares against.
func (s *TextSearch) WithFuzzyColumn(column domain.FuzzyColumn) (*TextSearch, error) {
	if !column.Valid() {
		return nil, domain.ErrInvalidColumn
	}
	return &TextSearch{catalog: s.catalog, column: column}, nil
}

func (s *TextSearch) FreeSearch(ctx context.Context, term string, limit int) (*TextSearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultFreeSearchLimit
	}

	ctx, span := telemetry.StartSpan(ctx, "service.text_search.free_search", telemetry.SpanAttributes{
		Operation: "free_search",
	})
	defer span.End()

	phrase, err := s.catalog.TextRank(ctx, term, limit)
	if err != nil {
		span.SetError(err)
		return nil, storeError("phrase search", err)
	}
	if len(phrase) > 0 {
		return &TextSearchResult{Route: domain.RoutePhrase, Kind: domain.ScoreRelevance, Results: phrase}, nil
	}

	fuzzy, err := s.catalog.EditDistanceRank(ctx, domain.FuzzyQuery{
		Term:             term,
		Column:           s.column,
		RequireSubstring: true,
		Limit:            limit,
	})
	if err != nil {
		span.SetError(err)
		return nil, storeError("fuzzy search", err)
	}
	if len(fuzzy) == 0 {
		fuzzy, err = s.catalog.EditDistanceRank(ctx, domain.FuzzyQuery{
			Term:   term,
			Column: s.column,
			Limit:  limit,
		})
		if err != nil {
			span.SetError(err)
			return nil, storeError("fuzzy search", err)
		}
	}

	return &TextSearchResult{Route: domain.RouteFuzzy, Kind: domain.ScoreEditDistance, Results: fuzzy}, nil
}

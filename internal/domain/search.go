package domain

import (
	"math"
	"strings"
)

// SortKey orders an assembled result set.
type SortKey string

const (
	SortSimilarity     SortKey = "similarity"
	SortSustainability SortKey = "sustainability"
	SortRating         SortKey = "rating"
)

// ParseSortKey maps user input to a SortKey. Empty input means similarity
// (insertion order); anything outside the closed set is rejected.
func ParseSortKey(raw string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(SortSimilarity):
		return SortSimilarity, nil
	case string(SortSustainability):
		return SortSustainability, nil
	case string(SortRating):
		return SortRating, nil
	}
	return "", ErrInvalidSortKey
}

// Route is the search path the dispatcher took.
type Route string

const (
	RouteExact  Route = "exact"
	RoutePhrase Route = "phrase"
	RouteFuzzy  Route = "fuzzy"
	RouteNone   Route = "none"
)

// ScoreKind says how SearchResultRow.Score should be read.
type ScoreKind string

const (
	ScoreSimilarity   ScoreKind = "similarity"    // higher is closer, 1.0 is the reference
	ScoreRelevance    ScoreKind = "relevance"     // full-text rank, higher is better
	ScoreEditDistance ScoreKind = "edit_distance" // lower is closer
)

// FuzzyColumn is a catalog column the edit-distance stage may compare against.
type FuzzyColumn string

const (
	FuzzyColumnSlug  FuzzyColumn = "slug"
	FuzzyColumnTitle FuzzyColumn = "title"
)

// Valid reports whether c is a supported column.
func (c FuzzyColumn) Valid() bool {
	return c == FuzzyColumnSlug || c == FuzzyColumnTitle
}

// ScoredRecipe is a store result: a recipe plus the store's score for it.
type ScoredRecipe struct {
	Recipe *Recipe
	Score  float64
}

// SearchResultRow is an ephemeral, user-annotated projection of a recipe.
type SearchResultRow struct {
	Recipe    *Recipe
	Score     float64
	ScoreKind ScoreKind

	// Overlay, only meaningful when HasOverlay is set.
	HasOverlay bool
	Bookmarked bool
	UserRating Rating

	// Display fields, filled by the assembler.
	RatingPercent            int
	SimilarityPercent        int
	SustainabilityPercentile float64
	UserRatingPercent        int
	EmissionChange           *float64
}

// ResultPage is the final output of the assembler.
type ResultPage struct {
	Route     Route
	Reference *SearchResultRow
	Rows      []*SearchResultRow
	Sort      SortKey
	Page      int
	PageSize  int
	Total     int
	HasMore   bool
}

// EmptyPage is returned when there is nothing to show.
func EmptyPage(route Route, sort SortKey, page, pageSize int) *ResultPage {
	return &ResultPage{
		Route:    route,
		Rows:     []*SearchResultRow{},
		Sort:     sort,
		Page:     page,
		PageSize: pageSize,
	}
}

// RatingPercent converts a 1-5 rating to a rounded percentage.
func RatingPercent(rating float64) int {
	return int(math.RoundToEven(rating / 5 * 100))
}

// SimilarityPercent converts a similarity in [0,1] to a rounded percentage.
func SimilarityPercent(similarity float64) int {
	return int(math.RoundToEven(similarity * 100))
}

// EmissionChange is the emission difference to the reference recipe,
// rounded up to two decimals.
func EmissionChange(emissions, reference float64) float64 {
	return math.Ceil(100*(emissions-reference)) / 100
}

// FuzzyQuery parameterises the edit-distance fallback.
type FuzzyQuery struct {
	Term   string
	Column FuzzyColumn
	// RequireSubstring restricts candidates to values containing Term.
	RequireSubstring bool
	Limit            int
}

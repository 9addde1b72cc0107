package handlers

import (
	"github.com/cloo-solutions/greenplate/internal/domain"
)

// Page status values. A read that could not be served still renders as an
// empty page with a non-ok status.
const (
	StatusOK          = "ok"
	StatusNotFound    = "not_found"
	StatusUnavailable = "unavailable"
)

type RecipeResponse struct {
	ID                 int64    `json:"id"`
	Slug               string   `json:"slug"`
	Title              string   `json:"title"`
	Categories         []string `json:"categories"`
	Ingredients        string   `json:"ingredients,omitempty"`
	Servings           string   `json:"servings,omitempty"`
	Calories           float64  `json:"calories"`
	Sodium             float64  `json:"sodium"`
	Fat                float64  `json:"fat"`
	Protein            float64  `json:"protein"`
	Emissions          float64  `json:"emissions"`
	Rating             float64  `json:"rating"`
	ReviewCount        int64    `json:"review_count"`
	ImageURL           string   `json:"image_url,omitempty"`
	PercRating         float64  `json:"perc_rating"`
	PercSustainability float64  `json:"perc_sustainability"`
}

type ResultRowResponse struct {
	Recipe                   RecipeResponse `json:"recipe"`
	Score                    float64        `json:"score"`
	ScoreKind                string         `json:"score_kind,omitempty"`
	Bookmarked               bool           `json:"bookmarked"`
	UserRating               int            `json:"user_rating"`
	UserRatingPercent        int            `json:"user_rating_percent"`
	RatingPercent            int            `json:"rating_percent"`
	SimilarityPercent        int            `json:"similarity_percent"`
	SustainabilityPercentile float64        `json:"sustainability_percentile"`
	EmissionChange           *float64       `json:"emission_change,omitempty"`
}

type PageResponse struct {
	Status    string               `json:"status"`
	SearchID  int64                `json:"search_id,omitempty"`
	Route     string               `json:"route"`
	Sort      string               `json:"sort_by"`
	Page      int                  `json:"page"`
	PageSize  int                  `json:"page_size"`
	Total     int                  `json:"total"`
	HasMore   bool                 `json:"has_more"`
	Reference *ResultRowResponse   `json:"reference,omitempty"`
	Rows      []*ResultRowResponse `json:"rows"`
}

func recipeToResponse(r *domain.Recipe) RecipeResponse {
	categories := r.CategoryList()
	if categories == nil {
		categories = []string{}
	}
	return RecipeResponse{
		ID:                 r.ID,
		Slug:               r.Slug,
		Title:              r.Title,
		Categories:         categories,
		Ingredients:        r.Ingredients,
		Servings:           r.Servings,
		Calories:           r.Calories,
		Sodium:             r.Sodium,
		Fat:                r.Fat,
		Protein:            r.Protein,
		Emissions:          r.Emissions,
		Rating:             r.Rating,
		ReviewCount:        r.ReviewCount,
		ImageURL:           r.ImageURL,
		PercRating:         r.PercRating,
		PercSustainability: r.PercSustainability,
	}
}

func rowToResponse(row *domain.SearchResultRow) *ResultRowResponse {
	if row == nil {
		return nil
	}
	return &ResultRowResponse{
		Recipe:                   recipeToResponse(row.Recipe),
		Score:                    row.Score,
		ScoreKind:                string(row.ScoreKind),
		Bookmarked:               row.Bookmarked,
		UserRating:               int(row.UserRating),
		UserRatingPercent:        row.UserRatingPercent,
		RatingPercent:            row.RatingPercent,
		SimilarityPercent:        row.SimilarityPercent,
		SustainabilityPercentile: row.SustainabilityPercentile,
		EmissionChange:           row.EmissionChange,
	}
}

func pageToResponse(status string, page *domain.ResultPage) *PageResponse {
	rows := make([]*ResultRowResponse, len(page.Rows))
	for i, row := range page.Rows {
		rows[i] = rowToResponse(row)
	}
	return &PageResponse{
		Status:    status,
		Route:     string(page.Route),
		Sort:      string(page.Sort),
		Page:      page.Page,
		PageSize:  page.PageSize,
		Total:     page.Total,
		HasMore:   page.HasMore,
		Reference: rowToResponse(page.Reference),
		Rows:      rows,
	}
}

package domain

import (
	"fmt"
	"strings"
)

// Recipe is an immutable catalog entry.
type Recipe struct {
	ID              int64
	Title           string
	Slug            string
	Ingredients     string
	Categories      string // ';'-separated tags
	Servings        string
	Calories        float64
	Sodium          float64
	Fat             float64
	Protein         float64
	Emissions       float64 // kg CO2-equivalent
	EmissionsLog10  float64
	PropIngredients float64
	Rating          float64 // average rating, 1-5
	ReviewCount     int64
	ImageURL        string

	// Precomputed offline, rank-normalised to [0,100]. Never recomputed here.
	PercRating         float64
	PercSustainability float64
}

// CategoryList splits the category tags, dropping blanks.
func (r *Recipe) CategoryList() []string {
	if r == nil || r.Categories == "" {
		return nil
	}
	parts := strings.Split(r.Categories, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValidateRecipe checks the fields the engine relies on.
func ValidateRecipe(r *Recipe) error {
	if r == nil {
		return fmt.Errorf("recipe cannot be nil")
	}
	if r.ID <= 0 {
		return fmt.Errorf("recipe ID must be positive")
	}
	if r.Slug == "" {
		return fmt.Errorf("recipe Slug is required")
	}
	if r.Title == "" {
		return fmt.Errorf("recipe Title is required")
	}
	if r.PercRating < 0 || r.PercRating > 100 {
		return fmt.Errorf("recipe PercRating out of range: %v", r.PercRating)
	}
	if r.PercSustainability < 0 || r.PercSustainability > 100 {
		return fmt.Errorf("recipe PercSustainability out of range: %v", r.PercSustainability)
	}
	return nil
}

// EmissionScore is the slim projection used for catalog-wide statistics.
type EmissionScore struct {
	RecipeID       int64
	Emissions      float64
	EmissionsLog10 float64
	Slug           string
	Title          string
}

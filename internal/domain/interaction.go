package domain

import "time"

// Rating is a user's opinion of a recipe.
type Rating int

const (
	RatingDislike Rating = 1
	RatingNeutral Rating = 3
	RatingLike    Rating = 5
)

// Valid reports whether r is one of the enumerated ratings.
func (r Rating) Valid() bool {
	switch r {
	case RatingDislike, RatingNeutral, RatingLike:
		return true
	}
	return false
}

// Percent is the rating expressed as a rounded percentage of 5.
func (r Rating) Percent() int {
	return RatingPercent(float64(r))
}

// Interaction records one user's bookmark and rating for one recipe.
// (UserID, RecipeID) is unique.
type Interaction struct {
	UserID     int64
	RecipeID   int64
	Bookmarked bool
	Rating     Rating
	CreatedAt  time.Time
}

// DefaultInteraction is the overlay applied when no record exists: an absent
// record reads exactly like an explicit neutral, unbookmarked one.
func DefaultInteraction(userID, recipeID int64) Interaction {
	return Interaction{
		UserID:     userID,
		RecipeID:   recipeID,
		Bookmarked: false,
		Rating:     RatingNeutral,
	}
}

// CookbookEntry is an interaction joined with its recipe.
type CookbookEntry struct {
	Interaction Interaction
	Recipe      *Recipe
}

// BookmarkStatus is the outcome of a bookmark mutation.
type BookmarkStatus string

const (
	BookmarkCreated       BookmarkStatus = "created"
	BookmarkAlreadyExists BookmarkStatus = "already_exists"
	BookmarkRemoved       BookmarkStatus = "removed"
	BookmarkNotBookmarked BookmarkStatus = "not_bookmarked"
)

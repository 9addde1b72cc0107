package client

import "fmt"

// SearchFeedbackRequest records which result of a logged search was opened.
// The server ties it to the search_logs row so ranking quality can be
// measured per route.
type SearchFeedbackRequest struct {
	SearchID int64 `json:"search_id"`
	RecipeID int64 `json:"recipe_id"`
}

// SearchFeedback is a no-op when the server could not log the search and
// returned no id.
func (c *APIClient) SearchFeedback(searchID, recipeID int64) error {
	if searchID <= 0 {
		return nil
	}
	if recipeID <= 0 {
		return fmt.Errorf("invalid recipe id %d", recipeID)
	}
	_, err := c.Post("/search/feedback", SearchFeedbackRequest{SearchID: searchID, RecipeID: recipeID})
	return err
}

package client

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// Recipe is the recipe payload returned by the API.
type Recipe struct {
	ID                 int64    `json:"id"`
	Slug               string   `json:"slug"`
	Title              string   `json:"title"`
	Categories         []string `json:"categories"`
	Calories           float64  `json:"calories"`
	Emissions          float64  `json:"emissions"`
	Rating             float64  `json:"rating"`
	ReviewCount        int64    `json:"review_count"`
	ImageURL           string   `json:"image_url,omitempty"`
	PercRating         float64  `json:"perc_rating"`
	PercSustainability float64  `json:"perc_sustainability"`
}

// ResultRow is one recipe on a result page.
type ResultRow struct {
	Recipe                   Recipe   `json:"recipe"`
	Score                    float64  `json:"score"`
	ScoreKind                string   `json:"score_kind,omitempty"`
	Bookmarked               bool     `json:"bookmarked"`
	UserRating               int      `json:"user_rating"`
	RatingPercent            int      `json:"rating_percent"`
	SimilarityPercent        int      `json:"similarity_percent"`
	SustainabilityPercentile float64  `json:"sustainability_percentile"`
	EmissionChange           *float64 `json:"emission_change,omitempty"`
}

// ResultPage is the page returned by search, similar and cookbook.
type ResultPage struct {
	Status    string       `json:"status"`
	SearchID  int64        `json:"search_id,omitempty"`
	Route     string       `json:"route"`
	SortBy    string       `json:"sort_by"`
	Page      int          `json:"page"`
	PageSize  int          `json:"page_size"`
	Total     int          `json:"total"`
	HasMore   bool         `json:"has_more"`
	Reference *ResultRow   `json:"reference,omitempty"`
	Rows      []*ResultRow `json:"rows"`
}

// SearchCmd creates the search command.
func SearchCmd() *cobra.Command {
	var (
		sortBy string
		page   int
		pick   int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search recipes",
		Long: `Searches the recipe catalog.

A query that exactly names a recipe slug returns that recipe and its most
similar recipes. Any other query is matched against titles, falling back to
the closest spellings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			api, err := NewAPIClient(cmd)
			if err != nil {
				return err
			}
			return runSearch(api, args[0], sortBy, page, pick, outputJSON)
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort-by", "", "Sort by similarity, sustainability or rating")
	cmd.Flags().IntVar(&page, "page", 0, "Zero-based page number")
	cmd.Flags().IntVar(&pick, "pick", 0, "Report the N-th result (1-based) as the one you chose")

	return cmd
}

func runSearch(api *APIClient, query, sortBy string, page, pick int, outputJSON bool) error {
	resp, err := api.Get("/search", api.pageQuery(url.Values{"q": {query}}, sortBy, page))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	var result ResultPage
	if err := resp.Decode(&result); err != nil {
		return err
	}

	if pick > 0 {
		if err := pickResult(api, &result, pick); err != nil {
			return err
		}
	}

	if outputJSON {
		return printJSON(result)
	}
	printResultPage(&result)
	return nil
}

// pickResult reports the chosen row back to the search log.
func pickResult(api *APIClient, result *ResultPage, pick int) error {
	rows := result.allRows()
	if pick > len(rows) {
		return fmt.Errorf("--pick %d is out of range (%d results)", pick, len(rows))
	}
	return api.SearchFeedback(result.SearchID, rows[pick-1].Recipe.ID)
}

func (p *ResultPage) allRows() []*ResultRow {
	if p.Reference == nil {
		return p.Rows
	}
	return append([]*ResultRow{p.Reference}, p.Rows...)
}

// pageQuery adds paging to q. An empty sortBy falls back to the profile's
// preferred sort.
func (c *APIClient) pageQuery(q url.Values, sortBy string, page int) url.Values {
	if sortBy == "" {
		sortBy = c.sortBy
	}
	if sortBy != "" {
		q.Set("sort_by", sortBy)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	return q
}

func printResultPage(result *ResultPage) {
	switch result.Status {
	case "not_found":
		fmt.Println("Recipe not found.")
		return
	case "unavailable":
		fmt.Println("Recipes are temporarily unavailable, try again later.")
		return
	}

	if result.Reference != nil {
		fmt.Printf("Recipes similar to %s:\n\n", result.Reference.Recipe.Title)
	}
	if len(result.Rows) == 0 {
		fmt.Println("No recipes found.")
		return
	}

	fmt.Printf("Showing %d of %d recipes (sorted by %s):\n\n", len(result.Rows), result.Total, result.SortBy)
	offset := result.Page * result.PageSize
	for i, row := range result.Rows {
		marker := " "
		if row.Bookmarked {
			marker = "*"
		}
		fmt.Printf("%d.%s %s\n", offset+i+1, marker, row.Recipe.Title)
		details := []string{
			fmt.Sprintf("rating %d%%", row.RatingPercent),
			fmt.Sprintf("sustainability %.0f", row.SustainabilityPercentile),
		}
		if row.ScoreKind == "similarity" {
			details = append(details, fmt.Sprintf("similarity %d%%", row.SimilarityPercent))
		}
		if row.EmissionChange != nil {
			details = append(details, fmt.Sprintf("emissions %+.2f kg", *row.EmissionChange))
		}
		if row.UserRating > 0 {
			details = append(details, fmt.Sprintf("your rating %d", row.UserRating))
		}
		fmt.Printf("   %s\n", strings.Join(details, ", "))
		fmt.Printf("   Slug: %s\n", row.Recipe.Slug)
		if i < len(result.Rows)-1 {
			fmt.Println(strings.Repeat("-", 40))
		}
	}
	if result.HasMore {
		fmt.Printf("\n%s\n", strings.Repeat("-", 40))
		fmt.Printf("More results available. Use --page %d\n", result.Page+1)
	}
}

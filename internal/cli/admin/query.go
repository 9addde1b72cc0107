package admin

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/service"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func SearchCmd() *cobra.Command {
	var (
		userID int64
		sortBy string
		page   int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a discovery query against the database",
		Long:  "Resolve a query exactly as the API does: exact slug, then phrase, then fuzzy match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			return withApp(func(ctx context.Context, a *app) error {
				result, err := a.discovery.Discover(ctx, service.DiscoveryRequest{
					Query:  args[0],
					UserID: userID,
					Sort:   sortBy,
					Page:   page,
				})
				if err != nil {
					return err
				}
				return printPage(os.Stdout, outputFormat, result)
			})
		},
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	cmd.Flags().Int64Var(&userID, "user", 0, "Apply this user's bookmarks and ratings")
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "Sort by similarity, sustainability or rating")
	cmd.Flags().IntVar(&page, "page", 0, "Zero-based page number")

	return cmd
}

func SimilarCmd() *cobra.Command {
	var (
		userID int64
		sortBy string
		page   int
	)

	cmd := &cobra.Command{
		Use:   "similar <slug>",
		Short: "List recipes similar to a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			return withApp(func(ctx context.Context, a *app) error {
				result, err := a.discovery.Similar(ctx, service.SimilarRequest{
					Slug:   args[0],
					UserID: userID,
					Sort:   sortBy,
					Page:   page,
				})
				if err != nil {
					return err
				}
				return printPage(os.Stdout, outputFormat, result)
			})
		},
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	cmd.Flags().Int64Var(&userID, "user", 0, "Apply this user's bookmarks and ratings")
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "Sort by similarity, sustainability or rating")
	cmd.Flags().IntVar(&page, "page", 0, "Zero-based page number")

	return cmd
}

func HistogramCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "histogram [slug]",
		Short: "Compute the emissions histogram",
		Long:  "Compute the catalog-wide emissions histogram and optionally locate a recipe on it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				if err := a.histogram.Refresh(ctx); err != nil {
					return err
				}
				var out interface{}
				if len(args) == 1 {
					marker, err := a.histogram.Marker(args[0])
					if err != nil {
						return err
					}
					out = marker
				} else {
					hist, err := a.histogram.Current()
					if err != nil {
						return err
					}
					out = hist
				}
				return printJSON(os.Stdout, out)
			})
		},
	}

	return cmd
}

// withApp runs fn against a freshly wired engine.
func withApp(fn func(ctx context.Context, a *app) error) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func printJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func printPage(w io.Writer, format string, page *domain.ResultPage) error {
	if format == "json" {
		return printJSON(w, pageSummary(page))
	}

	fmt.Fprintf(w, "route: %s  sort: %s  page: %d  total: %d\n", page.Route, page.Sort, page.Page, page.Total)
	if page.Reference != nil {
		fmt.Fprintf(w, "reference: %s (%s)\n", page.Reference.Recipe.Title, page.Reference.Recipe.Slug)
	}
	if len(page.Rows) == 0 {
		fmt.Fprintln(w, "No recipes found")
		return nil
	}
	for _, row := range page.Rows {
		fmt.Fprintf(w, "  %-40s %s=%.4f  sustainability=%.0f  rating=%d%%",
			row.Recipe.Slug, row.ScoreKind, row.Score, row.SustainabilityPercentile, row.RatingPercent)
		if row.EmissionChange != nil {
			fmt.Fprintf(w, "  emissions%+.2f", *row.EmissionChange)
		}
		if row.Bookmarked {
			fmt.Fprint(w, "  [bookmarked]")
		}
		fmt.Fprintln(w)
	}
	if page.HasMore {
		fmt.Fprintf(w, "\nMore results available. Use --page %d\n", page.Page+1)
	}
	return nil
}

type rowSummary struct {
	Slug           string   `json:"slug"`
	Title          string   `json:"title"`
	Score          float64  `json:"score"`
	ScoreKind      string   `json:"score_kind"`
	Bookmarked     bool     `json:"bookmarked"`
	UserRating     int      `json:"user_rating"`
	EmissionChange *float64 `json:"emission_change,omitempty"`
}

func pageSummary(page *domain.ResultPage) map[string]interface{} {
	rows := make([]rowSummary, len(page.Rows))
	for i, row := range page.Rows {
		rows[i] = rowSummary{
			Slug:           row.Recipe.Slug,
			Title:          row.Recipe.Title,
			Score:          row.Score,
			ScoreKind:      string(row.ScoreKind),
			Bookmarked:     row.Bookmarked,
			UserRating:     int(row.UserRating),
			EmissionChange: row.EmissionChange,
		}
	}
	out := map[string]interface{}{
		"route":    page.Route,
		"sort_by":  page.Sort,
		"page":     page.Page,
		"total":    page.Total,
		"has_more": page.HasMore,
		"rows":     rows,
	}
	if page.Reference != nil {
		out["reference"] = page.Reference.Recipe.Slug
	}
	return out
}

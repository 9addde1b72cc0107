package client

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// EmissionsHistogram is the catalog-wide emissions distribution.
type EmissionsHistogram struct {
	Edges      []float64 `json:"edges"`
	Density    []float64 `json:"density"`
	Recipes    int       `json:"recipes"`
	ComputedAt time.Time `json:"computed_at"`
}

// EmissionsMarker locates one recipe on the histogram.
type EmissionsMarker struct {
	Histogram      *EmissionsHistogram `json:"histogram"`
	Slug           string              `json:"slug"`
	Title          string              `json:"title"`
	Emissions      float64             `json:"emissions"`
	EmissionsLog10 float64             `json:"emissions_log10"`
	Bin            int                 `json:"bin"`
}

// SimilarCmd creates the similar command.
func SimilarCmd() *cobra.Command {
	var (
		sortBy string
		page   int
	)

	cmd := &cobra.Command{
		Use:   "similar <slug>",
		Short: "List recipes similar to a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			api, err := NewAPIClient(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Get("/recipes/"+url.PathEscape(args[0])+"/similar", api.pageQuery(url.Values{}, sortBy, page))
			if err != nil {
				return fmt.Errorf("similar failed: %w", err)
			}
			var result ResultPage
			if err := resp.Decode(&result); err != nil {
				return err
			}
			if outputJSON {
				return printJSON(result)
			}
			printResultPage(&result)
			return nil
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort-by", "", "Sort by similarity, sustainability or rating")
	cmd.Flags().IntVar(&page, "page", 0, "Zero-based page number")

	return cmd
}

// EmissionsCmd creates the emissions command.
func EmissionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emissions [slug]",
		Short: "Show the emissions histogram",
		Long:  "Shows the catalog emissions distribution, marking where a recipe falls when a slug is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			api, err := NewAPIClient(cmd)
			if err != nil {
				return err
			}

			marker := &EmissionsMarker{Bin: -1}
			if len(args) == 1 {
				resp, err := api.Get("/recipes/"+url.PathEscape(args[0])+"/emissions", nil)
				if err != nil {
					return fmt.Errorf("emissions failed: %w", err)
				}
				if err := resp.Decode(marker); err != nil {
					return err
				}
			} else {
				resp, err := api.Get("/emissions/histogram", nil)
				if err != nil {
					return fmt.Errorf("emissions failed: %w", err)
				}
				marker.Histogram = &EmissionsHistogram{}
				if err := resp.Decode(marker.Histogram); err != nil {
					return err
				}
			}

			if outputJSON {
				if len(args) == 0 {
					return printJSON(marker.Histogram)
				}
				return printJSON(marker)
			}
			printHistogram(marker)
			return nil
		},
	}

	return cmd
}

const histogramWidth = 40

// printHistogram draws the density as rows of bars, merging bins so the
// plot stays readable in a terminal.
func printHistogram(m *EmissionsMarker) {
	h := m.Histogram
	if h == nil || len(h.Density) == 0 {
		fmt.Println("No emissions data.")
		return
	}
	if m.Slug != "" {
		fmt.Printf("%s: %.2f kg CO2e (log10 %.2f)\n\n", m.Title, m.Emissions, m.EmissionsLog10)
	}

	rows := 20
	if len(h.Density) < rows {
		rows = len(h.Density)
	}
	per := (len(h.Density) + rows - 1) / rows

	merged := make([]float64, 0, rows)
	peak := 0.0
	for start := 0; start < len(h.Density); start += per {
		end := start + per
		if end > len(h.Density) {
			end = len(h.Density)
		}
		sum := 0.0
		for _, d := range h.Density[start:end] {
			sum += d
		}
		merged = append(merged, sum)
		if sum > peak {
			peak = sum
		}
	}

	for i, d := range merged {
		lo := h.Edges[i*per]
		bar := 0
		if peak > 0 {
			bar = int(d / peak * histogramWidth)
		}
		line := fmt.Sprintf("%7.2f | %s", lo, strings.Repeat("#", bar))
		if m.Bin >= i*per && m.Bin < (i+1)*per {
			line += "  <- " + m.Slug
		}
		fmt.Println(line)
	}
	fmt.Printf("\n%d recipes, computed %s\n", h.Recipes, h.ComputedAt.Format(time.RFC3339))
}

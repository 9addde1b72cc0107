package client

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

// CategoryCount is one of the user's favourite categories.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CookbookCmd creates the cookbook command.
func CookbookCmd() *cobra.Command {
	var (
		sortBy string
		page   int
	)

	cmd := &cobra.Command{
		Use:   "cookbook",
		Short: "List your bookmarked recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			api, err := NewAPIClient(cmd)
			if err != nil {
				return err
			}
			if err := api.RequireUser(); err != nil {
				return err
			}

			resp, err := api.Get("/cookbook", api.pageQuery(url.Values{}, sortBy, page))
			if err != nil {
				return fmt.Errorf("cookbook failed: %w", err)
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

	cmd.Flags().StringVar(&sortBy, "sort-by", "", "Sort by sustainability or rating")
	cmd.Flags().IntVar(&page, "page", 0, "Zero-based page number")

	cmd.AddCommand(cookbookFavoritesCmd())
	cmd.AddCommand(cookbookCategoriesCmd())

	return cmd
}

func cookbookFavoritesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Show your highest rated bookmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			api, err := NewAPIClient(cmd)
			if err != nil {
				return err
			}
			if err := api.RequireUser(); err != nil {
				return err
			}

			resp, err := api.Get("/cookbook/favorites", url.Values{"n": {strconv.Itoa(limit)}})
			if err != nil {
				return fmt.Errorf("favorites failed: %w", err)
			}
			var out struct {
				Recipes []Recipe `json:"recipes"`
			}
			if err := resp.Decode(&out); err != nil {
				return err
			}
			if outputJSON {
				return printJSON(out)
			}
			if len(out.Recipes) == 0 {
				fmt.Println("No liked recipes yet.")
				return nil
			}
			for i, r := range out.Recipes {
				fmt.Printf("%d. %s (%s)\n", i+1, r.Title, r.Slug)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Number of recipes")

	return cmd
}

func cookbookCategoriesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Show the categories you bookmark most",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			api, err := NewAPIClient(cmd)
			if err != nil {
				return err
			}
			if err := api.RequireUser(); err != nil {
				return err
			}

			resp, err := api.Get("/cookbook/categories", url.Values{"n": {strconv.Itoa(limit)}})
			if err != nil {
				return fmt.Errorf("categories failed: %w", err)
			}
			var out struct {
				Categories []CategoryCount `json:"categories"`
			}
			if err := resp.Decode(&out); err != nil {
				return err
			}
			if outputJSON {
				return printJSON(out)
			}
			if len(out.Categories) == 0 {
				fmt.Println("No rated or bookmarked recipes yet.")
				return nil
			}
			for _, c := range out.Categories {
				fmt.Printf("  %-30s %d\n", c.Category, c.Count)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Number of categories")

	return cmd
}

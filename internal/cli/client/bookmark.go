package client

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

// BookmarkStatus is the bookmark state of one recipe.
type BookmarkStatus struct {
	Slug       string `json:"slug"`
	Status     string `json:"status,omitempty"`
	Bookmarked bool   `json:"bookmarked"`
}

// RatingStatus is the user's rating of one recipe.
type RatingStatus struct {
	Slug    string `json:"slug"`
	Rating  int    `json:"rating"`
	Percent int    `json:"percent"`
}

// BookmarkCmd creates the bookmark parent command.
func BookmarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmark",
		Short: "Manage bookmarked recipes",
	}

	cmd.AddCommand(bookmarkSubCmd("add", "Bookmark a recipe", "PUT"))
	cmd.AddCommand(bookmarkSubCmd("remove", "Remove a bookmark", "DELETE"))
	cmd.AddCommand(bookmarkSubCmd("toggle", "Toggle a bookmark", "POST"))
	cmd.AddCommand(bookmarkSubCmd("status", "Show whether a recipe is bookmarked", "GET"))

	return cmd
}

func bookmarkSubCmd(use, short, method string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <slug>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			api, err := NewAPIClient(cmd)
			if err != nil {
				return err
			}
			return runBookmark(api, method, args[0], outputJSON)
		},
	}
}

func runBookmark(api *APIClient, method, slug string, outputJSON bool) error {
	if err := api.RequireUser(); err != nil {
		return err
	}

	path := "/recipes/" + url.PathEscape(slug) + "/bookmark"
	var (
		resp *APIResponse
		err  error
	)
	switch method {
	case "PUT":
		resp, err = api.Put(path, nil)
	case "DELETE":
		resp, err = api.Delete(path)
	case "POST":
		resp, err = api.Post(path+"/toggle", nil)
	default:
		resp, err = api.Get(path, nil)
	}
	if err != nil {
		return fmt.Errorf("bookmark failed: %w", err)
	}

	var status BookmarkStatus
	if err := resp.Decode(&status); err != nil {
		return err
	}
	if outputJSON {
		return printJSON(status)
	}

	switch {
	case status.Status == "already_exists":
		fmt.Printf("%s is already bookmarked\n", slug)
	case status.Status == "not_bookmarked":
		fmt.Printf("%s was not bookmarked\n", slug)
	case status.Bookmarked:
		fmt.Printf("%s is bookmarked\n", slug)
	default:
		fmt.Printf("%s is not bookmarked\n", slug)
	}
	return nil
}

// RateCmd creates the rate command.
func RateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate <slug> [1|3|5]",
		Short: "Rate a recipe",
		Long:  "Rates a recipe as disliked (1), neutral (3) or liked (5). Without a rating, shows your current rating.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			api, err := NewAPIClient(cmd)
			if err != nil {
				return err
			}
			rating := 0
			if len(args) == 2 {
				rating, err = strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("rating must be 1, 3 or 5")
				}
			}
			return runRate(api, args[0], rating, outputJSON)
		},
	}

	return cmd
}

func runRate(api *APIClient, slug string, rating int, outputJSON bool) error {
	if err := api.RequireUser(); err != nil {
		return err
	}

	path := "/recipes/" + url.PathEscape(slug) + "/rating"
	var (
		resp *APIResponse
		err  error
	)
	if rating == 0 {
		resp, err = api.Get(path, nil)
	} else {
		resp, err = api.Put(path, map[string]int{"rating": rating})
	}
	if err != nil {
		return fmt.Errorf("rating failed: %w", err)
	}

	var status RatingStatus
	if err := resp.Decode(&status); err != nil {
		return err
	}
	if outputJSON {
		return printJSON(status)
	}
	fmt.Printf("%s: rated %d (%d%%)\n", slug, status.Rating, status.Percent)
	return nil
}

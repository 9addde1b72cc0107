package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/greenplate/internal/cli"
	"github.com/cloo-solutions/greenplate/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "greenplate",
		Short: "Greenplate CLI - find recipes that are good for you and the planet",
		Long: `Greenplate CLI searches the recipe catalog and manages your cookbook.

Environment variables:
  GREENPLATE_USER_ID   User to act as for bookmarks and ratings (optional for search)
  GREENPLATE_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().Int64("user", 0, "User id (overrides env and config)")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.SearchCmd())
	rootCmd.AddCommand(client.SimilarCmd())
	rootCmd.AddCommand(client.EmissionsCmd())
	rootCmd.AddCommand(client.BookmarkCmd())
	rootCmd.AddCommand(client.RateCmd())
	rootCmd.AddCommand(client.CookbookCmd())
	rootCmd.AddCommand(client.AuthCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

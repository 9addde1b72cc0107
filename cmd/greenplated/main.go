package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/greenplate/internal/cli"
	"github.com/cloo-solutions/greenplate/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "greenplated",
		Short: "Greenplate daemon and operator CLI",
		Long:  "Greenplate daemon for serving the recipe discovery API, importing the catalog and managing users",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.ImportCmd())
	rootCmd.AddCommand(admin.SearchCmd())
	rootCmd.AddCommand(admin.SimilarCmd())
	rootCmd.AddCommand(admin.HistogramCmd())
	rootCmd.AddCommand(admin.UserCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

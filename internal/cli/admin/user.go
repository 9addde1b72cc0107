package admin

import (
	"context"
	"fmt"
	"os"

	"github.com/cloo-solutions/greenplate/internal/pagination"
	"github.com/spf13/cobra"
)

func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
		Long:  "Create and list users that can bookmark and rate recipes",
	}

	cmd.AddCommand(UserCreateCmd())
	cmd.AddCommand(UserListCmd())

	return cmd
}

func UserCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			return withApp(func(ctx context.Context, a *app) error {
				user, err := a.userRepo.Create(ctx)
				if err != nil {
					return fmt.Errorf("failed to create user: %w", err)
				}
				if outputFormat == "json" {
					return printJSON(os.Stdout, map[string]interface{}{
						"id":         user.ID,
						"created_at": user.CreatedAt,
					})
				}
				fmt.Printf("User created: %d\n", user.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func UserListCmd() *cobra.Command {
	var (
		limit int
		page  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			return withApp(func(ctx context.Context, a *app) error {
				users, err := a.userRepo.List(ctx)
				if err != nil {
					return fmt.Errorf("failed to list users: %w", err)
				}
				result, err := pagination.Paginate(users, page, limit)
				if err != nil {
					return err
				}

				if outputFormat == "json" {
					items := make([]map[string]interface{}, len(result.Items))
					for i, u := range result.Items {
						items[i] = map[string]interface{}{
							"id":         u.ID,
							"created_at": u.CreatedAt,
							"bookmarks":  u.Bookmarks,
						}
					}
					return printJSON(os.Stdout, map[string]interface{}{
						"items":    items,
						"total":    result.Total,
						"has_more": result.HasMore,
					})
				}

				if len(result.Items) == 0 {
					fmt.Println("No users found")
					return nil
				}
				fmt.Println("Users:")
				for _, u := range result.Items {
					fmt.Printf("  %d: %d bookmarks (created: %s)\n", u.ID, u.Bookmarks, u.CreatedAt.Format("2006-01-02 15:04:05"))
				}
				if result.HasMore {
					fmt.Printf("\nMore results available. Use --page %d\n", page+1)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results")
	cmd.Flags().IntVar(&page, "page", 0, "Zero-based page number")

	return cmd
}

package client

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/spf13/cobra"
)

// AuthCmd groups the commands that manage who the CLI acts as. There are no
// passwords: the gateway in front of the API trusts the X-User-ID header.
func AuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the signed-in user",
		Long:  "Login, logout, and check which user the greenplate CLI acts as",
	}
	cmd.AddCommand(authLoginCmd(), authLogoutCmd(), authStatusCmd())
	return cmd
}

func authLoginCmd() *cobra.Command {
	var userID, apiURL, sortBy string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Act as a user",
		Long:  "Store the user id, API URL and preferred sort in the profile (~/.config/greenplate/config.json)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthLogin(userID, apiURL, sortBy)
		},
	}

	cmd.Flags().StringVar(&userID, "as", "", "User id created with 'greenplated user create'")
	cmd.Flags().StringVar(&apiURL, "url", defaultAPIURL, "API URL")
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "Default sort for search, similar and cookbook")
	return cmd
}

func authLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthLogout()
		},
	}
}

func authStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which user requests are sent as",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			flagUser, _ := cmd.Flags().GetInt64("user")
			flagURL, _ := cmd.Flags().GetString("api-url")
			return runAuthStatus(flagUser, flagURL, outputJSON)
		},
	}
}

func runAuthLogin(rawUserID, apiURL, sortBy string) error {
	if rawUserID == "" {
		fmt.Print("Enter user id: ")
		input, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read user id: %w", err)
		}
		rawUserID = strings.TrimSpace(input)
	}

	userID, err := ParseUserID(rawUserID)
	if err != nil {
		return err
	}
	if sortBy != "" {
		key, err := domain.ParseSortKey(sortBy)
		if err != nil {
			return err
		}
		sortBy = string(key)
	}

	if err := SaveProfile(&Profile{UserID: userID, APIURL: apiURL, SortBy: sortBy}); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	fmt.Printf("Logged in as user %d\n", userID)
	return nil
}

func runAuthLogout() error {
	if err := DeleteProfile(); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	fmt.Println("Logged out")
	return nil
}

func runAuthStatus(flagUserID int64, flagAPIURL string, outputJSON bool) error {
	id, err := Resolve(flagUserID, flagAPIURL)
	if err != nil {
		return err
	}
	anonymous := id.UserSource == SourceNone

	if outputJSON {
		status := map[string]interface{}{
			"authenticated": !anonymous,
			"source":        string(id.UserSource),
			"api_url":       id.APIURL,
		}
		if !anonymous {
			status["user_id"] = id.UserID
		}
		if id.SortBy != "" {
			status["sort_by"] = id.SortBy
		}
		return printJSON(status)
	}

	if anonymous {
		fmt.Println("Not logged in; searches run anonymously against", id.APIURL)
		fmt.Println("Run 'greenplate auth login' to bookmark and rate recipes")
		return nil
	}

	fmt.Printf("User: %d (from %s)\n", id.UserID, id.UserSource)
	fmt.Printf("API URL: %s\n", id.APIURL)
	if id.SortBy != "" {
		fmt.Printf("Default sort: %s\n", id.SortBy)
	}
	return nil
}

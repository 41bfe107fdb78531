package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register EMAIL PASSWORD [NAME]",
	Short: "Create a password account",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"email": args[0], "password": args[1]}
		if len(args) == 3 {
			body["name"] = args[2]
		}
		var account map[string]any
		if err := call(http.MethodPost, "/api/auth/register", body, &account); err != nil {
			return err
		}
		return printJSON(account)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login EMAIL PASSWORD",
	Short: "Log in and print a session token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Token string         `json:"token"`
			User  map[string]any `json:"user"`
		}
		err := call(http.MethodPost, "/api/auth/login", map[string]string{
			"email":    args[0],
			"password": args[1],
		}, &resp)
		if err != nil {
			return err
		}
		fmt.Println(resp.Token)
		return nil
	},
}

var mintCmd = &cobra.Command{
	Use:   "mint-token DAYS",
	Short: "Mint a long-lived API token (1-30 days)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var days int
		if _, err := fmt.Sscanf(args[0], "%d", &days); err != nil {
			return fmt.Errorf("DAYS must be a number: %w", err)
		}
		var resp struct {
			Token string `json:"token"`
		}
		if err := call(http.MethodPost, "/api/auth/token", map[string]int{"expiration": days}, &resp); err != nil {
			return err
		}
		fmt.Println(resp.Token)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account behind the current token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var account map[string]any
		if err := call(http.MethodGet, "/api/user/me", nil, &account); err != nil {
			return err
		}
		return printJSON(account)
	},
}

func init() {
	rootCmd.AddCommand(registerCmd, loginCmd, mintCmd, whoamiCmd)
}

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	serverURL string
	authToken string
)

var rootCmd = &cobra.Command{
	Use:   "tenauthctl",
	Short: "CLI for the tenauth identity server",
	Long: `tenauthctl talks to a running tenauth server over its HTTP API.
Commands that need authentication take a token via --token or the
TENAUTH_TOKEN environment variable.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "base URL of the tenauth server")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "bearer token (defaults to TENAUTH_TOKEN)")
}

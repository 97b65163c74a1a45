package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	authToken string
	apiURL    = "http://localhost:8787"
	output    = "text" // "text" or "json"
)

var rootCmd = &cobra.Command{
	Use:   "vidshare",
	Short: "vidshare CLI - operate the video sharing API from a terminal",
	Long: `vidshare CLI talks to a running API server.
Browse videos, read channel stats and toggle likes or subscriptions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if authToken == "" {
			authToken = os.Getenv("VIDSHARE_TOKEN")
		}
		if output != "text" && output != "json" {
			return fmt.Errorf("unknown output format %q (use text or json)", output)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "Authentication token (defaults to VIDSHARE_TOKEN env var)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", apiURL, "API server URL")
	rootCmd.PersistentFlags().StringVar(&output, "output", output, "Output format: text or json")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(videosCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(subscribeCmd)
	rootCmd.AddCommand(subscribersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

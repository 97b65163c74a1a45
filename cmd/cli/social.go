package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your channel stats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(true)
		if err != nil {
			return err
		}

		var stats struct {
			TotalVideos      int64 `json:"totalVideos"`
			TotalSubscribers int64 `json:"totalSubscribers"`
			TotalViews       int64 `json:"totalViews"`
			TotalLikes       int64 `json:"totalLikes"`
		}
		env, err := call(client.R(), http.MethodGet, "/dashboard/stats", &stats)
		if err != nil {
			return err
		}
		if output == "json" {
			return printJSON(env)
		}

		bold.Println("Channel stats")
		fmt.Printf("Videos:      %d\n", stats.TotalVideos)
		fmt.Printf("Subscribers: %d\n", stats.TotalSubscribers)
		fmt.Printf("Views:       %d\n", stats.TotalViews)
		fmt.Printf("Likes given: %d\n", stats.TotalLikes)
		return nil
	},
}

// likePaths maps a target kind to its toggle route.
var likePaths = map[string]string{
	"video":   "/likes/toggle/v/{id}",
	"comment": "/likes/toggle/c/{id}",
	"tweet":   "/likes/toggle/t/{id}",
}

var likeCmd = &cobra.Command{
	Use:       "like <video|comment|tweet> <id>",
	Short:     "Toggle your like on a video, comment or tweet",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"video", "comment", "tweet"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path, ok := likePaths[strings.ToLower(args[0])]
		if !ok {
			return fmt.Errorf("unknown like target %q (use video, comment or tweet)", args[0])
		}
		client, err := newClient(true)
		if err != nil {
			return err
		}

		var res struct {
			Liked bool `json:"liked"`
		}
		env, err := call(client.R().SetPathParam("id", args[1]), http.MethodPost, path, &res)
		if err != nil {
			return err
		}
		if output == "json" {
			return printJSON(env)
		}
		successColor.Printf("✓ %s\n", env.Message)
		return nil
	},
}

var subscribeCmd = &cobra.Command{
	Use:   "subscribe <channelId>",
	Short: "Toggle your subscription to a channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(true)
		if err != nil {
			return err
		}

		var res struct {
			Subscribed bool `json:"subscribed"`
		}
		env, err := call(client.R().SetPathParam("channelId", args[0]), http.MethodPost, "/subscriptions/c/{channelId}", &res)
		if err != nil {
			return err
		}
		if output == "json" {
			return printJSON(env)
		}
		successColor.Printf("✓ %s\n", env.Message)
		return nil
	},
}

var subscribersCmd = &cobra.Command{
	Use:   "subscribers <channelId>",
	Short: "List the subscribers of a channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(false)
		if err != nil {
			return err
		}

		var users []user
		env, err := call(client.R().SetPathParam("channelId", args[0]), http.MethodGet, "/subscriptions/c/{channelId}", &users)
		if err != nil {
			return err
		}
		if output == "json" {
			return printJSON(env)
		}

		if len(users) == 0 {
			infoColor.Println("No subscribers yet")
			return nil
		}
		rows := make([][]string, 0, len(users))
		for _, u := range users {
			rows = append(rows, []string{u.ID, u.Username, u.FullName})
		}
		printTable([]string{"ID", "USERNAME", "NAME"}, rows)
		return nil
	},
}

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Exchange email and password for a bearer token",
	Long: `Log in and print a bearer token.

Example:
  export VIDSHARE_TOKEN=$(vidshare login --email me@example.com)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if loginEmail == "" {
			return fmt.Errorf("--email is required")
		}
		if loginPassword == "" {
			fmt.Fprint(os.Stderr, "Password: ")
			raw, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			loginPassword = string(raw)
		}

		client, err := newClient(false)
		if err != nil {
			return err
		}

		var token struct {
			Token string `json:"token"`
		}
		body := map[string]string{"email": loginEmail, "password": loginPassword}
		env, err := call(client.R().SetBody(body), http.MethodPost, "/auth/login", &token)
		if err != nil {
			return err
		}
		if output == "json" {
			return printJSON(env)
		}
		fmt.Println(token.Token)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")
}

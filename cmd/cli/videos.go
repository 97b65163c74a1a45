package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

type user struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

type video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	Owner       *user     `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
}

type videoPage struct {
	Items      []video `json:"items"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"totalPages"`
}

var videosCmd = &cobra.Command{
	Use:   "videos",
	Short: "Browse videos",
}

var (
	listPage     int
	listLimit    int
	listQuery    string
	listSortBy   string
	listSortType string
	listUserID   string
)

var videosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List published videos",
	Long: `List published videos with search, sorting and pagination.

Examples:
  vidshare videos list --query cooking --sort-by views
  vidshare videos list --user <userId> --page 2 --limit 20`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(false)
		if err != nil {
			return err
		}

		params := map[string]string{
			"page":  strconv.Itoa(listPage),
			"limit": strconv.Itoa(listLimit),
		}
		for key, value := range map[string]string{
			"query":    listQuery,
			"sortBy":   listSortBy,
			"sortType": listSortType,
			"userId":   listUserID,
		} {
			if value != "" {
				params[key] = value
			}
		}

		var page videoPage
		env, err := call(client.R().SetQueryParams(params), http.MethodGet, "/videos", &page)
		if err != nil {
			return err
		}
		if output == "json" {
			return printJSON(env)
		}

		if len(page.Items) == 0 {
			infoColor.Println("No videos found")
			return nil
		}
		rows := make([][]string, 0, len(page.Items))
		for _, v := range page.Items {
			owner := ""
			if v.Owner != nil {
				owner = v.Owner.Username
			}
			rows = append(rows, []string{
				v.ID,
				truncate(v.Title, 40),
				owner,
				formatDuration(v.Duration),
				strconv.FormatInt(v.Views, 10),
				v.CreatedAt.Format("2006-01-02"),
			})
		}
		printTable([]string{"ID", "TITLE", "OWNER", "LENGTH", "VIEWS", "CREATED"}, rows)
		fmt.Printf("\nPage %d of %d (%d videos)\n", page.Page, page.TotalPages, page.Total)
		return nil
	},
}

var videosGetCmd = &cobra.Command{
	Use:   "get <videoId>",
	Short: "Show a video (counts as a view)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(true)
		if err != nil {
			return err
		}

		var v video
		env, err := call(client.R().SetPathParam("videoId", args[0]), http.MethodGet, "/videos/{videoId}", &v)
		if err != nil {
			return err
		}
		if output == "json" {
			return printJSON(env)
		}

		bold.Println(v.Title)
		if v.Owner != nil {
			fmt.Printf("by %s\n", v.Owner.Username)
		}
		fmt.Printf("\n%s\n\n", v.Description)
		fmt.Printf("Length:    %s\n", formatDuration(v.Duration))
		fmt.Printf("Views:     %d\n", v.Views)
		fmt.Printf("Published: %t\n", v.IsPublished)
		fmt.Printf("Video:     %s\n", v.VideoFile)
		fmt.Printf("Thumbnail: %s\n", v.Thumbnail)
		return nil
	},
}

func init() {
	videosListCmd.Flags().IntVar(&listPage, "page", 1, "Page number")
	videosListCmd.Flags().IntVar(&listLimit, "limit", 10, "Videos per page (max 100)")
	videosListCmd.Flags().StringVar(&listQuery, "query", "", "Search title and description")
	videosListCmd.Flags().StringVar(&listSortBy, "sort-by", "", "createdAt, updatedAt, views, title or duration")
	videosListCmd.Flags().StringVar(&listSortType, "sort-type", "", "asc or desc")
	videosListCmd.Flags().StringVar(&listUserID, "user", "", "Only videos of this user ID")

	videosCmd.AddCommand(videosListCmd)
	videosCmd.AddCommand(videosGetCmd)
}

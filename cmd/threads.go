// ABOUTME: Threads command: search, sort and page through threads
// ABOUTME: Drives the same list controller the TUI uses

package cmd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/markalston/forum-client/internal/client"
	"github.com/markalston/forum-client/internal/listquery"
)

var (
	threadsQuery    string
	threadsSort     string
	threadsPage     int
	threadsPages    int
	threadsLocation string
)

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "Search and list threads",
	Long: `Search and list threads, ten per page.

Search text matches titles and bodies; "tag:<name>" filters by tag.

Sort orders:
  "Newest first" (created_time_desc), "Oldest first" (created_time_asc),
  "Most comments first" (num_comments_desc), "Least comments first" (num_comments_asc)

Example:
  forum threads -q "tag:bug" --sort "Oldest first"
  forum threads --location "/?q=tag:bug&order=created_time_asc" --pages 2`,
	Args: cobra.NoArgs,
	Run: runWithEnv(func(ctx context.Context, w io.Writer, e *forumEnv, _ []string) int {
		return runThreads(ctx, w, e.client, threadListOptions{
			query:    threadsQuery,
			sort:     threadsSort,
			page:     threadsPage,
			pages:    threadsPages,
			location: threadsLocation,
		})
	}),
}

func init() {
	rootCmd.AddCommand(threadsCmd)
	threadsCmd.Flags().StringVarP(&threadsQuery, "query", "q", "", "Search text, e.g. \"golang tag:help\"")
	threadsCmd.Flags().StringVar(&threadsSort, "sort", listquery.DefaultSortLabel, "Sort order label or token")
	threadsCmd.Flags().IntVar(&threadsPage, "page", 1, "Page to show")
	threadsCmd.Flags().IntVar(&threadsPages, "pages", 1, "Number of pages to load, starting at --page")
	threadsCmd.Flags().StringVar(&threadsLocation, "location", "", "Location string; overrides --query and --sort")
}

type threadListOptions struct {
	query    string
	sort     string
	page     int
	pages    int
	location string
}

// runThreads loads the requested pages and prints them
func runThreads(ctx context.Context, w io.Writer, c *client.Client, opts threadListOptions) int {
	values := url.Values{}
	if opts.location != "" {
		parsed, err := listquery.ParseLocation(opts.location)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		values = parsed
	} else {
		opt, err := listquery.ThreadSorts.Resolve(opts.sort)
		if err != nil {
			fmt.Fprintf(w, "Error: %v (choose one of: %s)\n", err, strings.Join(listquery.ThreadSorts.Labels(), ", "))
			return 2
		}
		values.Set("q", opts.query)
		values.Set("order", opt.Token)
	}
	if opts.page < 1 || opts.pages < 1 {
		fmt.Fprintln(w, "Error: --page and --pages must be at least 1")
		return 2
	}

	ctrl := listquery.New(c.ThreadFetcher(), listquery.ThreadSorts)
	ctrl.SetPending(values.Get("q"))

	// A location matching the initial state is a no-op, so fall back to a plain search.
	req := ctrl.OnLocationChange(values)
	if req == nil {
		req = ctrl.CommitSearch(values.Get("q"))
	}
	state := ctrl.Do(ctx, req)
	if state.Err != nil {
		return reportError(w, state.Err)
	}

	if opts.page > 1 {
		state = ctrl.Do(ctx, ctrl.GoToPage(opts.page))
		if state.Err != nil {
			return reportError(w, state.Err)
		}
	}
	for i := 1; i < opts.pages; i++ {
		req := ctrl.LoadMore()
		if req == nil {
			break
		}
		state = ctrl.Do(ctx, req)
		if state.Err != nil {
			return reportError(w, state.Err)
		}
	}

	if IsJSONOutput() {
		printJSON(w, threadListJSON{
			Location:   ctrl.Location(),
			Sort:       state.SortKey,
			Page:       state.Page,
			TotalPages: state.TotalPages,
			Threads:    state.Items,
		})
		return 0
	}
	fmt.Fprintln(w, formatThreadsHuman(state, ctrl.Location()))
	return 0
}

type threadListJSON struct {
	Location   string          `json:"location"`
	Sort       string          `json:"sort"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	Threads    []client.Thread `json:"threads"`
}

// formatThreadsHuman renders one line per thread plus a paging summary
func formatThreadsHuman(state listquery.State[client.Thread], location string) string {
	if len(state.Items) == 0 {
		return "No threads found.\n" + location
	}

	var sb strings.Builder
	for _, t := range state.Items {
		fmt.Fprintf(&sb, "%s  %s\n", t.ID, t.Title)
		meta := fmt.Sprintf("    by %s, %s, %s", t.Creator, formatDate(t.CreatedTime), pluralize(t.NumComments, "comment"))
		if len(t.Tags) > 0 {
			meta += "  [" + strings.Join(t.Tags, "] [") + "]"
		}
		sb.WriteString(meta + "\n")
	}
	fmt.Fprintf(&sb, "\nPage %d of %d, sorted %s\n%s", state.Page, state.TotalPages, strings.ToLower(state.SortKey), location)
	return sb.String()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

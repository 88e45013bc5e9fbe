// ABOUTME: Thread command: show one thread with its comments
// ABOUTME: Loads the thread and first comment page together, then pages on demand

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markalston/forum-client/internal/client"
	"github.com/markalston/forum-client/internal/listquery"
)

var (
	commentSort  string
	commentPages int
)

var threadCmd = &cobra.Command{
	Use:   "thread <id>",
	Short: "Show a thread and its comments",
	Args:  cobra.ExactArgs(1),
	Run: runWithEnv(func(ctx context.Context, w io.Writer, e *forumEnv, args []string) int {
		return runThread(ctx, w, e.client, args[0], commentSort, commentPages)
	}),
}

func init() {
	rootCmd.AddCommand(threadCmd)
	threadCmd.Flags().StringVar(&commentSort, "comment-sort", listquery.DefaultSortLabel, `Comment order: "Newest first" or "Oldest first"`)
	threadCmd.Flags().IntVar(&commentPages, "comment-pages", 1, "Number of comment pages to load")
}

func runThread(ctx context.Context, w io.Writer, c *client.Client, id, sort string, pages int) int {
	if pages < 1 {
		fmt.Fprintln(w, "Error: --comment-pages must be at least 1")
		return 2
	}

	ctrl := listquery.New(c.CommentFetcher(id), listquery.CommentSorts)
	req, err := ctrl.CommitSort(sort)
	if err != nil {
		fmt.Fprintf(w, "Error: %v (choose one of: %s)\n", err, strings.Join(listquery.CommentSorts.Labels(), ", "))
		return 2
	}

	thread, res, err := c.ThreadWithComments(ctx, id, req)
	if err != nil {
		return reportError(w, err)
	}
	ctrl.Apply(res)

	state := ctrl.State()
	for i := 1; i < pages && state.Err == nil; i++ {
		next := ctrl.LoadMore()
		if next == nil {
			break
		}
		state = ctrl.Do(ctx, next)
	}
	if state.Err != nil {
		return reportError(w, state.Err)
	}

	if IsJSONOutput() {
		printJSON(w, threadDetailJSON{
			Thread:       thread,
			Comments:     state.Items,
			CommentSort:  state.SortKey,
			CommentPage:  state.Page,
			CommentPages: state.TotalPages,
		})
		return 0
	}
	fmt.Fprintln(w, formatThreadHuman(thread, state))
	return 0
}

type threadDetailJSON struct {
	Thread       *client.Thread   `json:"thread"`
	Comments     []client.Comment `json:"comments"`
	CommentSort  string           `json:"comment_sort"`
	CommentPage  int              `json:"comment_page"`
	CommentPages int              `json:"comment_pages"`
}

// formatThreadHuman renders the thread followed by its loaded comments
func formatThreadHuman(t *client.Thread, comments listquery.State[client.Comment]) string {
	var sb strings.Builder

	sb.WriteString(t.Title + "\n")
	fmt.Fprintf(&sb, "by %s, %s", t.Creator, formatDate(t.CreatedTime))
	if t.Edited() {
		sb.WriteString(" (edited)")
	}
	sb.WriteString("\n")
	if len(t.Tags) == 0 {
		sb.WriteString("Tags: None\n")
	} else {
		sb.WriteString("Tags: [" + strings.Join(t.Tags, "] [") + "]\n")
	}
	sb.WriteString("\n" + t.Body + "\n\n")

	fmt.Fprintf(&sb, "%s (%s)\n", pluralize(t.NumComments, "comment"), strings.ToLower(comments.SortKey))
	for _, c := range comments.Items {
		fmt.Fprintf(&sb, "\n  %s, %s", c.Creator, formatDate(c.CreatedTime))
		if c.Edited() {
			sb.WriteString(" (edited)")
		}
		fmt.Fprintf(&sb, "  [%s]\n", c.ID)
		for _, line := range strings.Split(c.Body, "\n") {
			sb.WriteString("  " + line + "\n")
		}
	}
	if comments.Page < comments.TotalPages {
		fmt.Fprintf(&sb, "\nShowing %d comments; use --comment-pages %d for more.", len(comments.Items), comments.Page+1)
	}
	return strings.TrimRight(sb.String(), "\n")
}

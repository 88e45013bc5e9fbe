// ABOUTME: Status command for the forum CLI
// ABOUTME: Reports the backend URL, whether it answers, and the current session

package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/markalston/forum-client/internal/listquery"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend reachability and session state",
	Long:  `Check that the backend answers a thread search and show who is logged in.`,
	Args:  cobra.NoArgs,
	Run: runWithEnv(func(ctx context.Context, w io.Writer, e *forumEnv, _ []string) int {
		return runStatus(ctx, w, e)
	}),
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// statusReport is what the status command prints
type statusReport struct {
	APIURL    string      `json:"api_url"`
	Reachable bool        `json:"reachable"`
	Threads   int         `json:"threads"`
	Latency   string      `json:"latency,omitempty"`
	Error     string      `json:"error,omitempty"`
	Store     string      `json:"token_store"`
	Session   sessionJSON `json:"session"`
}

// runStatus probes the backend and returns the exit code
func runStatus(ctx context.Context, w io.Writer, e *forumEnv) int {
	s := e.session.Snapshot()
	report := statusReport{
		APIURL:  e.client.BaseURL(),
		Store:   e.cfg.Auth.Store,
		Session: sessionView(s.Username, s.ExpiresAt),
	}

	start := time.Now()
	page, err := e.client.SearchThreads(ctx, "", 1, listquery.ThreadSorts.Default().Token)
	if err != nil {
		report.Error = err.Error()
	} else {
		report.Reachable = true
		report.Threads = page.TotalThreads
		report.Latency = time.Since(start).Round(time.Millisecond).String()
	}

	if IsJSONOutput() {
		printJSON(w, report)
	} else {
		fmt.Fprintln(w, formatStatusHuman(report))
	}
	if !report.Reachable {
		return 2
	}
	return 0
}

// formatStatusHuman formats the report for human readability
func formatStatusHuman(r statusReport) string {
	backend := fmt.Sprintf("reachable (%s, %s)", r.Latency, pluralize(r.Threads, "thread"))
	if !r.Reachable {
		backend = "unreachable: " + r.Error
	}
	var expires time.Time
	if r.Session.ExpiresAt != nil {
		expires = *r.Session.ExpiresAt
	}

	return fmt.Sprintf(`API:      %s
Backend:  %s
Tokens:   %s
Session:  %s`,
		r.APIURL,
		backend,
		r.Store,
		formatSession(r.Session.Username, expires))
}

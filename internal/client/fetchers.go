// ABOUTME: Adapts client calls to list controller fetchers
// ABOUTME: Lets the CLI and TUI drive thread and comment lists the same way

package client

import (
	"context"

	"github.com/markalston/forum-client/internal/listquery"
)

// ThreadFetcher searches threads for a list controller.
func (c *Client) ThreadFetcher() listquery.Fetcher[Thread] {
	return func(ctx context.Context, q listquery.Query) (listquery.Page[Thread], error) {
		resp, err := c.SearchThreads(ctx, q.Text, q.Page, q.Order)
		if err != nil {
			return listquery.Page[Thread]{}, err
		}
		return listquery.Page[Thread]{Items: resp.Threads, Total: resp.TotalThreads}, nil
	}
}

// CommentFetcher lists a thread's comments for a list controller.
// The query text is ignored.
func (c *Client) CommentFetcher(threadID string) listquery.Fetcher[Comment] {
	return func(ctx context.Context, q listquery.Query) (listquery.Page[Comment], error) {
		resp, err := c.ListComments(ctx, threadID, q.Page, q.Order)
		if err != nil {
			return listquery.Page[Comment]{}, err
		}
		return listquery.Page[Comment]{Items: resp.Comments, Total: resp.Count}, nil
	}
}

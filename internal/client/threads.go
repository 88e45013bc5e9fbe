// ABOUTME: Thread endpoints: search, fetch, create, update and delete
// ABOUTME: Also loads a thread together with its first page of comments

package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/markalston/forum-client/internal/listquery"
)

// SearchThreads calls GET /api/v1/thread?q=&p=&order=
func (c *Client) SearchThreads(ctx context.Context, q string, page int, order string) (*ThreadPage, error) {
	query := url.Values{}
	query.Set("q", q)
	query.Set("p", strconv.Itoa(page))
	query.Set("order", order)

	var resp ThreadPage
	if err := c.get(ctx, "/thread", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetThread calls GET /api/v1/thread/{id}
func (c *Client) GetThread(ctx context.Context, id string) (*Thread, error) {
	var thread Thread
	if err := c.get(ctx, "/thread/"+url.PathEscape(id), nil, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// CreateThread calls POST /api/v1/thread/create
func (c *Client) CreateThread(ctx context.Context, input ThreadInput) (*Thread, error) {
	var thread Thread
	if err := c.send(ctx, http.MethodPost, "/thread/create", input, &thread, true); err != nil {
		return nil, err
	}
	return &thread, nil
}

// UpdateThread calls PUT /api/v1/thread/{id}
func (c *Client) UpdateThread(ctx context.Context, id string, input ThreadInput) error {
	return c.send(ctx, http.MethodPut, "/thread/"+url.PathEscape(id), input, nil, true)
}

// DeleteThread calls DELETE /api/v1/thread/{id}
func (c *Client) DeleteThread(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/thread/"+url.PathEscape(id), nil, nil, true)
}

// ThreadWithComments loads a thread while running a comment list request
// concurrently. A comment failure is carried in the result, not returned.
func (c *Client) ThreadWithComments(ctx context.Context, id string, comments *listquery.Request[Comment]) (*Thread, listquery.Result[Comment], error) {
	var (
		thread *Thread
		result listquery.Result[Comment]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		thread, err = c.GetThread(gctx, id)
		return err
	})
	if comments != nil {
		g.Go(func() error {
			result = comments.Run(gctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, result, err
	}
	return thread, result, nil
}

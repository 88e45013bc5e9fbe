// ABOUTME: Comment endpoints: list, create, update and delete
// ABOUTME: Comments are listed per thread, ten to a page

package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListComments calls GET /api/v1/thread/{id}/comments?p=&order=
func (c *Client) ListComments(ctx context.Context, threadID string, page int, order string) (*CommentPage, error) {
	query := url.Values{}
	query.Set("p", strconv.Itoa(page))
	query.Set("order", order)

	var resp CommentPage
	if err := c.get(ctx, "/thread/"+url.PathEscape(threadID)+"/comments", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateComment calls POST /api/v1/comment/create
func (c *Client) CreateComment(ctx context.Context, threadID, body string) (*Comment, error) {
	var comment Comment
	input := CommentInput{ThreadID: threadID, Body: body}
	if err := c.send(ctx, http.MethodPost, "/comment/create", input, &comment, true); err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateComment calls PUT /api/v1/comment/{id}
func (c *Client) UpdateComment(ctx context.Context, id, body string) error {
	return c.send(ctx, http.MethodPut, "/comment/"+url.PathEscape(id), CommentInput{Body: body}, nil, true)
}

// DeleteComment calls DELETE /api/v1/comment/{id}
func (c *Client) DeleteComment(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/comment/"+url.PathEscape(id), nil, nil, true)
}

// ABOUTME: Account endpoints: login and signup
// ABOUTME: Both exchange credentials for a bearer token

package client

import (
	"context"
	"fmt"
	"net/http"
)

// Login calls POST /api/v1/user/login
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	return c.authenticate(ctx, "/user/login", creds)
}

// Signup calls POST /api/v1/user/create
func (c *Client) Signup(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	return c.authenticate(ctx, "/user/create", creds)
}

func (c *Client) authenticate(ctx context.Context, path string, creds Credentials) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.send(ctx, http.MethodPost, path, creds, &resp, false); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("invalid response from backend: no token")
	}
	return &resp, nil
}

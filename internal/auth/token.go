// ABOUTME: Decodes identity claims from a bearer token without verifying it
// ABOUTME: Signature checks belong to the backend; the client only reads claims

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingUsername is returned when the token carries no username claim.
	ErrMissingUsername = errors.New("token has no username claim")
	// ErrExpired is returned when the token's exp claim is in the past.
	ErrExpired = errors.New("token is expired")
)

// Claims are the payload fields the backend puts in its tokens.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// DecodeClaims parses the token payload. The signature is not checked.
func DecodeClaims(token string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	if claims.Username == "" {
		return nil, ErrMissingUsername
	}
	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		return nil, ErrExpired
	}
	return claims, nil
}

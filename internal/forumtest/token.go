// ABOUTME: Issues HS256 bearer tokens shaped like the forum backend's
// ABOUTME: Claims are username, iat and exp

package forumtest

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSecret signs tokens when a Server has no secret set.
const DefaultSecret = "forumtest-secret"

// TokenTTL matches the backend's 24 hour token lifetime.
const TokenTTL = 24 * time.Hour

// MintToken signs a token for username issued at now.
func MintToken(secret, username string, now time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks the signature and expiry and returns the username.
func VerifyToken(secret, raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("unexpected claims")
	}
	username, _ := claims["username"].(string)
	if username == "" {
		return "", errors.New("token has no username")
	}
	return username, nil
}

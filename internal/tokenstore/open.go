// ABOUTME: Selects the token storage adapter from configuration
// ABOUTME: Returns the adapter plus a close function for any held connections

package tokenstore

import (
	"context"
	"fmt"

	"github.com/markalston/forum-client/internal/auth"
	"github.com/markalston/forum-client/internal/config"
)

// Open builds the Storage named by cfg.Auth.Store.
func Open(ctx context.Context, cfg *config.Config) (auth.Storage, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Auth.Store {
	case config.StoreMemory:
		return NewMemory(), noop, nil
	case config.StoreRedis:
		r, err := DialRedis(ctx, cfg.Auth.RedisAddr, cfg.Auth.RedisPassword)
		if err != nil {
			return nil, noop, err
		}
		return r, r.Close, nil
	case config.StoreFile, "":
		if cfg.Dir == "" {
			return nil, noop, fmt.Errorf("no config directory for the token file; set FORUM_CONFIG_DIR")
		}
		return NewFile(cfg.Dir), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown token store %q", cfg.Auth.Store)
	}
}

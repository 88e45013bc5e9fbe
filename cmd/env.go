// ABOUTME: Wires configuration, token storage, session and API client for commands
// ABOUTME: Also maps errors to exit codes and prints JSON output

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/forum-client/internal/auth"
	"github.com/markalston/forum-client/internal/client"
	"github.com/markalston/forum-client/internal/config"
	"github.com/markalston/forum-client/internal/tokenstore"
)

// forumEnv is everything a command needs to talk to the backend.
type forumEnv struct {
	cfg     *config.Config
	session *auth.Store
	client  *client.Client
	closeFn func() error
}

// openEnv loads config, restores the session, and builds the client.
func openEnv(ctx context.Context) (*forumEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	storage, closeFn, err := tokenstore.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return newEnv(ctx, cfg, storage, closeFn), nil
}

func newEnv(ctx context.Context, cfg *config.Config, storage auth.Storage, closeFn func() error) *forumEnv {
	session := auth.NewStore(storage)
	session.Subscribe(func(s auth.Session) {
		slog.Debug("session changed", "user", s.Username, "authenticated", s.IsAuthenticated)
	})
	session.Initialize(ctx)

	c := client.New(cfg.API.URL,
		client.WithTokenSource(session),
		client.WithTimeout(cfg.API.Timeout),
		client.WithRateLimit(cfg.API.RequestsPerSecond, cfg.API.Burst),
	)
	return &forumEnv{cfg: cfg, session: session, client: c, closeFn: closeFn}
}

func (e *forumEnv) Close() error {
	if e.closeFn == nil {
		return nil
	}
	return e.closeFn()
}

// runWithEnv adapts a command body to cobra, exiting with its code.
func runWithEnv(fn func(ctx context.Context, w io.Writer, e *forumEnv, args []string) int) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := func() int {
			e, err := openEnv(ctx)
			if err != nil {
				fmt.Fprintf(os.Stdout, "Error: %v\n", err)
				return 2
			}
			defer e.Close()
			return fn(ctx, os.Stdout, e, args)
		}()
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}
}

// reportError prints err and returns the matching exit code.
func reportError(w io.Writer, err error) int {
	if errors.Is(err, client.ErrNotLoggedIn) {
		fmt.Fprintln(w, `Error: not logged in. Run "forum login" first.`)
		return 2
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return 1
	}
	return 2
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}

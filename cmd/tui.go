// ABOUTME: Tui command launching the interactive terminal interface
// ABOUTME: Logs to a file in the config directory so output does not corrupt the screen

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/forum-client/internal/auth"
	"github.com/markalston/forum-client/internal/client"
	"github.com/markalston/forum-client/internal/config"
	"github.com/markalston/forum-client/internal/listquery"
	"github.com/markalston/forum-client/internal/logger"
	"github.com/markalston/forum-client/internal/tokenstore"
	"github.com/markalston/forum-client/internal/tui"
)

var tuiLocation string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the forum interactively",
	Long: `Opens the full-screen interface: search and sort threads, read and post
comments, edit your own threads, and log in or out.

--location restores a saved search, for example "/?q=tag%3Abug&order=num_comments_desc".
Logs are written to debug.log in the config directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		if code := runTUI(); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	tuiCmd.Flags().StringVar(&tuiLocation, "location", "", "Initial search location (default: newest threads)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stdout, "Error: %v\n", err)
		return 2
	}

	logFile, err := logger.InitFile(cfg.Dir, logger.OptionsFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	defer logFile.Close()

	storage, closeFn, err := tokenstore.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stdout, "Error: %v\n", err)
		return 2
	}
	defer closeFn()

	// The app restores the session itself so the first frame is not delayed
	session := auth.NewStore(storage)
	c := client.New(cfg.API.URL,
		client.WithTokenSource(session),
		client.WithTimeout(cfg.API.Timeout),
		client.WithRateLimit(cfg.API.RequestsPerSecond, cfg.API.Burst),
		client.WithLogger(slog.Default()),
	)

	opts, err := tuiOptions(cfg, c, session, tuiLocation)
	if err != nil {
		fmt.Fprintf(os.Stdout, "Error: %v\n", err)
		return 2
	}

	slog.Info("starting tui", "api", cfg.API.URL, "store", cfg.Auth.Store)
	if err := tui.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stdout, "Error: %v\n", err)
		return 2
	}
	return 0
}

// tuiOptions builds the app options. Only the file store can be watched for
// logins from other processes.
func tuiOptions(cfg *config.Config, c *client.Client, session *auth.Store, location string) (tui.Options, error) {
	if location != "" {
		if _, err := listquery.ParseLocation(location); err != nil {
			return tui.Options{}, fmt.Errorf("--location: %w", err)
		}
	}

	opts := tui.Options{
		Client:    c,
		Session:   session,
		ConfigDir: cfg.Dir,
		Location:  location,
	}
	if cfg.Auth.Store == config.StoreFile {
		opts.WatchDir = cfg.Dir
	}
	return opts, nil
}
